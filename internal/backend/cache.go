package backend

import (
	"sync"

	"gitscope.dev/gitscope/internal/repo"
)

// Cache holds resolved handles for the life of the process, keyed by
// canonical identity. It never evicts.
type Cache struct {
	mu      sync.RWMutex
	handles map[string]repo.Backend
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{handles: make(map[string]repo.Backend)}
}

// Get returns the handle stored under key
func (c *Cache) Get(key string) (repo.Backend, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.handles[key]
	return b, ok
}

// LoadOrStore stores b under key unless a handle is already there, and
// returns whichever handle the cache holds afterwards.
func (c *Cache) LoadOrStore(key string, b repo.Backend) repo.Backend {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.handles[key]; ok {
		return existing
	}
	c.handles[key] = b
	return b
}

// Len returns the number of cached handles
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.handles)
}

// Reset drops every handle
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handles = make(map[string]repo.Backend)
}
