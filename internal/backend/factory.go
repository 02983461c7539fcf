package backend

import (
	"context"
	"fmt"
	"log/slog"

	gh "github.com/google/go-github/v62/github"

	"gitscope.dev/gitscope/internal/auth"
	gserrors "gitscope.dev/gitscope/internal/errors"
	"gitscope.dev/gitscope/internal/git"
	"gitscope.dev/gitscope/internal/github"
	"gitscope.dev/gitscope/internal/repo"
)

// ClientFunc builds an authenticated GitHub client
type ClientFunc func(ctx context.Context, token, baseURL string) (*gh.Client, error)

// Options configures a Factory
type Options struct {
	Policy        Policy
	Tokens        auth.TokenSource
	GitHubBaseURL string
	MaxScan       int
	// Cache defaults to a fresh cache
	Cache *Cache
	// NewClient defaults to github.NewClient
	NewClient ClientFunc
	Logger    *slog.Logger
}

// Factory turns identities into backend handles, caching them by canonical key.
type Factory struct {
	policy    Policy
	tokens    auth.TokenSource
	baseURL   string
	maxScan   int
	cache     *Cache
	newClient ClientFunc
	logger    *slog.Logger
}

// NewFactory creates a Factory
func NewFactory(opts Options) *Factory {
	f := &Factory{
		policy:    opts.Policy,
		tokens:    opts.Tokens,
		baseURL:   opts.GitHubBaseURL,
		maxScan:   opts.MaxScan,
		cache:     opts.Cache,
		newClient: opts.NewClient,
		logger:    opts.Logger,
	}
	if f.cache == nil {
		f.cache = NewCache()
	}
	if f.newClient == nil {
		f.newClient = github.NewClient
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	return f
}

// Cache returns the handle cache
func (f *Factory) Cache() *Cache {
	return f.cache
}

// Resolve returns the cached handle for id, creating it on first use.
func (f *Factory) Resolve(ctx context.Context, id Identity) (repo.Backend, error) {
	if id.Kind == repo.KindLocal {
		if err := f.policy.CheckLocal(); err != nil {
			return nil, err
		}
	}
	key, err := id.Key()
	if err != nil {
		return nil, err
	}
	if b, ok := f.cache.Get(key); ok {
		return b, nil
	}

	var b repo.Backend
	switch id.Kind {
	case repo.KindLocal:
		b, err = git.Open(key)
	case repo.KindGitHub:
		b, err = f.openGitHub(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	f.logger.Debug("opened repository", "kind", id.Kind, "key", key)
	return f.cache.LoadOrStore(key, b), nil
}

func (f *Factory) openGitHub(ctx context.Context, id Identity) (repo.Backend, error) {
	if f.tokens == nil {
		return nil, gserrors.NewPermissionError(auth.ErrNoToken.Error())
	}
	token, err := f.tokens.Token(ctx)
	if err != nil {
		return nil, gserrors.NewPermissionError(err.Error())
	}
	// the client outlives the request that created it
	client, err := f.newClient(context.WithoutCancel(ctx), token.Value, f.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}
	f.logger.Debug("using GitHub token", "source", token.Source)
	return github.New(client, id.Owner, id.Name, github.Options{MaxScan: f.maxScan}), nil
}

// Validate reports whether id resolves to a reachable repository. It never
// fails; every error is reported as false.
func (f *Factory) Validate(ctx context.Context, id Identity) bool {
	b, err := f.Resolve(ctx, id)
	if err != nil {
		f.logger.Debug("repository did not resolve", "repo", id.String(), "error", err)
		return false
	}
	if err := b.Check(ctx); err != nil {
		f.logger.Debug("repository check failed", "repo", id.String(), "error", err)
		return false
	}
	return true
}
