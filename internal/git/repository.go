package git

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"

	gserrors "gitscope.dev/gitscope/internal/errors"
	"gitscope.dev/gitscope/internal/repo"
)

// Repository wraps a go-git repository
type Repository struct {
	*git.Repository
	path string

	// go-git object access is not safe for concurrent packfile reads
	mu sync.Mutex
}

// OpenRepository opens a git repository at the given path
func OpenRepository(p string) (*Repository, error) {
	absPath, err := filepath.Abs(p)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	r, err := git.PlainOpenWithOptions(absPath, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	return &Repository{
		Repository: r,
		path:       absPath,
	}, nil
}

// Root returns the path the repository was opened at
func (r *Repository) Root() string {
	return r.path
}

// ListRemotes returns the configured remotes sorted by name
func (r *Repository) ListRemotes() ([]repo.Remote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	remotes, err := r.Remotes()
	if err != nil {
		return nil, fmt.Errorf("failed to list remotes: %w", err)
	}
	out := make([]repo.Remote, 0, len(remotes))
	for _, rm := range remotes {
		cfg := rm.Config()
		entry := repo.Remote{Name: cfg.Name}
		if len(cfg.URLs) > 0 {
			entry.FetchURL = cfg.URLs[0]
			entry.PushURL = cfg.URLs[len(cfg.URLs)-1]
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ListTree returns the entries of one directory level at ref.
// An empty dir lists the repository root; an empty ref means HEAD.
func (r *Repository) ListTree(dir, ref string) ([]repo.TreeEntry, error) {
	if ref == "" {
		ref = "HEAD"
	}
	dir = strings.Trim(path.Clean("/"+filepath.ToSlash(dir)), "/")

	r.mu.Lock()
	defer r.mu.Unlock()

	hash, err := r.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return nil, gserrors.NewInvalidRefError(ref, fmt.Sprintf("unknown revision '%s'", ref))
	}
	commit, err := r.CommitObject(*hash)
	if err != nil {
		return nil, gserrors.NewInvalidRefError(ref, fmt.Sprintf("'%s' does not point to a commit", ref))
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to read tree of %s: %w", ref, err)
	}
	if dir != "" {
		tree, err = tree.Tree(dir)
		if err != nil {
			if err == object.ErrDirectoryNotFound {
				return nil, &gserrors.NotFoundError{Object: "directory", Name: dir, Message: fmt.Sprintf("directory '%s' not found at %s", dir, ref)}
			}
			return nil, fmt.Errorf("failed to read directory %s at %s: %w", dir, ref, err)
		}
	}

	entries := make([]repo.TreeEntry, 0, len(tree.Entries))
	for _, e := range tree.Entries {
		entries = append(entries, repo.TreeEntry{
			Name: e.Name,
			Path: path.Join(dir, e.Name),
			Type: entryType(e.Mode),
		})
	}
	sortTreeEntries(entries)
	return entries, nil
}

func entryType(mode filemode.FileMode) repo.EntryType {
	switch mode {
	case filemode.Dir:
		return repo.EntryDir
	case filemode.Submodule:
		return repo.EntrySubmodule
	case filemode.Symlink:
		return repo.EntrySymlink
	default:
		return repo.EntryFile
	}
}

// sortTreeEntries orders directories before files, then by name
func sortTreeEntries(entries []repo.TreeEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		di, dj := entries[i].Type == repo.EntryDir, entries[j].Type == repo.EntryDir
		if di != dj {
			return di
		}
		return entries[i].Name < entries[j].Name
	})
}
