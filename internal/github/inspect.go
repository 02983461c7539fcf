package github

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/go-github/v62/github"

	gserrors "gitscope.dev/gitscope/internal/errors"
	"gitscope.dev/gitscope/internal/repo"
)

// Status reports the default branch with a clean, empty working tree
func (b *Backend) Status(ctx context.Context) (*repo.StatusInfo, error) {
	defaultBranch, err := b.getDefaultBranch(ctx)
	if err != nil {
		return nil, err
	}
	status := repo.NewStatusInfo()
	status.Current = defaultBranch
	return &status, nil
}

// Overview summarizes the hosted repository
func (b *Backend) Overview(ctx context.Context) (*repo.Overview, error) {
	r, resp, err := b.client.Repositories.Get(ctx, b.owner, b.name)
	if err != nil {
		return nil, wrapError("get repository", resp, err, b.repoNotFound)
	}
	defaultBranch := r.GetDefaultBranch()
	b.mu.Lock()
	b.defaultBranch = defaultBranch
	b.mu.Unlock()

	overview := &repo.Overview{
		Path:          r.GetFullName(),
		CurrentBranch: defaultBranch,
		DefaultBranch: defaultBranch,
		Remotes: []repo.Remote{{
			Name:     "origin",
			FetchURL: r.GetCloneURL(),
			PushURL:  r.GetCloneURL(),
		}},
		IsClean: true,
	}
	if head, err := b.branchHead(ctx, defaultBranch); err == nil {
		overview.HeadCommit = head
	}
	return overview, nil
}

// ListFiles lists one directory level at ref (default branch when empty)
func (b *Backend) ListFiles(ctx context.Context, dir, ref string) ([]repo.TreeEntry, error) {
	dir = strings.Trim(dir, "/")
	var opts *github.RepositoryContentGetOptions
	if ref != "" {
		opts = &github.RepositoryContentGetOptions{Ref: ref}
	}
	file, contents, resp, err := b.client.Repositories.GetContents(ctx, b.owner, b.name, dir, opts)
	if err != nil {
		return nil, wrapError("get contents", resp, err, func() error {
			if ref != "" && isUnresolvable(messageOf(err)) && strings.Contains(strings.ToLower(messageOf(err)), "commit") {
				return gserrors.NewInvalidRefError(ref, fmt.Sprintf("unknown revision '%s'", ref))
			}
			return &gserrors.NotFoundError{Object: "directory", Name: dir, Message: fmt.Sprintf("directory '%s' not found", dir)}
		})
	}
	if file != nil {
		return nil, gserrors.NewValidationError("directory", fmt.Sprintf("'%s' is a file", dir))
	}

	entries := make([]repo.TreeEntry, 0, len(contents))
	for _, c := range contents {
		entries = append(entries, repo.TreeEntry{
			Name: c.GetName(),
			Path: c.GetPath(),
			Type: contentType(c.GetType()),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		di, dj := entries[i].Type == repo.EntryDir, entries[j].Type == repo.EntryDir
		if di != dj {
			return di
		}
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

func contentType(t string) repo.EntryType {
	switch t {
	case "dir":
		return repo.EntryDir
	case "symlink":
		return repo.EntrySymlink
	case "submodule":
		return repo.EntrySubmodule
	default:
		return repo.EntryFile
	}
}

// ListStashes is not available remotely
func (b *Backend) ListStashes(ctx context.Context) ([]repo.StashEntry, error) {
	return nil, b.unsupported("stash")
}

// StashSave is not available remotely
func (b *Backend) StashSave(ctx context.Context, message string, includeUntracked bool) error {
	return b.unsupported("stash")
}

// StashApply is not available remotely
func (b *Backend) StashApply(ctx context.Context, index int) error {
	return b.unsupported("stash")
}

// StashPop is not available remotely
func (b *Backend) StashPop(ctx context.Context, index int) error {
	return b.unsupported("stash")
}

// StashDrop is not available remotely
func (b *Backend) StashDrop(ctx context.Context, index int) error {
	return b.unsupported("stash")
}

// StashClear is not available remotely
func (b *Backend) StashClear(ctx context.Context) error {
	return b.unsupported("stash")
}
