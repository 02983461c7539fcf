package ops

import (
	"context"

	"gitscope.dev/gitscope/internal/repo"
)

// Inspect reads working tree status, diffs and repository metadata
type Inspect struct{}

// Status returns the working tree status
func (i *Inspect) Status(ctx context.Context, b repo.Backend) (*repo.StatusInfo, error) {
	return b.Status(ctx)
}

// Diff returns the raw diff between two refs
func (i *Inspect) Diff(ctx context.Context, b repo.Backend, from, to string) (*repo.DiffResult, error) {
	return b.Diff(ctx, from, to)
}

// Overview summarizes the repository
func (i *Inspect) Overview(ctx context.Context, b repo.Backend) (*repo.Overview, error) {
	return b.Overview(ctx)
}

// ListFiles lists one directory level at ref
func (i *Inspect) ListFiles(ctx context.Context, b repo.Backend, dir, ref string) ([]repo.TreeEntry, error) {
	return b.ListFiles(ctx, dir, ref)
}
