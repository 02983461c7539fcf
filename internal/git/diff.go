package git

import (
	"context"
	"fmt"

	"gitscope.dev/gitscope/internal/repo"
)

// Diff returns the unified diff between two revisions
func (b *Backend) Diff(ctx context.Context, from, to string) (*repo.DiffResult, error) {
	if _, err := b.resolveRef(ctx, from); err != nil {
		return nil, err
	}
	if _, err := b.resolveRef(ctx, to); err != nil {
		return nil, err
	}
	out, err := b.runner.RunRaw(ctx, "diff", "--no-color", "--no-ext-diff", from, to, "--")
	if err != nil {
		return nil, fmt.Errorf("failed to diff %s..%s: %w", from, to, err)
	}
	return &repo.DiffResult{Diff: out, From: from, To: to}, nil
}
