package ops

import (
	"context"

	"gitscope.dev/gitscope/internal/repo"
)

// DefaultMaxCount is the history page size when none is configured
const DefaultMaxCount = 50

// History reads paginated commit history and commit details
type History struct {
	defaultMaxCount int
}

// NewHistory creates a History with the given default page size
func NewHistory(defaultMaxCount int) *History {
	if defaultMaxCount <= 0 {
		defaultMaxCount = DefaultMaxCount
	}
	return &History{defaultMaxCount: defaultMaxCount}
}

// ListCommits returns one page of history, newest first, with the total
// number of commits matching the filters.
func (h *History) ListCommits(ctx context.Context, b repo.Backend, opts repo.ListCommitsOptions) (*repo.CommitPage, error) {
	if opts.MaxCount <= 0 {
		opts.MaxCount = h.defaultMaxCount
	}
	opts.Skip = max(opts.Skip, 0)

	commits, err := b.ListCommits(ctx, opts)
	if err != nil {
		return nil, err
	}
	total, err := b.CountCommits(ctx, opts)
	if err != nil {
		return nil, err
	}
	if commits == nil {
		commits = []repo.CommitInfo{}
	}
	return &repo.CommitPage{Commits: commits, Total: total}, nil
}

// CommitDetail returns a commit with its diff and per-file stats
func (h *History) CommitDetail(ctx context.Context, b repo.Backend, hash string) (*repo.CommitDetail, error) {
	return b.CommitDetail(ctx, hash)
}
