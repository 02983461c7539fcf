package git

import (
	"context"
	"fmt"
	"strings"

	"gitscope.dev/gitscope/internal/repo"
)

// Status returns a snapshot of the working tree
func (b *Backend) Status(ctx context.Context) (*repo.StatusInfo, error) {
	out, err := b.runner.RunRaw(ctx, "status", "--porcelain=v2", "--branch", "-z", "--untracked-files=all")
	if err != nil {
		return nil, fmt.Errorf("failed to read status: %w", err)
	}
	status, err := parseStatus(out)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// Overview summarizes the repository: branches, remotes and cleanliness
func (b *Backend) Overview(ctx context.Context) (*repo.Overview, error) {
	r, err := b.repository()
	if err != nil {
		return nil, err
	}
	status, err := b.Status(ctx)
	if err != nil {
		return nil, err
	}
	remotes, err := r.ListRemotes()
	if err != nil {
		return nil, err
	}

	overview := &repo.Overview{
		Path:          b.path,
		CurrentBranch: status.Current,
		DefaultBranch: b.defaultBranch(ctx, status.Current),
		Remotes:       remotes,
		IsClean:       status.IsClean,
	}
	if head, err := b.verifyCommit(ctx, "HEAD"); err == nil {
		overview.HeadCommit = head
	}
	return overview, nil
}

// defaultBranch returns the branch origin/HEAD points at, else main or master
// when present, else the current branch.
func (b *Backend) defaultBranch(ctx context.Context, current string) string {
	if out, err := b.runner.Run(ctx, "symbolic-ref", "--quiet", "--short", "refs/remotes/origin/HEAD"); err == nil && out != "" {
		return strings.TrimPrefix(out, "origin/")
	}
	for _, candidate := range []string{"main", "master"} {
		if b.refExists(ctx, "refs/heads/"+candidate) {
			return candidate
		}
	}
	return current
}

// ListFiles lists one directory level at ref
func (b *Backend) ListFiles(ctx context.Context, dir, ref string) ([]repo.TreeEntry, error) {
	r, err := b.repository()
	if err != nil {
		return nil, err
	}
	if ref == "" && !b.hasCommits(ctx) {
		return []repo.TreeEntry{}, nil
	}
	return r.ListTree(dir, ref)
}
