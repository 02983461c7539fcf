package ops

import (
	"context"
	"fmt"
	"log/slog"

	"gitscope.dev/gitscope/internal/repo"
)

// Refs manages branches and tags
type Refs struct {
	logger *slog.Logger
}

// ListBranches lists local branches (the default branch is current remotely)
func (r *Refs) ListBranches(ctx context.Context, b repo.Backend) ([]repo.BranchInfo, error) {
	return b.ListBranches(ctx)
}

// CreateBranch creates name at startPoint (HEAD when empty). Locally the new
// branch is checked out.
func (r *Refs) CreateBranch(ctx context.Context, b repo.Backend, name, startPoint string) repo.OperationResult {
	err := b.CreateBranch(ctx, name, startPoint)
	msg := fmt.Sprintf("Branch '%s' created and checked out", name)
	if b.Kind() == repo.KindGitHub {
		msg = fmt.Sprintf("Branch '%s' created", name)
	}
	return finish(r.logger, "create branch", b, err, msg, "Failed to create branch")
}

// DeleteBranch deletes name; without force an unmerged branch is refused
func (r *Refs) DeleteBranch(ctx context.Context, b repo.Backend, name string, force bool) repo.OperationResult {
	err := b.DeleteBranch(ctx, name, force)
	return finish(r.logger, "delete branch", b, err, fmt.Sprintf("Branch '%s' deleted", name), "Failed to delete branch")
}

// Checkout switches to name
func (r *Refs) Checkout(ctx context.Context, b repo.Backend, name string) repo.OperationResult {
	err := b.Checkout(ctx, name)
	return finish(r.logger, "checkout", b, err, fmt.Sprintf("Switched to branch '%s'", name), "Failed to checkout branch")
}

// MergeBranch merges source into the current branch. Conflicts are left in
// place for the user to resolve.
func (r *Refs) MergeBranch(ctx context.Context, b repo.Backend, source string) repo.OperationResult {
	summary, err := b.Merge(ctx, source)
	if summary == "" {
		summary = fmt.Sprintf("Merged '%s' successfully", source)
	}
	return finish(r.logger, "merge", b, err, summary, "Merge failed")
}

// ListTags lists tags, newest first
func (r *Refs) ListTags(ctx context.Context, b repo.Backend) ([]repo.TagInfo, error) {
	return b.ListTags(ctx)
}

// CreateTag creates a lightweight tag, or an annotated one when opts.Message is set
func (r *Refs) CreateTag(ctx context.Context, b repo.Backend, name string, opts repo.CreateTagOptions) repo.OperationResult {
	err := b.CreateTag(ctx, name, opts)
	return finish(r.logger, "create tag", b, err, fmt.Sprintf("Tag '%s' created", name), "Failed to create tag")
}

// DeleteTag deletes a tag
func (r *Refs) DeleteTag(ctx context.Context, b repo.Backend, name string) repo.OperationResult {
	err := b.DeleteTag(ctx, name)
	return finish(r.logger, "delete tag", b, err, fmt.Sprintf("Tag '%s' deleted", name), "Failed to delete tag")
}
