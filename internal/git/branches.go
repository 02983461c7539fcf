package git

import (
	"context"
	"fmt"
	"strings"

	gserrors "gitscope.dev/gitscope/internal/errors"
	"gitscope.dev/gitscope/internal/repo"
)

// ListBranches returns the local branches
func (b *Backend) ListBranches(ctx context.Context) ([]repo.BranchInfo, error) {
	out, err := b.runner.RunRaw(ctx, "for-each-ref", branchFormat, "refs/heads")
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	return parseBranches(out)
}

// CreateBranch creates a branch and switches to it. With a start point the
// branch is created there; otherwise it starts at HEAD.
func (b *Backend) CreateBranch(ctx context.Context, name, startPoint string) error {
	if err := checkName("name", name); err != nil {
		return err
	}
	args := []string{"checkout", "-b", name}
	if startPoint != "" {
		if _, err := b.resolveRef(ctx, startPoint); err != nil {
			return err
		}
		args = append(args, startPoint)
	}
	if _, err := b.runner.Run(ctx, args...); err != nil {
		return err
	}
	return nil
}

// DeleteBranch deletes a local branch. Without force, git refuses to delete a
// branch that is not merged into its upstream or HEAD.
func (b *Backend) DeleteBranch(ctx context.Context, name string, force bool) error {
	if !b.refExists(ctx, "refs/heads/"+name) {
		return &gserrors.NotFoundError{Object: "branch", Name: name, Message: fmt.Sprintf("branch '%s' not found", name)}
	}
	flag := "-d"
	if force {
		flag = "-D"
	}
	if _, err := b.runner.Run(ctx, "branch", flag, name); err != nil {
		if strings.Contains(commandOutput(err), "not fully merged") {
			return gserrors.NewConflictError(gserrors.ErrUnmergedChanges, err.Error())
		}
		return err
	}
	return nil
}

// Checkout switches the working tree to a branch or revision
func (b *Backend) Checkout(ctx context.Context, name string) error {
	if _, err := b.resolveRef(ctx, name); err != nil {
		return err
	}
	if _, err := b.runner.Run(ctx, "checkout", name); err != nil {
		return err
	}
	return nil
}

// Merge merges source into the current branch. Conflicts leave the merge in
// progress for the user to resolve.
func (b *Backend) Merge(ctx context.Context, source string) (string, error) {
	if _, err := b.resolveRef(ctx, source); err != nil {
		return "", err
	}
	out, err := b.runner.Run(ctx, "merge", "--no-edit", source)
	if err != nil {
		return "", asConflict(err, gserrors.ErrMergeConflict)
	}
	if strings.Contains(out, "Already up to date") {
		return "Already up to date", nil
	}
	target := b.currentBranch(ctx)
	if target == "" {
		target = "HEAD"
	}
	return fmt.Sprintf("Merged %s into %s", source, target), nil
}
