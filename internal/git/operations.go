package git

import (
	"context"

	gserrors "gitscope.dev/gitscope/internal/errors"
	"gitscope.dev/gitscope/internal/repo"
)

// Reset moves the current branch to hash using the given mode
func (b *Backend) Reset(ctx context.Context, hash string, mode repo.ResetMode) error {
	if !mode.Valid() {
		return gserrors.NewValidationError("mode", "must be one of soft, mixed, hard")
	}
	if _, err := b.resolveCommit(ctx, hash); err != nil {
		return err
	}
	if _, err := b.runner.Run(ctx, "reset", "-q", "--"+string(mode), hash); err != nil {
		return err
	}
	return nil
}

// CherryPick applies a single commit onto the current branch
func (b *Backend) CherryPick(ctx context.Context, hash string) error {
	if _, err := b.resolveCommit(ctx, hash); err != nil {
		return err
	}
	if _, err := b.runner.Run(ctx, "cherry-pick", hash); err != nil {
		return asConflict(err, gserrors.ErrPickConflict)
	}
	return nil
}

// AbortCherryPick abandons an in-progress cherry-pick
func (b *Backend) AbortCherryPick(ctx context.Context) error {
	_, err := b.runner.Run(ctx, "cherry-pick", "--abort")
	return err
}

// Revert creates a commit undoing a single commit, without opening an editor
func (b *Backend) Revert(ctx context.Context, hash string) error {
	if _, err := b.resolveCommit(ctx, hash); err != nil {
		return err
	}
	if _, err := b.runner.Run(ctx, "revert", "--no-edit", hash); err != nil {
		return asConflict(err, gserrors.ErrPickConflict)
	}
	return nil
}

// AbortRevert abandons an in-progress revert
func (b *Backend) AbortRevert(ctx context.Context) error {
	_, err := b.runner.Run(ctx, "revert", "--abort")
	return err
}
