package git

import (
	"context"
	"fmt"
	"strings"

	gserrors "gitscope.dev/gitscope/internal/errors"
	"gitscope.dev/gitscope/internal/repo"
)

// ListStashes returns the stash entries, most recent first
func (b *Backend) ListStashes(ctx context.Context) ([]repo.StashEntry, error) {
	out, err := b.runner.RunRaw(ctx, "stash", "list", stashFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to list stashes: %w", err)
	}
	return parseStashes(out)
}

// StashSave saves the working-tree changes. git exits successfully without
// creating an entry when there is nothing to save.
func (b *Backend) StashSave(ctx context.Context, message string, includeUntracked bool) error {
	args := []string{"stash", "push"}
	if includeUntracked {
		args = append(args, "--include-untracked")
	}
	if message != "" {
		args = append(args, "-m", message)
	}
	if _, err := b.runner.Run(ctx, args...); err != nil {
		return err
	}
	return nil
}

// StashApply applies an entry and keeps it
func (b *Backend) StashApply(ctx context.Context, index int) error {
	return b.stashAction(ctx, "apply", index)
}

// StashPop applies an entry and drops it. The entry is kept when applying conflicts.
func (b *Backend) StashPop(ctx context.Context, index int) error {
	return b.stashAction(ctx, "pop", index)
}

// StashDrop removes an entry; later entries shift down by one
func (b *Backend) StashDrop(ctx context.Context, index int) error {
	return b.stashAction(ctx, "drop", index)
}

// StashClear removes all entries
func (b *Backend) StashClear(ctx context.Context) error {
	if _, err := b.runner.Run(ctx, "stash", "clear"); err != nil {
		return err
	}
	return nil
}

func (b *Backend) stashAction(ctx context.Context, action string, index int) error {
	if err := b.checkStashIndex(ctx, index); err != nil {
		return err
	}
	if _, err := b.runner.Run(ctx, "stash", action, stashRef(index)); err != nil {
		if action != "drop" && stashConflict(err) {
			return gserrors.NewConflictError(gserrors.ErrApplyConflict, err.Error())
		}
		return err
	}
	return nil
}

func (b *Backend) checkStashIndex(ctx context.Context, index int) error {
	notFound := &gserrors.NotFoundError{
		Object:  "stash",
		Name:    stashRef(index),
		Message: fmt.Sprintf("stash entry %s does not exist", stashRef(index)),
	}
	if index < 0 {
		return notFound
	}
	out, err := b.runner.Run(ctx, "rev-parse", "--verify", "--quiet", "refs/"+stashRef(index))
	if err != nil || out == "" {
		return notFound
	}
	return nil
}

// stashConflict reports whether an apply stopped on conflicting changes,
// including local modifications the entry would overwrite
func stashConflict(err error) bool {
	if hasConflict(err) {
		return true
	}
	return strings.Contains(commandOutput(err), "would be overwritten")
}
