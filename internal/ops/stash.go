package ops

import (
	"context"
	"fmt"
	"log/slog"

	gserrors "gitscope.dev/gitscope/internal/errors"
	"gitscope.dev/gitscope/internal/repo"
)

// Stash manages the stash stack. Indices are positional: stash@{0} is the newest.
type Stash struct {
	logger *slog.Logger
}

// List returns the stash entries, newest first
func (s *Stash) List(ctx context.Context, b repo.Backend) ([]repo.StashEntry, error) {
	return b.ListStashes(ctx)
}

// Save stashes local changes. git succeeds without creating an entry when
// there is nothing to stash, so the stash size is compared before and after.
func (s *Stash) Save(ctx context.Context, b repo.Backend, message string, includeUntracked bool) repo.OperationResult {
	before, err := b.ListStashes(ctx)
	if err != nil {
		return finish(s.logger, "stash save", b, err, "", "Failed to stash changes")
	}
	if err := b.StashSave(ctx, message, includeUntracked); err != nil {
		return finish(s.logger, "stash save", b, err, "", "Failed to stash changes")
	}
	after, err := b.ListStashes(ctx)
	if err != nil {
		return finish(s.logger, "stash save", b, err, "", "Failed to stash changes")
	}
	if len(after) == len(before) {
		return repo.Failed(gserrors.NewValidationError("", "no local changes to save"), "")
	}

	msg := "Changes stashed"
	if message != "" {
		msg = "Stashed: " + message
	}
	return repo.Succeeded(msg)
}

// Apply applies stash@{index} and keeps the entry
func (s *Stash) Apply(ctx context.Context, b repo.Backend, index int) repo.OperationResult {
	err := b.StashApply(ctx, index)
	return finish(s.logger, "stash apply", b, err, fmt.Sprintf("Applied stash@{%d}", index), "Failed to apply stash")
}

// Pop applies stash@{index} and drops it; on conflict the entry is kept
func (s *Stash) Pop(ctx context.Context, b repo.Backend, index int) repo.OperationResult {
	err := b.StashPop(ctx, index)
	return finish(s.logger, "stash pop", b, err, fmt.Sprintf("Popped stash@{%d}", index), "Failed to pop stash")
}

// Drop removes stash@{index}; later entries shift down by one
func (s *Stash) Drop(ctx context.Context, b repo.Backend, index int) repo.OperationResult {
	err := b.StashDrop(ctx, index)
	return finish(s.logger, "stash drop", b, err, fmt.Sprintf("Dropped stash@{%d}", index), "Failed to drop stash")
}

// Clear removes every stash entry
func (s *Stash) Clear(ctx context.Context, b repo.Backend) repo.OperationResult {
	err := b.StashClear(ctx)
	return finish(s.logger, "stash clear", b, err, "All stashes cleared", "Failed to clear stash")
}
