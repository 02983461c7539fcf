package ops

import (
	"context"
	"fmt"
	"log/slog"

	gserrors "gitscope.dev/gitscope/internal/errors"
	"gitscope.dev/gitscope/internal/repo"
)

// Step reports the progress of one commit of a cherry-pick or revert batch.
// It is sent once before the commit is applied and once after (Done).
type Step struct {
	Operation string
	Index     int
	Total     int
	Hash      string
	Done      bool
	Err       error
}

// ProgressFunc receives batch progress; it runs on the calling goroutine
type ProgressFunc func(Step)

// Mutations performs history-rewriting operations
type Mutations struct {
	logger *slog.Logger
}

// Reset moves the current branch to hash
func (m *Mutations) Reset(ctx context.Context, b repo.Backend, hash string, mode repo.ResetMode) repo.OperationResult {
	err := b.Reset(ctx, hash, mode)
	return finish(m.logger, "reset", b, err, fmt.Sprintf("Reset (%s) to %s successful", mode, short(hash)), "Reset failed")
}

// CherryPick applies hashes one at a time, in order. A failing step is
// aborted; earlier steps stay applied.
func (m *Mutations) CherryPick(ctx context.Context, b repo.Backend, hashes []string, progress ProgressFunc) repo.OperationResult {
	err := m.sequence(ctx, b, "cherry-pick", hashes, b.CherryPick, b.AbortCherryPick, progress)
	return finish(m.logger, "cherry-pick", b, err,
		fmt.Sprintf("Cherry-picked %d commit(s) successfully", len(hashes)), "Cherry-pick failed")
}

// Revert reverts hashes one at a time, in order, with the default revert
// message. A failing step is aborted; earlier steps stay applied.
func (m *Mutations) Revert(ctx context.Context, b repo.Backend, hashes []string, progress ProgressFunc) repo.OperationResult {
	err := m.sequence(ctx, b, "revert", hashes, b.Revert, b.AbortRevert, progress)
	return finish(m.logger, "revert", b, err,
		fmt.Sprintf("Reverted %d commit(s) successfully", len(hashes)), "Revert failed")
}

// sequence runs apply for each hash. Once started it ignores cancellation of
// ctx so a batch is never cut off between steps.
func (m *Mutations) sequence(
	ctx context.Context,
	b repo.Backend,
	op string,
	hashes []string,
	apply func(context.Context, string) error,
	abort func(context.Context) error,
	progress ProgressFunc,
) error {
	if len(hashes) == 0 {
		return gserrors.NewValidationError("hashes", "at least one commit hash is required")
	}
	if progress == nil {
		progress = func(Step) {}
	}
	ctx = context.WithoutCancel(ctx)

	for i, hash := range hashes {
		step := Step{Operation: op, Index: i, Total: len(hashes), Hash: hash}
		progress(step)

		err := apply(ctx, hash)
		step.Done, step.Err = true, err
		progress(step)
		if err == nil {
			continue
		}

		seqErr := &gserrors.SequenceError{Operation: op, Index: i, Hash: hash, Applied: i, Err: err}
		if abortErr := abort(ctx); abortErr != nil {
			seqErr.AbortErr = abortErr
			m.logger.Warn(op+" abort failed", "repo", b.Key(), "hash", hash, "error", abortErr)
		}
		if i > 0 {
			m.logger.Warn(fmt.Sprintf("%d earlier commit(s) remain applied", i), "op", op, "repo", b.Key())
		}
		return seqErr
	}
	return nil
}

func short(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
