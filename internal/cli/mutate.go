package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"gitscope.dev/gitscope/internal/cli/common"
	gserrors "gitscope.dev/gitscope/internal/errors"
	"gitscope.dev/gitscope/internal/ops"
	"gitscope.dev/gitscope/internal/output"
	"gitscope.dev/gitscope/internal/repo"
	"gitscope.dev/gitscope/internal/runtime"
	"gitscope.dev/gitscope/internal/tui"
)

func newResetCmd() *cobra.Command {
	var (
		mode string
		yes  bool
	)

	cmd := &cobra.Command{
		Use:   "reset <hash>",
		Short: "Move the current branch to a commit",
		Long: `Move the current branch to a commit.

--mode soft keeps the index and working tree, mixed (the default) keeps the
working tree, hard discards every uncommitted change. A hard reset asks for
confirmation unless --yes is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resetMode := repo.ResetMode(mode)
			if !resetMode.Valid() {
				return gserrors.NewValidationError("mode", "must be one of soft, mixed or hard")
			}
			return common.RunRepo(cmd, func(rt *runtime.Context, b repo.Backend) error {
				if resetMode == repo.ResetHard && !yes {
					if err := confirmHardReset(args[0]); err != nil {
						return err
					}
				}
				return common.PrintResult(rt, rt.Service.Mutations.Reset(cmd.Context(), b, args[0], resetMode))
			})
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(repo.ResetMixed), "Reset mode: soft, mixed or hard")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the hard reset confirmation")

	return cmd
}

func confirmHardReset(hash string) error {
	ok, err := tui.PromptConfirm("Hard reset to "+hash+"? Uncommitted changes will be lost.", false)
	if errors.Is(err, tui.ErrInteractiveDisabled) {
		return gserrors.NewValidationError("yes", "a hard reset discards uncommitted changes; pass --yes to confirm")
	}
	if err != nil {
		return err
	}
	if !ok {
		return tui.ErrCanceled
	}
	return nil
}

func newCherryPickCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "cherry-pick <hash>...",
		Aliases: []string{"cp"},
		Short:   "Apply commits to the current branch, in order",
		Long: `Apply commits to the current branch, one at a time and in the order given.

If a commit fails to apply, that commit is aborted and the batch stops.
Commits applied before it stay applied.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, "cherry-pick", args, func(rt *runtime.Context, b repo.Backend, progress ops.ProgressFunc) repo.OperationResult {
				return rt.Service.Mutations.CherryPick(cmd.Context(), b, args, progress)
			})
		},
	}
}

func newRevertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revert <hash>...",
		Short: "Revert commits on the current branch, in order",
		Long: `Revert commits on the current branch, one at a time and in the order given,
each with the default revert message.

If a revert fails, it is aborted and the batch stops. Reverts made before it
stay in place.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, "revert", args, func(rt *runtime.Context, b repo.Backend, progress ops.ProgressFunc) repo.OperationResult {
				return rt.Service.Mutations.Revert(cmd.Context(), b, args, progress)
			})
		},
	}
}

// runBatch shows per-commit progress in text mode; structured formats only get the result
func runBatch(
	cmd *cobra.Command,
	operation string,
	hashes []string,
	run func(rt *runtime.Context, b repo.Backend, progress ops.ProgressFunc) repo.OperationResult,
) error {
	return common.RunRepo(cmd, func(rt *runtime.Context, b repo.Backend) error {
		if rt.Printer.Format != output.FormatText {
			return common.PrintResult(rt, run(rt, b, nil))
		}

		progress := output.NewBatchProgress(rt.In, rt.Out, rt.TTY)
		progress.Start(operation, hashes)
		result := run(rt, b, progress.Step)
		progress.Complete(result)
		if !result.Success {
			return common.ErrOperationFailed
		}
		return nil
	})
}
