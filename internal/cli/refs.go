package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"gitscope.dev/gitscope/internal/cli/common"
	gserrors "gitscope.dev/gitscope/internal/errors"
	"gitscope.dev/gitscope/internal/repo"
	"gitscope.dev/gitscope/internal/runtime"
)

func newBranchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "branch",
		Aliases: []string{"br"},
		Short:   "List, create and delete branches",
		Args:    cobra.NoArgs,
		RunE:    listBranches,
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List branches",
		Args:    cobra.NoArgs,
		RunE:    listBranches,
	}

	var startPoint string
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a branch and check it out (GitHub: create the ref only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.RunRepo(cmd, func(rt *runtime.Context, b repo.Backend) error {
				return common.PrintResult(rt, rt.Service.Refs.CreateBranch(cmd.Context(), b, args[0], startPoint))
			})
		},
	}
	create.Flags().StringVar(&startPoint, "from", "", "Start point (default HEAD)")

	var force bool
	del := &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a branch",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.RunRepo(cmd, func(rt *runtime.Context, b repo.Backend) error {
				return common.PrintResult(rt, rt.Service.Refs.DeleteBranch(cmd.Context(), b, args[0], force))
			})
		},
	}
	del.Flags().BoolVarP(&force, "force", "f", false, "Delete even if the branch is not merged")

	cmd.AddCommand(list, create, del)
	return cmd
}

func listBranches(cmd *cobra.Command, _ []string) error {
	return common.RunRepo(cmd, func(rt *runtime.Context, b repo.Backend) error {
		branches, err := rt.Service.Refs.ListBranches(cmd.Context(), b)
		if err != nil {
			return err
		}
		return rt.Printer.Print(branches)
	})
}

func newCheckoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "checkout <branch>",
		Aliases: []string{"co"},
		Short:   "Switch to a branch",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.RunRepo(cmd, func(rt *runtime.Context, b repo.Backend) error {
				return common.PrintResult(rt, rt.Service.Refs.Checkout(cmd.Context(), b, args[0]))
			})
		},
	}
}

func newMergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge <branch>",
		Short: "Merge a branch into the current branch; conflicts are left for you to resolve",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.RunRepo(cmd, func(rt *runtime.Context, b repo.Backend) error {
				return common.PrintResult(rt, rt.Service.Refs.MergeBranch(cmd.Context(), b, args[0]))
			})
		},
	}
}

func newTagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "List, create and delete tags",
		Args:  cobra.NoArgs,
		RunE:  listTags,
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tags, newest first",
		Args:    cobra.NoArgs,
		RunE:    listTags,
	}

	var opts repo.CreateTagOptions
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a tag; with --message the tag is annotated",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.RunRepo(cmd, func(rt *runtime.Context, b repo.Backend) error {
				return common.PrintResult(rt, rt.Service.Refs.CreateTag(cmd.Context(), b, args[0], opts))
			})
		},
	}
	create.Flags().StringVarP(&opts.Message, "message", "m", "", "Annotation message")
	create.Flags().StringVar(&opts.Hash, "commit", "", "Commit to tag (default HEAD)")

	del := &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a tag",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.RunRepo(cmd, func(rt *runtime.Context, b repo.Backend) error {
				return common.PrintResult(rt, rt.Service.Refs.DeleteTag(cmd.Context(), b, args[0]))
			})
		},
	}

	cmd.AddCommand(list, create, del)
	return cmd
}

func listTags(cmd *cobra.Command, _ []string) error {
	return common.RunRepo(cmd, func(rt *runtime.Context, b repo.Backend) error {
		tags, err := rt.Service.Refs.ListTags(cmd.Context(), b)
		if err != nil {
			return err
		}
		return rt.Printer.Print(tags)
	})
}

func newStashCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stash",
		Short: "Save, list and restore working tree snapshots",
		Args:  cobra.NoArgs,
		RunE:  listStashes,
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stash entries, most recent first",
		Args:    cobra.NoArgs,
		RunE:    listStashes,
	}

	var (
		message     string
		trackedOnly bool
	)
	save := &cobra.Command{
		Use:   "save",
		Short: "Stash local changes, including untracked files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.RunRepo(cmd, func(rt *runtime.Context, b repo.Backend) error {
				return common.PrintResult(rt, rt.Service.Stash.Save(cmd.Context(), b, message, !trackedOnly))
			})
		},
	}
	save.Flags().StringVarP(&message, "message", "m", "", "Stash message")
	save.Flags().BoolVar(&trackedOnly, "tracked-only", false, "Leave untracked files in place")

	indexed := func(use, short string, run func(rt *runtime.Context, cmd *cobra.Command, b repo.Backend, index int) repo.OperationResult) *cobra.Command {
		return &cobra.Command{
			Use:   use + " [index]",
			Short: short,
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				index, err := stashIndex(args)
				if err != nil {
					return err
				}
				return common.RunRepo(cmd, func(rt *runtime.Context, b repo.Backend) error {
					return common.PrintResult(rt, run(rt, cmd, b, index))
				})
			},
		}
	}

	apply := indexed("apply", "Apply a stash entry and keep it", func(rt *runtime.Context, cmd *cobra.Command, b repo.Backend, index int) repo.OperationResult {
		return rt.Service.Stash.Apply(cmd.Context(), b, index)
	})
	pop := indexed("pop", "Apply a stash entry and drop it", func(rt *runtime.Context, cmd *cobra.Command, b repo.Backend, index int) repo.OperationResult {
		return rt.Service.Stash.Pop(cmd.Context(), b, index)
	})
	drop := indexed("drop", "Delete a stash entry", func(rt *runtime.Context, cmd *cobra.Command, b repo.Backend, index int) repo.OperationResult {
		return rt.Service.Stash.Drop(cmd.Context(), b, index)
	})

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every stash entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.RunRepo(cmd, func(rt *runtime.Context, b repo.Backend) error {
				return common.PrintResult(rt, rt.Service.Stash.Clear(cmd.Context(), b))
			})
		},
	}

	cmd.AddCommand(list, save, apply, pop, drop, clearCmd)
	return cmd
}

func listStashes(cmd *cobra.Command, _ []string) error {
	return common.RunRepo(cmd, func(rt *runtime.Context, b repo.Backend) error {
		entries, err := rt.Service.Stash.List(cmd.Context(), b)
		if err != nil {
			return err
		}
		return rt.Printer.Print(entries)
	})
}

// stashIndex parses the optional index argument; it defaults to the most recent entry
func stashIndex(args []string) (int, error) {
	if len(args) == 0 {
		return 0, nil
	}
	index, err := strconv.Atoi(args[0])
	if err != nil || index < 0 {
		return 0, gserrors.NewValidationError("index", "must be a non-negative integer")
	}
	return index, nil
}
