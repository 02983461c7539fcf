package cli

import (
	"github.com/spf13/cobra"

	"gitscope.dev/gitscope/internal/cli/common"
	"gitscope.dev/gitscope/internal/repo"
	"gitscope.dev/gitscope/internal/runtime"
)

type validateResult struct {
	Valid bool   `json:"valid" yaml:"valid"`
	Repo  string `json:"repo" yaml:"repo"`
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that the selected repository exists and is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(rt *runtime.Context) error {
				id, err := rt.Target()
				if err != nil {
					return err
				}
				valid := rt.Factory.Validate(cmd.Context(), id)
				if err := rt.Printer.Print(validateResult{Valid: valid, Repo: id.String()}); err != nil {
					return err
				}
				if !valid {
					return common.ErrOperationFailed
				}
				return nil
			})
		},
	}
}

func newOverviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Summarize the repository: branch, HEAD, remotes and cleanliness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.RunRepo(cmd, func(rt *runtime.Context, b repo.Backend) error {
				overview, err := rt.Service.Inspect.Overview(cmd.Context(), b)
				if err != nil {
					return err
				}
				return rt.Printer.Print(overview)
			})
		},
	}
}

func newLogCmd() *cobra.Command {
	var opts repo.ListCommitsOptions

	cmd := &cobra.Command{
		Use:     "log",
		Aliases: []string{"l"},
		Short:   "List commits, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.RunRepo(cmd, func(rt *runtime.Context, b repo.Backend) error {
				page, err := rt.Service.History.ListCommits(cmd.Context(), b, opts)
				if err != nil {
					return err
				}
				return rt.Printer.Print(page)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Branch, "branch", "b", "", "Branch or ref to list (default: current branch)")
	cmd.Flags().IntVarP(&opts.MaxCount, "max-count", "n", 0, "Page size (default from history.max_count)")
	cmd.Flags().IntVar(&opts.Skip, "skip", 0, "Number of commits to skip")
	cmd.Flags().StringVarP(&opts.Search, "search", "s", "", "Only commits whose message contains this text")
	cmd.Flags().StringVarP(&opts.Author, "author", "a", "", "Only commits whose author contains this text")

	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <hash>",
		Short: "Show a commit with its changed files and diff",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.RunRepo(cmd, func(rt *runtime.Context, b repo.Backend) error {
				detail, err := rt.Service.History.CommitDetail(cmd.Context(), b, args[0])
				if err != nil {
					return err
				}
				return rt.Printer.Print(detail)
			})
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Aliases: []string{"st"},
		Short:   "Show the working tree status",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.RunRepo(cmd, func(rt *runtime.Context, b repo.Backend) error {
				status, err := rt.Service.Inspect.Status(cmd.Context(), b)
				if err != nil {
					return err
				}
				return rt.Printer.Print(status)
			})
		},
	}
}

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <from> <to>",
		Short: "Show the diff between two refs",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.RunRepo(cmd, func(rt *runtime.Context, b repo.Backend) error {
				diff, err := rt.Service.Inspect.Diff(cmd.Context(), b, args[0], args[1])
				if err != nil {
					return err
				}
				return rt.Printer.Print(diff)
			})
		},
	}
}

func newFilesCmd() *cobra.Command {
	var ref string

	cmd := &cobra.Command{
		Use:   "files [directory]",
		Short: "List the entries of a directory at a ref",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) > 0 {
				dir = args[0]
			}
			return common.RunRepo(cmd, func(rt *runtime.Context, b repo.Backend) error {
				entries, err := rt.Service.Inspect.ListFiles(cmd.Context(), b, dir, ref)
				if err != nil {
					return err
				}
				return rt.Printer.Print(entries)
			})
		},
	}

	cmd.Flags().StringVar(&ref, "ref", "HEAD", "Ref to list")

	return cmd
}
