// Package cli implements the gitscope command line.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"gitscope.dev/gitscope/internal/runtime"
)

// BuildInfo identifies the binary
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCmd creates the root cobra command. base supplies the streams and any
// dependency overrides; the global flags fill in the rest.
func NewRootCmd(info BuildInfo, base runtime.Options) *cobra.Command {
	opts := base

	rootCmd := &cobra.Command{
		Use:   "gitscope",
		Short: "Inspect and operate on local git repositories and GitHub repositories",
		Long: `gitscope reads history, manages refs and runs mutations on a repository,
either a local checkout driven through git or a GitHub repository driven
through the REST API.

The same operations are served over HTTP by 'gitscope serve' and exposed as
agent tools by 'gitscope tools'.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", info.Version, info.Commit, info.Date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := runtime.New(opts)
			if err != nil {
				return err
			}
			cmd.SetContext(runtime.WithContext(cmd.Context(), rt))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := runtime.GetContext(cmd.Context())
			if err != nil {
				return nil
			}
			return rt.Close()
		},
	}

	if base.Out != nil {
		rootCmd.SetOut(base.Out)
	}
	if base.Err != nil {
		rootCmd.SetErr(base.Err)
	}
	if base.In != nil {
		rootCmd.SetIn(base.In)
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.RepoPath, "repo", ".", "Path to a local repository")
	flags.StringVar(&opts.GitHub, "github", "", "GitHub repository as owner/name (overrides --repo)")
	flags.StringVar(&opts.ConfigPath, "config", "", "Config file (default ~/.config/gitscope/config.yaml)")
	flags.StringVarP(&opts.Output, "output", "o", "text", "Output format: text, json or yaml")

	rootCmd.AddGroup(
		&cobra.Group{ID: "read", Title: "Reading:"},
		&cobra.Group{ID: "refs", Title: "Branches and tags:"},
		&cobra.Group{ID: "mutate", Title: "Changing history:"},
		&cobra.Group{ID: "setup", Title: "Setup:"},
	)

	for _, cmd := range []*cobra.Command{
		newValidateCmd(), newOverviewCmd(), newLogCmd(), newShowCmd(),
		newStatusCmd(), newDiffCmd(), newFilesCmd(),
	} {
		cmd.GroupID = "read"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{
		newBranchCmd(), newCheckoutCmd(), newMergeCmd(), newTagCmd(), newStashCmd(),
	} {
		cmd.GroupID = "refs"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{
		newResetCmd(), newCherryPickCmd(), newRevertCmd(),
	} {
		cmd.GroupID = "mutate"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{
		newServeCmd(), newToolsCmd(), newAuthCmd(), newConfigCmd(),
	} {
		cmd.GroupID = "setup"
		rootCmd.AddCommand(cmd)
	}

	return rootCmd
}
