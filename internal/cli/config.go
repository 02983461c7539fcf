package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"gitscope.dev/gitscope/internal/cli/common"
	"gitscope.dev/gitscope/internal/config"
	"gitscope.dev/gitscope/internal/runtime"
)

// newConfigCmd creates the config command
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Get and set gitscope configuration",
		Long: `Get and set gitscope configuration values.

Examples:
  gitscope config get history.max_count
  gitscope config set agent.max_diff_chars 12000
  gitscope config set environment self-hosted`,
	}

	path := &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(rt *runtime.Context) error {
				_, err := fmt.Fprintln(rt.Out, rt.Loader.Path())
				return err
			})
		},
	}

	get := &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(rt *runtime.Context) error {
				value, err := rt.Loader.Get(args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(rt.Out, value)
				return err
			})
		},
	}

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(rt *runtime.Context) error {
				return rt.Loader.Set(args[0], args[1])
			})
		},
	}

	keys := &cobra.Command{
		Use:   "keys",
		Short: "List every configuration key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(rt *runtime.Context) error {
				all := config.Keys()
				slices.Sort(all)
				for _, k := range all {
					if _, err := fmt.Fprintln(rt.Out, k); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.AddCommand(path, get, set, keys)
	return cmd
}
