package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"gitscope.dev/gitscope/internal/agent"
	"gitscope.dev/gitscope/internal/cli/common"
	"gitscope.dev/gitscope/internal/repo"
	"gitscope.dev/gitscope/internal/runtime"
)

func newToolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List and call the read-only agent tools",
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tool declarations with their parameter schemas",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(rt *runtime.Context) error {
				// declarations do not depend on the repository
				return rt.Printer.Print(agent.NewToolset(nil, rt.Service, rt.Limits).Tools())
			})
		},
	}

	call := &cobra.Command{
		Use:   "call <name> [json-arguments]",
		Short: "Call a tool against the selected repository",
		Example: `  gitscope tools call getCommitHistory '{"maxCount": 5}'
  gitscope tools call --github octo/hello getCommitDetails '{"hash": "abc1234"}'`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw json.RawMessage
			if len(args) == 2 {
				raw = json.RawMessage(args[1])
			}
			return common.RunRepo(cmd, func(rt *runtime.Context, b repo.Backend) error {
				result, err := agent.NewToolset(b, rt.Service, rt.Limits).Call(cmd.Context(), args[0], raw)
				if err != nil {
					return err
				}
				return rt.Printer.Print(result)
			})
		},
	}

	cmd.AddCommand(list, call)
	return cmd
}
