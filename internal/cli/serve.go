package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"gitscope.dev/gitscope/internal/api"
	"gitscope.dev/gitscope/internal/cli/common"
	"gitscope.dev/gitscope/internal/config"
	"gitscope.dev/gitscope/internal/runtime"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the repository operations over HTTP",
		Long: `Serve the repository operations over HTTP.

Local repositories are under /api/git, GitHub repositories under /api/github
and the agent tools under /api/agent. Local access is refused in production
and shared environments unless local.enabled is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(rt *runtime.Context) error {
				if rt.Config.Environment != config.EnvDevelopment {
					gin.SetMode(gin.ReleaseMode)
				}
				if addr == "" {
					addr = rt.Config.Server.Addr
				}

				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()

				server := api.New(api.Options{
					Factory: rt.Factory,
					Service: rt.Service,
					Limits:  rt.Limits,
					Logger:  rt.Logger,
				})
				return server.ListenAndServe(ctx, addr)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default server.addr)")

	return cmd
}
