package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"gitscope.dev/gitscope/internal/auth"
	"gitscope.dev/gitscope/internal/cli/common"
	"gitscope.dev/gitscope/internal/runtime"
	"gitscope.dev/gitscope/internal/tui"
)

var errNoKeyring = errors.New("no keyring is available; set github.token or GITHUB_TOKEN instead")

type authStatus struct {
	Authenticated bool   `json:"authenticated" yaml:"authenticated"`
	Source        string `json:"source,omitempty" yaml:"source,omitempty"`
	Message       string `json:"message" yaml:"message"`
}

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the GitHub token",
	}

	var token string
	login := &cobra.Command{
		Use:   "login",
		Short: "Store a GitHub token in the OS keyring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(rt *runtime.Context) error {
				if rt.Storage == nil {
					return errNoKeyring
				}
				value := strings.TrimSpace(token)
				if value == "" {
					var err error
					if value, err = tui.PromptSecret("GitHub token"); err != nil {
						return err
					}
				}
				if err := rt.Storage.Set(auth.TokenAccount, value); err != nil {
					return err
				}
				return rt.Printer.Print(authStatus{Authenticated: true, Source: string(auth.SourceKeyring), Message: "Token saved to the keyring"})
			})
		},
	}
	login.Flags().StringVar(&token, "token", "", "Token to store (prompted for when omitted)")

	logout := &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored GitHub token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(rt *runtime.Context) error {
				if rt.Storage == nil {
					return errNoKeyring
				}
				if err := rt.Storage.Delete(auth.TokenAccount); err != nil {
					return err
				}
				return rt.Printer.Print(authStatus{Message: "Token removed from the keyring"})
			})
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show where the GitHub token comes from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(rt *runtime.Context) error {
				t, err := rt.Tokens.Token(cmd.Context())
				if err != nil {
					if printErr := rt.Printer.Print(authStatus{Message: err.Error()}); printErr != nil {
						return printErr
					}
					return common.ErrOperationFailed
				}
				return rt.Printer.Print(authStatus{
					Authenticated: true,
					Source:        string(t.Source),
					Message:       "Authenticated via " + string(t.Source),
				})
			})
		},
	}

	cmd.AddCommand(login, logout, status)
	return cmd
}
