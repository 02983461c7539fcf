// Package common provides shared helper functions for CLI commands.
package common

import (
	"errors"

	"github.com/spf13/cobra"

	"gitscope.dev/gitscope/internal/repo"
	"gitscope.dev/gitscope/internal/runtime"
)

// ErrOperationFailed is returned after a failed OperationResult has already
// been printed; main exits non-zero without printing it again.
var ErrOperationFailed = errors.New("operation failed")

// Run is a helper that provides a runtime context to a command's execution function
func Run(cmd *cobra.Command, fn func(rt *runtime.Context) error) error {
	rt, err := runtime.GetContext(cmd.Context())
	if err != nil {
		return err
	}
	return fn(rt)
}

// RunRepo is Run with the selected repository resolved
func RunRepo(cmd *cobra.Command, fn func(rt *runtime.Context, b repo.Backend) error) error {
	return Run(cmd, func(rt *runtime.Context) error {
		b, err := rt.Backend(cmd.Context())
		if err != nil {
			return err
		}
		return fn(rt, b)
	})
}

// PrintResult prints a mutation result and converts failure into ErrOperationFailed
func PrintResult(rt *runtime.Context, result repo.OperationResult) error {
	if err := rt.Printer.Print(result); err != nil {
		return err
	}
	if !result.Success {
		return ErrOperationFailed
	}
	return nil
}
