package main

import (
	"errors"
	"fmt"
	"os"

	"gitscope.dev/gitscope/internal/cli"
	"gitscope.dev/gitscope/internal/cli/common"
	"gitscope.dev/gitscope/internal/runtime"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := cli.NewRootCmd(
		cli.BuildInfo{Version: version, Commit: commit, Date: date},
		runtime.Options{In: os.Stdin, Out: os.Stdout, Err: os.Stderr},
	)
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, common.ErrOperationFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
