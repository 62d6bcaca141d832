package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rshade/foodprint/internal/cli"
	"github.com/rshade/foodprint/pkg/version"
)

func main() {
	os.Exit(extractGapsExitCode(run()))
}

// run executes the root command under a context cancelled by SIGINT and
// SIGTERM.
func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(version.GetVersion())
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// extractGapsExitCode maps err to a process exit code: 0 for nil, the
// carried code for a GapsExitError, 1 otherwise.
func extractGapsExitCode(err error) int {
	if err == nil {
		return 0
	}
	var gapsErr *cli.GapsExitError
	if errors.As(err, &gapsErr) {
		return gapsErr.ExitCode
	}
	return 1
}
