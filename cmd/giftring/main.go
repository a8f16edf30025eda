package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/giftring/internal/cli"
	apperrors "github.com/matzehuels/giftring/pkg/errors"
)

// Exit codes.
const (
	exitError       = 1
	exitNoSolution  = 2 // infeasible roster or invalid assignment
	exitInterrupted = 130
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := exitCode(run(ctx))
	cancel()
	os.Exit(code)
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
	}

	return root.ExecuteContext(ctx)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	case errors.Is(err, cli.ErrInfeasible), errors.Is(err, cli.ErrInvalidAssignment):
		return exitNoSolution
	}
	fmt.Fprintln(os.Stderr, "Error:", apperrors.UserMessage(err))
	return exitError
}
