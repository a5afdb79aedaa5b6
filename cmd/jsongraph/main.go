package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jsongraph/internal/cli"
	errs "github.com/matzehuels/jsongraph/pkg/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	os.Exit(exitCode(err))
}

func run(ctx context.Context) error {
	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SilenceErrors = true

	verbose := root.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	preRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Before config loading, so config problems are logged at debug level too.
		if *verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if preRun == nil {
			return nil
		}
		return preRun(cmd, args)
	}

	return root.ExecuteContext(ctx)
}

// exitCode prints err and maps it to a process exit status: 130 after an
// interrupt, 2 for bad input, 1 otherwise.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 130
	}

	msg := errs.UserMessage(err)
	var coded *errs.Error
	if errors.As(err, &coded) && coded.Cause != nil {
		msg += ": " + coded.Cause.Error()
	}
	fmt.Fprintln(os.Stderr, "Error:", msg)
	switch errs.GetCode(err) {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidPath, errs.ErrCodeInvalidName:
		return 2
	}
	return 1
}
