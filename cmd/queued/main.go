// Command queued is the personal command-queue daemon: it accepts jobs over
// a local unix socket, runs them one at a time in submission order, and
// persists pending and completed state across restarts.
package main

import (
	"context"
	"errors"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/jrub/queued/internal/commands"
)

func main() {
	if err := run(); err != nil {
		if code, ok := exitCode(err); ok {
			os.Exit(code)
		}
		os.Exit(1)
	}
}

func run() error {
	root := cobra.Command{
		Use:           "queued",
		Short:         "A single-user background command queue daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(commands.Serve())

	ctx := context.Background()

	cmd, err := root.ExecuteContextC(ctx)
	if _, ok := exitCode(err); ok {
		return err
	}

	if err != nil {
		root.Println(cmd.UsageString())
		root.PrintErrln(root.ErrPrefix(), err.Error())
	}

	return err
}

func exitCode(err error) (int, bool) {
	var eerr *exec.ExitError
	if errors.As(err, &eerr) {
		return eerr.ExitCode(), true
	}
	return 0, false
}
