// Command queuectl is the queued daemon's control client: add, remove, and
// inspect queued jobs, pause/resume the daemon, and signal the running job.
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
		Use:           "queuectl",
		Short:         "Control client for the queued daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(commands.Add())
	root.AddCommand(commands.Remove())
	root.AddCommand(commands.Show())
	root.AddCommand(commands.Reset())
	root.AddCommand(commands.Start())
	root.AddCommand(commands.Pause())
	root.AddCommand(commands.Stop())
	root.AddCommand(commands.Kill())
	root.AddCommand(commands.Exit())

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
