package commands

import (
	"github.com/spf13/cobra"

	"github.com/jrub/queued/internal/client"
	"github.com/jrub/queued/internal/dispatch"
)

type exit struct {
	cfg client.Config
}

// Exit returns the "queuectl exit" subcommand: ask the daemon to shut down.
// A running job is left to finish on its own; queued jobs are not resumed.
func Exit() *cobra.Command {
	var e exit

	cmd := cobra.Command{
		Use:   "exit",
		Short: "Shut down the daemon",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return call(cmd.OutOrStdout(), &e.cfg, dispatch.Request{Mode: dispatch.ModeExit})
		},
	}

	e.cfg.Flags(&cmd)

	return &cmd
}
