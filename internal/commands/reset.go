package commands

import (
	"github.com/spf13/cobra"

	"github.com/jrub/queued/internal/client"
	"github.com/jrub/queued/internal/dispatch"
)

type reset struct {
	cfg client.Config
}

// Reset returns the "queuectl reset" subcommand: clear the pending queue and
// rotate the completed-job log to a timestamped file.
func Reset() *cobra.Command {
	var r reset

	cmd := cobra.Command{
		Use:   "reset",
		Short: "Clear the queue and rotate the log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return call(cmd.OutOrStdout(), &r.cfg, dispatch.Request{Mode: dispatch.ModeReset})
		},
	}

	r.cfg.Flags(&cmd)

	return &cmd
}
