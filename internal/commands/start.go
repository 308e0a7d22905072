package commands

import (
	"github.com/spf13/cobra"

	"github.com/jrub/queued/internal/client"
	"github.com/jrub/queued/internal/dispatch"
)

type start struct {
	cfg client.Config
}

// Start returns the "queuectl start" subcommand, which unpauses the daemon.
func Start() *cobra.Command {
	var s start

	cmd := cobra.Command{
		Use:   "start",
		Short: "Unpause the daemon and resume processing the queue",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return call(cmd.OutOrStdout(), &s.cfg, dispatch.Request{Mode: dispatch.ModeStart})
		},
	}

	s.cfg.Flags(&cmd)

	return &cmd
}
