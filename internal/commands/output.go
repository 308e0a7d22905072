package commands

import (
	"github.com/spf13/cobra"

	"github.com/jrub/queued/internal/client"
	"github.com/jrub/queued/internal/dispatch"
)

type pause struct {
	cfg client.Config
}

// Pause returns the "queuectl pause" subcommand, which pauses the daemon
// without touching a running job.
func Pause() *cobra.Command {
	var p pause

	cmd := cobra.Command{
		Use:   "pause",
		Short: "Pause the daemon; let the current job finish but start no more",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return call(cmd.OutOrStdout(), &p.cfg, dispatch.Request{Mode: dispatch.ModePause})
		},
	}

	p.cfg.Flags(&cmd)

	return &cmd
}
