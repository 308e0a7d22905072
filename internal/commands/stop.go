package commands

import (
	"github.com/spf13/cobra"

	"github.com/jrub/queued/internal/client"
	"github.com/jrub/queued/internal/dispatch"
	"github.com/jrub/queued/internal/queue"
)

type stop struct {
	cfg    client.Config
	key    uint64
	remove bool
}

// Stop returns the "queuectl stop" subcommand: send SIGTERM to the currently
// running job and pause the daemon, optionally removing a specific queued
// job in the same request.
func Stop() *cobra.Command {
	var s stop

	cmd := cobra.Command{
		Use:   "stop [flags]",
		Short: "Terminate the running process and pause the daemon",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return call(cmd.OutOrStdout(), &s.cfg, dispatch.Request{
				Mode:   dispatch.ModeStop,
				Key:    queue.ID(s.key),
				Remove: s.remove,
			})
		},
	}

	cmd.Flags().Uint64Var(&s.key, "id", 0, "job id to remove when --remove is set")
	cmd.Flags().BoolVar(&s.remove, "remove", false, "remove the job named by --id, then resume")
	s.cfg.Flags(&cmd)

	return &cmd
}
