package commands

import (
	"github.com/spf13/cobra"

	"github.com/jrub/queued/internal/client"
	"github.com/jrub/queued/internal/dispatch"
	"github.com/jrub/queued/internal/queue"
)

type kill struct {
	cfg    client.Config
	key    uint64
	remove bool
}

// Kill returns the "queuectl kill" subcommand: SIGKILL the running process
// and pause the daemon, optionally removing a specific queued job too.
func Kill() *cobra.Command {
	var k kill

	cmd := cobra.Command{
		Use:   "kill [flags]",
		Short: "Kill the running process and pause the daemon",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return call(cmd.OutOrStdout(), &k.cfg, dispatch.Request{
				Mode:   dispatch.ModeKill,
				Key:    queue.ID(k.key),
				Remove: k.remove,
			})
		},
	}

	cmd.Flags().Uint64Var(&k.key, "id", 0, "job id to remove when --remove is set")
	cmd.Flags().BoolVar(&k.remove, "remove", false, "remove the job named by --id, then resume")
	k.cfg.Flags(&cmd)

	return &cmd
}
