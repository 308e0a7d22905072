package commands

import (
	"github.com/spf13/cobra"

	"github.com/jrub/queued/internal/client"
	"github.com/jrub/queued/internal/dispatch"
	"github.com/jrub/queued/internal/queue"
)

type remove struct {
	cfg client.Config
	key uint64
}

// Remove returns the "queuectl remove" subcommand: drop a queued job by id.
func Remove() *cobra.Command {
	var r remove

	cmd := cobra.Command{
		Use:   "remove [flags]",
		Short: "Remove a queued job",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return call(cmd.OutOrStdout(), &r.cfg, dispatch.Request{Mode: dispatch.ModeRemove, Key: queue.ID(r.key)})
		},
	}

	cmd.Flags().Uint64Var(&r.key, "id", 0, "job id to remove (required)")
	_ = cmd.MarkFlagRequired("id")
	r.cfg.Flags(&cmd)

	return &cmd
}
