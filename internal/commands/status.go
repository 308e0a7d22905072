package commands

import (
	"github.com/spf13/cobra"

	"github.com/jrub/queued/internal/client"
	"github.com/jrub/queued/internal/dispatch"
)

type show struct {
	cfg client.Config
	all bool
}

// Show returns the "queuectl show" subcommand: report daemon state and,
// with --all, the full pending/completed job listing.
func Show() *cobra.Command {
	var s show

	cmd := cobra.Command{
		Use:   "show [flags]",
		Short: "Show the daemon's status and queue contents",
		RunE: func(cmd *cobra.Command, _ []string) error {
			index := ""
			if s.all {
				index = dispatch.IndexAll
			}
			return call(cmd.OutOrStdout(), &s.cfg, dispatch.Request{Mode: dispatch.ModeShow, Index: index})
		},
	}

	cmd.Flags().BoolVar(&s.all, "all", false, "include pending and completed job details")
	s.cfg.Flags(&cmd)

	return &cmd
}
