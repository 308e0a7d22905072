package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/jrub/queued/internal/client"
	"github.com/jrub/queued/internal/dispatch"
)

type add struct {
	cfg  client.Config
	path string
}

// Add returns the "queuectl add" subcommand: enqueue a shell command line to
// run in the daemon's working directory (or --path).
func Add() *cobra.Command {
	var a add

	cmd := cobra.Command{
		Use:   "add [flags] -- command [args]...",
		Short: "Add a command to the queue",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd.OutOrStdout(), &a.cfg, dispatch.Request{
				Mode:    dispatch.ModeAdd,
				Command: strings.Join(args, " "),
				Path:    a.path,
			})
		},
	}

	cmd.Flags().StringVar(&a.path, "path", ".", "working directory the command runs in")
	a.cfg.Flags(&cmd)

	return &cmd
}
