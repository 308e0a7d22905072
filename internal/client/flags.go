// Package client holds the cli-flag-bound configuration queuectl's
// subcommands use to reach a running daemon, mirroring the split the teacher
// keeps between its server-side and client-side Config types.
package client

import (
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jrub/queued/internal/config"
)

// Config contains all configuration passed in via cli flags for queuectl.
type Config struct {
	Home       string
	SocketName string
	Timeout    time.Duration
}

// Flags binds Config fields to cmd's flag set.
func (c *Config) Flags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.Home, "home", config.DefaultHome(), "queued config/data directory")
	cmd.Flags().StringVar(&c.SocketName, "socket-name", "queued.sock", "unix socket file name, under --home")
	cmd.Flags().DurationVar(&c.Timeout, "timeout", 5*time.Second, "time to wait for the daemon to reply")
}

// SocketPath is the full path to the daemon's unix socket.
func (c *Config) SocketPath() string {
	return filepath.Join(c.Home, c.SocketName)
}
