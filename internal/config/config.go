// Package config resolves the daemon's on-disk layout and exposes it as cobra
// flags, the same way the teacher's internal/config package held flag-bound
// values for the server.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// Config holds every resolved filesystem path the daemon needs. Path and
// directory bootstrap (an out-of-scope collaborator per the spec) is reduced
// here to "create these directories if missing" — no more.
type Config struct {
	Home string // defaults to ~/.queued, overridable with $QUEUED_HOME

	SocketName string // unix socket file name, relative to Home
	PollPeriod string // heartbeat period for the event loop ticker, parsed with time.ParseDuration
}

// Flags binds Config fields to cmd's flag set, in the style of the teacher's
// server.Config.Flags / client.Config.Flags.
func (c *Config) Flags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.Home, "home", DefaultHome(), "queued config/data directory")
	cmd.Flags().StringVar(&c.SocketName, "socket-name", "queued.sock", "unix socket file name, created under --home")
	cmd.Flags().StringVar(&c.PollPeriod, "poll-period", "1s", "upper bound on child-exit observation latency")
}

// DefaultHome resolves the config/data directory used when --home is not
// given: $QUEUED_HOME if set, else ~/.queued. Exported so internal/client can
// default queuectl's --home flag to the same value without duplicating the
// $QUEUED_HOME lookup.
func DefaultHome() string {
	if v := os.Getenv("QUEUED_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".queued"
	}
	return filepath.Join(home, ".queued")
}

// LogDir is the directory holding the human-readable log files.
func (c *Config) LogDir() string {
	return filepath.Join(c.Home, "log")
}

// SocketPath is the full path to the unix socket.
func (c *Config) SocketPath() string {
	return filepath.Join(c.Home, c.SocketName)
}

// QueuePath is the binary queue snapshot file.
func (c *Config) QueuePath() string {
	return filepath.Join(c.Home, "queue")
}

// LogSnapshotPath is the binary log snapshot file.
func (c *Config) LogSnapshotPath() string {
	return filepath.Join(c.Home, "queue.picklelog")
}

// LockPath is the flock guard file, separate from the socket so a stale
// socket left behind by an unclean shutdown never blocks the lock itself.
func (c *Config) LockPath() string {
	return filepath.Join(c.Home, "queued.lock")
}

const dirPerm = 0o755

// EnsureDirs creates Home and LogDir if they don't already exist.
func (c *Config) EnsureDirs() error {
	if err := os.MkdirAll(c.Home, dirPerm); err != nil {
		return fmt.Errorf("create home dir %q: %w", c.Home, err)
	}
	if err := os.MkdirAll(c.LogDir(), dirPerm); err != nil {
		return fmt.Errorf("create log dir %q: %w", c.LogDir(), err)
	}
	return nil
}
