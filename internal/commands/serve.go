package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jrub/queued/internal/config"
	"github.com/jrub/queued/internal/daemon"
)

type serve struct {
	cfg config.Config
	d   *daemon.Daemon
}

// Serve returns the "queued serve" subcommand that runs the daemon in the
// foreground until a signal or an EXIT request asks it to stop.
func Serve() *cobra.Command {
	var s serve

	cmd := cobra.Command{
		Use:   "serve",
		Short: "Run the queued daemon in the foreground",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.serve(cmd.Context())
		},
	}

	s.cfg.Flags(&cmd)

	return &cmd
}

func (s *serve) serve(ctx context.Context) error {
	var err error
	if s.d, err = daemon.New(&s.cfg); err != nil {
		return err
	}
	defer s.d.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		err = s.d.Serve(loopCtx)
	}()

	select {
	case <-done:
		return err
	case sig := <-sigCh:
		slog.Warn("caught signal, shutting down", "sig", sig)
		cancel()
		<-done
		return nil
	case <-ctx.Done():
		slog.Warn("application context done", "err", ctx.Err())
		cancel()
		<-done
		return nil
	}
}
