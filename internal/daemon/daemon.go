// Package daemon wires config, persistence, and the event loop together,
// analogous to the teacher's internal/server.Server — a thin object with
// New/Serve/Close — but fronting a unix socket and the internal/loop actor
// instead of a grpc.Server.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jrub/queued/internal/config"
	"github.com/jrub/queued/internal/lockfile"
	"github.com/jrub/queued/internal/loop"
	"github.com/jrub/queued/internal/queue"
	"github.com/jrub/queued/internal/store"
	"github.com/jrub/queued/internal/transport"
)

const defaultPollPeriod = time.Second

// Daemon owns the process-wide singleton resources: the instance lock, the
// listening socket, and the event loop.
type Daemon struct {
	cfg  *config.Config
	lock *lockfile.Lock
	l    *loop.Loop
}

// New acquires the instance lock, loads persisted state, and binds the unix
// socket. It does not yet accept connections — call Serve for that.
func New(cfg *config.Config) (*Daemon, error) {
	if err := cfg.EnsureDirs(); err != nil {
		return nil, err
	}

	lock, err := lockfile.Acquire(cfg.LockPath())
	if err != nil {
		return nil, fmt.Errorf("acquire instance lock: %w", err)
	}

	st := store.New(cfg.QueuePath(), cfg.LogSnapshotPath(), cfg.LogDir())

	pending := st.LoadQueue()
	completedLog := st.LoadLog()

	q := queue.New()
	q.RestoreState(pending, completedLog)

	// Mirrors the original daemon's startup behavior: a non-empty restored
	// queue means the previous run ended uncleanly (or was killed) with work
	// still pending, so don't silently resume it — start paused and require
	// an explicit START. An empty restored queue means the previous run
	// finished its work cleanly, so roll its log over to a timestamped file
	// rather than keep appending to it across unrelated daemon lifetimes.
	if len(pending) > 0 {
		q.Pause()
		slog.Warn("restored a non-empty queue from a previous run, starting paused", "pending", len(pending))
	} else {
		st.SaveLog(completedLog, true)
	}

	listener, err := transport.Listen(cfg.SocketPath())
	if err != nil {
		_ = lock.Release()
		return nil, fmt.Errorf("bind socket: %w", err)
	}

	pollPeriod, err := time.ParseDuration(cfg.PollPeriod)
	if err != nil {
		slog.Warn("invalid poll-period, using default", "value", cfg.PollPeriod, "default", defaultPollPeriod, "err", err)
		pollPeriod = defaultPollPeriod
	}

	return &Daemon{
		cfg:  cfg,
		lock: lock,
		l:    loop.New(q, st, listener, cfg.SocketPath(), pollPeriod),
	}, nil
}

// Serve runs the event loop until ctx is canceled, an EXIT request is
// processed, or an unrecoverable accept error occurs.
func (d *Daemon) Serve(ctx context.Context) error {
	slog.Info("queued listening", "socket", d.cfg.SocketPath())
	return d.l.Run(ctx)
}

// Close releases the instance lock. The socket file itself is removed by the
// loop when Serve returns.
func (d *Daemon) Close() error {
	return d.lock.Release()
}
