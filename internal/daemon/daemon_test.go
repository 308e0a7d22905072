package daemon

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrub/queued/internal/config"
	"github.com/jrub/queued/internal/dispatch"
	"github.com/jrub/queued/internal/queue"
	"github.com/jrub/queued/internal/store"
	"github.com/jrub/queued/internal/transport"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{Home: t.TempDir(), SocketName: "queued.sock", PollPeriod: "50ms"}
	require.NoError(t, cfg.EnsureDirs())
	return cfg
}

// TestNewStartsPausedWhenRestoredQueueIsNonEmpty mirrors the original
// daemon's startup behavior (original_source/pueue/daemon/daemon.py:17-26):
// a crash or unclean shutdown leaving pending jobs on disk must not silently
// resume them on the next run.
func TestNewStartsPausedWhenRestoredQueueIsNonEmpty(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	cfg := newTestConfig(t)
	st := store.New(cfg.QueuePath(), cfg.LogSnapshotPath(), cfg.LogDir())
	st.SaveQueue(map[queue.ID]queue.Job{0: {ID: 0, Command: "echo hi", Path: "/tmp"}})

	d, err := New(cfg)
	require.NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Serve(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
		_ = d.Close()
	}()

	reply, err := transport.Call(cfg.SocketPath(), dispatch.Request{Mode: dispatch.ModeShow}, 2*time.Second)
	require.NoError(err)
	require.Equal("paused", reply.Show.Status, "a restored non-empty queue must start paused")
}

// TestNewDoesNotPauseWhenRestoredQueueIsEmpty is the complement: a clean
// previous shutdown (or a fresh --home) should leave the daemon running.
func TestNewDoesNotPauseWhenRestoredQueueIsEmpty(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	cfg := newTestConfig(t)

	d, err := New(cfg)
	require.NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Serve(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
		_ = d.Close()
	}()

	reply, err := transport.Call(cfg.SocketPath(), dispatch.Request{Mode: dispatch.ModeShow}, 2*time.Second)
	require.NoError(err)
	require.Equal("running", reply.Show.Status)
}

// TestNewRotatesLogAtStartupWhenQueueIsEmpty asserts the other half of the
// original's readLog(True)/readLog(False) startup split: an empty restored
// queue rolls the previous run's human-readable log into a timestamped file
// instead of continuing to append to it across unrelated daemon lifetimes.
func TestNewRotatesLogAtStartupWhenQueueIsEmpty(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	cfg := newTestConfig(t)
	st := store.New(cfg.QueuePath(), cfg.LogSnapshotPath(), cfg.LogDir())
	st.SaveLog(map[queue.ID]queue.Completed{
		0: {Job: queue.Job{ID: 0, Command: "echo hi", Path: "/tmp"}, ReturnCode: 0},
	}, false)

	humanLog := filepath.Join(cfg.LogDir(), "queue.log")
	_, err := os.Stat(humanLog)
	require.NoError(err, "precondition: queue.log exists before startup")

	d, err := New(cfg)
	require.NoError(err)
	defer d.Close()

	_, err = os.Stat(humanLog)
	require.True(os.IsNotExist(err), "startup should rotate away the current human-readable log when the queue is empty")

	matches, err := filepath.Glob(filepath.Join(cfg.LogDir(), "queue-*.log"))
	require.NoError(err)
	require.Len(matches, 1)
}
