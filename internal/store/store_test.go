package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrub/queued/internal/queue"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	logDir := filepath.Join(dir, "log")
	require.NoError(t, os.MkdirAll(logDir, 0o755))
	return New(filepath.Join(dir, "queue"), filepath.Join(dir, "queue.picklelog"), logDir), dir
}

func TestLoadQueueMissingFileReturnsEmptyMap(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	s, _ := newTestStore(t)
	m := s.LoadQueue()
	require.Empty(m)
}

func TestSaveThenLoadQueueRoundTrips(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	assert := assert.New(t)

	s, _ := newTestStore(t)
	want := map[queue.ID]queue.Job{
		0: {ID: 0, Command: "echo hi", Path: "/tmp"},
		1: {ID: 1, Command: "echo bye", Path: "/tmp"},
	}

	s.SaveQueue(want)

	got := s.LoadQueue()
	require.Len(got, 2)
	assert.Equal(want[0], got[0])
	assert.Equal(want[1], got[1])
}

func TestSaveThenLoadLogRoundTrips(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	assert := assert.New(t)

	s, dir := newTestStore(t)
	want := map[queue.ID]queue.Completed{
		0: {Job: queue.Job{ID: 0, Command: "echo hi", Path: "/tmp"}, ReturnCode: 0, Stdout: "hi\n"},
	}

	s.SaveLog(want, false)

	got := s.LoadLog()
	require.Len(got, 1)
	assert.Equal(want[0], got[0])

	humanLog, err := os.ReadFile(filepath.Join(dir, "log", "queue.log"))
	require.NoError(err)
	assert.Contains(string(humanLog), "echo hi")
}

func TestLoadQueueDeletesCorruptFile(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	s, dir := newTestStore(t)
	queuePath := filepath.Join(dir, "queue")
	require.NoError(os.WriteFile(queuePath, []byte("not a valid snapshot"), 0o644))

	m := s.LoadQueue()
	require.Empty(m)

	_, err := os.Stat(queuePath)
	require.True(os.IsNotExist(err))
}

func TestSaveLogRotateWritesTimestampedFile(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	s, dir := newTestStore(t)
	entries := map[queue.ID]queue.Completed{
		0: {Job: queue.Job{ID: 0, Command: "echo hi", Path: "/tmp"}, ReturnCode: 0},
	}

	s.SaveLog(entries, false)
	s.SaveLog(entries, true)

	_, err := os.Stat(filepath.Join(dir, "log", "queue.log"))
	require.True(os.IsNotExist(err), "rotate should remove the current human-readable log")

	matches, err := filepath.Glob(filepath.Join(dir, "log", "queue-*.log"))
	require.NoError(err)
	require.Len(matches, 1)
}
