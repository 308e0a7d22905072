// Package store implements the persistence layer: atomic(-ish) snapshot
// read/write of the queue and log maps, plus the human-readable log files
// and rotation. It is grounded on the teacher's ambient style (fmt.Errorf
// wrapping, log/slog warnings on non-fatal I/O failure) applied to the
// spec's daemon.picklelog-equivalent contract: load returns empty state on
// any decode error, after deleting the offending file; every write is
// best-effort and never fatal.
package store

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jrub/queued/internal/queue"
	"github.com/jrub/queued/internal/retry"
)

// magic/version prefix the spec's design notes call for: an explicit,
// versioned schema instead of an opaque language-native blob, while still
// using gob as the payload encoding (see DESIGN.md for why no third-party
// serialization library fit here).
var magic = [4]byte{'q', 'd', 'q', '1'}

// Store owns the four on-disk artifacts described in the spec: the queue and
// log binary snapshots under Home, and the current/rotated human-readable
// log files under LogDir.
type Store struct {
	queuePath string
	logPath   string
	logDir    string
}

// New returns a Store rooted at the given paths.
func New(queuePath, logSnapshotPath, logDir string) *Store {
	return &Store{
		queuePath: queuePath,
		logPath:   logSnapshotPath,
		logDir:    logDir,
	}
}

// LoadQueue returns the persisted pending-job map, or an empty map if the
// file does not exist or fails to decode. A decode failure deletes the
// corrupt file and is logged as a warning, never returned as an error — this
// mirrors the spec's corrupt-on-disk-state handling exactly.
func (s *Store) LoadQueue() map[queue.ID]queue.Job {
	m := map[queue.ID]queue.Job{}
	if err := loadGob(s.queuePath, &m); err != nil {
		slog.Warn("queue file corrupted, deleting old queue", "path", s.queuePath, "err", err)
		_ = os.Remove(s.queuePath)
		return map[queue.ID]queue.Job{}
	}
	return m
}

// LoadLog is LoadQueue's counterpart for the completed-job log.
func (s *Store) LoadLog() map[queue.ID]queue.Completed {
	m := map[queue.ID]queue.Completed{}
	if err := loadGob(s.logPath, &m); err != nil {
		slog.Warn("log file corrupted, deleting old log", "path", s.logPath, "err", err)
		_ = os.Remove(s.logPath)
		return map[queue.ID]queue.Completed{}
	}
	return m
}

// loadGob decodes path's contents into v (a pointer to a map). A missing
// file is not an error — v is left as its zero value (empty map).
func loadGob(path string, v any) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	if len(data) < len(magic) || [4]byte(data[:4]) != magic {
		return fmt.Errorf("missing or mismatched format header")
	}

	dec := gob.NewDecoder(bytes.NewReader(data[4:]))
	return dec.Decode(v)
}

// SaveQueue overwrites the queue snapshot. I/O failures are retried a few
// times (internal/retry) and then logged as a warning — they never crash
// the daemon, per the spec.
func (s *Store) SaveQueue(m map[queue.ID]queue.Job) {
	if err := retry.Do(func() error { return saveGob(s.queuePath, m) }); err != nil {
		slog.Warn("error writing queue file", "path", s.queuePath, "err", err)
	}
}

// SaveLog writes the binary log snapshot and the reformatted human-readable
// queue.log. When rotate is true, the human-readable file is written to a
// timestamped name instead, and any existing queue.log is removed first.
func (s *Store) SaveLog(m map[queue.ID]queue.Completed, rotate bool) {
	if err := retry.Do(func() error { return saveGob(s.logPath, m) }); err != nil {
		slog.Warn("error writing picklelog file", "path", s.logPath, "err", err)
	}

	humanPath := filepath.Join(s.logDir, "queue.log")
	if rotate {
		humanPath = filepath.Join(s.logDir, fmt.Sprintf("queue-%s.log", time.Now().Format("20060102-1504")))
		if err := os.Remove(filepath.Join(s.logDir, "queue.log")); err != nil && !os.IsNotExist(err) {
			slog.Warn("error removing current human-readable log", "err", err)
		}
	}

	if err := retry.Do(func() error { return writeHumanLog(humanPath, m) }); err != nil {
		slog.Warn("error writing log file", "path", humanPath, "err", err)
	}
}

func saveGob(path string, v any) error {
	var buf bytes.Buffer
	buf.Write(magic[:])

	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %q: %w", path, err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}

	return nil
}

func writeHumanLog(path string, m map[queue.ID]queue.Completed) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	defer f.Close()

	fmt.Fprint(f, "queued log for executed commands:\n\n\n")

	ids := make([]queue.ID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		c := m[id]
		fmt.Fprintf(f, "command #%d exited with returncode %d:\n    %s\n", id, c.ReturnCode, c.Command)
		fmt.Fprintf(f, "path:\n    %s\n", c.Path)
		if c.Stderr != "" {
			fmt.Fprintf(f, "stderr output:\n%s\n", c.Stderr)
		}
		fmt.Fprintf(f, "stdout output:\n%s\n", c.Stdout)
		fmt.Fprint(f, "\n\n")
	}

	return nil
}
