// Package lockfile guards against two daemons sharing one config directory, a
// condition the spec calls "unsupported and undefined". It turns that into a
// clean startup error instead.
package lockfile

import (
	"errors"
	"fmt"

	"github.com/gofrs/flock"
)

// ErrAlreadyRunning is returned by Acquire when another process already holds
// the lock.
var ErrAlreadyRunning = errors.New("another queued instance is already running against this home directory")

// Lock wraps an exclusive, non-blocking file lock.
type Lock struct {
	fl *flock.Flock
}

// Acquire takes an exclusive, non-blocking lock on path. path is typically
// config.Config.LockPath(). The lock is released by calling Release, or
// implicitly when the process exits.
func Acquire(path string) (*Lock, error) {
	fl := flock.New(path)

	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %q: %w", path, err)
	}
	if !locked {
		return nil, ErrAlreadyRunning
	}

	return &Lock{fl: fl}, nil
}

// Release gives up the lock.
func (l *Lock) Release() error {
	return l.fl.Unlock()
}
