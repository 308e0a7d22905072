// Package queue implements the in-memory queue/log model described in the
// data model: pending jobs keyed by monotonically increasing id, and
// completed jobs carrying captured output and exit status. It owns the
// invariants that must hold between event loop iterations; every mutation
// method here either fully applies or returns an error, never leaving the
// queue half-updated.
package queue

import (
	"fmt"
	"sort"
)

// ID is a job identifier, strictly increasing within a queue generation and
// never reused.
type ID uint64

// Status is the externally visible lifecycle state of a job. Running is
// derived by comparing a job's ID against the currently running id, not
// stored on the Job itself.
type Status int

const (
	StatusQueued Status = iota
	StatusRunning
	StatusDone
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusQueued:
		return "queued"
	case StatusRunning:
		return "running"
	case StatusDone:
		return "done"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Job is the unit of work submitted by a client.
type Job struct {
	ID      ID
	Command string
	Path    string
}

// Completed is a Job plus everything captured once its process exited. A
// negative ReturnCode of -N records that the job was killed by signal N,
// mirroring CPython's subprocess returncode convention (exec.ExitError's own
// ExitCode reports -1 for any signal death).
type Completed struct {
	Job
	ReturnCode int
	Stdout     string
	Stderr     string
}

// Failed reports whether the completed job should be shown to clients with
// status "failed" rather than "done" — any nonzero return code.
func (c Completed) Failed() bool {
	return c.ReturnCode != 0
}

// Queue is the ordered set of pending and currently-running jobs plus the
// set of completed jobs, together with the daemon's scheduling state.
//
// Queue is not safe for concurrent use; callers (internal/loop) serialize
// all access through a single owner goroutine, exactly as the spec's single
// mutable owner design requires.
type Queue struct {
	pending map[ID]Job
	order   []ID // ascending order of pending ids, kept in sync with pending

	log map[ID]Completed

	paused     bool
	currentID  ID
	hasCurrent bool
	nextID     ID

	// lastCompletedID tracks the most recently reaped job, independent of
	// currentID/hasCurrent (which strictly follow invariant 1: set iff a live
	// child is tracked). The show reply's "current" field needs the exit code
	// of the last completed job even long after it stopped being current, so
	// it is tracked separately rather than by relaxing invariant 1.
	lastCompletedID  ID
	hasLastCompleted bool
}

// New returns an empty, unpaused Queue starting at id 0.
func New() *Queue {
	return &Queue{
		pending: map[ID]Job{},
		log:     map[ID]Completed{},
	}
}

// Len returns the number of pending jobs (including the running one, if
// any).
func (q *Queue) Len() int {
	return len(q.pending)
}

// Paused reports the daemon's paused flag.
func (q *Queue) Paused() bool {
	return q.paused
}

// Pause sets paused to true. Idempotent.
func (q *Queue) Pause() {
	q.paused = true
}

// Start clears paused. Idempotent.
func (q *Queue) Start() {
	q.paused = false
}

// CurrentID returns the running job's id, if any.
func (q *Queue) CurrentID() (ID, bool) {
	return q.currentID, q.hasCurrent
}

// NextID returns the id that would be assigned to the next Add call.
func (q *Queue) NextID() ID {
	return q.nextID
}

// Add appends job at NextID and increments NextID. Returns the assigned id.
func (q *Queue) Add(command, path string) ID {
	id := q.nextID
	q.pending[id] = Job{ID: id, Command: command, Path: path}
	q.order = append(q.order, id)
	q.nextID++
	return id
}

// ErrUnknownID is returned by Remove when id is not in the queue.
var ErrUnknownID = fmt.Errorf("no command with that key")

// ErrRunning is returned by Remove when id is the currently running job and
// the daemon is not paused — invariant 6 requires stopping it first.
var ErrRunning = fmt.Errorf("can't remove currently running process, please stop the process before removing it")

// Remove deletes id from the pending set. It refuses to remove the running
// job unless the daemon is paused (invariant 6).
func (q *Queue) Remove(id ID) error {
	if _, ok := q.pending[id]; !ok {
		return ErrUnknownID
	}

	if !q.paused && q.hasCurrent && id == q.currentID {
		return ErrRunning
	}

	q.deleteFromOrder(id)
	delete(q.pending, id)

	if q.hasCurrent && id == q.currentID {
		q.hasCurrent = false
	}

	return nil
}

func (q *Queue) deleteFromOrder(id ID) {
	for i, v := range q.order {
		if v == id {
			q.order = append(q.order[:i], q.order[i+1:]...)
			return
		}
	}
}

// Head returns the pending job with the minimum id, the "next or currently
// running job". ok is false when the queue is empty.
func (q *Queue) Head() (Job, bool) {
	if len(q.order) == 0 {
		return Job{}, false
	}
	return q.pending[q.order[0]], true
}

// PromoteHeadToRunning marks the head job as the currently running job. It
// does not remove the job from pending — it remains there, with derived
// Status() == StatusRunning, until CompleteRunning is called.
func (q *Queue) PromoteHeadToRunning() (Job, bool) {
	head, ok := q.Head()
	if !ok {
		return Job{}, false
	}
	q.currentID = head.ID
	q.hasCurrent = true
	return head, true
}

// ErrNotRunning is returned by CompleteRunning when there is no current job,
// or the current job is not the queue head (invariant 2 violated).
var ErrNotRunning = fmt.Errorf("no running job to complete")

// CompleteRunning moves the currently-running job from pending to the log,
// attaching returncode/stdout/stderr, and clears CurrentID.
func (q *Queue) CompleteRunning(returnCode int, stdout, stderr string) (Completed, error) {
	if !q.hasCurrent {
		return Completed{}, ErrNotRunning
	}

	head, ok := q.Head()
	if !ok || head.ID != q.currentID {
		// invariant 2 would be violated; refuse rather than reap the wrong job.
		return Completed{}, ErrNotRunning
	}

	c := Completed{
		Job:        head,
		ReturnCode: returnCode,
		Stdout:     stdout,
		Stderr:     stderr,
	}

	q.deleteFromOrder(head.ID)
	delete(q.pending, head.ID)
	q.log[head.ID] = c
	q.hasCurrent = false
	q.lastCompletedID, q.hasLastCompleted = head.ID, true

	return c, nil
}

// LastCompletedID returns the id of the most recently reaped job, if any.
func (q *Queue) LastCompletedID() (ID, bool) {
	return q.lastCompletedID, q.hasLastCompleted
}

// Reset clears the pending queue and resets NextID to 0. It does not touch
// the log — callers rotate the log separately: write it out with
// internal/store.Store.SaveLog(..., true), then clear it with RotateLog.
func (q *Queue) Reset() {
	q.pending = map[ID]Job{}
	q.order = nil
	q.hasCurrent = false
	q.hasLastCompleted = false
	q.nextID = 0
}

// RotateLog clears the in-memory log, returning the entries it held so the
// caller can persist them to a timestamped file first.
func (q *Queue) RotateLog() map[ID]Completed {
	old := q.log
	q.log = map[ID]Completed{}
	return old
}

// Snapshot returns shallow copies of the pending map and the log map, safe
// for the caller to serialize or hand out in a show reply without the
// backing Queue being mutated concurrently (the owner goroutine is the only
// mutator, but callers should not alias internal maps to avoid data races
// when the snapshot is read after a later tick has mutated the queue).
func (q *Queue) Snapshot() (map[ID]Job, map[ID]Completed) {
	pending := make(map[ID]Job, len(q.pending))
	for k, v := range q.pending {
		pending[k] = v
	}
	log := make(map[ID]Completed, len(q.log))
	for k, v := range q.log {
		log[k] = v
	}
	return pending, log
}

// LookupLog returns the completed record for id, if present.
func (q *Queue) LookupLog(id ID) (Completed, bool) {
	c, ok := q.log[id]
	return c, ok
}

// StatusOf derives the externally visible Status of a pending job.
func (q *Queue) StatusOf(j Job) Status {
	if q.hasCurrent && j.ID == q.currentID {
		return StatusRunning
	}
	return StatusQueued
}

// RestoreState seeds a freshly constructed Queue from persisted snapshots
// (internal/store), used at daemon startup. It also derives NextID from the
// maximum id seen across both maps, per invariant 3.
func (q *Queue) RestoreState(pending map[ID]Job, log map[ID]Completed) {
	q.pending = map[ID]Job{}
	q.order = nil
	q.log = map[ID]Completed{}

	var maxID ID
	var any bool

	ids := make([]ID, 0, len(pending))
	for id := range pending {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		q.pending[id] = pending[id]
		q.order = append(q.order, id)
		if !any || id > maxID {
			maxID, any = id, true
		}
	}

	for id, c := range log {
		q.log[id] = c
		if !any || id > maxID {
			maxID, any = id, true
		}
	}

	if any {
		q.nextID = maxID + 1
	} else {
		q.nextID = 0
	}
}
