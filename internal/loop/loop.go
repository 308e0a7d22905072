// Package loop is the event loop / scheduler: the single actor that owns all
// daemon mutable state. The spec describes a select(2)-style poll over a
// listening endpoint, connected clients, and the running child; this rewrite
// gets the same guarantee — "within one loop tick no two state-changing
// events are observed" — the idiomatic Go way: one owner goroutine draining
// a channel fed by short-lived per-connection goroutines, selecting
// alongside the running child's exit channel and a heartbeat ticker. The
// spec explicitly sanctions this ("signal-driven reaping... acceptable if
// [it] preserve[s] the ordering guarantee", "a reimplementation MAY split
// client I/O into its own nonblocking read loop").
package loop

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/jrub/queued/internal/connid"
	"github.com/jrub/queued/internal/dispatch"
	"github.com/jrub/queued/internal/queue"
	"github.com/jrub/queued/internal/statemachine"
	"github.com/jrub/queued/internal/store"
	"github.com/jrub/queued/internal/supervisor"
	"github.com/jrub/queued/internal/transport"
)

// Loop wires the queue model, persistence store, and subprocess supervisor
// together behind a single owner goroutine.
type Loop struct {
	q          *queue.Queue
	st         *store.Store
	listener   net.Listener
	socketPath string
	pollPeriod time.Duration

	current *supervisor.Handle
}

// New returns a Loop ready to Run. q and st should already be seeded from
// disk (internal/store.Store.LoadQueue/LoadLog, internal/queue.Queue.RestoreState)
// by the caller, mirroring the teacher's Server.New / New pattern.
func New(q *queue.Queue, st *store.Store, listener net.Listener, socketPath string, pollPeriod time.Duration) *Loop {
	return &Loop{
		q:          q,
		st:         st,
		listener:   listener,
		socketPath: socketPath,
		pollPeriod: pollPeriod,
	}
}

type connRequest struct {
	req     dispatch.Request
	replyCh chan dispatch.Reply
}

// Run accepts connections and services requests until ctx is canceled or an
// EXIT request is processed. On return, the listener is closed and its
// socket file unlinked — the spec's shutdown contract. A live child is not
// killed on EXIT or on ctx cancellation, mirroring the spec's documented
// Open Question resolution.
func (l *Loop) Run(ctx context.Context) error {
	requests := make(chan connRequest)
	go l.acceptLoop(requests)

	ticker := time.NewTicker(l.pollPeriod)
	defer ticker.Stop()

	defer l.shutdown()

	for {
		var childDone <-chan struct{}
		if l.current != nil {
			childDone = l.current.Done()
		}

		select {
		case cr := <-requests:
			exit := l.handle(cr)
			if exit {
				return nil
			}

		case <-childDone:
			l.reap()

		case <-ticker.C:
			// Backup poll: make progress even if a request's or the child's
			// event was somehow missed, regardless of what the state machine
			// would otherwise gate a promotion on.
			l.reap()
			l.promote()

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// handle runs one request through the dispatcher to completion before
// returning, per the spec's "each request is processed to completion before
// any other state transition occurs" ordering guarantee. It returns true if
// this was an EXIT request.
func (l *Loop) handle(cr connRequest) bool {
	reply, effects := dispatch.Dispatch(l.q, dispatch.State{ChildAlive: l.current != nil}, cr.req, l.saveQueue, l.saveLog)
	cr.replyCh <- reply

	if effects.TerminateChild && l.current != nil {
		if err := l.current.Terminate(); err != nil {
			slog.Warn("error terminating child", "err", err)
		}
	}
	if effects.KillChild && l.current != nil {
		if err := l.current.Kill(); err != nil {
			slog.Warn("error killing child", "err", err)
		}
	}
	if effects.SpawnNext {
		l.promote()
	}

	return effects.Exit
}

// reap observes the current child's exit, if any, drains its output, and
// moves its record from queue to log.
func (l *Loop) reap() {
	if l.current == nil || !l.current.Poll() {
		return
	}

	cur := statemachine.Of(l.q.Paused(), true)

	result, err := l.current.Collect()
	l.current = nil
	if err != nil {
		slog.Warn("error collecting child output", "err", err)
		return
	}

	if _, err := l.q.CompleteRunning(result.ReturnCode, result.Stdout, result.Stderr); err != nil {
		// The job was already removed from the queue by a remove-decorated
		// STOP/KILL before it finished exiting: nothing to reap into the log.
		slog.Warn("child exited with no matching running job to complete", "err", err)
	} else {
		l.saveQueue()
		l.saveLog(false)
	}

	if statemachine.Transition(cur, statemachine.EventChildExited) == statemachine.EffectSpawnNext {
		l.promote()
	}
}

// promote spawns the queue head if the daemon isn't paused, nothing is
// currently running, and there is a head to spawn.
func (l *Loop) promote() {
	if l.current != nil || l.q.Paused() {
		return
	}

	head, ok := l.q.Head()
	if !ok {
		return
	}

	h, err := supervisor.Spawn(head.Command, head.Path)
	if err != nil {
		// Spawn failure (error kind 5): the job is immediately completed with
		// a synthetic exit code so the queue advances instead of jamming on a
		// head that can never start.
		if _, ok := l.q.PromoteHeadToRunning(); !ok {
			return
		}
		if _, cerr := l.q.CompleteRunning(-1, "", err.Error()); cerr != nil {
			slog.Warn("failed to record spawn failure", "err", cerr)
		}
		l.saveQueue()
		l.saveLog(false)
		return
	}

	l.q.PromoteHeadToRunning()
	l.current = h
}

func (l *Loop) saveQueue() {
	pending, _ := l.q.Snapshot()
	l.st.SaveQueue(pending)
}

func (l *Loop) saveLog(rotate bool) {
	_, log := l.q.Snapshot()
	l.st.SaveLog(log, rotate)
}

func (l *Loop) shutdown() {
	_ = l.listener.Close()
}

func (l *Loop) acceptLoop(out chan<- connRequest) {
	for {
		conn, err := l.listener.Accept()
		if err != nil {
			return
		}
		go handleConn(conn, out)
	}
}

func handleConn(conn net.Conn, out chan<- connRequest) {
	defer conn.Close()

	cid, _ := connid.New()

	req, err := transport.ReadRequest(conn)
	if err != nil {
		slog.Warn("dropping malformed request", "conn", cid.String(), "err", err)
		return
	}

	replyCh := make(chan dispatch.Reply, 1)
	out <- connRequest{req: req, replyCh: replyCh}
	reply := <-replyCh

	if err := transport.WriteReply(conn, reply); err != nil {
		slog.Warn("error writing reply", "conn", cid.String(), "err", err)
	}
}
