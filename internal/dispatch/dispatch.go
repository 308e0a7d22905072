// Package dispatch implements the request dispatcher: it decodes a request
// already parsed from the wire (framing is internal/transport's job, an
// out-of-scope collaborator per the spec), validates it against current
// state, mutates the queue/log model, and produces a reply.
package dispatch

import (
	"fmt"

	"github.com/jrub/queued/internal/queue"
	"github.com/jrub/queued/internal/statemachine"
)

// Mode values mirror the spec's request schema exactly.
const (
	ModeAdd    = "add"
	ModeRemove = "remove"
	ModeShow   = "show"
	ModeReset  = "reset"
	ModeStart  = "START"
	ModePause  = "PAUSE"
	ModeStop   = "STOP"
	ModeKill   = "KILL"
	ModeExit   = "EXIT"
)

// IndexAll is the only recognized value of Request.Index that populates a
// show reply's Data field ("Integer-indexed show is under-specified" per the
// spec's Open Questions — any other index value returns an empty Data).
const IndexAll = "all"

// Request is the decoded, type-appropriate payload the transport codec hands
// to Dispatch.
type Request struct {
	Mode    string
	Command string   // add
	Path    string   // add
	Key     queue.ID // remove, remove-decorated STOP/KILL
	Index   string   // show: "all" or anything else
	Remove  bool     // optional decoration on STOP/KILL
}

// JobView is a client-facing rendering of either a pending Job or a
// Completed record, used in a show reply's Data field.
type JobView struct {
	ID         queue.ID
	Command    string
	Path       string
	Status     string
	ReturnCode *int
	Stdout     string
	Stderr     string
}

// ShowData is the payload of a show reply's Data field. Empty mirrors the
// spec's "Queue is empty" sentinel string.
type ShowData struct {
	Empty bool
	Jobs  map[queue.ID]JobView
}

// ShowReply is the structured record the spec's show mode returns.
type ShowReply struct {
	Process string // "running" | "finished" | "no process"
	Status  string // "paused" | "running"
	Current string // exit code formatted as a string, or "No exitcode"
	Data    ShowData
}

// Reply is what Dispatch returns: either a plain status/error string, or,
// for show, a ShowReply.
type Reply struct {
	Text string
	Show *ShowReply
}

// Effects tells the caller (internal/loop) what to do to the supervisor and
// event loop as a consequence of a dispatched request; Dispatch itself never
// touches a supervisor.Handle; it decides policy and the loop carries it out,
// so the currently-running child's liveness is reported in, not fetched by,
// this package.
type Effects struct {
	TerminateChild bool
	KillChild      bool
	SpawnNext      bool
	Exit           bool
}

// State is the subset of daemon/child state Dispatch needs to know, supplied
// by the caller each call since only internal/loop tracks the live
// supervisor.Handle.
type State struct {
	ChildAlive bool
}

// Dispatch applies req to q, persisting any durable mutation via save/saveLog
// callbacks, and returns the reply to send back plus any side effects the
// event loop must carry out. save persists the pending map; saveLog persists
// the completed map with the given rotate flag — both are no-ops to call
// when nothing durable changed.
func Dispatch(q *queue.Queue, st State, req Request, save func(), saveLog func(rotate bool)) (Reply, Effects) {
	switch req.Mode {
	case ModeAdd:
		q.Add(req.Command, req.Path)
		save()
		return Reply{Text: "Command added"}, Effects{SpawnNext: true}

	case ModeRemove:
		if err := q.Remove(req.Key); err != nil {
			return Reply{Text: err.Error()}, Effects{}
		}
		save()
		return Reply{Text: fmt.Sprintf("Command #%d removed", req.Key)}, Effects{}

	case ModeShow:
		return Reply{Show: buildShow(q, st, req)}, Effects{}

	case ModeReset:
		cur := statemachine.Of(q.Paused(), st.ChildAlive)
		eff := effectsFrom(statemachine.Transition(cur, statemachine.EventReset))
		q.Reset()
		save()
		saveLog(true)
		q.RotateLog()
		return Reply{Text: "Reseting current queue"}, eff

	case ModeStart:
		if !q.Paused() {
			return Reply{Text: "Daemon alrady started"}, Effects{}
		}
		cur := statemachine.Of(q.Paused(), st.ChildAlive)
		q.Start()
		eff := effectsFrom(statemachine.Transition(cur, statemachine.EventStart))
		return Reply{Text: "Daemon started"}, eff

	case ModePause:
		if q.Paused() {
			return Reply{Text: "Daemon already paused"}, Effects{}
		}
		q.Pause()
		return Reply{Text: "Daemon paused"}, Effects{}

	case ModeStop:
		return dispatchSignal(q, st, req, false, save)

	case ModeKill:
		return dispatchSignal(q, st, req, true, save)

	case ModeExit:
		return Reply{Text: "queued daemon shutting down"}, Effects{Exit: true}

	default:
		return Reply{Text: fmt.Sprintf("unrecognized mode %q", req.Mode)}, Effects{}
	}
}

// dispatchSignal implements STOP (kill=false) and KILL (kill=true),
// including the remove-decorated composite variant.
func dispatchSignal(q *queue.Queue, st State, req Request, kill bool, save func()) (Reply, Effects) {
	var (
		text string
		eff  Effects
	)

	cur := statemachine.Of(q.Paused(), st.ChildAlive)
	event := statemachine.EventStop
	if kill {
		event = statemachine.EventKill
	}

	// spec.md §4.D: STOP/KILL always pause the daemon, whether or not a
	// child is currently alive to signal.
	q.Pause()

	if st.ChildAlive {
		eff = effectsFrom(statemachine.Transition(cur, event))
		if kill {
			text = "Sent kill to process and paused daemon"
		} else {
			text = "Terminating current process and pausing"
		}
	} else if kill {
		text = "Process just terminated on it's own"
	} else {
		text = "No process running, pausing daemon"
	}

	if req.Remove {
		if err := q.Remove(req.Key); err == nil {
			// The removed job is no longer the head: the spec calls for the
			// daemon to resume rather than sit paused over a queue it just
			// discarded the blocking entry from.
			q.Start()
			save()
			eff.SpawnNext = true
		}
	}

	return Reply{Text: text}, eff
}

// effectsFrom translates a statemachine.SideEffect into the Effects shape
// internal/loop actually acts on.
func effectsFrom(se statemachine.SideEffect) Effects {
	switch se {
	case statemachine.EffectTerminateChild:
		return Effects{TerminateChild: true}
	case statemachine.EffectKillChild:
		return Effects{KillChild: true}
	case statemachine.EffectSpawnNext:
		return Effects{SpawnNext: true}
	default:
		return Effects{}
	}
}

func buildShow(q *queue.Queue, st State, req Request) *ShowReply {
	r := &ShowReply{Current: "No exitcode"}

	if st.ChildAlive {
		r.Process = "running"
	} else if id, ok := q.LastCompletedID(); ok {
		if _, inLog := q.LookupLog(id); inLog {
			r.Process = "finished"
		} else {
			r.Process = "no process"
		}
	} else {
		r.Process = "no process"
	}

	if q.Paused() {
		r.Status = "paused"
	} else {
		r.Status = "running"
	}

	if id, ok := q.LastCompletedID(); ok {
		if c, inLog := q.LookupLog(id); inLog {
			r.Current = fmt.Sprintf("%d", c.ReturnCode)
		}
	}

	if req.Index != IndexAll {
		r.Data = ShowData{Empty: false, Jobs: nil}
		return r
	}

	pending, log := q.Snapshot()
	if len(pending) == 0 && len(log) == 0 {
		r.Data = ShowData{Empty: true}
		return r
	}

	jobs := make(map[queue.ID]JobView, len(pending))
	for id, j := range pending {
		jobs[id] = JobView{
			ID:      id,
			Command: j.Command,
			Path:    j.Path,
			Status:  q.StatusOf(j).String(),
		}
	}
	for id, c := range log {
		rc := c.ReturnCode
		status := queue.StatusDone
		if c.Failed() {
			status = queue.StatusFailed
		}
		jobs[id] = JobView{
			ID:         id,
			Command:    c.Command,
			Path:       c.Path,
			Status:     status.String(),
			ReturnCode: &rc,
			Stdout:     c.Stdout,
			Stderr:     c.Stderr,
		}
	}

	r.Data = ShowData{Jobs: jobs}
	return r
}
