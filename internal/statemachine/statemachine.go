// Package statemachine is the explicit policy of what daemon state
// transitions are legal, factored out of internal/dispatch and internal/loop
// so the four-state table the spec calls out (idle / running / paused-idle /
// paused-running) lives in exactly one place.
package statemachine

// State is one of the four daemon states: the cross product of "paused" and
// "a child is alive".
type State int

const (
	Idle State = iota
	Running
	PausedIdle
	PausedRunning
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case PausedIdle:
		return "paused-idle"
	case PausedRunning:
		return "paused-running"
	default:
		return "unknown"
	}
}

// Of derives the current State from the two primitive booleans the daemon
// actually tracks (queue.Queue.Paused / queue.Queue.CurrentID presence).
func Of(paused, childAlive bool) State {
	switch {
	case paused && childAlive:
		return PausedRunning
	case paused:
		return PausedIdle
	case childAlive:
		return Running
	default:
		return Idle
	}
}

// Event is a control command or internal occurrence that may move the
// daemon between states.
type Event int

const (
	EventStart Event = iota
	EventPause
	EventStop
	EventKill
	EventChildExited
	EventReset
)

// SideEffect describes what the supervisor must be told to do as a
// consequence of a transition. The dispatcher and event loop translate these
// into actual supervisor.Handle calls; this package only decides policy.
type SideEffect int

const (
	EffectNone SideEffect = iota
	EffectTerminateChild
	EffectKillChild
	EffectSpawnNext
)

// Transition reports the side effect of event given the daemon is currently
// in state cur. It does not return a new State directly — the new State is
// always re-derived from Of() after the side effect and any resulting queue
// mutation are applied, since "child alive" can only be known authoritatively
// from the supervisor/queue, not predicted by this table alone (e.g.
// EventStart in PausedIdle only becomes Running if the queue is non-empty).
func Transition(cur State, event Event) SideEffect {
	switch event {
	case EventPause:
		return EffectNone
	case EventStart:
		if cur == PausedIdle || cur == Idle {
			return EffectSpawnNext
		}
		return EffectNone
	case EventStop:
		if cur == Running || cur == PausedRunning {
			return EffectTerminateChild
		}
		return EffectNone
	case EventKill:
		if cur == Running || cur == PausedRunning {
			return EffectKillChild
		}
		return EffectNone
	case EventChildExited:
		return EffectSpawnNext
	case EventReset:
		if cur == Running || cur == PausedRunning {
			return EffectTerminateChild
		}
		return EffectNone
	default:
		return EffectNone
	}
}
