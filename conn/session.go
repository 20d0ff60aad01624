package conn

import "sync/atomic"

// State is a session's lifecycle stage (§3): new → connecting →
// authenticating → ready → {ready|draining} → closed.
type State int32

const (
	StateNew State = iota
	StateConnecting
	StateAuthenticating
	StateReady
	StateDraining
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateConnecting:
		return "connecting"
	case StateAuthenticating:
		return "authenticating"
	case StateReady:
		return "ready"
	case StateDraining:
		return "draining"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// sessionState is an atomically-readable State, safe to poll from
// Call (any goroutine) while only the engine's own goroutines write it.
type sessionState struct {
	v atomic.Int32
}

func (s *sessionState) set(state State) { s.v.Store(int32(state)) }
func (s *sessionState) get() State       { return State(s.v.Load()) }
