package batcher

import "fmt"

// State is the lifecycle phase of a BatchBuffer.
// Transitions are monotonic: Accepting -> Draining -> Completed.
type State int32

const (
	// StateAccepting is the initial state; Feed is accepted.
	StateAccepting State = iota
	// StateDraining is entered by Close; the remainder has been emitted and
	// the consumer is working through its backlog.
	StateDraining
	// StateCompleted means the consumer has exited and Close has returned.
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateAccepting:
		return "accepting"
	case StateDraining:
		return "draining"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// MarshalText renders the state name, e.g. in JSON status payloads.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for _, c := range []State{StateAccepting, StateDraining, StateCompleted} {
		if c.String() == string(text) {
			*s = c
			return nil
		}
	}
	return fmt.Errorf("batcher: unknown state %q", text)
}
