package status

import (
	"fmt"
	"slices"
	"sync"

	"github.com/matheus3301/modernchat/internal/bus"
)

// State represents the lifecycle state of a local profile.
type State string

const (
	Booting   State = "BOOTING"
	Loading   State = "LOADING"
	SignedOut State = "SIGNED_OUT"
	Ready     State = "READY"
	// Degraded means the last flush to local storage failed; state is
	// still served from memory.
	Degraded State = "DEGRADED"
	Closed   State = "CLOSED"
)

// validTransitions defines allowed state transitions.
var validTransitions = map[State][]State{
	Booting:   {Loading, Closed},
	Loading:   {SignedOut, Ready, Degraded, Closed},
	SignedOut: {Ready, Degraded, Closed},
	Ready:     {SignedOut, Degraded, Closed},
	Degraded:  {Ready, SignedOut, Closed},
	Closed:    {},
}

// Machine tracks and enforces profile state transitions.
type Machine struct {
	mu      sync.RWMutex
	current State
	bus     *bus.Bus
}

// NewMachine creates a new state machine starting in Booting state.
func NewMachine(b *bus.Bus) *Machine {
	return &Machine{
		current: Booting,
		bus:     b,
	}
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Transition attempts to move to a new state. Returns error if transition is invalid.
func (m *Machine) Transition(to State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !slices.Contains(validTransitions[m.current], to) {
		return fmt.Errorf("invalid transition from %s to %s", m.current, to)
	}
	from := m.current
	m.current = to
	m.bus.Publish(bus.NewEvent(bus.KindStatusChanged, StatusChange{From: from, To: to}))
	return nil
}

// Settle moves to the state implied by the sign-in and flush outcome,
// doing nothing if the machine is already there.
func (m *Machine) Settle(signedIn bool, flushErr error) error {
	target := SignedOut
	switch {
	case signedIn && flushErr != nil:
		target = Degraded
	case signedIn:
		target = Ready
	}
	if m.Current() == target {
		return nil
	}
	return m.Transition(target)
}

// StatusChange is the payload for status change events.
type StatusChange struct {
	From State
	To   State
}
