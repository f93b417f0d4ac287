package status

import (
	"errors"
	"testing"

	"github.com/matheus3301/modernchat/internal/bus"
)

func TestInitialState(t *testing.T) {
	m := NewMachine(nil)
	if m.Current() != Booting {
		t.Errorf("initial state = %s, want BOOTING", m.Current())
	}
}

func TestValidTransitions(t *testing.T) {
	tests := []struct {
		from State
		to   State
	}{
		{Booting, Loading},
		{Loading, SignedOut},
		{Loading, Ready},
		{Loading, Degraded},
		{SignedOut, Ready},
		{Ready, SignedOut},
		{Ready, Degraded},
		{Degraded, Ready},
		{Ready, Closed},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			m := NewMachine(nil)
			walkTo(t, m, tt.from)
			if err := m.Transition(tt.to); err != nil {
				t.Errorf("Transition(%s -> %s) error = %v", tt.from, tt.to, err)
			}
			if m.Current() != tt.to {
				t.Errorf("state = %s, want %s", m.Current(), tt.to)
			}
		})
	}
}

func TestInvalidTransition(t *testing.T) {
	m := NewMachine(nil)
	if err := m.Transition(Ready); err == nil {
		t.Error("Transition(BOOTING -> READY) should fail")
	}
	if m.Current() != Booting {
		t.Errorf("state = %s, want BOOTING after rejected transition", m.Current())
	}
}

func TestClosedIsTerminal(t *testing.T) {
	m := NewMachine(nil)
	walkTo(t, m, Ready)
	if err := m.Transition(Closed); err != nil {
		t.Fatal(err)
	}
	for _, to := range []State{Booting, Loading, Ready, SignedOut} {
		if err := m.Transition(to); err == nil {
			t.Errorf("Transition(CLOSED -> %s) should fail", to)
		}
	}
}

func TestTransitionEmitsEvent(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("session.", 10)
	defer unsub()

	m := NewMachine(b)
	if err := m.Transition(Loading); err != nil {
		t.Fatal(err)
	}

	evt := <-ch
	if evt.Kind != bus.KindStatusChanged {
		t.Errorf("event kind = %q, want %s", evt.Kind, bus.KindStatusChanged)
	}
	change, ok := evt.Payload.(StatusChange)
	if !ok {
		t.Fatalf("payload type = %T, want StatusChange", evt.Payload)
	}
	if change.From != Booting || change.To != Loading {
		t.Errorf("change = %v -> %v, want BOOTING -> LOADING", change.From, change.To)
	}
}

func TestSettle(t *testing.T) {
	tests := []struct {
		name     string
		signedIn bool
		flushErr error
		want     State
	}{
		{"signed out", false, nil, SignedOut},
		{"ready", true, nil, Ready},
		{"degraded", true, errors.New("disk full"), Degraded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine(nil)
			walkTo(t, m, Loading)
			if err := m.Settle(tt.signedIn, tt.flushErr); err != nil {
				t.Fatalf("Settle() error = %v", err)
			}
			if m.Current() != tt.want {
				t.Errorf("state = %s, want %s", m.Current(), tt.want)
			}
			if err := m.Settle(tt.signedIn, tt.flushErr); err != nil {
				t.Errorf("second Settle() error = %v", err)
			}
		})
	}
}

// TestDegradedRecovers walks a profile whose flush fails once and then
// succeeds: READY -> DEGRADED -> READY.
func TestDegradedRecovers(t *testing.T) {
	m := NewMachine(nil)
	walkTo(t, m, Ready)

	if err := m.Settle(true, errors.New("quota")); err != nil {
		t.Fatal(err)
	}
	if err := m.Settle(true, nil); err != nil {
		t.Fatal(err)
	}
	if m.Current() != Ready {
		t.Errorf("state = %s, want READY", m.Current())
	}
}

// walkTo is a helper that transitions the machine to a target state.
func walkTo(t *testing.T, m *Machine, target State) {
	t.Helper()
	paths := map[State][]State{
		Booting:   {},
		Loading:   {Loading},
		SignedOut: {Loading, SignedOut},
		Ready:     {Loading, Ready},
		Degraded:  {Loading, Degraded},
		Closed:    {Closed},
	}
	for _, s := range paths[target] {
		if err := m.Transition(s); err != nil {
			t.Fatalf("walkTo(%s): %v", target, err)
		}
	}
}
