package tui

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Beeper plays the notification tone by ringing the terminal bell
// through the TUI's screen. It is silent until the screen exists.
type Beeper struct {
	mu     sync.Mutex
	screen tcell.Screen
}

// NewBeeper returns a Beeper with no screen attached.
func NewBeeper() *Beeper {
	return &Beeper{}
}

func (b *Beeper) attach(s tcell.Screen) {
	b.mu.Lock()
	b.screen = s
	b.mu.Unlock()
}

// Play implements notify.Player.
func (b *Beeper) Play() error {
	b.mu.Lock()
	s := b.screen
	b.mu.Unlock()
	if s == nil {
		return nil
	}
	return s.Beep()
}
