// Package notify raises the best-effort side effects of a new message:
// a tone and a desktop notice.
package notify

import (
	"go.uber.org/zap"
)

// Alert describes what to raise for one message.
type Alert struct {
	Sound   bool
	Desktop bool
	Title   string
	Body    string
}

// Player plays the notification tone.
type Player interface {
	Play() error
}

// Desktop shows a desktop notification, subject to permission.
type Desktop interface {
	Notify(title, body string) error
}

// Dispatcher fans an Alert out to its Player and Desktop. Failures are
// logged and never returned.
type Dispatcher struct {
	player  Player
	desktop Desktop
	logger  *zap.Logger
}

// NewDispatcher creates a Dispatcher. Nil player or desktop disables
// that side effect.
func NewDispatcher(player Player, desktop Desktop, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{player: player, desktop: desktop, logger: logger}
}

// Alert raises the requested side effects.
func (d *Dispatcher) Alert(a Alert) {
	if d == nil {
		return
	}
	if a.Sound && d.player != nil {
		if err := d.player.Play(); err != nil {
			d.logger.Warn("notification tone failed", zap.Error(err))
		}
	}
	if a.Desktop && d.desktop != nil {
		if err := d.desktop.Notify(a.Title, a.Body); err != nil {
			d.logger.Warn("desktop notification failed", zap.String("title", a.Title), zap.Error(err))
		}
	}
}
