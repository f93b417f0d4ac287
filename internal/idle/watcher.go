// Package idle fires a callback once input has been absent for a fixed
// timeout.
package idle

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Watcher calls onIdle when Touch has not been called for timeout. It
// fires at most once per idle period; the next Touch re-arms it.
type Watcher struct {
	timeout time.Duration
	onIdle  func()
	logger  *zap.Logger

	touch    chan struct{}
	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
}

// NewWatcher creates a Watcher. A zero timeout yields a Watcher that
// never fires.
func NewWatcher(timeout time.Duration, logger *zap.Logger, onIdle func()) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		timeout: timeout,
		onIdle:  onIdle,
		logger:  logger,
		touch:   make(chan struct{}, 1),
	}
}

// Touch records activity. It never blocks.
func (w *Watcher) Touch() {
	select {
	case w.touch <- struct{}{}:
	default:
	}
}

// Start arms the timer.
func (w *Watcher) Start(ctx context.Context) {
	if w.timeout <= 0 {
		return
	}
	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	go w.loop(ctx)
}

// Stop ends the loop. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		if w.cancel != nil {
			w.cancel()
			<-w.done
		}
	})
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)
	timer := time.NewTimer(w.timeout)
	defer timer.Stop()

	armed := true
	for {
		select {
		case <-w.touch:
			timer.Reset(w.timeout)
			armed = true
		case <-timer.C:
			if armed {
				armed = false
				w.logger.Info("idle timeout reached", zap.Duration("timeout", w.timeout))
				w.onIdle()
			}
		case <-ctx.Done():
			return
		}
	}
}
