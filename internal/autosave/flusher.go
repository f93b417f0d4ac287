// Package autosave periodically flushes the chat state to storage and
// once more on shutdown.
package autosave

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Target is the state that gets flushed.
type Target interface {
	Flush() error
	SignedIn() bool
}

// Flusher drives Target.Flush on a fixed interval while a user is
// signed in, and unconditionally on Stop.
type Flusher struct {
	target   Target
	interval time.Duration
	logger   *zap.Logger
	// onFlush, when set, observes the outcome of every flush.
	onFlush func(error)

	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
}

// NewFlusher creates a Flusher. interval must be positive.
func NewFlusher(target Target, interval time.Duration, logger *zap.Logger, onFlush func(error)) *Flusher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Flusher{
		target:   target,
		interval: interval,
		logger:   logger,
		onFlush:  onFlush,
	}
}

// Start begins the flush loop.
func (f *Flusher) Start(ctx context.Context) {
	ctx, f.cancel = context.WithCancel(ctx)
	f.done = make(chan struct{})
	go f.loop(ctx)
}

// Stop ends the loop and performs the teardown flush. Safe to call more
// than once; only the first call flushes.
func (f *Flusher) Stop() error {
	var err error
	f.stopOnce.Do(func() {
		if f.cancel != nil {
			f.cancel()
			<-f.done
		}
		err = f.flush("shutdown")
	})
	return err
}

func (f *Flusher) loop(ctx context.Context) {
	defer close(f.done)
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if f.target.SignedIn() {
				_ = f.flush("interval")
			}
		case <-ctx.Done():
			return
		}
	}
}

func (f *Flusher) flush(reason string) error {
	err := f.target.Flush()
	if err != nil {
		f.logger.Error("autosave flush failed", zap.String("reason", reason), zap.Error(err))
	} else {
		f.logger.Debug("autosave flushed", zap.String("reason", reason))
	}
	if f.onFlush != nil {
		f.onFlush(err)
	}
	return err
}
