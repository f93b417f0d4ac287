// Package app wires every component of a local profile together and
// owns their lifecycle.
package app

import (
	"context"
	"os"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/matheus3301/modernchat/internal/autosave"
	"github.com/matheus3301/modernchat/internal/bus"
	"github.com/matheus3301/modernchat/internal/chat"
	"github.com/matheus3301/modernchat/internal/config"
	"github.com/matheus3301/modernchat/internal/lock"
	"github.com/matheus3301/modernchat/internal/logging"
	"github.com/matheus3301/modernchat/internal/notify"
	"github.com/matheus3301/modernchat/internal/persist"
	"github.com/matheus3301/modernchat/internal/remote"
	"github.com/matheus3301/modernchat/internal/session"
	"github.com/matheus3301/modernchat/internal/status"
	"github.com/matheus3301/modernchat/internal/store"
)

// Params holds the resolved session configuration passed to the fx module.
type Params struct {
	SessionName string
	Config      *config.Config
	// Console mirrors logs to stderr. The TUI leaves it off.
	Console bool
	// ConsoleLevel filters the stderr mirror; empty means the config level.
	ConsoleLevel string
	// Player overrides the notification tone, e.g. with the TUI's screen
	// beep. Nil falls back to the terminal bell on stderr.
	Player notify.Player
}

// Module returns the fx module for a profile, composing all providers and lifecycle hooks.
func Module(p Params) fx.Option {
	if p.Config == nil {
		p.Config = config.Default()
	}
	return fx.Module("modernchat",
		fx.Supply(p),
		fx.Provide(
			provideLogger,
			provideBus,
			provideStateMachine,
			provideLock,
			provideBackend,
			providePersist,
			provideDesktop,
			provideDispatcher,
			provideStore,
			provideFlusher,
			provideRemote,
			provideMirror,
		),
		fx.Invoke(registerLifecycle),
	)
}

// Logger routes fx's own events into the profile log.
func Logger() fx.Option {
	return fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: logger.Named("fx")}
	})
}

func provideLogger(p Params) (*zap.Logger, error) {
	return logging.New(logging.Options{
		Path:         session.LogPath(p.SessionName),
		Session:      p.SessionName,
		Level:        p.Config.LogLevel,
		Console:      p.Console,
		ConsoleLevel: p.ConsoleLevel,
	})
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideStateMachine(b *bus.Bus) *status.Machine {
	return status.NewMachine(b)
}

func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	if err := session.EnsureDir(p.SessionName); err != nil {
		return nil, err
	}
	logger.Info("acquiring session lock", zap.String("session", p.SessionName))
	l, err := lock.Acquire(session.Dir(p.SessionName))
	if err != nil {
		return nil, err
	}
	logger.Info("session lock acquired")
	return l, nil
}

// provideBackend takes the lock as a dependency so storage is never
// opened by a second process.
func provideBackend(p Params, _ *lock.Lock, logger *zap.Logger) (store.Backend, error) {
	opts := store.Options{Kind: store.Kind(p.Config.Storage.Backend)}
	switch opts.Kind {
	case store.KindPebble:
		opts.Path = session.KVDir(p.SessionName)
	default:
		opts.Path = session.DBPath(p.SessionName)
	}
	b, err := store.Open(opts)
	if err != nil {
		return nil, err
	}
	logger.Info("store initialized", zap.String("backend", string(opts.Kind)), zap.String("path", opts.Path))
	return b, nil
}

func providePersist(p Params, b store.Backend, logger *zap.Logger) *persist.Adapter {
	return persist.New(b, p.Config.Storage.QuotaBytes, logger.Named("persist"))
}

func provideDesktop(p Params, b *bus.Bus) (*notify.BusDesktop, error) {
	perm, err := notify.ParsePermission(p.Config.Notifications.DesktopPermission)
	if err != nil {
		return nil, err
	}
	return notify.NewBusDesktop(b, perm, p.Config.Notifications.GrantOnRequest), nil
}

func provideDispatcher(p Params, desktop *notify.BusDesktop, logger *zap.Logger) *notify.Dispatcher {
	var player notify.Player
	switch {
	case p.Player != nil:
		player = p.Player
	case p.Config.Notifications.Bell:
		player = notify.NewBell(os.Stderr)
	}
	return notify.NewDispatcher(player, desktop, logger.Named("notify"))
}

func provideStore(p Params, a *persist.Adapter, b *bus.Bus, d *notify.Dispatcher, logger *zap.Logger) *chat.Store {
	return chat.NewStore(chat.Options{
		Persist:  a,
		Bus:      b,
		Alerter:  d,
		Logger:   logger.Named("chat"),
		LinkBase: p.Config.LinkBaseURL,
	})
}

func provideFlusher(p Params, s *chat.Store, m *status.Machine, logger *zap.Logger) *autosave.Flusher {
	return autosave.NewFlusher(s, p.Config.AutosaveInterval, logger.Named("autosave"), func(err error) {
		if m.Current() == status.Closed {
			return
		}
		if settleErr := m.Settle(s.SignedIn(), err); settleErr != nil {
			logger.Debug("status unchanged after flush", zap.Error(settleErr))
		}
	})
}

func provideRemote(b *bus.Bus) remote.Service {
	return remote.NewMemory(b)
}

func provideMirror(svc remote.Service, b *bus.Bus, s *chat.Store, logger *zap.Logger) *remote.Mirror {
	return remote.NewMirror(svc, b, s, logger.Named("mirror"))
}

func registerLifecycle(lc fx.Lifecycle, p Params, lk *lock.Lock, backend store.Backend, s *chat.Store, flusher *autosave.Flusher, mirror *remote.Mirror, machine *status.Machine, b *bus.Bus, logger *zap.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			_ = machine.Transition(status.Loading)
			loadErr := s.Load()
			if loadErr != nil {
				logger.Warn("state loaded with fallbacks", zap.Error(loadErr))
			}
			_ = machine.Settle(s.SignedIn(), nil)

			go trackAccount(ctx, b, s, machine)
			flusher.Start(ctx)
			if p.Config.Remote.Enabled {
				mirror.Start(ctx)
			}
			logger.Info("profile started",
				zap.String("status", string(machine.Current())),
				zap.Duration("autosave_interval", p.Config.AutosaveInterval),
			)
			return nil
		},
		OnStop: func(_ context.Context) error {
			mirror.Stop()
			flushErr := flusher.Stop()
			cancel()
			_ = machine.Transition(status.Closed)
			if err := backend.Close(); err != nil {
				logger.Warn("error closing store", zap.Error(err))
			}
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("profile stopped", zap.Uint64("bus_dropped", b.Dropped()))
			_ = logger.Sync()
			return flushErr
		},
	})
}

// trackAccount keeps the status machine in step with sign-in changes.
func trackAccount(ctx context.Context, b *bus.Bus, s *chat.Store, m *status.Machine) {
	ch, unsub := b.Subscribe("account.", 16)
	defer unsub()
	for {
		select {
		case <-ch:
			if m.Current() != status.Closed {
				_ = m.Settle(s.SignedIn(), nil)
			}
		case <-ctx.Done():
			return
		}
	}
}

// StopTimeout bounds the shutdown flush.
const StopTimeout = 10 * time.Second
