package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/matheus3301/modernchat/internal/bus"
	"github.com/matheus3301/modernchat/internal/chat"
	"github.com/matheus3301/modernchat/internal/config"
	"github.com/matheus3301/modernchat/internal/session"
	"github.com/matheus3301/modernchat/internal/status"
)

// Resolve loads .env from the working directory, the config file and
// the session name, in that order, for a binary about to start.
func Resolve(sessionFlag string) (Params, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Params{}, fmt.Errorf("load .env: %w", err)
	}
	cfg, err := config.Resolve(session.ConfigPath())
	if err != nil {
		return Params{}, err
	}
	name, err := session.Resolve(sessionFlag, cfg)
	if err != nil {
		return Params{}, err
	}
	return Params{SessionName: name, Config: cfg}, nil
}

// Profile is a started profile for a front end to drive.
type Profile struct {
	Params  Params
	Store   *chat.Store
	Bus     *bus.Bus
	Machine *status.Machine
	Logger  *zap.Logger

	app *fx.App
}

// Start builds the profile described by p and runs its start hooks.
// A profile already open in another process fails with *lock.HeldError.
func Start(ctx context.Context, p Params) (*Profile, error) {
	pr := &Profile{Params: p}
	pr.app = fx.New(
		Module(p),
		Logger(),
		fx.Populate(&pr.Store, &pr.Bus, &pr.Machine, &pr.Logger),
	)
	if err := pr.app.Err(); err != nil {
		return nil, err
	}
	if err := pr.app.Start(ctx); err != nil {
		return nil, err
	}
	return pr, nil
}

// Stop flushes and releases the profile, bounded by StopTimeout.
func (pr *Profile) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), StopTimeout)
	defer cancel()
	return pr.app.Stop(ctx)
}
