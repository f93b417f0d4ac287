package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matheus3301/modernchat/internal/app"
	"github.com/matheus3301/modernchat/internal/lock"
	"github.com/matheus3301/modernchat/internal/session"
	"github.com/matheus3301/modernchat/internal/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var sessionFlag string
	cmd := &cobra.Command{
		Use:           "modernchat",
		Short:         "Local-first terminal chat",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := run(cmd.Context(), sessionFlag)
			var held *lock.HeldError
			if errors.As(err, &held) {
				fmt.Fprintf(os.Stderr, "error: profile is already open (pid %d); close it or pick another --session\n", held.PID)
			} else if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&sessionFlag, "session", "", "session name (overrides config default)")
	return cmd
}

func run(ctx context.Context, sessionFlag string) (err error) {
	params, err := app.Resolve(sessionFlag)
	if err != nil {
		return err
	}
	beeper := tui.NewBeeper()
	if params.Config.Notifications.Bell {
		params.Player = beeper
	}

	profile, err := app.Start(ctx, params)
	if err != nil {
		return err
	}
	defer func() {
		if stopErr := profile.Stop(); stopErr != nil && err == nil {
			err = fmt.Errorf("shutdown: %w", stopErr)
		}
	}()

	ui, err := tui.New(tui.Options{
		Session:   params.SessionName,
		Backend:   params.Config.Storage.Backend,
		BackupDir: session.BackupDir(params.SessionName),
		Store:     profile.Store,
		Bus:       profile.Bus,
		Machine:   profile.Machine,
		Beeper:    beeper,
		Logger:    profile.Logger,

		IdleTimeout: params.Config.IdleTimeout,
	})
	if err != nil {
		return err
	}
	return ui.Run()
}
