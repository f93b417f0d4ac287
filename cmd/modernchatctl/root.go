package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/matheus3301/modernchat/internal/app"
	"github.com/matheus3301/modernchat/internal/chat"
	"github.com/matheus3301/modernchat/internal/lock"
	"github.com/matheus3301/modernchat/internal/persist"
)

// cli holds the persistent flags shared by every command.
type cli struct {
	session string
	json    bool
	verbose bool
	now     func() time.Time
}

func newRootCmd() *cobra.Command {
	c := &cli{now: time.Now}
	cmd := &cobra.Command{
		Use:           "modernchatctl",
		Short:         "Script a modernchat profile from the shell",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&c.session, "session", "", "session name (overrides config default)")
	cmd.PersistentFlags().BoolVar(&c.json, "json", false, "output in JSON format")
	cmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log info lines to stderr")

	cmd.AddCommand(newSignInCmd(c))
	cmd.AddCommand(newSignOutCmd(c))
	cmd.AddCommand(newWhoAmICmd(c))
	cmd.AddCommand(newProfileCmd(c))
	cmd.AddCommand(newContactsCmd(c))
	cmd.AddCommand(newLinkCmd(c))
	cmd.AddCommand(newChatsCmd(c))
	cmd.AddCommand(newSendCmd(c))
	cmd.AddCommand(newSearchCmd(c))
	cmd.AddCommand(newExportCmd(c))
	cmd.AddCommand(newImportCmd(c))
	cmd.AddCommand(newSettingsCmd(c))
	cmd.AddCommand(newDeleteAccountCmd(c))
	return cmd
}

// withProfile opens the profile for the length of fn. The profile's
// shutdown flush error is reported alongside fn's.
func (c *cli) withProfile(cmd *cobra.Command, fn func(*app.Profile) error) (err error) {
	params, err := app.Resolve(c.session)
	if err != nil {
		return err
	}
	params.Console = true
	if !c.verbose {
		params.ConsoleLevel = "warn"
	}
	params.Config.Notifications.Bell = false

	profile, err := app.Start(cmd.Context(), params)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, profile.Stop())
	}()
	return fn(profile)
}

func (c *cli) withStore(cmd *cobra.Command, fn func(*chat.Store) error) error {
	return c.withProfile(cmd, func(p *app.Profile) error {
		return fn(p.Store)
	})
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// confirm asks a yes/no question on the command's streams unless yes is set.
func confirm(cmd *cobra.Command, yes bool, question string) (bool, error) {
	if yes {
		return true, nil
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s [y/N] ", question)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

var errAborted = errors.New("aborted")

// describe turns typed errors into a line for a person at a shell.
func describe(err error) string {
	var held *lock.HeldError
	var verr *chat.ValidationError
	switch {
	case errors.As(err, &held):
		return fmt.Sprintf("profile is open in another process (pid %d); close it or pick another --session", held.PID)
	case errors.Is(err, persist.ErrQuotaExceeded):
		return "storage quota exceeded; export and delete old chats, or raise storage.quota_bytes"
	case errors.Is(err, chat.ErrSignedOut):
		return "not signed in; run: modernchatctl signin <email>"
	case errors.As(err, &verr):
		return verr.Error()
	}
	return err.Error()
}
