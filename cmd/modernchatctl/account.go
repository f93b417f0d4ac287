package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matheus3301/modernchat/internal/chat"
)

func newSignInCmd(c *cli) *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "signin <email>",
		Short: "Sign in, creating the user on first use",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(s *chat.Store) error {
				u, err := s.SignIn(args[0], username)
				if err != nil {
					return err
				}
				if c.json {
					return outputJSON(cmd.OutOrStdout(), u)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s <%s>\n", u.Username, u.Email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "display name (defaults to the email's local part)")
	return cmd
}

func newSignOutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Sign out, keeping contacts, chats and settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withStore(cmd, func(s *chat.Store) error {
				if err := s.SignOut(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
				return nil
			})
		},
	}
}

func newWhoAmICmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withStore(cmd, func(s *chat.Store) error {
				u, ok := s.User()
				if !ok {
					return chat.ErrSignedOut
				}
				p, err := s.Profile()
				if err != nil {
					return err
				}
				if c.json {
					return outputJSON(cmd.OutOrStdout(), struct {
						chat.User
						Bio string `json:"bio"`
					}{u, p.Bio})
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID:       %s\n", u.ID)
				fmt.Fprintf(out, "Email:    %s\n", u.Email)
				fmt.Fprintf(out, "Username: %s\n", u.Username)
				if p.Bio != "" {
					fmt.Fprintf(out, "Bio:      %s\n", p.Bio)
				}
				fmt.Fprintf(out, "Avatar:   %s\n", u.Avatar)
				return nil
			})
		},
	}
}

func newProfileCmd(c *cli) *cobra.Command {
	var username, bio, avatar string
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Edit the signed-in user's profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withStore(cmd, func(s *chat.Store) error {
				p, err := s.Profile()
				if err != nil {
					return err
				}
				flags := cmd.Flags()
				generated := p.Avatar == chat.AvatarURL(p.Username)
				if flags.Changed("username") {
					p.Username = username
				}
				if flags.Changed("bio") {
					p.Bio = bio
				}
				switch {
				case flags.Changed("avatar"):
					p.Avatar = avatar
				case flags.Changed("username") && generated:
					p.Avatar = ""
				}
				p, err = s.UpdateProfile(p.Username, p.Bio, p.Avatar)
				if err != nil {
					return err
				}
				if c.json {
					return outputJSON(cmd.OutOrStdout(), p)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Profile saved for %s.\n", p.Username)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "display name")
	cmd.Flags().StringVar(&bio, "bio", "", "short bio")
	cmd.Flags().StringVar(&avatar, "avatar", "", "avatar URL")
	return cmd
}

func newDeleteAccountCmd(c *cli) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete-account",
		Short: "Erase every chat, contact and setting in this profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ok, err := confirm(cmd, yes, "Delete the account and all local data?")
			if err != nil {
				return err
			}
			if !ok {
				return errAborted
			}
			return c.withStore(cmd, func(s *chat.Store) error {
				if err := s.DeleteAccount(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Account deleted.")
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
