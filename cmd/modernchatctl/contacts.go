package main

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"

	"github.com/matheus3301/modernchat/internal/chat"
)

func newContactsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "List and add contacts",
	}
	cmd.AddCommand(newContactsListCmd(c))
	cmd.AddCommand(newContactsAddCmd(c))
	cmd.AddCommand(newContactsLinkAddCmd(c))
	return cmd
}

func newContactsListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List contacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withStore(cmd, func(s *chat.Store) error {
				contacts := s.Contacts()
				if c.json {
					return outputJSON(cmd.OutOrStdout(), contacts)
				}
				if len(contacts) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No contacts.")
					return nil
				}
				for _, ct := range contacts {
					fmt.Fprintf(cmd.OutOrStdout(), "%-36s %-20s %-30s %s\n", ct.ID, ct.Name, ct.Email, ct.Status)
				}
				return nil
			})
		},
	}
}

func newContactsAddCmd(c *cli) *cobra.Command {
	var online bool
	cmd := &cobra.Command{
		Use:   "add <name> <email>",
		Short: "Add a contact",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := chat.StatusOffline
			if online {
				status = chat.StatusOnline
			}
			return c.withStore(cmd, func(s *chat.Store) error {
				ct, err := s.AddContact(args[0], args[1], status)
				if err != nil {
					return err
				}
				if c.json {
					return outputJSON(cmd.OutOrStdout(), ct)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", ct.Name, ct.ID)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&online, "online", false, "mark the contact online")
	return cmd
}

func newContactsLinkAddCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "link-add <link> <name>",
		Short: "Add a contact from their contact link",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(s *chat.Store) error {
				ct, err := s.AddContactFromLink(args[0], strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				if c.json {
					return outputJSON(cmd.OutOrStdout(), ct)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", ct.Name, ct.ID)
				return nil
			})
		},
	}
}

func newLinkCmd(c *cli) *cobra.Command {
	var noQR bool
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Print your contact link and its QR code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withStore(cmd, func(s *chat.Store) error {
				link, err := s.ContactLink()
				if err != nil {
					return err
				}
				if c.json {
					return outputJSON(cmd.OutOrStdout(), map[string]string{"link": link})
				}
				fmt.Fprintln(cmd.OutOrStdout(), link)
				if noQR {
					return nil
				}
				qr, err := qrcode.New(link, qrcode.Low)
				if err != nil {
					return fmt.Errorf("render QR: %w", err)
				}
				fmt.Fprint(cmd.OutOrStdout(), qr.ToSmallString(false))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&noQR, "no-qr", false, "print only the link")
	return cmd
}
