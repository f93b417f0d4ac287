package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matheus3301/modernchat/internal/chat"
)

func newChatsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chats",
		Short: "List, open, show and delete chats",
	}
	cmd.AddCommand(newChatsListCmd(c))
	cmd.AddCommand(newChatsOpenCmd(c))
	cmd.AddCommand(newChatsShowCmd(c))
	cmd.AddCommand(newChatsDeleteCmd(c))
	return cmd
}

func newChatsListCmd(c *cli) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List chats, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withStore(cmd, func(s *chat.Store) error {
				chats := s.FilterChats(filter)
				if c.json {
					return outputJSON(cmd.OutOrStdout(), chats)
				}
				if len(chats) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No chats.")
					return nil
				}
				for _, ch := range chats {
					fmt.Fprintf(cmd.OutOrStdout(), "%-40s %-20s %3d %s\n",
						ch.ID, ch.Name, ch.Unread, preview(ch.LastMessage, 50))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "only chats whose name or last message contains this")
	return cmd
}

func newChatsOpenCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "open <contact>",
		Short: "Create or open the chat with a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(s *chat.Store) error {
				ct, err := findContact(s, args[0])
				if err != nil {
					return err
				}
				ch, err := s.OpenContact(ct.ID)
				if err != nil {
					return err
				}
				if c.json {
					return outputJSON(cmd.OutOrStdout(), ch)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Chat %s with %s\n", ch.ID, ch.Name)
				return nil
			})
		},
	}
}

func newChatsShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show <chat>",
		Short: "Print a chat's messages and mark it read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(s *chat.Store) error {
				ch, err := findChat(s, args[0])
				if err != nil {
					return err
				}
				if ch, err = s.SetActiveChat(ch.ID); err != nil {
					return err
				}
				if c.json {
					return outputJSON(cmd.OutOrStdout(), ch)
				}
				if len(ch.Messages) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No messages yet.")
					return nil
				}
				printMessages(cmd.OutOrStdout(), ch.Name, ch.Messages)
				return nil
			})
		},
	}
}

func newChatsDeleteCmd(c *cli) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <chat>",
		Short: "Delete a chat and its messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(s *chat.Store) error {
				ch, err := findChat(s, args[0])
				if err != nil {
					return err
				}
				ok, err := confirm(cmd, yes, fmt.Sprintf("Delete chat with %s?", ch.Name))
				if err != nil {
					return err
				}
				if !ok {
					return errAborted
				}
				if err := s.DeleteChat(ch.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted chat with %s.\n", ch.Name)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newSendCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "send <chat|contact> <text...>",
		Short: "Send a message, opening the chat if needed",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args[1:], " ")
			return c.withStore(cmd, func(s *chat.Store) error {
				ch, err := findChat(s, args[0])
				if err != nil {
					ct, cerr := findContact(s, args[0])
					if cerr != nil {
						return err
					}
					if ch, err = s.OpenContact(ct.ID); err != nil {
						return err
					}
				}
				if _, err := s.SetActiveChat(ch.ID); err != nil {
					return err
				}
				msg, err := s.AppendMessage(text, true)
				if err != nil {
					return err
				}
				if c.json {
					return outputJSON(cmd.OutOrStdout(), msg)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Sent to %s at %s\n", ch.Name, msg.Timestamp)
				return nil
			})
		},
	}
}

func newSearchCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "search <chat> <term...>",
		Short: "Search a chat's messages",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(s *chat.Store) error {
				ch, err := findChat(s, args[0])
				if err != nil {
					return err
				}
				if _, err := s.SetActiveChat(ch.ID); err != nil {
					return err
				}
				msgs, err := s.SearchActiveChat(strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				if c.json {
					return outputJSON(cmd.OutOrStdout(), msgs)
				}
				if len(msgs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No matches.")
					return nil
				}
				printMessages(cmd.OutOrStdout(), ch.Name, msgs)
				return nil
			})
		},
	}
}

func printMessages(w io.Writer, name string, msgs []chat.Message) {
	for _, m := range msgs {
		from := name
		if m.Sent {
			from = "You"
		}
		fmt.Fprintf(w, "[%s] %s: %s\n", m.Timestamp, from, m.Text)
	}
}

func preview(text string, n int) string {
	text = strings.ReplaceAll(text, "\n", " ")
	if r := []rune(text); len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return text
}

// findChat resolves a chat by id, then by name: an exact match first,
// then a unique partial one.
func findChat(s *chat.Store, ref string) (chat.Chat, error) {
	if ch, ok := s.Chat(ref); ok {
		return ch, nil
	}
	var partial []chat.Chat
	for _, ch := range s.Chats() {
		if strings.EqualFold(ch.Name, ref) {
			return ch, nil
		}
		if strings.Contains(strings.ToLower(ch.Name), strings.ToLower(ref)) {
			partial = append(partial, ch)
		}
	}
	switch len(partial) {
	case 0:
		return chat.Chat{}, fmt.Errorf("%w: %s", chat.ErrChatNotFound, ref)
	case 1:
		return partial[0], nil
	}
	return chat.Chat{}, fmt.Errorf("%q matches %d chats; use the chat id", ref, len(partial))
}

// findContact resolves a contact by id, email or name.
func findContact(s *chat.Store, ref string) (chat.Contact, error) {
	if ct, ok := s.Contact(ref); ok {
		return ct, nil
	}
	for _, ct := range s.Contacts() {
		if strings.EqualFold(ct.Email, ref) || strings.EqualFold(ct.Name, ref) {
			return ct, nil
		}
	}
	return chat.Contact{}, fmt.Errorf("contact not found: %s", ref)
}
