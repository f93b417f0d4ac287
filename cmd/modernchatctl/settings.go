package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matheus3301/modernchat/internal/chat"
)

func newSettingsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change preferences",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print every preference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withStore(cmd, func(s *chat.Store) error {
				settings := s.Settings()
				if c.json {
					return outputJSON(cmd.OutOrStdout(), settings)
				}
				for _, name := range chat.SettingNames {
					v, _ := settings.Get(name)
					fmt.Fprintf(cmd.OutOrStdout(), "%-22s %s\n", name, v)
				}
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <name> <value>",
		Short: "Change one preference",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(s *chat.Store) error {
				settings, err := s.UpdateSettings(func(st *chat.Settings) error {
					return st.Set(args[0], args[1])
				})
				if err != nil {
					return err
				}
				v, _ := settings.Get(args[0])
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], v)
				return nil
			})
		},
	})
	return cmd
}
