package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matheus3301/modernchat/internal/app"
	"github.com/matheus3301/modernchat/internal/chat"
	"github.com/matheus3301/modernchat/internal/session"
)

func newExportCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write a backup of the profile (\"-\" for stdout)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withProfile(cmd, func(p *app.Profile) error {
				if len(args) == 1 && args[0] == "-" {
					return p.Store.WriteExport(cmd.OutOrStdout())
				}
				path := filepath.Join(session.BackupDir(p.Params.SessionName), session.BackupName(c.now()))
				if len(args) == 1 {
					path = args[0]
				}
				if err := p.Store.ExportFile(path); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
				return nil
			})
		},
	}
}

func newImportCmd(c *cli) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the profile's data with a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := confirm(cmd, yes, "Importing replaces current contacts, chats and settings. Continue?")
			if err != nil {
				return err
			}
			if !ok {
				return errAborted
			}
			return c.withStore(cmd, func(s *chat.Store) error {
				if err := s.ImportFile(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %s\n", args[0])
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
