package main

import "github.com/spf13/cobra"

func init() {
	rootCmd.AddCommand(newRestoreCmd())
}

func newRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "restore <key>...",
		Aliases: []string{"show"},
		Short:   "Restore hidden entries from their backups",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransition("restore", args)
		},
	}
}
