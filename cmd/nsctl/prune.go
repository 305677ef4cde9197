package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newPruneCmd())
}

func newPruneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove stale backups of live entries",
		Long: `The prune command deletes backups left behind for entries that are live
again, but only when the backup holds exactly the live values. Backups that
differ are kept and listed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrune()
		},
	}
}

func runPrune() error {
	return withSession(func(s *session) error {
		report, err := s.reg.Prune()
		if err != nil {
			return fmt.Errorf("failed to prune: %w", err)
		}
		if jsonOut {
			return printJSON(report)
		}
		for _, k := range report.Pruned {
			printInfo("Pruned  %s\n", k)
		}
		for _, k := range report.Kept {
			printInfo("Kept    %s (backup differs from live entry)\n", k)
		}
		printInfo("%d pruned, %d kept\n", len(report.Pruned), len(report.Kept))
		return nil
	})
}
