package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/joshuapare/shellns/pkg/entries"
)

func init() {
	rootCmd.AddCommand(newListCmd())
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List visible and hidden entries",
		Long: `The list command reconciles the live and backup namespaces and prints
every entry with its state. An entry that is live while a backup for it still
exists is shown as "stale"; run "nsctl prune" or "nsctl delete" to clear it.

Example:
  nsctl list
  nsctl list --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList()
		},
	}
}

func runList() error {
	return withSession(func(s *session) error {
		cache, err := s.reg.Reconcile()
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}
		summary := cache.Summary()

		if jsonOut {
			return printJSON(map[string]any{
				"entries": cache.Sorted(),
				"summary": summary,
			})
		}

		if summary.Total == 0 {
			printInfo("No entries.\n")
			return nil
		}
		if !quiet {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "STATE\tKEY\tNAME\tBACKUP")
			for _, e := range cache.Sorted() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", state(e), e.Key, e.Name(), e.BackupTime)
			}
			if err := w.Flush(); err != nil {
				return err
			}
		}
		printInfo("\n%d entries: %d visible, %d hidden", summary.Total, summary.Visible, summary.Hidden)
		if summary.Stale > 0 {
			printInfo(", %d stale", summary.Stale)
		}
		printInfo("\n")
		return nil
	})
}

func state(e *entries.Entry) string {
	switch {
	case e.Stale():
		return "stale"
	case e.OriginalVisible:
		return "visible"
	default:
		return "hidden"
	}
}
