package main

import "github.com/spf13/cobra"

func init() {
	rootCmd.AddCommand(newHideCmd())
}

func newHideCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hide <key>...",
		Short: "Hide entries by moving them to the backup namespace",
		Long: `The hide command backs up each entry's values and removes it from the
live namespace. The entry disappears from "This PC" after Explorer restarts.

Example:
  nsctl hide {018D5C66-4533-4307-9B53-224DE2ED1FE6}`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransition("hide", args)
		},
	}
}
