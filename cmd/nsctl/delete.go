package main

import "github.com/spf13/cobra"

func init() {
	rootCmd.AddCommand(newDeleteCmd())
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>...",
		Short: "Delete entries from both namespaces",
		Long: `The delete command removes an entry and its backup for good. Export
first if you may want it back:

  nsctl export before-delete.reg
  nsctl delete {018D5C66-4533-4307-9B53-224DE2ED1FE6}`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransition("delete", args)
		},
	}
}
