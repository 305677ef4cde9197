package main

import "github.com/spf13/cobra"

// Set by the release build through -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `The version command prints the nsctl release, the commit it was built
from and the build date. With --json the same fields are printed as an object.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion()
		},
	})
}

func runVersion() error {
	if jsonOut {
		return printJSON(map[string]string{"version": version, "commit": commit, "built": date})
	}
	printInfo("nsctl %s\n  commit: %s\n  built: %s\n", version, commit, date)
	return nil
}
