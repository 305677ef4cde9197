package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	jsonOut bool

	backendFlag    string
	storeFlag      string
	liveRootFlag   string
	backupRootFlag string
)

var rootCmd = &cobra.Command{
	Use:   "nsctl",
	Short: "Hide and restore shell namespace entries",
	Long: `nsctl manages the folders Explorer shows under "This PC". Hiding an entry
moves its registry values into a backup key; restoring moves them back.
Nothing is lost either way, and a hidden entry can always be restored.

Settings come from SHELLNS_* environment variables; flags override them.
Explorer must be restarted before changes show.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output and debug logging to stderr")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	flags.BoolVar(&jsonOut, "json", false, "Output in JSON format")
	flags.StringVar(&backendFlag, "backend", "", "Store backend: auto, winreg, regfile, sqlite, memory")
	flags.StringVar(&storeFlag, "store", "", "Store file for the regfile and sqlite backends")
	flags.StringVar(&liveRootFlag, "live-root", "", "Live namespace root (relative to HKCU)")
	flags.StringVar(&backupRootFlag, "backup-root", "", "Backup namespace root (relative to HKCU)")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

const restartHint = "Restart Explorer for the change to show.\n"
