package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/joshuapare/shellns/internal/regtext"
)

var (
	exportEncoding string
	exportStdout   bool
)

func init() {
	cmd := newExportCmd()
	cmd.Flags().StringVar(&exportEncoding, "encoding", "utf16le", "Output encoding (utf16le, utf8)")
	cmd.Flags().BoolVar(&exportStdout, "stdout", false, "Write to stdout instead of file")
	rootCmd.AddCommand(cmd)
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [output.reg]",
		Short: "Export both namespaces to .reg format",
		Long: `The export command writes the live and backup namespaces to a .reg file
that regedit can import, as an offline copy before destructive changes.

Example:
  nsctl export namespace.reg
  nsctl export --stdout --encoding utf8`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(args)
		},
	}
}

func runExport(args []string) error {
	var outputPath string
	if len(args) > 0 {
		outputPath = args[0]
	}
	if outputPath != "" && exportStdout {
		return fmt.Errorf("cannot specify both output file and --stdout")
	}
	if outputPath == "" && !exportStdout {
		return fmt.Errorf("must specify output file or use --stdout")
	}

	var enc string
	switch strings.ToLower(exportEncoding) {
	case "utf16le", "utf-16le", "":
		enc = regtext.EncodingUTF16LE
	case "utf8", "utf-8":
		enc = regtext.EncodingUTF8
	default:
		return fmt.Errorf("unsupported encoding %q", exportEncoding)
	}

	return withSession(func(s *session) error {
		layout := s.reg.Layout()
		sections, err := regtext.Collect(s.store, layout.LiveRoot, layout.BackupRoot)
		if err != nil {
			return fmt.Errorf("failed to read namespaces: %w", err)
		}
		data, err := regtext.Marshal(sections, regtext.EmitOptions{
			Encoding: enc,
			Comments: []string{"nsctl export " + time.Now().Format(time.RFC3339)},
		})
		if err != nil {
			return fmt.Errorf("failed to export: %w", err)
		}

		if exportStdout {
			_, err := os.Stdout.Write(data)
			return err
		}
		if err := os.WriteFile(outputPath, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outputPath, err)
		}
		printInfo("Exported %d keys to %s\n", len(sections), outputPath)
		return nil
	})
}
