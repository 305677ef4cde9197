package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	applyShow []string
	applyHide []string
)

func init() {
	cmd := newApplyCmd()
	cmd.Flags().StringSliceVar(&applyShow, "show", nil, "Keys to make visible (repeatable)")
	cmd.Flags().StringSliceVar(&applyHide, "hide", nil, "Keys to hide (repeatable)")
	rootCmd.AddCommand(cmd)
}

func newApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Commit a batch of visibility changes",
		Long: `The apply command sets the wanted state of several entries and commits
them in one pass. Entries already in the wanted state are left alone. A failed
entry does not stop the others; failures are listed at the end.

Example:
  nsctl apply --hide {A} --hide {B} --show {C}
  nsctl apply --hide {A},{B} --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply()
		},
	}
}

func runApply() error {
	if len(applyShow) == 0 && len(applyHide) == 0 {
		return fmt.Errorf("nothing to apply: use --show or --hide")
	}
	for _, k := range applyShow {
		for _, h := range applyHide {
			if strings.EqualFold(k, h) {
				return fmt.Errorf("key %s is in both --show and --hide", k)
			}
		}
	}

	return withSession(func(s *session) error {
		cache, err := s.reg.Reconcile()
		if err != nil {
			return fmt.Errorf("failed to read entries: %w", err)
		}
		for _, k := range applyShow {
			if !cache.SetVisible(k, true) {
				return fmt.Errorf("unknown entry %s", k)
			}
		}
		for _, k := range applyHide {
			if !cache.SetVisible(k, false) {
				return fmt.Errorf("unknown entry %s", k)
			}
		}
		printVerbose("%d pending changes\n", cache.Summary().Pending)

		res := s.reg.Apply(cache)
		if jsonOut {
			if err := printJSON(res); err != nil {
				return err
			}
		} else {
			printInfo("Changed %d entries\n", res.Changed)
			for _, f := range res.Failures {
				printInfo("FAILED  %s (%s): %s\n", f.Key, f.Name, f.Message)
			}
			if res.Changed > 0 {
				printInfo(restartHint)
			}
		}
		if err := res.Err(); err != nil {
			return fmt.Errorf("%d changes failed (run %s)", len(res.Failures), res.RunID)
		}
		return nil
	})
}
