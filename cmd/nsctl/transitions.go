package main

import (
	"errors"
	"fmt"

	"github.com/joshuapare/shellns/pkg/entries"
)

type transitionResult struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Error string `json:"error,omitempty"`
}

// runTransition applies op to each key and keeps going after a failure.
func runTransition(op string, keys []string) error {
	return withSession(func(s *session) error {
		cache, err := s.reg.Reconcile()
		if err != nil {
			return fmt.Errorf("failed to read entries: %w", err)
		}

		var (
			results []transitionResult
			errs    []error
		)
		for _, key := range keys {
			canon, e := cache.Lookup(key)
			if e != nil {
				key = canon
			}
			var err error
			switch {
			case e == nil && op != "delete":
				err = fmt.Errorf("unknown entry %s", key)
			case op == "hide":
				err = s.reg.Hide(key, e)
			case op == "restore":
				err = s.reg.Restore(key, e)
			case op == "delete":
				err = s.reg.DeleteCached(cache, key)
			}
			res := transitionResult{Key: key, Name: entryName(e, key)}
			if err != nil {
				res.Error = err.Error()
				errs = append(errs, err)
			}
			results = append(results, res)
		}

		if jsonOut {
			if err := printJSON(map[string]any{"op": op, "results": results}); err != nil {
				return err
			}
		} else {
			for _, res := range results {
				if res.Error != "" {
					printInfo("FAILED  %s: %s\n", res.Key, res.Error)
					continue
				}
				printInfo("%-7s %s (%s)\n", pastTense(op), res.Key, res.Name)
			}
			if len(errs) < len(keys) && op != "delete" {
				printInfo(restartHint)
			}
		}
		if len(errs) > 0 {
			return fmt.Errorf("%d of %d %s operations failed: %w", len(errs), len(keys), op, errors.Join(errs...))
		}
		return nil
	})
}

func entryName(e *entries.Entry, key string) string {
	if e == nil {
		return key
	}
	return e.Name()
}

func pastTense(op string) string {
	switch op {
	case "hide":
		return "Hidden"
	case "restore":
		return "Shown"
	default:
		return "Deleted"
	}
}
