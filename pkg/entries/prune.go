package entries

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joshuapare/shellns/pkg/backup"
	"github.com/joshuapare/shellns/pkg/types"
)

// PruneReport lists what Prune did with each stale backup.
type PruneReport struct {
	Pruned []string `json:"pruned"`
	// Kept holds stale backups that differ from the live entry or could not
	// be decoded; they need a manual Delete or a fresh Hide.
	Kept []string `json:"kept"`
}

// Prune removes backup units whose entry is also live and whose values equal
// the live values exactly. Such units are left behind when a restore could
// not delete its spent backup, or when a hide could not delete the live
// path; removing them loses nothing.
func (r *Registry) Prune() (PruneReport, error) {
	var report PruneReport

	live, err := r.children(r.layout.LiveRoot)
	if err != nil {
		return report, fmt.Errorf("prune: list live namespace: %w", err)
	}
	isLive := make(map[string]bool, len(live))
	for _, key := range live {
		isLive[strings.ToLower(key)] = true
	}

	backups, err := r.children(r.layout.BackupRoot)
	if err != nil {
		return report, fmt.Errorf("prune: list backup namespace: %w", err)
	}
	for _, key := range backups {
		if !isLive[strings.ToLower(key)] {
			continue
		}
		backupPath := r.layout.BackupPath(key)
		unit, err := backup.Read(r.store, backupPath, key)
		switch {
		case errors.Is(err, types.ErrNoBackup):
			continue
		case errors.Is(err, types.ErrCorruptBackup):
			r.log.Warn("stale backup is corrupt; keeping it", "key", key, "error", err)
			report.Kept = append(report.Kept, key)
			continue
		case err != nil:
			return report, fmt.Errorf("prune: read backup %q: %w", key, err)
		}

		values, err := r.store.ListValues(r.layout.LivePath(key))
		if err != nil {
			return report, fmt.Errorf("prune: read live %q: %w", key, err)
		}
		if !unit.Values.Equal(backup.FromNamed(values)) {
			r.log.Info("stale backup differs from live entry; keeping it", "key", key)
			report.Kept = append(report.Kept, key)
			continue
		}
		if err := backup.Remove(r.store, backupPath); err != nil {
			return report, fmt.Errorf("prune: remove backup %q: %w", key, err)
		}
		r.log.Info("stale backup pruned", "key", key)
		report.Pruned = append(report.Pruned, key)
	}
	return report, nil
}
