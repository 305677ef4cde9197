package entries

import (
	"errors"

	"github.com/joshuapare/shellns/pkg/backup"
	"github.com/joshuapare/shellns/pkg/types"
)

// Hide moves the live entry key into the backup namespace. A key with no live
// path is backed up as an empty value set, unless a backup unit already
// exists, in which case Hide succeeds without writing. A live entry with
// subkeys is refused with InvalidArgument, since a unit holds values only.
//
// The backup unit is written and its marker read back before the live path is
// deleted; if either fails the live entry is untouched. A live delete that
// fails after the unit was confirmed leaves the entry in both namespaces: the
// error is returned and e reports Visible and HasBackup, so a later Hide or
// Delete can finish the job. e may be nil.
func (r *Registry) Hide(key string, e *Entry) error {
	const op = "hide"
	if err := checkKey(key); err != nil {
		return &TransitionError{Op: op, Key: key, Step: StepValidate, Err: err}
	}
	log := r.log.With("op", op, "key", key)
	livePath := r.layout.LivePath(key)
	backupPath := r.layout.BackupPath(key)

	if err := r.store.EnsurePath(r.layout.BackupRoot); err != nil {
		return &TransitionError{Op: op, Key: key, Step: StepEnsureBackupRoot, Err: err}
	}
	hadUnit, err := backup.Present(r.store, backupPath)
	if err != nil {
		return &TransitionError{Op: op, Key: key, Step: StepReadBackup, Err: err}
	}

	live, err := r.store.ListValues(livePath)
	found := err == nil
	if errors.Is(err, types.ErrNotFound) {
		// Never overwrite the only copy with an empty snapshot.
		if hadUnit {
			log.Debug("entry already hidden")
			if e != nil {
				e.Visible = false
				e.OriginalVisible = false
				e.HasBackup = true
			}
			return nil
		}
		live = nil
	} else if err != nil {
		return &TransitionError{Op: op, Key: key, Step: StepReadLive, Err: err}
	}
	if found {
		children, err := r.store.ListChildren(livePath)
		if err != nil {
			return &TransitionError{Op: op, Key: key, Step: StepReadLive, Err: err}
		}
		if len(children) > 0 {
			err := types.InvalidArgument("entry %q has subkeys", key)
			return &TransitionError{Op: op, Key: key, Step: StepCheckSubkeys, Err: err}
		}
	}
	values := backup.FromNamed(live)

	now := r.now().Format(backup.TimeLayout)
	unit := backup.Unit{Name: unitName(key, e, values), Values: values, CreatedAt: now}
	if err := backup.Write(r.store, backupPath, unit); err != nil {
		r.discardPartial(backupPath, hadUnit)
		return &TransitionError{Op: op, Key: key, Step: StepWriteBackup, Err: err}
	}
	ok, err := backup.Present(r.store, backupPath)
	if err == nil && !ok {
		err = types.NotFound("backup marker for %q not readable after write", key)
	}
	if err != nil {
		r.discardPartial(backupPath, hadUnit)
		return &TransitionError{Op: op, Key: key, Step: StepVerifyBackup, Err: err}
	}
	log.Debug("backup written", "values", len(values), "backup_time", now)

	if err := r.store.DeletePath(livePath); err != nil && !errors.Is(err, types.ErrNotFound) {
		log.Warn("live path not deleted after backup", "error", err)
		if e != nil {
			e.Visible = true
			e.OriginalVisible = true
			e.HasBackup = true
			e.BackupTime = now
		}
		return &TransitionError{Op: op, Key: key, Step: StepDeleteLive, Err: err}
	}

	if e != nil {
		e.Visible = false
		e.OriginalVisible = false
		e.HasBackup = true
		e.BackupTime = now
		e.DisplayName = unit.Name
	}
	log.Info("entry hidden")
	return nil
}

// discardPartial removes a unit that failed mid-write, unless a complete unit
// was there before this attempt.
func (r *Registry) discardPartial(path string, hadUnit bool) {
	if hadUnit {
		return
	}
	if err := backup.Remove(r.store, path); err != nil {
		r.log.Warn("partial backup not removed", "path", path, "error", err)
	}
}

func unitName(key string, e *Entry, values backup.ValueSet) string {
	if e != nil && e.DisplayName != "" {
		return e.DisplayName
	}
	if v, ok := values[""]; ok && (v.Type == types.REG_SZ || v.Type == types.REG_EXPAND_SZ) && v.Text != "" {
		return v.Text
	}
	return key
}

// Restore rebuilds the live entry key from its backup unit and then deletes
// the unit.
//
// If the live writes fail the unit is kept for a retry and the entry stays
// hidden; the live path may hold a partial value set until then. A failure to
// delete the spent unit is logged and not returned: the entry is live, and
// Reconcile reports the leftover unit until Prune or Delete clears it.
// e may be nil.
func (r *Registry) Restore(key string, e *Entry) error {
	const op = "restore"
	if err := checkKey(key); err != nil {
		return &TransitionError{Op: op, Key: key, Step: StepValidate, Err: err}
	}
	log := r.log.With("op", op, "key", key)
	livePath := r.layout.LivePath(key)
	backupPath := r.layout.BackupPath(key)

	if err := r.store.EnsurePath(r.layout.BackupRoot); err != nil {
		return &TransitionError{Op: op, Key: key, Step: StepEnsureBackupRoot, Err: err}
	}
	unit, err := backup.Read(r.store, backupPath, key)
	if err != nil {
		return &TransitionError{Op: op, Key: key, Step: StepLoadBackup, Err: err}
	}

	if err := r.store.EnsurePath(livePath); err != nil {
		return &TransitionError{Op: op, Key: key, Step: StepWriteLive, Err: err}
	}
	for _, name := range unit.Values.Names() {
		if err := r.store.SetValue(livePath, name, unit.Values[name]); err != nil {
			log.Warn("live entry partially restored", "value", name, "error", err)
			return &TransitionError{Op: op, Key: key, Step: StepWriteLive, Err: err}
		}
	}
	log.Debug("live values written", "values", len(unit.Values))

	if err := backup.Remove(r.store, backupPath); err != nil {
		log.Warn("spent backup not removed", "error", err)
	}

	if e != nil {
		e.Visible = true
		e.OriginalVisible = true
		e.HasBackup = false
		e.BackupTime = ""
		if e.DisplayName == "" {
			e.DisplayName = unit.Name
		}
	}
	log.Info("entry restored")
	return nil
}

// Delete removes every trace of key. A live entry is hidden first, so its
// values pass through a backup unit that is then discarded; the backup unit
// is deleted either way. Deleting a key that exists nowhere succeeds.
// e may be nil.
func (r *Registry) Delete(key string, e *Entry) error {
	const op = "delete"
	if err := checkKey(key); err != nil {
		return &TransitionError{Op: op, Key: key, Step: StepValidate, Err: err}
	}

	_, err := r.store.ListValues(r.layout.LivePath(key))
	switch {
	case err == nil:
		if err := r.Hide(key, e); err != nil {
			return err
		}
	case !errors.Is(err, types.ErrNotFound):
		return &TransitionError{Op: op, Key: key, Step: StepReadLive, Err: err}
	}

	if err := backup.Remove(r.store, r.layout.BackupPath(key)); err != nil {
		return &TransitionError{Op: op, Key: key, Step: StepDeleteBackup, Err: err}
	}

	if e != nil {
		e.Visible = false
		e.OriginalVisible = false
		e.HasBackup = false
		e.BackupTime = ""
	}
	r.log.Info("entry deleted", "key", key)
	return nil
}

// DeleteCached deletes key and drops it from cache.
func (r *Registry) DeleteCached(cache Cache, key string) error {
	if err := r.Delete(key, cache[key]); err != nil {
		return err
	}
	delete(cache, key)
	return nil
}
