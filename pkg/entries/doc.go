// Package entries is the state machine that hides and restores namespace
// entries.
//
// Every entry is either VISIBLE (present in the live namespace) or HIDDEN
// (absent live, with a backup unit in the backup namespace). Hide copies the
// live values into a backup unit, confirms the unit, and only then deletes the
// live path; Restore rebuilds the live path before it deletes the unit. The
// store has no multi-key transactions, so an interruption can leave an entry
// in both namespaces. Reconcile reports that case as a visible entry with
// HasBackup set instead of hiding it; Prune removes such backups once they
// are proven identical to the live copy.
//
// Typical use:
//
//	reg := entries.New(store)
//	cache, err := reg.Reconcile()
//	if err != nil {
//	    return err
//	}
//	cache.SetVisible("{018D5C66-4533-4307-9B53-224DE2ED1FE6}", false)
//	res := reg.Apply(cache)
//	fmt.Printf("changed %d, failed %d\n", res.Changed, len(res.Failures))
package entries
