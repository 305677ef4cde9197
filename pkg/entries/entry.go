package entries

import (
	"sort"
	"strings"
)

// Entry is one manageable unit of the live namespace, addressed by Key.
type Entry struct {
	Key         string `json:"key"`
	DisplayName string `json:"name"`
	// Visible is the state the caller wants. Apply commits it.
	Visible bool `json:"visible"`
	// OriginalVisible is the last committed state. Only the Registry writes it.
	OriginalVisible bool   `json:"original_visible"`
	HasBackup       bool   `json:"has_backup"`
	BackupTime      string `json:"backup_time,omitempty"`
}

// Name returns DisplayName, falling back to Key.
func (e *Entry) Name() string {
	if e == nil {
		return ""
	}
	if e.DisplayName == "" {
		return e.Key
	}
	return e.DisplayName
}

// Pending reports whether the entry has an uncommitted visibility change.
func (e *Entry) Pending() bool { return e.Visible != e.OriginalVisible }

// Stale reports whether the entry is live while a backup for it still exists.
func (e *Entry) Stale() bool { return e.OriginalVisible && e.HasBackup }

// Cache is the session view of every entry, keyed by Entry.Key. Reconcile
// builds it; callers flip Visible and hand it to Apply.
type Cache map[string]*Entry

// Keys returns the cache keys in sorted order.
func (c Cache) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Sorted returns the entries ordered by key.
func (c Cache) Sorted() []*Entry {
	out := make([]*Entry, 0, len(c))
	for _, k := range c.Keys() {
		out = append(out, c[k])
	}
	return out
}

// Lookup finds key ignoring case, as registry key names do, and returns the
// cached spelling with its entry. It returns "" and nil for an unknown key.
func (c Cache) Lookup(key string) (string, *Entry) {
	if e, ok := c[key]; ok {
		return key, e
	}
	for k, e := range c {
		if strings.EqualFold(k, key) {
			return k, e
		}
	}
	return "", nil
}

// SetVisible records the desired state of key, matched ignoring case. It
// reports false if key is not in the cache.
func (c Cache) SetVisible(key string, visible bool) bool {
	_, e := c.Lookup(key)
	if e == nil {
		return false
	}
	e.Visible = visible
	return true
}

// Summary counts entries by committed state.
type Summary struct {
	Total   int `json:"total"`
	Visible int `json:"visible"`
	Hidden  int `json:"hidden"`
	Stale   int `json:"stale"`
	Pending int `json:"pending"`
}

// Summary returns the counts for c.
func (c Cache) Summary() Summary {
	var s Summary
	for _, e := range c {
		s.Total++
		if e.OriginalVisible {
			s.Visible++
		} else {
			s.Hidden++
		}
		if e.Stale() {
			s.Stale++
		}
		if e.Pending() {
			s.Pending++
		}
	}
	return s
}
