package entries

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/joshuapare/shellns/pkg/backup"
	"github.com/joshuapare/shellns/pkg/types"
)

const (
	// DefaultLiveRoot is where the shell registers "This PC" namespace folders.
	DefaultLiveRoot = `Software\Microsoft\Windows\CurrentVersion\Explorer\MyComputer\NameSpace`
	// DefaultBackupRoot holds one backup unit per hidden entry.
	DefaultBackupRoot = `Software\DriveManager\Backups`
)

// Layout names the two namespaces an entry moves between.
type Layout struct {
	LiveRoot   string
	BackupRoot string
}

// DefaultLayout returns the standard shell namespace layout.
func DefaultLayout() Layout {
	return Layout{LiveRoot: DefaultLiveRoot, BackupRoot: DefaultBackupRoot}
}

// LivePath returns the live path of key.
func (l Layout) LivePath(key string) string { return types.JoinPath(l.LiveRoot, key) }

// BackupPath returns the backup unit path of key.
func (l Layout) BackupPath(key string) string { return types.JoinPath(l.BackupRoot, key) }

// Validate rejects empty or overlapping roots.
func (l Layout) Validate() error {
	if types.CleanPath(l.LiveRoot) == "" || types.CleanPath(l.BackupRoot) == "" {
		return types.InvalidArgument("live and backup roots are required")
	}
	if types.IsWithin(l.LiveRoot, l.BackupRoot) || types.IsWithin(l.BackupRoot, l.LiveRoot) {
		return types.InvalidArgument("live root %q and backup root %q overlap", l.LiveRoot, l.BackupRoot)
	}
	return nil
}

// Option configures a Registry.
type Option func(*Registry)

// WithLayout overrides the namespace roots.
func WithLayout(l Layout) Option { return func(r *Registry) { r.layout = l } }

// WithLogger sets the logger for transition steps.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// WithClock overrides the time source used for backup timestamps.
func WithClock(now func() time.Time) Option { return func(r *Registry) { r.now = now } }

// Registry performs entry transitions against a Store. It holds no entry
// state of its own; calls are synchronous and not safe for concurrent use on
// the same keys.
type Registry struct {
	store  types.Store
	layout Layout
	log    *slog.Logger
	now    func() time.Time
}

// New returns a Registry over store with the default layout.
func New(store types.Store, opts ...Option) *Registry {
	r := &Registry{
		store:  store,
		layout: DefaultLayout(),
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Layout returns the namespace roots in use.
func (r *Registry) Layout() Layout { return r.layout }

// Reconcile derives the session cache from both namespaces: every live child
// becomes a visible entry, every marked backup unit without a live
// counterpart becomes a hidden one. A backup whose key is also live is
// attached to the visible entry as HasBackup. Missing namespaces count as
// empty; other store errors are returned.
func (r *Registry) Reconcile() (Cache, error) {
	if err := r.store.EnsurePath(r.layout.BackupRoot); err != nil {
		return nil, fmt.Errorf("reconcile: ensure backup root: %w", err)
	}

	cache := make(Cache)
	folded := make(map[string]*Entry)

	live, err := r.children(r.layout.LiveRoot)
	if err != nil {
		return nil, fmt.Errorf("reconcile: list live namespace: %w", err)
	}
	for _, key := range live {
		name, err := r.liveName(key)
		if err != nil {
			return nil, fmt.Errorf("reconcile: read %q: %w", key, err)
		}
		e := &Entry{Key: key, DisplayName: name, Visible: true, OriginalVisible: true}
		cache[key] = e
		folded[strings.ToLower(key)] = e
	}

	backups, err := r.children(r.layout.BackupRoot)
	if err != nil {
		return nil, fmt.Errorf("reconcile: list backup namespace: %w", err)
	}
	for _, key := range backups {
		info, ok, err := backup.ReadInfo(r.store, r.layout.BackupPath(key), key)
		if err != nil {
			return nil, fmt.Errorf("reconcile: read backup %q: %w", key, err)
		}
		if !ok {
			r.log.Debug("skipping unmarked backup path", "key", key)
			continue
		}
		if e, isLive := folded[strings.ToLower(key)]; isLive {
			r.log.Warn("entry is live and backed up", "key", key, "backup_time", info.CreatedAt)
			e.HasBackup = true
			e.BackupTime = info.CreatedAt
			continue
		}
		cache[key] = &Entry{
			Key:         key,
			DisplayName: info.Name,
			HasBackup:   true,
			BackupTime:  info.CreatedAt,
		}
	}

	r.log.Debug("reconciled", "entries", len(cache))
	return cache, nil
}

// children lists path, treating a missing path as empty.
func (r *Registry) children(path string) ([]string, error) {
	names, err := r.store.ListChildren(path)
	if errors.Is(err, types.ErrNotFound) {
		return nil, nil
	}
	return names, err
}

// liveName returns the default value of the live path, or key when unset.
func (r *Registry) liveName(key string) (string, error) {
	v, err := r.store.GetValue(r.layout.LivePath(key), "")
	if errors.Is(err, types.ErrNotFound) {
		return key, nil
	}
	if err != nil {
		return "", err
	}
	if (v.Type != types.REG_SZ && v.Type != types.REG_EXPAND_SZ) || v.Text == "" {
		return key, nil
	}
	return v.Text, nil
}

func checkKey(key string) error {
	parts := types.SplitPath(key)
	if len(parts) != 1 || parts[0] != key {
		return types.InvalidArgument("entry key %q must be a single path segment", key)
	}
	return nil
}
