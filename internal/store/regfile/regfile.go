// Package regfile is a types.Store persisted as a .reg file. The whole tree
// lives in memory and every mutation rewrites the file atomically, so the
// file is always a complete snapshot regedit can import.
package regfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/joshuapare/shellns/internal/regtext"
	"github.com/joshuapare/shellns/internal/store/memstore"
	"github.com/joshuapare/shellns/pkg/types"
)

// Option configures a Store.
type Option func(*Store)

// WithEncoding selects the file encoding (regtext.EncodingUTF16LE or
// regtext.EncodingUTF8). The default is UTF-16LE, as regedit writes.
func WithEncoding(enc string) Option { return func(s *Store) { s.encoding = enc } }

// Store persists a memstore tree to Path.
type Store struct {
	mu       sync.Mutex
	path     string
	encoding string
	mem      *memstore.Store
}

// Open loads path. A missing file opens as an empty store and is created on
// the first write.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{path: path, encoding: regtext.EncodingUTF16LE, mem: memstore.New()}
	for _, opt := range opts {
		opt(s)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	sections, err := regtext.Unmarshal(data, regtext.ParseOptions{Encoding: s.encoding})
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	keys := make([]memstore.Key, len(sections))
	for i, sec := range sections {
		keys[i] = memstore.Key{Path: sec.Path, Values: sec.Values}
	}
	if err := s.mem.Load(keys); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return s, nil
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

// ListChildren implements types.Store.
func (s *Store) ListChildren(path string) ([]string, error) { return s.mem.ListChildren(path) }

// ListValues implements types.Store.
func (s *Store) ListValues(path string) ([]types.NamedValue, error) { return s.mem.ListValues(path) }

// GetValue implements types.Store.
func (s *Store) GetValue(path, name string) (types.Value, error) { return s.mem.GetValue(path, name) }

// SetValue implements types.Store.
func (s *Store) SetValue(path, name string, v types.Value) error {
	return s.mutate(func() error { return s.mem.SetValue(path, name, v) })
}

// DeletePath implements types.Store.
func (s *Store) DeletePath(path string) error {
	return s.mutate(func() error { return s.mem.DeletePath(path) })
}

// EnsurePath implements types.Store.
func (s *Store) EnsurePath(path string) error {
	return s.mutate(func() error { return s.mem.EnsurePath(path) })
}

// mutate applies fn and persists the result. If the file cannot be written
// the in-memory tree is rolled back, so memory never runs ahead of disk.
func (s *Store) mutate(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before, err := s.mem.Snapshot("")
	if err != nil {
		return err
	}
	if err := fn(); err != nil {
		return err
	}
	after, err := s.mem.Snapshot("")
	if err != nil {
		return err
	}
	if err := s.persist(after); err != nil {
		if rbErr := s.mem.Load(before); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}
	return nil
}

func (s *Store) persist(keys []memstore.Key) error {
	sections := make([]regtext.Section, len(keys))
	for i, k := range keys {
		sections[i] = regtext.Section{Path: k.Path, Values: k.Values}
	}
	data, err := regtext.Marshal(sections, regtext.EmitOptions{
		Encoding: s.encoding,
		Comments: []string{"shellns store, written " + time.Now().Format(time.RFC3339)},
	})
	if err != nil {
		return err
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return types.AccessDenied(err, "write %s", s.path)
		}
		return err
	}
	return nil
}

// writeFileAtomic writes data to a temp file beside path and renames it over
// path.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmpFile, err := os.CreateTemp(dir, ".shellns-tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	tmpFile = nil

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

var _ types.Store = (*Store)(nil)
