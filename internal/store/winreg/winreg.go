//go:build windows

// Package winreg is the types.Store over the live Windows registry. Paths are
// relative to a root key, HKEY_CURRENT_USER by default.
package winreg

import (
	"errors"
	"sort"
	"strings"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"

	"github.com/joshuapare/shellns/pkg/types"
)

// Store reads and writes registry keys under root.
type Store struct {
	root registry.Key
}

// Open returns a Store rooted at HKEY_CURRENT_USER.
func Open() *Store { return OpenRoot(registry.CURRENT_USER) }

// OpenRoot returns a Store rooted at an already open key. The caller keeps
// ownership of root.
func OpenRoot(root registry.Key) *Store { return &Store{root: root} }

// ListChildren implements types.Store.
func (s *Store) ListChildren(path string) ([]string, error) {
	k, err := s.open(path, registry.ENUMERATE_SUB_KEYS|registry.QUERY_VALUE)
	if err != nil {
		return nil, err
	}
	defer k.Close()

	names, err := k.ReadSubKeyNames(-1)
	if err != nil {
		return nil, mapErr(err, path)
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	return names, nil
}

// ListValues implements types.Store.
func (s *Store) ListValues(path string) ([]types.NamedValue, error) {
	k, err := s.open(path, registry.QUERY_VALUE)
	if err != nil {
		return nil, err
	}
	defer k.Close()

	names, err := k.ReadValueNames(-1)
	if err != nil {
		return nil, mapErr(err, path)
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	values := make([]types.NamedValue, 0, len(names))
	for _, name := range names {
		v, err := readValue(k, path, name)
		if err != nil {
			return nil, err
		}
		values = append(values, types.NamedValue{Name: name, Value: v})
	}
	return values, nil
}

// GetValue implements types.Store.
func (s *Store) GetValue(path, name string) (types.Value, error) {
	k, err := s.open(path, registry.QUERY_VALUE)
	if err != nil {
		return types.Value{}, err
	}
	defer k.Close()
	return readValue(k, path, name)
}

// SetValue implements types.Store.
func (s *Store) SetValue(path, name string, v types.Value) error {
	if err := v.Validate(); err != nil {
		return err
	}
	k, _, err := registry.CreateKey(s.root, winPath(path), registry.SET_VALUE)
	if err != nil {
		return mapErr(err, path)
	}
	defer k.Close()

	switch v.Type {
	case types.REG_SZ:
		err = k.SetStringValue(name, v.Text)
	case types.REG_EXPAND_SZ:
		err = k.SetExpandStringValue(name, v.Text)
	case types.REG_DWORD:
		err = k.SetDWordValue(name, uint32(v.Number))
	case types.REG_QWORD:
		err = k.SetQWordValue(name, v.Number)
	case types.REG_MULTI_SZ:
		err = k.SetStringsValue(name, v.List)
	case types.REG_BINARY:
		err = k.SetBinaryValue(name, v.Data)
	}
	return mapErr(err, path)
}

// DeletePath implements types.Store. Subkeys are deleted depth first.
func (s *Store) DeletePath(path string) error {
	if types.CleanPath(path) == "" {
		return types.InvalidArgument("cannot delete the store root")
	}
	children, err := s.ListChildren(path)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := s.DeletePath(types.JoinPath(path, child)); err != nil {
			return err
		}
	}
	return mapErr(registry.DeleteKey(s.root, winPath(path)), path)
}

// EnsurePath implements types.Store.
func (s *Store) EnsurePath(path string) error {
	k, _, err := registry.CreateKey(s.root, winPath(path), registry.QUERY_VALUE)
	if err != nil {
		return mapErr(err, path)
	}
	return k.Close()
}

func (s *Store) open(path string, access uint32) (registry.Key, error) {
	k, err := registry.OpenKey(s.root, winPath(path), access)
	if err != nil {
		return 0, mapErr(err, path)
	}
	return k, nil
}

// readValue fetches the raw bytes of name and decodes them. Types the store
// cannot write are still returned, as opaque Data.
func readValue(k registry.Key, path, name string) (types.Value, error) {
	n, typ, err := k.GetValue(name, nil)
	if err != nil {
		return types.Value{}, mapErr(err, path)
	}
	buf := make([]byte, n)
	if n > 0 {
		if n, _, err = k.GetValue(name, buf); err != nil {
			return types.Value{}, mapErr(err, path)
		}
		buf = buf[:n]
	}
	rt := types.RegType(typ)
	if !rt.Supported() {
		return types.Value{Type: rt, Data: buf}, nil
	}
	return types.ParseValue(rt, buf)
}

func winPath(path string) string { return types.CleanPath(path) }

func mapErr(err error, path string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, registry.ErrNotExist):
		return types.NotFound("path or value under %q not found", path)
	case errors.Is(err, windows.ERROR_ACCESS_DENIED):
		return types.AccessDenied(err, "registry %q", path)
	default:
		return err
	}
}

var _ types.Store = (*Store)(nil)
