// Package memstore is an in-memory types.Store. It backs the file-persisted
// stores and doubles as the fake for tests, with fault injection per
// operation and path.
package memstore

import (
	"bytes"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/joshuapare/shellns/pkg/types"
)

// Op names a Store operation for fault injection.
type Op string

const (
	OpListChildren Op = "ListChildren"
	OpListValues   Op = "ListValues"
	OpGetValue     Op = "GetValue"
	OpSetValue     Op = "SetValue"
	OpDeletePath   Op = "DeletePath"
	OpEnsurePath   Op = "EnsurePath"
)

// Fault makes matching calls fail with Err instead of running.
type Fault struct {
	Op   Op
	Path string // empty matches every path
	Name string // value name for Get/SetValue; empty matches every name
	// Times limits how often the fault fires; zero means every time.
	Times int
	Err   error
}

type node struct {
	name     string
	children map[string]*node           // keyed by lower-case name
	values   map[string]types.NamedValue // keyed by lower-case name
}

func newNode(name string) *node {
	return &node{
		name:     name,
		children: make(map[string]*node),
		values:   make(map[string]types.NamedValue),
	}
}

// Store is safe for concurrent use.
type Store struct {
	mu     sync.Mutex
	root   *node
	faults []*Fault
}

// New returns an empty store.
func New() *Store {
	return &Store{root: newNode("")}
}

// Inject registers a fault. Faults are checked in registration order.
func (s *Store) Inject(f Fault) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = append(s.faults, &f)
}

// ClearFaults removes every injected fault.
func (s *Store) ClearFaults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = nil
}

func (s *Store) fault(op Op, path, name string) error {
	for i, f := range s.faults {
		if f.Op != op {
			continue
		}
		if f.Path != "" && types.FoldPath(f.Path) != types.FoldPath(path) {
			continue
		}
		if f.Name != "" && !strings.EqualFold(f.Name, name) {
			continue
		}
		if f.Times > 0 {
			f.Times--
			if f.Times == 0 {
				s.faults = append(s.faults[:i:i], s.faults[i+1:]...)
			}
		}
		return f.Err
	}
	return nil
}

// lookup returns the node at path or nil.
func (s *Store) lookup(path string) *node {
	n := s.root
	for _, part := range types.SplitPath(path) {
		n = n.children[strings.ToLower(part)]
		if n == nil {
			return nil
		}
	}
	return n
}

// ensure creates every missing segment of path and returns its node.
func (s *Store) ensure(path string) *node {
	n := s.root
	for _, part := range types.SplitPath(path) {
		key := strings.ToLower(part)
		child := n.children[key]
		if child == nil {
			child = newNode(part)
			n.children[key] = child
		}
		n = child
	}
	return n
}

// ListChildren implements types.Store.
func (s *Store) ListChildren(path string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault(OpListChildren, path, ""); err != nil {
		return nil, err
	}
	n := s.lookup(path)
	if n == nil {
		return nil, types.NotFound("path %q not found", path)
	}
	names := make([]string, 0, len(n.children))
	for _, c := range n.children {
		names = append(names, c.name)
	}
	sortFold(names)
	return names, nil
}

// ListValues implements types.Store.
func (s *Store) ListValues(path string) ([]types.NamedValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault(OpListValues, path, ""); err != nil {
		return nil, err
	}
	n := s.lookup(path)
	if n == nil {
		return nil, types.NotFound("path %q not found", path)
	}
	return sortedValues(n), nil
}

// GetValue implements types.Store.
func (s *Store) GetValue(path, name string) (types.Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault(OpGetValue, path, name); err != nil {
		return types.Value{}, err
	}
	n := s.lookup(path)
	if n == nil {
		return types.Value{}, types.NotFound("path %q not found", path)
	}
	nv, ok := n.values[strings.ToLower(name)]
	if !ok {
		return types.Value{}, types.NotFound("value %q not found under %q", name, path)
	}
	return cloneValue(nv.Value), nil
}

// SetValue implements types.Store.
func (s *Store) SetValue(path, name string, v types.Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault(OpSetValue, path, name); err != nil {
		return err
	}
	if err := v.Validate(); err != nil {
		return err
	}
	n := s.ensure(path)
	n.values[strings.ToLower(name)] = types.NamedValue{Name: name, Value: cloneValue(v)}
	return nil
}

// DeletePath implements types.Store. The subtree under path goes with it.
func (s *Store) DeletePath(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault(OpDeletePath, path, ""); err != nil {
		return err
	}
	parts := types.SplitPath(path)
	if len(parts) == 0 {
		return types.InvalidArgument("cannot delete the store root")
	}
	parent := s.lookup(strings.Join(parts[:len(parts)-1], types.PathSeparator))
	key := strings.ToLower(parts[len(parts)-1])
	if parent == nil || parent.children[key] == nil {
		return types.NotFound("path %q not found", path)
	}
	delete(parent.children, key)
	return nil
}

// EnsurePath implements types.Store.
func (s *Store) EnsurePath(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fault(OpEnsurePath, path, ""); err != nil {
		return err
	}
	s.ensure(path)
	return nil
}

// Key is one path of a snapshot with its values.
type Key struct {
	Path   string
	Values []types.NamedValue
}

// Snapshot returns every path beneath root (inclusive) in pre-order, children
// sorted case-insensitively. A missing root yields types.ErrNotFound.
func (s *Store) Snapshot(root string) ([]Key, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.lookup(root)
	if n == nil {
		return nil, types.NotFound("path %q not found", root)
	}
	var out []Key
	walk(n, types.CleanPath(root), &out)
	return out, nil
}

func walk(n *node, path string, out *[]Key) {
	if path != "" {
		*out = append(*out, Key{Path: path, Values: sortedValues(n)})
	}
	names := make([]string, 0, len(n.children))
	for k := range n.children {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		c := n.children[k]
		walk(c, types.JoinPath(path, c.name), out)
	}
}

// Load replaces the store contents with keys. Paths are created in order,
// so a snapshot loads back to the same tree.
func (s *Store) Load(keys []Key) error {
	root := newNode("")
	tmp := &Store{root: root}
	for _, k := range keys {
		n := tmp.ensure(k.Path)
		for _, nv := range k.Values {
			if err := nv.Value.Validate(); err != nil {
				return fmt.Errorf("load %q value %q: %w", k.Path, nv.Name, err)
			}
			n.values[strings.ToLower(nv.Name)] = types.NamedValue{Name: nv.Name, Value: cloneValue(nv.Value)}
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.root = root
	return nil
}

func sortedValues(n *node) []types.NamedValue {
	out := make([]types.NamedValue, 0, len(n.values))
	for _, nv := range n.values {
		out = append(out, types.NamedValue{Name: nv.Name, Value: cloneValue(nv.Value)})
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

func sortFold(names []string) {
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
}

func cloneValue(v types.Value) types.Value {
	v.Data = bytes.Clone(v.Data)
	v.List = slices.Clone(v.List)
	return v
}

var _ types.Store = (*Store)(nil)
