package entries

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/shellns/internal/store/memstore"
	"github.com/joshuapare/shellns/pkg/backup"
	"github.com/joshuapare/shellns/pkg/types"
)

const fixedTime = "2026-10-17 09:30:00"

func newTestRegistry(t *testing.T) (*Registry, *memstore.Store) {
	t.Helper()
	s := memstore.New()
	clock := func() time.Time { return time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC) }
	return New(s, WithClock(clock)), s
}

func demoValues() []types.NamedValue {
	return []types.NamedValue{
		{Name: "", Value: types.StringValue("Demo")},
		{Name: "Flag", Value: types.DWORDValue(1)},
		{Name: "Icon", Value: types.ExpandStringValue(`%SystemRoot%\system32\imageres.dll,-1`)},
		{Name: "Blob", Value: types.BinaryValue([]byte{0xde, 0xad, 0xbe, 0xef})},
		{Name: "Paths", Value: types.MultiStringValue([]string{`C:\a`, `D:\b`})},
		{Name: "Size", Value: types.QWORDValue(1 << 40)},
	}
}

func putLive(t *testing.T, r *Registry, s types.Store, key string, values []types.NamedValue) {
	t.Helper()
	path := r.Layout().LivePath(key)
	require.NoError(t, s.EnsurePath(path))
	for _, nv := range values {
		require.NoError(t, s.SetValue(path, nv.Name, nv.Value))
	}
}

func putBackup(t *testing.T, r *Registry, s types.Store, key, name string, values []types.NamedValue) {
	t.Helper()
	u := backup.Unit{Name: name, Values: backup.FromNamed(values), CreatedAt: "2026-01-02 03:04:05"}
	require.NoError(t, backup.Write(s, r.Layout().BackupPath(key), u))
}

func liveSet(t *testing.T, r *Registry, s types.Store, key string) backup.ValueSet {
	t.Helper()
	values, err := s.ListValues(r.Layout().LivePath(key))
	require.NoError(t, err)
	return backup.FromNamed(values)
}

func requireNoPath(t *testing.T, s types.Store, path string) {
	t.Helper()
	_, err := s.ListValues(path)
	require.ErrorIs(t, err, types.ErrNotFound, "path %s should not exist", path)
}
