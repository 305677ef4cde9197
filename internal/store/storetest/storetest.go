// Package storetest holds the behavioural suite every types.Store backend
// must pass.
package storetest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/shellns/pkg/types"
)

// Factory returns a fresh, empty store for one subtest.
type Factory func(t *testing.T) types.Store

// Run exercises the types.Store contract against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("MissingPath", func(t *testing.T) {
		s := newStore(t)
		_, err := s.ListChildren(`Software\Missing`)
		require.ErrorIs(t, err, types.ErrNotFound)
		_, err = s.ListValues(`Software\Missing`)
		require.ErrorIs(t, err, types.ErrNotFound)
		_, err = s.GetValue(`Software\Missing`, "x")
		require.ErrorIs(t, err, types.ErrNotFound)
		require.ErrorIs(t, s.DeletePath(`Software\Missing`), types.ErrNotFound)
	})

	t.Run("EnsurePathIdempotent", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.EnsurePath(`Software\App\Backups`))
		require.NoError(t, s.EnsurePath(`Software\App\Backups`))

		children, err := s.ListChildren(`Software\App`)
		require.NoError(t, err)
		assert.Equal(t, []string{"Backups"}, children)

		values, err := s.ListValues(`Software\App\Backups`)
		require.NoError(t, err)
		assert.Empty(t, values)
	})

	t.Run("SetValueCreatesPath", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SetValue(`A\B\C`, "", types.StringValue("Demo")))

		children, err := s.ListChildren(`A\B`)
		require.NoError(t, err)
		assert.Equal(t, []string{"C"}, children)

		v, err := s.GetValue(`A\B\C`, "")
		require.NoError(t, err)
		assert.True(t, types.StringValue("Demo").Equal(v))
	})

	t.Run("ValueTypesRoundTrip", func(t *testing.T) {
		s := newStore(t)
		want := []types.NamedValue{
			{Name: "", Value: types.StringValue("Cloud Drive")},
			{Name: "Binary", Value: types.BinaryValue([]byte{0xDE, 0xAD, 0x00, 0xEF})},
			{Name: "Count", Value: types.DWORDValue(42)},
			{Name: "Expand", Value: types.ExpandStringValue(`%USERPROFILE%\Cloud`)},
			{Name: "Multi", Value: types.MultiStringValue([]string{"a", "b"})},
			{Name: "Size", Value: types.QWORDValue(1 << 40)},
		}
		for _, nv := range want {
			require.NoError(t, s.SetValue(`K`, nv.Name, nv.Value))
		}

		got, err := s.ListValues(`K`)
		require.NoError(t, err)
		require.Len(t, got, len(want))
		byName := make(map[string]types.Value, len(got))
		for _, nv := range got {
			byName[nv.Name] = nv.Value
		}
		for _, nv := range want {
			v, ok := byName[nv.Name]
			require.True(t, ok, "missing value %q", nv.Name)
			assert.True(t, nv.Value.Equal(v), "value %q: want %s, got %s", nv.Name, nv.Value, v)
		}
	})

	t.Run("OverwriteChangesType", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SetValue(`K`, "v", types.StringValue("1")))
		require.NoError(t, s.SetValue(`K`, "v", types.DWORDValue(1)))
		v, err := s.GetValue(`K`, "v")
		require.NoError(t, err)
		assert.Equal(t, types.REG_DWORD, v.Type)

		values, err := s.ListValues(`K`)
		require.NoError(t, err)
		assert.Len(t, values, 1)
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SetValue(`Software\MyApp`, "Version", types.StringValue("1.0")))

		v, err := s.GetValue(`SOFTWARE\myapp`, "VERSION")
		require.NoError(t, err)
		assert.Equal(t, "1.0", v.Text)

		children, err := s.ListChildren(`software`)
		require.NoError(t, err)
		assert.Equal(t, []string{"MyApp"}, children)
	})

	t.Run("InvalidValueRejected", func(t *testing.T) {
		s := newStore(t)
		err := s.SetValue(`K`, "v", types.Value{Type: types.REG_LINK, Data: []byte{1}})
		require.ErrorIs(t, err, types.ErrInvalidArgument)
	})

	t.Run("DeletePathRemovesValues", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SetValue(`Root\X`, "", types.StringValue("x")))
		require.NoError(t, s.SetValue(`Root\Y`, "", types.StringValue("y")))

		require.NoError(t, s.DeletePath(`Root\X`))
		children, err := s.ListChildren(`Root`)
		require.NoError(t, err)
		assert.Equal(t, []string{"Y"}, children)

		_, err = s.GetValue(`Root\X`, "")
		require.ErrorIs(t, err, types.ErrNotFound)
		require.ErrorIs(t, s.DeletePath(`Root\X`), types.ErrNotFound)
	})

	t.Run("ChildrenSorted", func(t *testing.T) {
		s := newStore(t)
		for _, k := range []string{"{C}", "{a}", "{B}"} {
			require.NoError(t, s.EnsurePath(types.JoinPath("NS", k)))
		}
		children, err := s.ListChildren("NS")
		require.NoError(t, err)
		assert.Equal(t, []string{"{a}", "{B}", "{C}"}, children)
	})
}
