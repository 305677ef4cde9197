package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/shellns/internal/config"
	"github.com/joshuapare/shellns/pkg/backup"
	"github.com/joshuapare/shellns/pkg/entries"
	"github.com/joshuapare/shellns/pkg/types"
)

func TestList(t *testing.T) {
	testStore(t)

	output, err := captureOutput(t, runList)
	require.NoError(t, err)
	assertContains(t, output, []string{
		"STATE", "KEY", "NAME",
		"visible  {A}", "Alpha",
		"hidden   {C}", "Gamma", "2026-10-17 09:30:00",
		"3 entries: 2 visible, 1 hidden",
	})
	assertNotContains(t, output, []string{"stale"})
}

func TestListJSON(t *testing.T) {
	testStore(t)
	jsonOut = true

	output, err := captureOutput(t, runList)
	require.NoError(t, err)
	assertJSON(t, output)

	var got struct {
		Entries []entries.Entry `json:"entries"`
		Summary entries.Summary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &got))
	require.Len(t, got.Entries, 3)
	assert.Equal(t, "{C}", got.Entries[2].Key)
	assert.False(t, got.Entries[2].Visible)
	assert.Equal(t, 3, got.Summary.Total)
}

func TestListEmptyStore(t *testing.T) {
	resetFlags()
	t.Cleanup(resetFlags)
	backendFlag = "regfile"
	storeFlag = filepath.Join(t.TempDir(), "empty.reg")

	output, err := captureOutput(t, runList)
	require.NoError(t, err)
	assertContains(t, output, []string{"No entries."})
}

func TestHideAndRestore(t *testing.T) {
	path := testStore(t)

	output, err := captureOutput(t, func() error { return runTransition("hide", []string{"{A}"}) })
	require.NoError(t, err)
	assertContains(t, output, []string{"Hidden  {A} (Alpha)", "Restart Explorer"})

	s := reopen(t, path)
	layout := entries.DefaultLayout()
	ok, err := backup.Present(s, layout.BackupPath("{A}"))
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = s.ListValues(layout.LivePath("{A}"))
	assert.ErrorIs(t, err, types.ErrNotFound)

	output, err = captureOutput(t, func() error { return runTransition("restore", []string{"{A}", "{C}"}) })
	require.NoError(t, err)
	assertContains(t, output, []string{"Shown   {A} (Alpha)", "Shown   {C} (Gamma)"})

	s = reopen(t, path)
	v, err := s.GetValue(layout.LivePath("{C}"), "")
	require.NoError(t, err)
	assert.Equal(t, "Gamma", v.Text)
}

func TestKeysMatchIgnoringCase(t *testing.T) {
	path := testStore(t)

	output, err := captureOutput(t, func() error { return runTransition("hide", []string{"{a}"}) })
	require.NoError(t, err)
	assertContains(t, output, []string{"Hidden  {A} (Alpha)"})

	applyShow = []string{"{c}"}
	applyHide = []string{"{b}"}
	output, err = captureOutput(t, runApply)
	require.NoError(t, err)
	assertContains(t, output, []string{"Changed 2 entries"})

	s := reopen(t, path)
	cache, err := entries.New(s).Reconcile()
	require.NoError(t, err)
	require.Len(t, cache, 3)
	assert.False(t, cache["{A}"].OriginalVisible)
	assert.False(t, cache["{B}"].OriginalVisible)
	assert.True(t, cache["{C}"].OriginalVisible)
}

func TestApplyShowAndHideSameKeyIgnoringCase(t *testing.T) {
	testStore(t)
	applyShow = []string{"{A}"}
	applyHide = []string{"{a}"}

	_, err := captureOutput(t, runApply)
	require.ErrorContains(t, err, "in both --show and --hide")
}

func TestVersion(t *testing.T) {
	resetFlags()
	t.Cleanup(resetFlags)

	output, err := captureOutput(t, runVersion)
	require.NoError(t, err)
	assertContains(t, output, []string{"nsctl dev", "commit: none"})

	jsonOut = true
	output, err = captureOutput(t, runVersion)
	require.NoError(t, err)
	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(output), &got))
	assert.Equal(t, "dev", got["version"])
}

func TestTransitionUnknownKey(t *testing.T) {
	path := testStore(t)

	output, err := captureOutput(t, func() error { return runTransition("hide", []string{"{Z}", "{B}"}) })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 hide operations failed")
	assertContains(t, output, []string{"FAILED  {Z}: unknown entry {Z}", "Hidden  {B} (Beta)"})

	s := reopen(t, path)
	ok, err := backup.Present(s, entries.DefaultLayout().BackupPath("{Z}"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDelete(t *testing.T) {
	testStore(t)

	output, err := captureOutput(t, func() error { return runTransition("delete", []string{"{A}", "{C}", "{Z}"}) })
	require.NoError(t, err)
	assertContains(t, output, []string{"Deleted {A} (Alpha)", "Deleted {C} (Gamma)", "Deleted {Z} ({Z})"})
	assertNotContains(t, output, []string{"Restart Explorer"})

	jsonOut = true
	output, err = captureOutput(t, runList)
	require.NoError(t, err)
	var got struct {
		Entries []entries.Entry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &got))
	require.Len(t, got.Entries, 1)
	assert.Equal(t, "{B}", got.Entries[0].Key)
}

func TestApply(t *testing.T) {
	path := testStore(t)
	applyHide = []string{"{A}", "{B}"}
	applyShow = []string{"{C}"}

	output, err := captureOutput(t, runApply)
	require.NoError(t, err)
	assertContains(t, output, []string{"Changed 3 entries", "Restart Explorer"})

	s := reopen(t, path)
	layout := entries.DefaultLayout()
	cache, err := entries.New(s, entries.WithLayout(layout)).Reconcile()
	require.NoError(t, err)
	assert.False(t, cache["{A}"].OriginalVisible)
	assert.False(t, cache["{B}"].OriginalVisible)
	assert.True(t, cache["{C}"].OriginalVisible)
}

func TestApplyJSON(t *testing.T) {
	testStore(t)
	jsonOut = true
	applyHide = []string{"{A}"}
	applyShow = []string{"{B}"}

	output, err := captureOutput(t, runApply)
	require.NoError(t, err)
	assertJSON(t, output)

	var res entries.Result
	require.NoError(t, json.Unmarshal([]byte(output), &res))
	assert.Equal(t, 1, res.Changed)
	assert.NotEmpty(t, res.RunID)
	assert.Empty(t, res.Failures)
}

func TestApplyValidation(t *testing.T) {
	tests := []struct {
		name string
		show []string
		hide []string
		want string
	}{
		{"nothing", nil, nil, "nothing to apply"},
		{"both lists", []string{"{A}"}, []string{"{A}"}, "in both --show and --hide"},
		{"unknown show", []string{"{Z}"}, nil, "unknown entry {Z}"},
		{"unknown hide", nil, []string{"{Y}"}, "unknown entry {Y}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testStore(t)
			applyShow, applyHide = tt.show, tt.hide

			_, err := captureOutput(t, runApply)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestPrune(t *testing.T) {
	path := testStore(t)
	s := reopen(t, path)
	layout := entries.DefaultLayout()
	stale := backup.Unit{
		Name:      "Alpha",
		Values:    backup.ValueSet{"": types.StringValue("Alpha")},
		CreatedAt: "2026-10-17 09:30:00",
	}
	require.NoError(t, backup.Write(s, layout.BackupPath("{A}"), stale))
	stale.Values = backup.ValueSet{"": types.StringValue("Older Beta")}
	require.NoError(t, backup.Write(s, layout.BackupPath("{B}"), stale))

	output, err := captureOutput(t, runPrune)
	require.NoError(t, err)
	assertContains(t, output, []string{"Pruned  {A}", "Kept    {B}", "1 pruned, 1 kept"})

	s = reopen(t, path)
	ok, err := backup.Present(s, layout.BackupPath("{A}"))
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = backup.Present(s, layout.BackupPath("{C}"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestExportStdout(t *testing.T) {
	testStore(t)
	exportStdout = true
	exportEncoding = "utf8"

	output, err := captureOutput(t, func() error { return runExport(nil) })
	require.NoError(t, err)
	assertContains(t, output, []string{
		"Windows Registry Editor Version 5.00",
		`[HKEY_CURRENT_USER\Software\Microsoft\Windows\CurrentVersion\Explorer\MyComputer\NameSpace\{A}]`,
		`@="Alpha"`,
		`[HKEY_CURRENT_USER\Software\DriveManager\Backups\{C}]`,
		`"has_backup"=dword:00000001`,
	})
}

func TestExportFile(t *testing.T) {
	testStore(t)
	out := filepath.Join(t.TempDir(), "ns.reg")

	output, err := captureOutput(t, func() error { return runExport([]string{out}) })
	require.NoError(t, err)
	assertContains(t, output, []string{"Exported", out})

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(data), 2)
	assert.Equal(t, []byte{0xFF, 0xFE}, data[:2])
}

func TestExportArgs(t *testing.T) {
	testStore(t)

	_, err := captureOutput(t, func() error { return runExport(nil) })
	require.ErrorContains(t, err, "must specify output file")

	exportStdout = true
	_, err = captureOutput(t, func() error { return runExport([]string{"x.reg"}) })
	require.ErrorContains(t, err, "cannot specify both")

	exportEncoding = "latin1"
	_, err = captureOutput(t, func() error { return runExport(nil) })
	require.ErrorContains(t, err, "unsupported encoding")
}

func TestLoadConfigFlags(t *testing.T) {
	resetFlags()
	t.Cleanup(resetFlags)
	t.Setenv("SHELLNS_BACKEND", "memory")
	t.Setenv("SHELLNS_LIVE_ROOT", `Software\Env\Live`)

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, config.BackendMemory, cfg.Backend)
	assert.Equal(t, `Software\Env\Live`, cfg.LiveRoot)

	backendFlag = "sqlite"
	storeFlag = filepath.Join(t.TempDir(), "ns.db")
	liveRootFlag = `Software\Flag\Live`
	backupRootFlag = `Software\Flag\Backups`
	cfg, err = loadConfig()
	require.NoError(t, err)
	assert.Equal(t, config.BackendSQLite, cfg.Backend)
	assert.Equal(t, storeFlag, cfg.StorePath)
	assert.Equal(t, `Software\Flag\Live`, cfg.Layout().LiveRoot)
	assert.Equal(t, `Software\Flag\Backups`, cfg.Layout().BackupRoot)
}

func TestLoadConfigInvalidBackend(t *testing.T) {
	resetFlags()
	t.Cleanup(resetFlags)
	backendFlag = "floppy"

	_, err := loadConfig()
	require.Error(t, err)
}
