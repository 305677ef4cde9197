package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joshuapare/shellns/internal/store/regfile"
	"github.com/joshuapare/shellns/pkg/backup"
	"github.com/joshuapare/shellns/pkg/entries"
	"github.com/joshuapare/shellns/pkg/types"
)

// testStore creates a regfile store holding live {A} "Alpha", live {B}
// "Beta" and hidden {C} "Gamma", points the global flags at it and returns
// its path.
func testStore(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store.reg")
	s, err := regfile.Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	layout := entries.DefaultLayout()
	for key, name := range map[string]string{"{A}": "Alpha", "{B}": "Beta"} {
		if err := s.SetValue(layout.LivePath(key), "", types.StringValue(name)); err != nil {
			t.Fatalf("seed %s: %v", key, err)
		}
	}
	unit := backup.Unit{
		Name:      "Gamma",
		Values:    backup.ValueSet{"": types.StringValue("Gamma")},
		CreatedAt: "2026-10-17 09:30:00",
	}
	if err := backup.Write(s, layout.BackupPath("{C}"), unit); err != nil {
		t.Fatalf("seed {C}: %v", err)
	}

	resetFlags()
	backendFlag = "regfile"
	storeFlag = path
	t.Cleanup(resetFlags)
	return path
}

// resetFlags restores every global flag to its default.
func resetFlags() {
	verbose, quiet, jsonOut = false, false, false
	backendFlag, storeFlag, liveRootFlag, backupRootFlag = "", "", "", ""
	applyShow, applyHide = nil, nil
	exportEncoding, exportStdout = "utf16le", false
}

// reopen loads the store file again, as a later nsctl run would.
func reopen(t *testing.T, path string) *regfile.Store {
	t.Helper()
	s, err := regfile.Open(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	return s
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	return buf.String(), fnErr
}

// assertJSON checks that output is valid JSON
func assertJSON(t *testing.T, output string) {
	t.Helper()
	var result any
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Errorf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}

// assertNotContains checks that output doesn't contain unwanted strings
func assertNotContains(t *testing.T, output string, unwanted []string) {
	t.Helper()
	for _, dont := range unwanted {
		if strings.Contains(output, dont) {
			t.Errorf("output contains unwanted string %q\nGot: %s", dont, output)
		}
	}
}
