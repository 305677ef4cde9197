// Package config loads shellns settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/joshuapare/shellns/pkg/entries"
)

// Backend names a types.Store implementation.
type Backend string

const (
	// BackendAuto is winreg on Windows and regfile elsewhere.
	BackendAuto    Backend = "auto"
	BackendWinreg  Backend = "winreg"
	BackendRegfile Backend = "regfile"
	BackendSQLite  Backend = "sqlite"
	BackendMemory  Backend = "memory"
)

// Backends lists every accepted backend name.
var Backends = []Backend{BackendAuto, BackendWinreg, BackendRegfile, BackendSQLite, BackendMemory}

// Config is the process configuration.
type Config struct {
	Backend    Backend `env:"SHELLNS_BACKEND" envDefault:"auto"`
	StorePath  string  `env:"SHELLNS_STORE_PATH"`
	LiveRoot   string  `env:"SHELLNS_LIVE_ROOT" envDefault:"Software\\Microsoft\\Windows\\CurrentVersion\\Explorer\\MyComputer\\NameSpace"`
	BackupRoot string  `env:"SHELLNS_BACKUP_ROOT" envDefault:"Software\\DriveManager\\Backups"`

	LogEnabled bool   `env:"SHELLNS_LOG"`
	LogDir     string `env:"SHELLNS_LOG_DIR"`
	LogLevel   string `env:"SHELLNS_LOG_LEVEL" envDefault:"info"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load returns the environment configuration with defaults applied. It does
// not validate; flags may still override fields.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Layout returns the namespace roots of cfg.
func (c Config) Layout() entries.Layout {
	return entries.Layout{LiveRoot: c.LiveRoot, BackupRoot: c.BackupRoot}
}

// NeedsFile reports whether the backend persists to StorePath.
func (c Config) NeedsFile() bool {
	return c.Backend == BackendRegfile || c.Backend == BackendSQLite
}

// Validate rejects unknown backends, a file backend without a store path,
// and overlapping namespace roots.
func (c Config) Validate() error {
	known := false
	for _, b := range Backends {
		if c.Backend == b {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.NeedsFile() && strings.TrimSpace(c.StorePath) == "" {
		return fmt.Errorf("backend %s requires a store path (SHELLNS_STORE_PATH or --store)", c.Backend)
	}
	if err := c.Layout().Validate(); err != nil {
		return err
	}
	return nil
}

// DefaultStorePath returns the per-user file used when a file backend is
// chosen by BackendAuto without an explicit path.
func DefaultStorePath(name string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "shellns", name)
}

// DefaultLogDir returns where log files go when LogDir is empty.
func DefaultLogDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "shellns", "logs")
}
