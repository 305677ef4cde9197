package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joshuapare/shellns/internal/config"
	"github.com/joshuapare/shellns/internal/logger"
	"github.com/joshuapare/shellns/internal/store"
	"github.com/joshuapare/shellns/pkg/entries"
	"github.com/joshuapare/shellns/pkg/types"
)

// session is one opened store plus the registry over it.
type session struct {
	cfg   config.Config
	store types.Store
	reg   *entries.Registry
}

// loadConfig reads the environment and applies flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if backendFlag != "" {
		cfg.Backend = config.Backend(backendFlag)
	}
	if storeFlag != "" {
		cfg.StorePath = storeFlag
	}
	if liveRootFlag != "" {
		cfg.LiveRoot = liveRootFlag
	}
	if backupRootFlag != "" {
		cfg.BackupRoot = backupRootFlag
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func initLogging(cfg config.Config) error {
	if verbose {
		return logger.Init(logger.Options{Enabled: true, Stderr: os.Stderr, Level: slog.LevelDebug})
	}
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	dir := cfg.LogDir
	if dir == "" {
		dir = config.DefaultLogDir()
	}
	return logger.Init(logger.Options{Enabled: cfg.LogEnabled, LogDir: dir, Level: level})
}

func openSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := initLogging(cfg); err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	backend := store.Resolve(cfg.Backend)
	printVerbose("Opening %s store\n", backend)
	s, err := store.Open(cfg)
	if err != nil {
		_ = logger.Close()
		return nil, fmt.Errorf("open %s store: %w", backend, err)
	}
	logger.Debug("store opened", "backend", string(backend), "path", cfg.StorePath)

	reg := entries.New(s, entries.WithLayout(cfg.Layout()), entries.WithLogger(logger.L))
	return &session{cfg: cfg, store: s, reg: reg}, nil
}

func (s *session) Close() {
	if err := store.Close(s.store); err != nil {
		logger.Warn("store close failed", "error", err)
	}
	_ = logger.Close()
}

// withSession opens a session, runs fn and closes it.
func withSession(fn func(*session) error) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}
