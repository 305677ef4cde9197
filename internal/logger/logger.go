// Package logger holds the process logger. Output is discarded until Init
// enables it.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// L is the global logger instance. It discards all output by default.
var L = discard()

var closer io.Closer

const (
	logPrefix     = "nsctl-"
	logSuffix     = ".log"
	dateLayout    = "2006-01-02"
	retentionDays = 30
)

// Options configures the logger initialization.
type Options struct {
	Enabled bool       // If false, all logging is discarded
	LogDir  string     // Directory for dated JSON log files
	Level   slog.Level // Minimum log level
	// Stderr sends text output to Stderr instead of a file.
	Stderr io.Writer
	// Now overrides the clock used for file names and retention.
	Now func() time.Time
}

// Init configures logging. Call from main before any log calls. It closes
// the file opened by a previous Init.
func Init(opts Options) error {
	_ = Close()
	if !opts.Enabled {
		L = discard()
		return nil
	}
	handlerOpts := &slog.HandlerOptions{Level: opts.Level}
	if opts.Stderr != nil {
		L = slog.New(slog.NewTextHandler(opts.Stderr, handlerOpts))
		return nil
	}
	if opts.LogDir == "" {
		return fmt.Errorf("log directory is required")
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	if err := os.MkdirAll(opts.LogDir, 0o755); err != nil {
		return err
	}
	cleanOldLogs(opts.LogDir, now())

	filename := filepath.Join(opts.LogDir, FileName(now()))
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	closer = f
	L = slog.New(slog.NewJSONHandler(f, handlerOpts))
	return nil
}

// Close flushes and closes the log file, if any, and resets L to discard.
func Close() error {
	if closer == nil {
		return nil
	}
	err := closer.Close()
	closer = nil
	L = discard()
	return err
}

// FileName returns the log file name for the day of t.
func FileName(t time.Time) string {
	return logPrefix + t.Format(dateLayout) + logSuffix
}

// ParseLevel maps debug/info/warn/error (case-insensitive) to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// cleanOldLogs removes log files older than retentionDays.
func cleanOldLogs(logDir string, now time.Time) {
	cutoff := now.AddDate(0, 0, -retentionDays)

	entries, err := os.ReadDir(logDir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, logPrefix) || !strings.HasSuffix(name, logSuffix) {
			continue
		}
		dateStr := strings.TrimPrefix(strings.TrimSuffix(name, logSuffix), logPrefix)
		logDate, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			continue
		}
		if logDate.Before(cutoff) {
			_ = os.Remove(filepath.Join(logDir, name))
		}
	}
}

func discard() *slog.Logger { return slog.New(slog.DiscardHandler) }

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) { L.Error(msg, args...) }
