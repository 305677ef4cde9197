// Package sqlitestore is a types.Store kept in a SQLite database, for hosts
// without a registry that want a transactional store.
package sqlitestore

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/joshuapare/shellns/pkg/types"
)

//go:embed schema.sql
var schema string

// Store persists namespace paths and values in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens or creates the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One writer at a time; SQLite serializes them anyway.
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", mapErr(err))
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", mapErr(err))
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// ListChildren implements types.Store.
func (s *Store) ListChildren(path string) ([]string, error) {
	lower := fold(path)
	if err := s.requireKey(s.sqlDB, path, lower); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.Query(
		`SELECT name FROM keys WHERE parent_lower = ? ORDER BY path_lower`, lower)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, mapErr(err)
		}
		names = append(names, name)
	}
	return names, mapErr(rows.Err())
}

// ListValues implements types.Store.
func (s *Store) ListValues(path string) ([]types.NamedValue, error) {
	lower := fold(path)
	if err := s.requireKey(s.sqlDB, path, lower); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.Query(
		`SELECT name, type, data FROM key_values WHERE path_lower = ? ORDER BY name_lower`, lower)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	values := []types.NamedValue{}
	for rows.Next() {
		var (
			name string
			typ  int64
			data []byte
		)
		if err := rows.Scan(&name, &typ, &data); err != nil {
			return nil, mapErr(err)
		}
		v, err := types.ParseValue(types.RegType(typ), data)
		if err != nil {
			return nil, fmt.Errorf("value %q under %q: %w", name, path, err)
		}
		values = append(values, types.NamedValue{Name: name, Value: v})
	}
	return values, mapErr(rows.Err())
}

// GetValue implements types.Store.
func (s *Store) GetValue(path, name string) (types.Value, error) {
	lower := fold(path)
	if err := s.requireKey(s.sqlDB, path, lower); err != nil {
		return types.Value{}, err
	}
	var (
		typ  int64
		data []byte
	)
	err := s.sqlDB.QueryRow(
		`SELECT type, data FROM key_values WHERE path_lower = ? AND name_lower = ?`,
		lower, strings.ToLower(name),
	).Scan(&typ, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Value{}, types.NotFound("value %q not found under %q", name, path)
	}
	if err != nil {
		return types.Value{}, mapErr(err)
	}
	return types.ParseValue(types.RegType(typ), data)
}

// SetValue implements types.Store.
func (s *Store) SetValue(path, name string, v types.Value) error {
	data, err := v.Bytes()
	if err != nil {
		return err
	}
	return s.inTx(func(tx *sql.Tx) error {
		if err := ensure(tx, path); err != nil {
			return err
		}
		_, err := tx.Exec(
			`INSERT INTO key_values (path_lower, name_lower, name, type, data)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT (path_lower, name_lower) DO UPDATE SET
			   name = excluded.name,
			   type = excluded.type,
			   data = excluded.data`,
			fold(path), strings.ToLower(name), name, int64(v.Type), data,
		)
		return err
	})
}

// DeletePath implements types.Store. The subtree under path goes with it.
func (s *Store) DeletePath(path string) error {
	lower := fold(path)
	if lower == "" {
		return types.InvalidArgument("cannot delete the store root")
	}
	return s.inTx(func(tx *sql.Tx) error {
		if err := s.requireKey(tx, path, lower); err != nil {
			return err
		}
		prefix := lower + types.PathSeparator
		const subtree = `path_lower = ?1 OR substr(path_lower, 1, length(?2)) = ?2`
		if _, err := tx.Exec(`DELETE FROM key_values WHERE `+subtree, lower, prefix); err != nil {
			return err
		}
		_, err := tx.Exec(`DELETE FROM keys WHERE `+subtree, lower, prefix)
		return err
	})
}

// EnsurePath implements types.Store.
func (s *Store) EnsurePath(path string) error {
	return s.inTx(func(tx *sql.Tx) error { return ensure(tx, path) })
}

type queryer interface {
	QueryRow(query string, args ...any) *sql.Row
}

// requireKey fails with types.ErrNotFound unless path exists. The root
// always exists.
func (s *Store) requireKey(q queryer, path, lower string) error {
	if lower == "" {
		return nil
	}
	var one int
	err := q.QueryRow(`SELECT 1 FROM keys WHERE path_lower = ?`, lower).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return types.NotFound("path %q not found", path)
	}
	return mapErr(err)
}

// ensure inserts every missing segment of path, keeping the case of
// segments that already exist.
func ensure(tx *sql.Tx, path string) error {
	parts := types.SplitPath(path)
	parentLower := ""
	for i, part := range parts {
		full := strings.Join(parts[:i+1], types.PathSeparator)
		lower := strings.ToLower(full)
		_, err := tx.Exec(
			`INSERT INTO keys (path_lower, path, parent_lower, name) VALUES (?, ?, ?, ?)
			 ON CONFLICT (path_lower) DO NOTHING`,
			lower, full, parentLower, part,
		)
		if err != nil {
			return err
		}
		parentLower = lower
	}
	return nil
}

func (s *Store) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.sqlDB.Begin()
	if err != nil {
		return mapErr(err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return mapErr(err)
	}
	return mapErr(tx.Commit())
}

func fold(path string) string { return types.FoldPath(path) }

// mapErr converts SQLite permission failures to types.ErrAccessDenied and
// passes everything else through.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	var typed *types.Error
	if errors.As(err, &typed) {
		return err
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() & 0xff {
		case sqlite3lib.SQLITE_READONLY, sqlite3lib.SQLITE_PERM, sqlite3lib.SQLITE_AUTH, sqlite3lib.SQLITE_CANTOPEN:
			return types.AccessDenied(err, "sqlite store")
		}
	}
	return err
}

var _ types.Store = (*Store)(nil)
