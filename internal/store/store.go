// Package store persists saved field values in sqlite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS fields (
	name       TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS field_history (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	name     TEXT NOT NULL,
	value    TEXT NOT NULL,
	saved_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_field_history_name ON field_history(name, id);
`

// ErrNotFound is returned by Get for a field that was never saved.
var ErrNotFound = errors.New("field not found")

// Field is a saved value.
type Field struct {
	Name      string
	Value     string
	UpdatedAt time.Time
}

// Store wraps the database connection
type Store struct {
	conn *sql.DB
	now  func() time.Time
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// WAL lets `list` read while the demo writes
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA busy_timeout=500"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	s, err := New(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open connection and creates the schema. The connection
// pool is limited to one connection, so in-memory databases work too.
func New(conn *sql.DB) (*Store, error) {
	conn.SetMaxOpenConns(1)
	if _, err := conn.Exec(schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{conn: conn, now: time.Now}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.conn.Close()
}

// Get returns the saved value of name.
func (s *Store) Get(ctx context.Context, name string) (Field, error) {
	f := Field{Name: name}
	var ts int64
	err := s.conn.QueryRowContext(ctx,
		`SELECT value, updated_at FROM fields WHERE name = ?`, name,
	).Scan(&f.Value, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return f, ErrNotFound
	}
	if err != nil {
		return f, fmt.Errorf("get %s: %w", name, err)
	}
	f.UpdatedAt = time.Unix(0, ts)
	return f, nil
}

// Value returns the saved value of name, or def if it was never saved.
func (s *Store) Value(ctx context.Context, name, def string) (string, error) {
	f, err := s.Get(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return def, nil
	}
	return f.Value, err
}

// Put saves value under name and appends it to the field's history.
func (s *Store) Put(ctx context.Context, name, value string) error {
	ts := s.now().UnixNano()

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO fields (name, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		name, value, ts,
	); err != nil {
		return fmt.Errorf("put %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO field_history (name, value, saved_at) VALUES (?, ?, ?)`,
		name, value, ts,
	); err != nil {
		return fmt.Errorf("history %s: %w", name, err)
	}
	return tx.Commit()
}

// List returns every saved field ordered by name.
func (s *Store) List(ctx context.Context) ([]Field, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT name, value, updated_at FROM fields ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list fields: %w", err)
	}
	defer rows.Close()
	return scanFields(rows)
}

// History returns up to limit saved values of name, newest first. A
// non-positive limit returns everything.
func (s *Store) History(ctx context.Context, name string, limit int) ([]Field, error) {
	query := `SELECT name, value, saved_at FROM field_history WHERE name = ? ORDER BY id DESC`
	args := []any{name}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("history %s: %w", name, err)
	}
	defer rows.Close()
	return scanFields(rows)
}

func scanFields(rows *sql.Rows) ([]Field, error) {
	var out []Field
	for rows.Next() {
		var f Field
		var ts int64
		if err := rows.Scan(&f.Name, &f.Value, &ts); err != nil {
			return nil, err
		}
		f.UpdatedAt = time.Unix(0, ts)
		out = append(out, f)
	}
	return out, rows.Err()
}
