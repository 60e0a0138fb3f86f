package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	// Import sqlite driver
	_ "modernc.org/sqlite"
)

// SQLiteCredentials persists credentials in a single key/value table.
type SQLiteCredentials struct {
	conn *sql.DB
}

// NewSQLiteCredentials opens the database at path and creates the table if
// needed. ":memory:" is accepted for tests.
func NewSQLiteCredentials(path string) (*SQLiteCredentials, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("credentials database path is required")
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases alive and serializes writers.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	r := &SQLiteCredentials{conn: conn}
	if err := r.migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return r, nil
}

func (r *SQLiteCredentials) migrate() error {
	_, err := r.conn.Exec(`CREATE TABLE IF NOT EXISTS credentials (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return fmt.Errorf("migrate credentials table: %w", err)
	}
	return nil
}

// Get reads every requested key in one statement, so a concurrent writer is
// seen either entirely or not at all.
func (r *SQLiteCredentials) Get(keys ...string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	args := make([]any, len(keys))
	for i, key := range keys {
		args[i] = key
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")

	rows, err := r.conn.Query("SELECT key, value FROM credentials WHERE key IN ("+placeholders+")", args...)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan credential: %w", err)
		}
		out[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	return out, nil
}

func (r *SQLiteCredentials) Put(values map[string]string) error {
	tx, err := r.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin credentials tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for key, value := range values {
		if _, err := tx.Exec(
			`INSERT INTO credentials (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			key, value,
		); err != nil {
			return fmt.Errorf("write credential %s: %w", key, err)
		}
	}

	return tx.Commit()
}

func (r *SQLiteCredentials) Delete(keys ...string) error {
	tx, err := r.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin credentials tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, key := range keys {
		if _, err := tx.Exec("DELETE FROM credentials WHERE key = ?", key); err != nil {
			return fmt.Errorf("delete credential %s: %w", key, err)
		}
	}

	return tx.Commit()
}

func (r *SQLiteCredentials) Close() error {
	return r.conn.Close()
}
