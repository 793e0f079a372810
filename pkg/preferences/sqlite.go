package preferences

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLiteStore keeps preferences in a table of an existing SQLite database.
// It does not own the *sql.DB; Close leaves it open.
type SQLiteStore struct {
	db *sql.DB
}

// ErrNoTable is returned by NewSQLiteStore when the database has no
// preferences table.
var ErrNoTable = errors.New("preferences table does not exist")

// NewSQLiteStore wraps db, whose schema must already contain the preferences
// table. The record store migrations create it (storage.NewSQLiteStorage).
func NewSQLiteStore(ctx context.Context, db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}

	var name string
	err := db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'preferences'`,
	).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoTable
	}
	if err != nil {
		return nil, fmt.Errorf("failed to inspect schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Int64 returns the stored value or def.
func (s *SQLiteStore) Int64(ctx context.Context, key string, def int64) (int64, error) {
	if key == "" {
		return 0, ErrEmptyKey
	}

	var v int64
	err := s.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return def, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read preference %q: %w", key, err)
	}

	return v, nil
}

// SetInt64 upserts value under key.
func (s *SQLiteStore) SetInt64(ctx context.Context, key string, value int64) error {
	if key == "" {
		return ErrEmptyKey
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, value, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to write preference %q: %w", key, err)
	}

	return nil
}

// Close is a no-op; the database belongs to the caller.
func (s *SQLiteStore) Close() error {
	return nil
}
