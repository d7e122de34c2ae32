package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS reports (
    id TEXT PRIMARY KEY,
    body BLOB NOT NULL,
    created_at TIMESTAMP NOT NULL
);
`

// SQLiteStore keeps blobs in a single sqlite table
type SQLiteStore struct {
	DB  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (or creates) the database at path and applies the schema
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return NewSQLiteStore(db), nil
}

// NewSQLiteStore wraps an already opened database
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{DB: db, now: time.Now}
}

// Save inserts or replaces the blob stored under id
func (s *SQLiteStore) Save(ctx context.Context, id string, blob []byte) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO reports (id, body, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET body = excluded.body`,
		id, blob, s.now().UTC())
	if err != nil {
		return fmt.Errorf("save report %s: %w", id, err)
	}
	return nil
}

// Load returns the blob stored under id, or ErrNotFound
func (s *SQLiteStore) Load(ctx context.Context, id string) ([]byte, error) {
	var blob []byte
	err := s.DB.QueryRowContext(ctx, `SELECT body FROM reports WHERE id = ?`, id).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load report %s: %w", id, err)
	}
	return blob, nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.DB.Close()
}
