package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS client_settings (
		client_id  TEXT PRIMARY KEY,
		theme      TEXT NOT NULL,
		language   TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	)
`

// SQLiteRepository is a SQLite implementation of Repository for single-node
// deployments.
type SQLiteRepository struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and ensures the schema.
// Use ":memory:" for a throwaway database.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// A single connection keeps ":memory:" databases shared and serialises writes.
	db.SetMaxOpenConns(1)

	repo, err := NewSQLiteRepository(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

// NewSQLiteRepository wraps an open database and ensures the schema.
func NewSQLiteRepository(ctx context.Context, db *sql.DB) (*SQLiteRepository, error) {
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, fmt.Errorf("failed to initialize sqlite schema: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// Get retrieves the settings stored for a client.
func (r *SQLiteRepository) Get(ctx context.Context, clientID string) (*Settings, error) {
	var (
		s       Settings
		updated int64
	)

	err := r.db.QueryRowContext(ctx,
		"SELECT client_id, theme, language, updated_at FROM client_settings WHERE client_id = ?",
		clientID,
	).Scan(&s.ClientID, &s.Theme, &s.Language, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.UpdatedAt = time.Unix(updated, 0).UTC()
	return &s, nil
}

// Save creates or replaces the settings of a client.
func (r *SQLiteRepository) Save(ctx context.Context, s *Settings) error {
	s.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO client_settings (client_id, theme, language, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (client_id) DO UPDATE SET
			theme = excluded.theme,
			language = excluded.language,
			updated_at = excluded.updated_at
	`, s.ClientID, string(s.Theme), string(s.Language), s.UpdatedAt.Unix())
	return err
}

// Ping checks the database connection.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the underlying database.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Ensure SQLiteRepository implements Repository interface.
var _ Repository = (*SQLiteRepository)(nil)
