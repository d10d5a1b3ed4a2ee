package settings

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSchema creates the table used by PostgresRepository.
const PostgresSchema = `
	CREATE TABLE IF NOT EXISTS client_settings (
		client_id  TEXT PRIMARY KEY,
		theme      TEXT NOT NULL,
		language   TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)
`

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL settings repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves the settings stored for a client.
func (r *PostgresRepository) Get(ctx context.Context, clientID string) (*Settings, error) {
	query := `
		SELECT client_id, theme, language, updated_at
		FROM client_settings
		WHERE client_id = $1
	`

	var s Settings
	err := r.pool.QueryRow(ctx, query, clientID).Scan(
		&s.ClientID,
		&s.Theme,
		&s.Language,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &s, nil
}

// Save creates or replaces the settings of a client.
func (r *PostgresRepository) Save(ctx context.Context, s *Settings) error {
	query := `
		INSERT INTO client_settings (client_id, theme, language, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (client_id) DO UPDATE SET
			theme = EXCLUDED.theme,
			language = EXCLUDED.language,
			updated_at = EXCLUDED.updated_at
	`

	s.UpdatedAt = time.Now().UTC()
	_, err := r.pool.Exec(ctx, query, s.ClientID, string(s.Theme), string(s.Language), s.UpdatedAt)
	return err
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
