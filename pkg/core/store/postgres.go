package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createFetchCache = `
	CREATE TABLE IF NOT EXISTS fetch_cache (
		cache_key  TEXT PRIMARY KEY,
		payload    JSONB NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// PostgresTier keeps cache payloads in the fetch_cache table.
type PostgresTier struct {
	pool *pgxpool.Pool
}

// NewPostgresTier creates the table if needed.
func NewPostgresTier(ctx context.Context, pool *pgxpool.Pool) (*PostgresTier, error) {
	if _, err := pool.Exec(ctx, createFetchCache); err != nil {
		return nil, fmt.Errorf("failed to create fetch_cache table: %w", err)
	}
	return &PostgresTier{pool: pool}, nil
}

func (p *PostgresTier) Name() string { return "postgres" }

func (p *PostgresTier) Load(ctx context.Context, key string) ([]byte, time.Time, bool, error) {
	query := `
		SELECT payload, expires_at
		FROM fetch_cache
		WHERE cache_key = $1
	`
	var payload []byte
	var expiresAt time.Time
	err := p.pool.QueryRow(ctx, query, key).Scan(&payload, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("failed to query fetch_cache: %w", err)
	}
	return payload, expiresAt, true, nil
}

func (p *PostgresTier) Save(ctx context.Context, key string, payload []byte, expiresAt time.Time) error {
	query := `
		INSERT INTO fetch_cache (cache_key, payload, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (cache_key)
		DO UPDATE SET
			payload = EXCLUDED.payload,
			expires_at = EXCLUDED.expires_at,
			created_at = NOW()
	`
	if _, err := p.pool.Exec(ctx, query, key, payload, expiresAt); err != nil {
		return fmt.Errorf("failed to save to fetch_cache: %w", err)
	}
	return nil
}

func (p *PostgresTier) Purge(ctx context.Context, now time.Time) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM fetch_cache WHERE expires_at <= $1`, now); err != nil {
		return fmt.Errorf("failed to purge fetch_cache: %w", err)
	}
	return nil
}

func (p *PostgresTier) Clear(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM fetch_cache`); err != nil {
		return fmt.Errorf("failed to clear fetch_cache: %w", err)
	}
	return nil
}
