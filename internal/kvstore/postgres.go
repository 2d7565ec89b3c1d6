package kvstore

import (
	"context"
	"errors"
	"fmt"

	"backend-safedrive/internal/db"

	"github.com/jackc/pgx/v5"
)

type Postgres struct {
	db db.Querier
}

// NewPostgres creates the kv table if it is missing.
func NewPostgres(ctx context.Context, q db.Querier) (*Postgres, error) {
	if _, err := q.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS kv_store (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`); err != nil {
		return nil, fmt.Errorf("create kv_store: %w", err)
	}
	return &Postgres{db: q}, nil
}

func (p *Postgres) GetString(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := p.db.QueryRow(ctx, `SELECT value FROM kv_store WHERE key=$1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (p *Postgres) SetString(ctx context.Context, key, value string) error {
	_, err := p.db.Exec(ctx, `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1,$2,now())
		ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_at=now()
	`, key, value)
	return err
}
