// Package database implements the clip repository on PostgreSQL via pgx.
package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pgx connection pool and verifies connectivity.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	cfg.MaxConns = 25

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// RunMigrations applies the schema. Statements are idempotent so startup can
// run them unconditionally.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS clips (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			client_id TEXT NOT NULL,
			locale TEXT NOT NULL,
			sentence TEXT NOT NULL,
			original_sentence_id TEXT NOT NULL,
			path TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (client_id, original_sentence_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_clips_locale ON clips(locale)`,
		`CREATE INDEX IF NOT EXISTS idx_clips_created_at ON clips(created_at)`,
		`CREATE TABLE IF NOT EXISTS votes (
			clip_id UUID NOT NULL REFERENCES clips(id) ON DELETE CASCADE,
			client_id TEXT NOT NULL,
			is_valid BOOLEAN NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (clip_id, client_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_client_id ON votes(client_id)`,
		`CREATE TABLE IF NOT EXISTS user_activity (
			client_id TEXT NOT NULL,
			locale TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_user_activity_client ON user_activity(client_id, locale)`,
	}

	for _, migration := range migrations {
		if _, err := pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	slog.Info("Database migrations completed")
	return nil
}
