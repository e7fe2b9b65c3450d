// Package postgres is the alternative persistence layer for deployments that
// already run a PostgreSQL instance. Selected with DB_DRIVER=postgres.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pgx pool and bootstraps the schema.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := ensureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

func ensureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS transactions (
			id BIGINT PRIMARY KEY,
			description TEXT NOT NULL,
			category TEXT NOT NULL,
			amount NUMERIC(12,2) NOT NULL,
			date TEXT NOT NULL,
			type TEXT NOT NULL CHECK (type IN ('expense', 'income')),
			recurring BOOLEAN NOT NULL DEFAULT FALSE,
			recurrence_frequency TEXT,
			recurrence_end_date TEXT,
			is_generated BOOLEAN NOT NULL DEFAULT FALSE,
			parent_id BIGINT,
			receipt_image TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions (date);
		CREATE INDEX IF NOT EXISTS idx_transactions_category ON transactions (category);
		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
