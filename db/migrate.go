package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate applies idempotent schema statements for all required tables and
// indices. Safe to run on every startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		// similarity() and the % operator for tag search
		`CREATE EXTENSION IF NOT EXISTS pg_trgm`,
		`CREATE TABLE IF NOT EXISTS tags (
			server_id BIGINT NOT NULL,
			owner_id BIGINT NOT NULL,
			tag_name TEXT NOT NULL,
			tag_contents TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			total_uses INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (server_id, tag_name)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tags_name_trgm ON tags USING gin (tag_name gin_trgm_ops)`,
		`CREATE TABLE IF NOT EXISTS custom_prefix (
			guild_id BIGINT PRIMARY KEY,
			prefix TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS user_info (
			member_id BIGINT PRIMARY KEY,
			zipcode TEXT
		)`,
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
