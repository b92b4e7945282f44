package db

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// setupTestPool connects to the database named by TEST_PG_DSN and runs
// migrations. Tests are skipped when the variable is not set.
func setupTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_PG_DSN")
	if dsn == "" {
		t.Skip("TEST_PG_DSN not set")
	}
	ctx := context.Background()
	pool, err := Connect(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, Migrate(ctx, pool))
	t.Cleanup(pool.Close)
	return pool
}

// cleanGuild removes every row the test guild touched.
func cleanGuild(t *testing.T, pool *pgxpool.Pool, guildID int64) {
	t.Helper()
	t.Cleanup(func() {
		ctx := context.Background()
		_, _ = pool.Exec(ctx, `DELETE FROM tags WHERE server_id = $1`, guildID)
		_, _ = pool.Exec(ctx, `DELETE FROM custom_prefix WHERE guild_id = $1`, guildID)
	})
}
