// Package db holds the Postgres stores for tags, custom prefixes and saved
// user info. All access goes through a bounded pgx pool with parameterized
// queries.
package db

import (
	"github.com/JamesNgai/qtbot/logger/dlog"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/net/context"
)

// Connect opens a pgx pool and verifies connectivity. Callers treat a
// failure here as fatal at startup.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		dlog.Error("error creating postgres pool", "err", err)
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		dlog.Error("error connecting to postgres", "err", err)
		return nil, err
	}
	dlog.Info("connection established")
	return pool, nil
}
