package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PrefixStore persists per guild custom command prefixes.
type PrefixStore struct {
	pool *pgxpool.Pool
}

func NewPrefixStore(pool *pgxpool.Pool) *PrefixStore {
	return &PrefixStore{pool: pool}
}

// All returns every registered custom prefix. Called once at startup.
func (s *PrefixStore) All(ctx context.Context) (map[int64]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT guild_id, prefix FROM custom_prefix`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prefixes := make(map[int64]string)
	for rows.Next() {
		var guildID int64
		var prefix string
		if err := rows.Scan(&guildID, &prefix); err != nil {
			return nil, err
		}
		prefixes[guildID] = prefix
	}
	return prefixes, rows.Err()
}

func (s *PrefixStore) Set(ctx context.Context, guildID int64, prefix string) error {
	query := `INSERT INTO custom_prefix (guild_id, prefix) VALUES ($1, $2)
		ON CONFLICT (guild_id) DO UPDATE SET prefix = EXCLUDED.prefix`
	_, err := s.pool.Exec(ctx, query, guildID, prefix)
	return err
}

func (s *PrefixStore) Delete(ctx context.Context, guildID int64) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM custom_prefix WHERE guild_id = $1`, guildID)
	return err
}
