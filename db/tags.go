package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Tag is a guild scoped, user owned text snippet retrievable by name.
// Names are stored lower cased; every lookup folds its argument the same
// way, so matching is case insensitive end to end.
type Tag struct {
	GuildID   int64
	OwnerID   int64
	Name      string
	Contents  string
	CreatedAt time.Time
	TotalUses int
}

// TagUse pairs a tag name with its usage count, for stats.
type TagUse struct {
	Name string
	Uses int
}

// TagStats summarizes one guild's tags.
type TagStats struct {
	Top       []TagUse
	Total     int
	TotalUses int
}

type TagStore struct {
	pool *pgxpool.Pool
}

func NewTagStore(pool *pgxpool.Pool) *TagStore {
	return &TagStore{pool: pool}
}

func (s *TagStore) Get(ctx context.Context, guildID int64, name string) (*Tag, error) {
	query := `SELECT server_id, owner_id, tag_name, tag_contents, created_at, total_uses
		FROM tags WHERE server_id = $1 AND tag_name = lower($2)`

	tag := &Tag{}
	err := s.pool.QueryRow(ctx, query, guildID, name).
		Scan(&tag.GuildID, &tag.OwnerID, &tag.Name, &tag.Contents, &tag.CreatedAt, &tag.TotalUses)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *TagStore) Create(ctx context.Context, guildID, ownerID int64, name, contents string) error {
	query := `INSERT INTO tags (server_id, owner_id, tag_name, tag_contents, created_at, total_uses)
		VALUES ($1, $2, lower($3), $4, now(), 0)`

	_, err := s.pool.Exec(ctx, query, guildID, ownerID, name, contents)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrTagExists
	}
	return err
}

// Invoke returns the tag contents and bumps total_uses in one atomic
// statement, so a cancelled invocation can never count without replying or
// reply without counting.
func (s *TagStore) Invoke(ctx context.Context, guildID int64, name string) (string, error) {
	query := `UPDATE tags SET total_uses = total_uses + 1
		WHERE server_id = $1 AND tag_name = lower($2)
		RETURNING tag_contents`

	var contents string
	err := s.pool.QueryRow(ctx, query, guildID, name).Scan(&contents)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return contents, err
}

// Delete removes a tag. Requester must own the tag or be an administrator.
func (s *TagStore) Delete(ctx context.Context, guildID int64, name string, requesterID int64, requesterIsAdmin bool) error {
	return s.authorizedMutation(ctx, guildID, name, requesterID, requesterIsAdmin,
		`DELETE FROM tags WHERE server_id = $1 AND tag_name = lower($2)`)
}

// Edit replaces the contents of a tag, leaving created_at untouched. Same
// authorization policy as Delete: owner or administrator.
func (s *TagStore) Edit(ctx context.Context, guildID int64, name string, requesterID int64, requesterIsAdmin bool, contents string) error {
	return s.authorizedMutation(ctx, guildID, name, requesterID, requesterIsAdmin,
		`UPDATE tags SET tag_contents = $3 WHERE server_id = $1 AND tag_name = lower($2)`, contents)
}

func (s *TagStore) authorizedMutation(ctx context.Context, guildID int64, name string, requesterID int64, requesterIsAdmin bool, stmt string, extra ...any) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var ownerID int64
	err = tx.QueryRow(ctx, `SELECT owner_id FROM tags WHERE server_id = $1 AND tag_name = lower($2)`, guildID, name).Scan(&ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if ownerID != requesterID && !requesterIsAdmin {
		return ErrForbidden
	}

	args := append([]any{guildID, name}, extra...)
	if _, err := tx.Exec(ctx, stmt, args...); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Search ranks a guild's tag names by trigram similarity to query,
// descending, at most limit results. Queries under three characters are
// rejected with ErrQueryTooShort.
func (s *TagStore) Search(ctx context.Context, guildID int64, query string, limit int) ([]string, error) {
	if len(query) < 3 {
		return nil, ErrQueryTooShort
	}
	if limit <= 0 {
		limit = 10
	}
	stmt := `SELECT tag_name FROM tags
		WHERE server_id = $1 AND tag_name % lower($2)
		ORDER BY similarity(tag_name, lower($2)) DESC
		LIMIT $3`

	rows, err := s.pool.Query(ctx, stmt, guildID, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Stats computes the top five tags by uses plus guild wide totals. A guild
// with no tags yields zeros, not an error.
func (s *TagStore) Stats(ctx context.Context, guildID int64) (*TagStats, error) {
	top := `SELECT tag_name, total_uses FROM tags
		WHERE server_id = $1
		ORDER BY total_uses DESC
		LIMIT 5`

	rows, err := s.pool.Query(ctx, top, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &TagStats{Top: []TagUse{}}
	for rows.Next() {
		var use TagUse
		if err := rows.Scan(&use.Name, &use.Uses); err != nil {
			return nil, err
		}
		stats.Top = append(stats.Top, use)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	totals := `SELECT COUNT(tag_name), COALESCE(SUM(total_uses), 0) FROM tags WHERE server_id = $1`
	if err := s.pool.QueryRow(ctx, totals, guildID).Scan(&stats.Total, &stats.TotalUses); err != nil {
		return nil, err
	}
	return stats, nil
}
