package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserInfoStore keeps one row of saved preferences per member, upserted by
// member_id. Column names always come from the whitelist below, never from
// user input.
type UserInfoStore struct {
	pool *pgxpool.Pool
}

const ColumnZipcode = "zipcode"

var userInfoColumns = map[string]bool{
	ColumnZipcode: true,
}

func NewUserInfoStore(pool *pgxpool.Pool) *UserInfoStore {
	return &UserInfoStore{pool: pool}
}

func validColumn(column string) error {
	if !userInfoColumns[column] {
		return fmt.Errorf("db: unknown user_info column %q", column)
	}
	return nil
}

// Fetch returns the saved value for one column, or ErrNotFound when the
// member has no row or the column is unset.
func (s *UserInfoStore) Fetch(ctx context.Context, memberID int64, column string) (string, error) {
	if err := validColumn(column); err != nil {
		return "", err
	}
	query := fmt.Sprintf(`SELECT %s FROM user_info WHERE member_id = $1`, column)

	var value *string
	err := s.pool.QueryRow(ctx, query, memberID).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if value == nil {
		return "", ErrNotFound
	}
	return *value, nil
}

// Upsert inserts the member row or updates the column when it exists.
func (s *UserInfoStore) Upsert(ctx context.Context, memberID int64, column, value string) error {
	if err := validColumn(column); err != nil {
		return err
	}
	query := fmt.Sprintf(`INSERT INTO user_info (member_id, %[1]s) VALUES ($1, $2)
		ON CONFLICT (member_id) DO UPDATE SET %[1]s = EXCLUDED.%[1]s`, column)
	_, err := s.pool.Exec(ctx, query, memberID, value)
	return err
}

// Remove clears one column for the member. No error when nothing was saved.
func (s *UserInfoStore) Remove(ctx context.Context, memberID int64, column string) error {
	if err := validColumn(column); err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE user_info SET %s = NULL WHERE member_id = $1`, column)
	_, err := s.pool.Exec(ctx, query, memberID)
	return err
}
