package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserInfoUpsertFetchRemove(t *testing.T) {
	pool := setupTestPool(t)
	users := NewUserInfoStore(pool)
	ctx := context.Background()
	const member int64 = 555001
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM user_info WHERE member_id = $1`, member)
	})

	_, err := users.Fetch(ctx, member, ColumnZipcode)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, users.Upsert(ctx, member, ColumnZipcode, "90210"))
	value, err := users.Fetch(ctx, member, ColumnZipcode)
	require.NoError(t, err)
	assert.Equal(t, "90210", value)

	// upsert overwrites
	require.NoError(t, users.Upsert(ctx, member, ColumnZipcode, "10001"))
	value, err = users.Fetch(ctx, member, ColumnZipcode)
	require.NoError(t, err)
	assert.Equal(t, "10001", value)

	require.NoError(t, users.Remove(ctx, member, ColumnZipcode))
	_, err = users.Fetch(ctx, member, ColumnZipcode)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserInfoRejectsUnknownColumn(t *testing.T) {
	pool := setupTestPool(t)
	users := NewUserInfoStore(pool)
	ctx := context.Background()

	_, err := users.Fetch(ctx, 1, "owner_id; DROP TABLE user_info")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
