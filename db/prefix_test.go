package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefixStoreRoundTrip(t *testing.T) {
	pool := setupTestPool(t)
	cleanGuild(t, pool, testGuild)
	prefixes := NewPrefixStore(pool)
	ctx := context.Background()

	require.NoError(t, prefixes.Set(ctx, testGuild, "!"))
	all, err := prefixes.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, "!", all[testGuild])

	// upsert replaces
	require.NoError(t, prefixes.Set(ctx, testGuild, "?"))
	all, err = prefixes.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, "?", all[testGuild])

	require.NoError(t, prefixes.Delete(ctx, testGuild))
	all, err = prefixes.All(ctx)
	require.NoError(t, err)
	_, ok := all[testGuild]
	assert.False(t, ok)
}
