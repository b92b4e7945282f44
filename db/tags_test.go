package db

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testGuild int64 = 900100
	testOwner int64 = 42
	testOther int64 = 43
)

func TestTagCreateGet(t *testing.T) {
	pool := setupTestPool(t)
	cleanGuild(t, pool, testGuild)
	tags := NewTagStore(pool)
	ctx := context.Background()

	require.NoError(t, tags.Create(ctx, testGuild, testOwner, "Hello", "world"))

	tag, err := tags.Get(ctx, testGuild, "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", tag.Name, "names are stored lower cased")
	assert.Equal(t, "world", tag.Contents)
	assert.Equal(t, 0, tag.TotalUses)
	assert.Equal(t, testOwner, tag.OwnerID)
	assert.False(t, tag.CreatedAt.IsZero())

	// lookups fold case too
	_, err = tags.Get(ctx, testGuild, "HELLO")
	assert.NoError(t, err)
}

func TestTagCreateDuplicate(t *testing.T) {
	pool := setupTestPool(t)
	cleanGuild(t, pool, testGuild)
	tags := NewTagStore(pool)
	ctx := context.Background()

	require.NoError(t, tags.Create(ctx, testGuild, testOwner, "dup", "first"))
	err := tags.Create(ctx, testGuild, testOther, "DUP", "second")
	assert.ErrorIs(t, err, ErrTagExists)

	tag, err := tags.Get(ctx, testGuild, "dup")
	require.NoError(t, err)
	assert.Equal(t, "first", tag.Contents, "failed create must not clobber the original")
}

func TestTagInvoke(t *testing.T) {
	pool := setupTestPool(t)
	cleanGuild(t, pool, testGuild)
	tags := NewTagStore(pool)
	ctx := context.Background()

	require.NoError(t, tags.Create(ctx, testGuild, testOwner, "greet", "hi there"))

	contents, err := tags.Invoke(ctx, testGuild, "greet")
	require.NoError(t, err)
	assert.Equal(t, "hi there", contents)

	tag, err := tags.Get(ctx, testGuild, "greet")
	require.NoError(t, err)
	assert.Equal(t, 1, tag.TotalUses)

	_, err = tags.Invoke(ctx, testGuild, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTagInvokeConcurrent(t *testing.T) {
	pool := setupTestPool(t)
	cleanGuild(t, pool, testGuild)
	tags := NewTagStore(pool)
	ctx := context.Background()

	require.NoError(t, tags.Create(ctx, testGuild, testOwner, "busy", "x"))

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := tags.Invoke(ctx, testGuild, "busy")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	tag, err := tags.Get(ctx, testGuild, "busy")
	require.NoError(t, err)
	assert.Equal(t, n, tag.TotalUses, "no lost updates")
}

func TestTagDeleteAuthorization(t *testing.T) {
	pool := setupTestPool(t)
	cleanGuild(t, pool, testGuild)
	tags := NewTagStore(pool)
	ctx := context.Background()

	require.NoError(t, tags.Create(ctx, testGuild, testOwner, "mine", "c"))

	err := tags.Delete(ctx, testGuild, "mine", testOther, false)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = tags.Get(ctx, testGuild, "mine")
	assert.NoError(t, err, "tag must survive a forbidden delete")

	// admin override
	require.NoError(t, tags.Delete(ctx, testGuild, "mine", testOther, true))
	_, err = tags.Get(ctx, testGuild, "mine")
	assert.ErrorIs(t, err, ErrNotFound)

	err = tags.Delete(ctx, testGuild, "mine", testOwner, false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTagEdit(t *testing.T) {
	pool := setupTestPool(t)
	cleanGuild(t, pool, testGuild)
	tags := NewTagStore(pool)
	ctx := context.Background()

	require.NoError(t, tags.Create(ctx, testGuild, testOwner, "doc", "v1"))
	before, err := tags.Get(ctx, testGuild, "doc")
	require.NoError(t, err)

	err = tags.Edit(ctx, testGuild, "doc", testOther, false, "nope")
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, tags.Edit(ctx, testGuild, "doc", testOwner, false, "v2"))

	after, err := tags.Get(ctx, testGuild, "doc")
	require.NoError(t, err)
	assert.Equal(t, "v2", after.Contents)
	assert.Equal(t, before.CreatedAt, after.CreatedAt, "edit must not touch created_at")

	err = tags.Edit(ctx, testGuild, "ghost", testOwner, false, "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTagSearch(t *testing.T) {
	pool := setupTestPool(t)
	cleanGuild(t, pool, testGuild)
	tags := NewTagStore(pool)
	ctx := context.Background()

	_, err := tags.Search(ctx, testGuild, "ab", 10)
	assert.ErrorIs(t, err, ErrQueryTooShort)

	names, err := tags.Search(ctx, testGuild, "zzyzx", 10)
	require.NoError(t, err)
	assert.Empty(t, names, "no matches is an empty slice, not an error")

	require.NoError(t, tags.Create(ctx, testGuild, testOwner, "welcome", "w"))
	require.NoError(t, tags.Create(ctx, testGuild, testOwner, "welcomeback", "w"))

	names, err = tags.Search(ctx, testGuild, "welcome", 10)
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "welcome", names[0], "exact name ranks first")
}

func TestTagStats(t *testing.T) {
	pool := setupTestPool(t)
	cleanGuild(t, pool, testGuild)
	tags := NewTagStore(pool)
	ctx := context.Background()

	stats, err := tags.Stats(ctx, testGuild)
	require.NoError(t, err)
	assert.Empty(t, stats.Top)
	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0, stats.TotalUses)

	require.NoError(t, tags.Create(ctx, testGuild, testOwner, "a", "1"))
	require.NoError(t, tags.Create(ctx, testGuild, testOwner, "b", "2"))
	for i := 0; i < 3; i++ {
		_, err := tags.Invoke(ctx, testGuild, "b")
		require.NoError(t, err)
	}

	stats, err = tags.Stats(ctx, testGuild)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 3, stats.TotalUses)
	require.Len(t, stats.Top, 2)
	assert.Equal(t, TagUse{Name: "b", Uses: 3}, stats.Top[0])
}
