package platform

import (
	"context"
	"errors"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePrefixStore struct {
	rows    map[int64]string
	failAll bool
	failMut bool
}

func newFakePrefixStore() *fakePrefixStore {
	return &fakePrefixStore{rows: map[int64]string{}}
}

func (s *fakePrefixStore) All(ctx context.Context) (map[int64]string, error) {
	if s.failAll {
		return nil, errors.New("store down")
	}
	out := map[int64]string{}
	for k, v := range s.rows {
		out[k] = v
	}
	return out, nil
}

func (s *fakePrefixStore) Set(ctx context.Context, guildID int64, prefix string) error {
	if s.failMut {
		return errors.New("store down")
	}
	s.rows[guildID] = prefix
	return nil
}

func (s *fakePrefixStore) Delete(ctx context.Context, guildID int64) error {
	if s.failMut {
		return errors.New("store down")
	}
	delete(s.rows, guildID)
	return nil
}

func guildID(id uint64) *snowflake.ID {
	s := snowflake.ID(id)
	return &s
}

func TestResolveDefaultOnly(t *testing.T) {
	reg := NewPrefixRegistry(newFakePrefixStore())

	assert.Equal(t, []string{DefaultPrefix}, reg.Resolve(guildID(123)))
	assert.Equal(t, []string{DefaultPrefix}, reg.Resolve(nil), "direct messages accept only the default")
}

func TestResolveWithCustomPrefix(t *testing.T) {
	store := newFakePrefixStore()
	store.rows[123] = "!"
	reg := NewPrefixRegistry(store)
	require.NoError(t, reg.LoadAll(context.Background()))

	assert.Equal(t, []string{DefaultPrefix, "!"}, reg.Resolve(guildID(123)))
	assert.Equal(t, []string{DefaultPrefix}, reg.Resolve(guildID(456)), "other guilds unaffected")
	assert.Equal(t, []string{DefaultPrefix}, reg.Resolve(nil), "custom prefix never applies to DMs")
}

func TestLoadAllFailure(t *testing.T) {
	store := newFakePrefixStore()
	store.failAll = true
	reg := NewPrefixRegistry(store)
	assert.Error(t, reg.LoadAll(context.Background()))
}

func TestSetWritesThrough(t *testing.T) {
	store := newFakePrefixStore()
	reg := NewPrefixRegistry(store)
	ctx := context.Background()

	require.NoError(t, reg.Set(ctx, 123, "!"))
	assert.Equal(t, "!", store.rows[123], "store updated")
	prefix, ok := reg.Get(123)
	require.True(t, ok)
	assert.Equal(t, "!", prefix)

	require.NoError(t, reg.Unset(ctx, 123))
	_, ok = store.rows[123]
	assert.False(t, ok)
	_, ok = reg.Get(123)
	assert.False(t, ok)
}

func TestSetStoreFailureLeavesMemoryUntouched(t *testing.T) {
	store := newFakePrefixStore()
	reg := NewPrefixRegistry(store)
	ctx := context.Background()

	require.NoError(t, reg.Set(ctx, 123, "!"))
	store.failMut = true

	assert.Error(t, reg.Set(ctx, 123, "?"))
	prefix, _ := reg.Get(123)
	assert.Equal(t, "!", prefix, "memory must not diverge from the store")

	assert.Error(t, reg.Unset(ctx, 123))
	_, ok := reg.Get(123)
	assert.True(t, ok)
}
