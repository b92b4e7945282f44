package platform

import (
	"context"
	"sync"

	"github.com/disgoorg/snowflake/v2"
)

// DefaultPrefix is always accepted, everywhere.
const DefaultPrefix = "qt."

// PrefixStore is the persistence side of the registry, implemented by
// db.PrefixStore.
type PrefixStore interface {
	All(ctx context.Context) (map[int64]string, error)
	Set(ctx context.Context, guildID int64, prefix string) error
	Delete(ctx context.Context, guildID int64) error
}

// PrefixRegistry keeps every guild's custom prefix in memory and writes
// through to the store on mutation. The store is the source of truth: it is
// updated first, so a store failure leaves the in-memory copy untouched.
type PrefixRegistry struct {
	store PrefixStore

	mu     sync.RWMutex
	custom map[snowflake.ID]string
}

func NewPrefixRegistry(store PrefixStore) *PrefixRegistry {
	return &PrefixRegistry{
		store:  store,
		custom: make(map[snowflake.ID]string),
	}
}

// LoadAll pulls the full prefix table. Called once at startup; a failure
// here is fatal to the process.
func (r *PrefixRegistry) LoadAll(ctx context.Context) error {
	all, err := r.store.All(ctx)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.custom = make(map[snowflake.ID]string, len(all))
	for guildID, prefix := range all {
		r.custom[snowflake.ID(guildID)] = prefix
	}
	return nil
}

// Resolve returns the accepted prefixes for a message origin. The default
// prefix always comes first; a guild's custom prefix follows when one is
// registered. Direct messages (nil guild) get the default only.
func (r *PrefixRegistry) Resolve(guildID *snowflake.ID) []string {
	prefixes := []string{DefaultPrefix}
	if guildID == nil {
		return prefixes
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if custom, ok := r.custom[*guildID]; ok && custom != DefaultPrefix {
		prefixes = append(prefixes, custom)
	}
	return prefixes
}

// Get returns the guild's custom prefix, if any.
func (r *PrefixRegistry) Get(guildID snowflake.ID) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	prefix, ok := r.custom[guildID]
	return prefix, ok
}

// Set registers a custom prefix, store first.
func (r *PrefixRegistry) Set(ctx context.Context, guildID snowflake.ID, prefix string) error {
	if err := r.store.Set(ctx, int64(guildID), prefix); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.custom[guildID] = prefix
	return nil
}

// Unset removes a custom prefix, store first.
func (r *PrefixRegistry) Unset(ctx context.Context, guildID snowflake.ID) error {
	if err := r.store.Delete(ctx, int64(guildID)); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.custom, guildID)
	return nil
}
