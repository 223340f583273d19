package cache

import "context"

// EntityStore persists whole JSON entities directly in the cache under
// `{kind}:{id}` keys, with a TTL standing in for real persistence.
// Orders, drafts and chat messages live here instead of a database.
type EntityStore struct {
	kv         *KeyValueCache
	kind       string
	ttlSeconds int64
}

// NewEntityStore builds an ephemeral store for one entity kind.
func NewEntityStore(kv *KeyValueCache, kind string, ttlSeconds int64) *EntityStore {
	return &EntityStore{kv: kv, kind: kind, ttlSeconds: ttlSeconds}
}

// Key returns the cache key for an entity ID.
func (s *EntityStore) Key(id string) string {
	return s.kind + ":" + id
}

// Save writes the entity, refreshing its TTL.
func (s *EntityStore) Save(ctx context.Context, id string, entity any) bool {
	return s.kv.Set(ctx, s.Key(id), entity, s.ttlSeconds)
}

// Load reads the entity into dest. False means expired, missing, or
// cache unavailable; callers treat all three the same way.
func (s *EntityStore) Load(ctx context.Context, id string, dest any) bool {
	return s.kv.GetJSON(ctx, s.Key(id), dest)
}

// Delete removes the entity.
func (s *EntityStore) Delete(ctx context.Context, id string) bool {
	return s.kv.Delete(ctx, s.Key(id))
}

// Exists reports whether the entity is still present.
func (s *EntityStore) Exists(ctx context.Context, id string) bool {
	return s.kv.Exists(ctx, s.Key(id))
}
