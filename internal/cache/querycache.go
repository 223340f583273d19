package cache

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
)

// QueryCache stores precomputed result pages keyed by a canonical
// signature of (actor, filters, page, pageSize). Identical logical
// queries produce identical keys regardless of the order filter fields
// were assembled in, because the canonical form sorts filter names.
type QueryCache struct {
	kv         *KeyValueCache
	scope      string
	ttlSeconds int64
}

// NewQueryCache builds a query-result cache for one entity kind.
func NewQueryCache(kv *KeyValueCache, scope string, ttlSeconds int64) *QueryCache {
	return &QueryCache{kv: kv, scope: scope, ttlSeconds: ttlSeconds}
}

// Key derives the deterministic cache key for a query.
func (q *QueryCache) Key(actorID string, filters map[string]string, page, pageSize int) string {
	names := make([]string, 0, len(filters))
	for name, value := range filters {
		if value == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(filters[name])
		b.WriteByte('&')
	}

	h := fnv.New64a()
	h.Write([]byte(b.String()))

	return fmt.Sprintf("%s:q:%s:%x:p%d:s%d", q.scope, actorID, h.Sum64(), page, pageSize)
}

// Fetch loads a cached page into dest. False means miss or unavailable.
func (q *QueryCache) Fetch(ctx context.Context, key string, dest any) bool {
	return q.kv.GetJSON(ctx, key, dest)
}

// Save stores a computed page under key.
func (q *QueryCache) Save(ctx context.Context, key string, page any) bool {
	return q.kv.Set(ctx, key, page, q.ttlSeconds)
}

// Invalidate drops every cached page for the actor. Call after any
// mutation of the underlying entity kind.
func (q *QueryCache) Invalidate(ctx context.Context, actorID string) bool {
	return q.kv.Delete(ctx, fmt.Sprintf("%s:q:%s:*", q.scope, actorID))
}
