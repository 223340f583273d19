package cache

import "context"

// IndexList is a capped register of entity IDs under a single
// `{scope}:{actorID}` key. It indexes entities that live under their
// own keys; readers fetch the ID list and then each entity, skipping
// IDs whose entity expired before the index did.
//
// The read-modify-write here has a benign race: two concurrent writers
// may read the same snapshot and one append can be lost. Fine for a
// best-effort history list; do not repurpose this for anything that
// needs exact membership.
type IndexList struct {
	kv          *KeyValueCache
	scope       string
	cap         int
	ttlSeconds  int64
	newestFirst bool
}

// NewIndexList builds a capped list register. newestFirst controls the
// insertion end: true prepends (user-facing history), false appends
// (scheduled items). Trimming always drops the oldest entries.
func NewIndexList(kv *KeyValueCache, scope string, capacity int, ttlSeconds int64, newestFirst bool) *IndexList {
	return &IndexList{
		kv:          kv,
		scope:       scope,
		cap:         capacity,
		ttlSeconds:  ttlSeconds,
		newestFirst: newestFirst,
	}
}

// Key returns the register key for an actor.
func (l *IndexList) Key(actorID string) string {
	return l.scope + ":" + actorID
}

// Add inserts id into the actor's register, trimming to capacity.
func (l *IndexList) Add(ctx context.Context, actorID, id string) bool {
	key := l.Key(actorID)

	var ids []string
	l.kv.GetJSON(ctx, key, &ids)

	if l.newestFirst {
		ids = append([]string{id}, ids...)
		if len(ids) > l.cap {
			ids = ids[:l.cap]
		}
	} else {
		ids = append(ids, id)
		if len(ids) > l.cap {
			ids = ids[len(ids)-l.cap:]
		}
	}

	return l.kv.Set(ctx, key, ids, l.ttlSeconds)
}

// Remove deletes id from the actor's register.
func (l *IndexList) Remove(ctx context.Context, actorID, id string) bool {
	key := l.Key(actorID)

	var ids []string
	if !l.kv.GetJSON(ctx, key, &ids) {
		return false
	}

	kept := ids[:0]
	found := false
	for _, existing := range ids {
		if existing == id {
			found = true
			continue
		}
		kept = append(kept, existing)
	}
	if !found {
		return false
	}

	return l.kv.Set(ctx, key, kept, l.ttlSeconds)
}

// IDs returns the actor's register contents, empty when missing or
// the cache is unavailable.
func (l *IndexList) IDs(ctx context.Context, actorID string) []string {
	var ids []string
	l.kv.GetJSON(ctx, l.Key(actorID), &ids)
	return ids
}
