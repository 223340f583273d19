package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryCacheKeyCanonical(t *testing.T) {
	kv := newTestCache(t)
	q := NewQueryCache(kv, "tasks", 300)

	a := q.Key("u1", map[string]string{"priority": "high", "completed": "false"}, 1, 20)
	b := q.Key("u1", map[string]string{"completed": "false", "priority": "high"}, 1, 20)
	assert.Equal(t, a, b, "filter assembly order must not change the key")

	c := q.Key("u1", map[string]string{"priority": "high", "completed": ""}, 1, 20)
	d := q.Key("u1", map[string]string{"priority": "high"}, 1, 20)
	assert.Equal(t, c, d, "empty filter values are ignored")
}

func TestQueryCacheKeyDistinguishes(t *testing.T) {
	kv := newTestCache(t)
	q := NewQueryCache(kv, "tasks", 300)

	base := q.Key("u1", map[string]string{"priority": "high"}, 1, 20)

	assert.NotEqual(t, base, q.Key("u2", map[string]string{"priority": "high"}, 1, 20))
	assert.NotEqual(t, base, q.Key("u1", map[string]string{"priority": "low"}, 1, 20))
	assert.NotEqual(t, base, q.Key("u1", map[string]string{"priority": "high"}, 2, 20))
	assert.NotEqual(t, base, q.Key("u1", map[string]string{"priority": "high"}, 1, 50))
}

func TestQueryCacheFetchSaveInvalidate(t *testing.T) {
	ctx := context.Background()
	kv := newTestCache(t)
	q := NewQueryCache(kv, "tasks", 300)

	type page struct {
		IDs   []string `json:"ids"`
		Total int      `json:"total"`
	}

	key := q.Key("u1", map[string]string{"priority": "high"}, 1, 20)

	var miss page
	require.False(t, q.Fetch(ctx, key, &miss))

	require.True(t, q.Save(ctx, key, page{IDs: []string{"t1", "t2"}, Total: 2}))

	var hit page
	require.True(t, q.Fetch(ctx, key, &hit))
	assert.Equal(t, []string{"t1", "t2"}, hit.IDs)
	assert.Equal(t, 2, hit.Total)

	// Other actors' pages survive this actor's invalidation.
	otherKey := q.Key("u2", nil, 1, 20)
	require.True(t, q.Save(ctx, otherKey, page{Total: 0}))

	require.True(t, q.Invalidate(ctx, "u1"))
	assert.False(t, q.Fetch(ctx, key, &hit))

	var other page
	assert.True(t, q.Fetch(ctx, otherKey, &other))
}

func TestEntityStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	kv := newTestCache(t)
	store := NewEntityStore(kv, "order", 86400)

	type order struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}

	assert.Equal(t, "order:o1", store.Key("o1"))

	var missing order
	require.False(t, store.Load(ctx, "o1", &missing))
	assert.False(t, store.Exists(ctx, "o1"))

	require.True(t, store.Save(ctx, "o1", order{ID: "o1", Status: "placed"}))
	assert.True(t, store.Exists(ctx, "o1"))

	var got order
	require.True(t, store.Load(ctx, "o1", &got))
	assert.Equal(t, "placed", got.Status)

	require.True(t, store.Delete(ctx, "o1"))
	assert.False(t, store.Load(ctx, "o1", &got))
	assert.False(t, store.Delete(ctx, "o1"))
}
