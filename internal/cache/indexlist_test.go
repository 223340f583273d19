package cache

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexListNewestFirst(t *testing.T) {
	ctx := context.Background()
	kv := newTestCache(t)
	idx := NewIndexList(kv, "chat_history", 50, 3600, true)

	require.True(t, idx.Add(ctx, "u1", "m1"))
	require.True(t, idx.Add(ctx, "u1", "m2"))
	require.True(t, idx.Add(ctx, "u1", "m3"))

	assert.Equal(t, []string{"m3", "m2", "m1"}, idx.IDs(ctx, "u1"))
}

func TestIndexListAppendOrder(t *testing.T) {
	ctx := context.Background()
	kv := newTestCache(t)
	idx := NewIndexList(kv, "scheduled_emails", 100, 3600, false)

	idx.Add(ctx, "u1", "s1")
	idx.Add(ctx, "u1", "s2")

	assert.Equal(t, []string{"s1", "s2"}, idx.IDs(ctx, "u1"))
}

func TestIndexListCapDropsOldest(t *testing.T) {
	ctx := context.Background()
	kv := newTestCache(t)

	const capacity = 10
	idx := NewIndexList(kv, "orders", capacity, 3600, true)

	for i := 1; i <= capacity+5; i++ {
		idx.Add(ctx, "u1", fmt.Sprintf("o%d", i))
	}

	ids := idx.IDs(ctx, "u1")
	require.Len(t, ids, capacity)
	assert.Equal(t, "o15", ids[0], "latest entry is at the front")
	assert.Equal(t, "o6", ids[capacity-1], "the oldest five fell off")
}

func TestIndexListCapAppendOrder(t *testing.T) {
	ctx := context.Background()
	kv := newTestCache(t)

	idx := NewIndexList(kv, "scheduled_emails", 3, 3600, false)
	for i := 1; i <= 5; i++ {
		idx.Add(ctx, "u1", fmt.Sprintf("s%d", i))
	}

	assert.Equal(t, []string{"s3", "s4", "s5"}, idx.IDs(ctx, "u1"))
}

func TestIndexListRemove(t *testing.T) {
	ctx := context.Background()
	kv := newTestCache(t)
	idx := NewIndexList(kv, "email_drafts", 50, 3600, true)

	idx.Add(ctx, "u1", "d1")
	idx.Add(ctx, "u1", "d2")
	idx.Add(ctx, "u1", "d3")

	require.True(t, idx.Remove(ctx, "u1", "d2"))
	assert.Equal(t, []string{"d3", "d1"}, idx.IDs(ctx, "u1"))

	assert.False(t, idx.Remove(ctx, "u1", "d2"), "already gone")
	assert.False(t, idx.Remove(ctx, "u9", "d1"), "no register for that actor")
}

func TestIndexListIsolatedPerActor(t *testing.T) {
	ctx := context.Background()
	kv := newTestCache(t)
	idx := NewIndexList(kv, "orders", 50, 3600, true)

	idx.Add(ctx, "u1", "o1")
	idx.Add(ctx, "u2", "o2")

	assert.Equal(t, []string{"o1"}, idx.IDs(ctx, "u1"))
	assert.Equal(t, []string{"o2"}, idx.IDs(ctx, "u2"))
}
