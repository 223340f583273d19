package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSetTypeConflict(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	require.NoError(t, s.Set(ctx, "k", "plain string", 0))

	// Set commands against a string key must error, matching Redis
	// WRONGTYPE behavior, not silently replace the value.
	assert.Error(t, s.SAdd(ctx, "k", "m"))
	assert.Error(t, s.SRem(ctx, "k", "m"))
	_, err := s.SMembers(ctx, "k")
	assert.Error(t, err)

	got, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "plain string", got, "string value survives the rejected commands")
}

func TestMemoryStoreSetAfterExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	// An expired string entry no longer blocks the key for sets.
	require.NoError(t, s.Set(ctx, "k", "v", 20*time.Millisecond))
	time.Sleep(40 * time.Millisecond)

	require.NoError(t, s.SAdd(ctx, "k", "m"))
	members, err := s.SMembers(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []string{"m"}, members)
}

func TestMemoryStoreSetOpsOnMissingKey(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	assert.NoError(t, s.SRem(ctx, "missing", "m"))
	members, err := s.SMembers(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, members)
}
