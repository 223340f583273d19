package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *KeyValueCache {
	t.Helper()
	kv := New(NewMemoryStore(), Options{Logger: NopLogger{}})
	t.Cleanup(func() { kv.Shutdown() })
	return kv
}

func TestSetGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := newTestCache(t)

	require.True(t, kv.Set(ctx, "order:o1", map[string]any{"status": "placed"}, 86400))

	got := kv.Get(ctx, "order:o1")
	require.NotNil(t, got)
	m, ok := got.(map[string]any)
	require.True(t, ok, "structured value should come back parsed")
	assert.Equal(t, "placed", m["status"])

	// Typed read of the same payload.
	var dest struct {
		Status string `json:"status"`
	}
	require.True(t, kv.GetJSON(ctx, "order:o1", &dest))
	assert.Equal(t, "placed", dest.Status)
}

func TestGetPlainStringUnparsed(t *testing.T) {
	ctx := context.Background()
	kv := newTestCache(t)

	require.True(t, kv.Set(ctx, "greeting", "hello there", 60))
	assert.Equal(t, "hello there", kv.Get(ctx, "greeting"))
}

func TestGetMissingKeyReturnsNil(t *testing.T) {
	ctx := context.Background()
	kv := newTestCache(t)

	assert.Nil(t, kv.Get(ctx, "never:written"))
	assert.False(t, kv.Exists(ctx, "never:written"))
}

func TestDeleteSemantics(t *testing.T) {
	ctx := context.Background()
	kv := newTestCache(t)

	assert.False(t, kv.Delete(ctx, "absent"), "delete on missing key is false")

	require.True(t, kv.Set(ctx, "order:o1", map[string]any{"status": "placed"}, 86400))
	assert.True(t, kv.Delete(ctx, "order:o1"))
	assert.Nil(t, kv.Get(ctx, "order:o1"))
}

func TestWildcardDelete(t *testing.T) {
	ctx := context.Background()
	kv := newTestCache(t)

	assert.False(t, kv.Delete(ctx, "tasks:u1:*"), "no matches means false")

	require.True(t, kv.Set(ctx, "tasks:u1:a", "1", 60))
	require.True(t, kv.Set(ctx, "tasks:u1:b", "2", 60))
	require.True(t, kv.Set(ctx, "tasks:u2:a", "3", 60))

	assert.True(t, kv.Delete(ctx, "tasks:u1:*"))
	assert.Nil(t, kv.Get(ctx, "tasks:u1:a"))
	assert.Nil(t, kv.Get(ctx, "tasks:u1:b"))
	assert.Equal(t, "3", kv.Get(ctx, "tasks:u2:a"), "other actors' keys survive")
}

func TestExpireAndTTL(t *testing.T) {
	ctx := context.Background()
	kv := newTestCache(t)

	require.True(t, kv.Set(ctx, "k", "v", 0))
	assert.EqualValues(t, -1, kv.TTL(ctx, "k"), "persistent entry has no known ttl")

	assert.True(t, kv.Expire(ctx, "k", 120*time.Second))
	ttl := kv.TTL(ctx, "k")
	assert.Greater(t, ttl, int64(100))

	assert.False(t, kv.Expire(ctx, "missing", 120*time.Second))
	assert.EqualValues(t, -1, kv.TTL(ctx, "missing"))
}

func TestExpireKeepsSubSecondPrecision(t *testing.T) {
	ctx := context.Background()
	kv := newTestCache(t)

	require.True(t, kv.Set(ctx, "blink", "v", 0))
	require.True(t, kv.Expire(ctx, "blink", 50*time.Millisecond))

	// A 50ms deadline must not be truncated to "never expires".
	time.Sleep(70 * time.Millisecond)
	assert.Nil(t, kv.Get(ctx, "blink"))
}

func TestEntryExpires(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	kv := New(store, Options{Logger: NopLogger{}})
	defer kv.Shutdown()

	require.NoError(t, store.Set(ctx, "blink", "v", 30*time.Millisecond))
	assert.Equal(t, "v", kv.Get(ctx, "blink"))

	time.Sleep(50 * time.Millisecond)
	assert.Nil(t, kv.Get(ctx, "blink"))
}

func TestIncrementConcurrent(t *testing.T) {
	ctx := context.Background()
	kv := newTestCache(t)

	const n = 100
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, ok := kv.Increment(ctx, "counter", 1)
			assert.True(t, ok)
		}()
	}
	wg.Wait()

	final, ok := kv.Increment(ctx, "counter", 0)
	require.True(t, ok)
	assert.EqualValues(t, n, final)
}

func TestSetOperations(t *testing.T) {
	ctx := context.Background()
	kv := newTestCache(t)

	require.True(t, kv.SetAdd(ctx, "tags", "a", "b"))
	require.True(t, kv.SetAdd(ctx, "tags", "b", "c"), "duplicate member is a no-op")

	members := kv.SetMembers(ctx, "tags")
	assert.ElementsMatch(t, []string{"a", "b", "c"}, members)

	require.True(t, kv.SetRemove(ctx, "tags", "b"))
	assert.ElementsMatch(t, []string{"a", "c"}, kv.SetMembers(ctx, "tags"))
}

func TestFlushAllAndStats(t *testing.T) {
	ctx := context.Background()
	kv := newTestCache(t)

	require.True(t, kv.Set(ctx, "k1", "v", 60))
	require.True(t, kv.FlushAll(ctx))
	assert.Nil(t, kv.Get(ctx, "k1"))

	st := kv.Stats(ctx)
	assert.True(t, st.Connected)
	assert.Equal(t, "ready", st.State)
}

// downStore refuses every operation, simulating an unreachable backend.
type downStore struct{}

var errDown = errors.New("connection refused")

func (downStore) Ping(context.Context) error                        { return errDown }
func (downStore) Get(context.Context, string) (string, bool, error) { return "", false, errDown }
func (downStore) Set(context.Context, string, string, time.Duration) error {
	return errDown
}
func (downStore) Del(context.Context, ...string) (int64, error)  { return 0, errDown }
func (downStore) Keys(context.Context, string) ([]string, error) { return nil, errDown }
func (downStore) Exists(context.Context, string) (bool, error)   { return false, errDown }
func (downStore) Expire(context.Context, string, time.Duration) (bool, error) {
	return false, errDown
}
func (downStore) TTL(context.Context, string) (time.Duration, error) { return 0, errDown }
func (downStore) IncrBy(context.Context, string, int64) (int64, error) {
	return 0, errDown
}
func (downStore) SAdd(context.Context, string, ...string) error      { return errDown }
func (downStore) SRem(context.Context, string, ...string) error      { return errDown }
func (downStore) SMembers(context.Context, string) ([]string, error) { return nil, errDown }
func (downStore) FlushAll(context.Context) error                     { return errDown }
func (downStore) Info(context.Context, ...string) (map[string]string, error) {
	return nil, errDown
}
func (downStore) Close() error { return nil }

func TestUnavailableSafeDefaults(t *testing.T) {
	ctx := context.Background()
	kv := New(downStore{}, Options{Logger: NopLogger{}, ProbeInterval: time.Hour})
	defer kv.Shutdown()

	require.False(t, kv.IsAvailable())

	assert.NotPanics(t, func() {
		assert.Nil(t, kv.Get(ctx, "k"))
		assert.False(t, kv.GetJSON(ctx, "k", &struct{}{}))
		assert.False(t, kv.Set(ctx, "k", "v", 60))
		assert.False(t, kv.Delete(ctx, "k"))
		assert.False(t, kv.Delete(ctx, "k:*"))
		assert.False(t, kv.Exists(ctx, "k"))
		assert.False(t, kv.Expire(ctx, "k", time.Minute))
		assert.EqualValues(t, -1, kv.TTL(ctx, "k"))
		_, ok := kv.Increment(ctx, "k", 1)
		assert.False(t, ok)
		assert.False(t, kv.SetAdd(ctx, "k", "m"))
		assert.False(t, kv.SetRemove(ctx, "k", "m"))
		assert.Empty(t, kv.SetMembers(ctx, "k"))
		assert.False(t, kv.FlushAll(ctx))
	})

	st := kv.Stats(ctx)
	assert.False(t, st.Connected)
}

// flakyStore fails pings until revived.
type flakyStore struct {
	*MemoryStore
	mu   sync.Mutex
	down bool
}

func (s *flakyStore) setDown(down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.down = down
}

func (s *flakyStore) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.down {
		return errDown
	}
	return nil
}

func TestSupervisorRecovers(t *testing.T) {
	store := &flakyStore{MemoryStore: NewMemoryStore()}
	kv := New(store, Options{
		Logger:        NopLogger{},
		ProbeInterval: 10 * time.Millisecond,
		Policy: ReconnectPolicy{
			MaxAttempts: 1000,
			MaxElapsed:  10 * time.Second,
			BaseDelay:   time.Millisecond,
			MaxDelay:    5 * time.Millisecond,
		},
	})
	defer kv.Shutdown()

	require.True(t, kv.IsAvailable())

	store.setDown(true)
	require.Eventually(t, func() bool { return !kv.IsAvailable() }, time.Second, 5*time.Millisecond)

	store.setDown(false)
	require.Eventually(t, kv.IsAvailable, time.Second, 5*time.Millisecond,
		"supervisor should restore Ready once the backend answers")
}

func TestReconnectBudgetExhausted(t *testing.T) {
	store := &flakyStore{MemoryStore: NewMemoryStore()}
	kv := New(store, Options{
		Logger:        NopLogger{},
		ProbeInterval: 5 * time.Millisecond,
		Policy: ReconnectPolicy{
			MaxAttempts: 2,
			MaxElapsed:  50 * time.Millisecond,
			BaseDelay:   time.Millisecond,
			MaxDelay:    2 * time.Millisecond,
		},
	})
	defer kv.Shutdown()

	store.setDown(true)
	require.Eventually(t, func() bool { return kv.State() == StateDisconnected },
		time.Second, 5*time.Millisecond)

	// Even a revived backend does not bring the cache back; that takes
	// a process restart. Operations keep degrading instead of panicking.
	store.setDown(false)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, StateDisconnected, kv.State())
	assert.Nil(t, kv.Get(context.Background(), "k"))
}

func TestShutdownDisconnects(t *testing.T) {
	kv := New(NewMemoryStore(), Options{Logger: NopLogger{}})
	require.True(t, kv.IsAvailable())
	require.NoError(t, kv.Shutdown())
	assert.Equal(t, StateDisconnected, kv.State())
	assert.False(t, kv.Set(context.Background(), "k", "v", 60))
}

func TestReconnectPolicyDelay(t *testing.T) {
	p := ReconnectPolicy{BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second}
	assert.Equal(t, 100*time.Millisecond, p.Delay(1))
	assert.Equal(t, 200*time.Millisecond, p.Delay(2))
	assert.Equal(t, 400*time.Millisecond, p.Delay(3))
	assert.Equal(t, time.Second, p.Delay(10), "delay caps at MaxDelay")
}
