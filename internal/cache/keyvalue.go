package cache

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultTTL is the expiration applied by callers that have no better idea.
const DefaultTTL = 3600 // seconds

// ConnState describes the cache connection lifecycle.
type ConnState int32

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateReady
	StateError
)

func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "disconnected"
	}
}

// ReconnectPolicy bounds how hard the supervisor tries to get the
// backend connection back after a failure. Once either budget is
// exhausted the cache stays Disconnected for the rest of the process
// lifetime and every operation keeps returning its safe default.
type ReconnectPolicy struct {
	MaxAttempts int
	MaxElapsed  time.Duration
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultReconnectPolicy retries for up to ten attempts or two minutes,
// whichever comes first.
func DefaultReconnectPolicy() ReconnectPolicy {
	return ReconnectPolicy{
		MaxAttempts: 10,
		MaxElapsed:  2 * time.Minute,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    15 * time.Second,
	}
}

// Delay returns the backoff before the given 1-based attempt.
func (p ReconnectPolicy) Delay(attempt int) time.Duration {
	d := p.BaseDelay
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// Stats is the best-effort introspection snapshot exposed to the
// health endpoint.
type Stats struct {
	Connected bool              `json:"connected"`
	State     string            `json:"state"`
	Memory    map[string]string `json:"memory_info,omitempty"`
	Keyspace  map[string]string `json:"keyspace_info,omitempty"`
}

// Options configures a KeyValueCache.
type Options struct {
	Logger        Logger
	Policy        ReconnectPolicy
	ProbeInterval time.Duration
	PingTimeout   time.Duration
}

// KeyValueCache is a fault-tolerant wrapper around a Store. Every
// operation degrades to a safe default (nil, false, empty, -1) when the
// backend is unreachable or fails mid-flight; nothing ever propagates
// an error to a caller. The cache is an optimization, never a
// dependency: a dead backend must not take the process with it.
type KeyValueCache struct {
	store  Store
	log    Logger
	policy ReconnectPolicy

	state       atomic.Int32
	probeEvery  time.Duration
	pingTimeout time.Duration

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// New builds a KeyValueCache over the given store and starts the
// connection supervisor. The initial handshake happens synchronously
// with a bounded timeout; a store that is down at start leaves the
// cache in Error and hands the problem to the supervisor.
func New(store Store, opts Options) *KeyValueCache {
	if opts.Logger == nil {
		opts.Logger = NopLogger{}
	}
	if opts.Policy == (ReconnectPolicy{}) {
		opts.Policy = DefaultReconnectPolicy()
	}
	if opts.ProbeInterval <= 0 {
		opts.ProbeInterval = 15 * time.Second
	}
	if opts.PingTimeout <= 0 {
		opts.PingTimeout = 5 * time.Second
	}

	c := &KeyValueCache{
		store:       store,
		log:         opts.Logger,
		policy:      opts.Policy,
		probeEvery:  opts.ProbeInterval,
		pingTimeout: opts.PingTimeout,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}

	c.setState(StateConnecting)
	if err := c.ping(); err != nil {
		c.log.Warn("cache handshake failed", Fields{"error": err.Error()})
		c.setState(StateError)
	} else {
		c.setState(StateReady)
	}

	go c.supervise()

	return c
}

// State returns the current connection state.
func (c *KeyValueCache) State() ConnState {
	return ConnState(c.state.Load())
}

// IsAvailable reports whether operations will reach the backend.
func (c *KeyValueCache) IsAvailable() bool {
	return c.State() == StateReady
}

// Get returns the value stored at key, nil when the key is absent, the
// cache is unavailable, or the read failed. Structured payloads come
// back parsed; anything that is not valid JSON comes back as the raw
// string it was stored as.
func (c *KeyValueCache) Get(ctx context.Context, key string) any {
	if !c.available("get", key) {
		return nil
	}

	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.fail("get", key, err)
		return nil
	}
	if !ok {
		return nil
	}

	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}

// GetJSON unmarshals the value stored at key into dest and reports
// whether dest was populated.
func (c *KeyValueCache) GetJSON(ctx context.Context, key string, dest any) bool {
	if !c.available("get", key) {
		return false
	}

	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.fail("get", key, err)
		return false
	}
	if !ok {
		return false
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		c.fail("get", key, err)
		return false
	}
	return true
}

// Set stores value under key. Non-string values are JSON-serialized.
// ttlSeconds <= 0 stores a persistent entry.
func (c *KeyValueCache) Set(ctx context.Context, key string, value any, ttlSeconds int64) bool {
	if !c.available("set", key) {
		return false
	}

	var payload string
	switch v := value.(type) {
	case string:
		payload = v
	case []byte:
		payload = string(v)
	default:
		data, err := json.Marshal(value)
		if err != nil {
			c.fail("set", key, err)
			return false
		}
		payload = string(data)
	}

	var ttl time.Duration
	if ttlSeconds > 0 {
		ttl = time.Duration(ttlSeconds) * time.Second
	}

	if err := c.store.Set(ctx, key, payload, ttl); err != nil {
		c.fail("set", key, err)
		return false
	}
	return true
}

// Delete removes an exact key, or every key under a prefix when the
// argument ends with '*'. Returns true iff at least one key was removed.
func (c *KeyValueCache) Delete(ctx context.Context, keyOrPattern string) bool {
	if !c.available("delete", keyOrPattern) {
		return false
	}

	keys := []string{keyOrPattern}
	if len(keyOrPattern) > 0 && keyOrPattern[len(keyOrPattern)-1] == '*' {
		matched, err := c.store.Keys(ctx, keyOrPattern)
		if err != nil {
			c.fail("delete", keyOrPattern, err)
			return false
		}
		if len(matched) == 0 {
			return false
		}
		keys = matched
	}

	removed, err := c.store.Del(ctx, keys...)
	if err != nil {
		c.fail("delete", keyOrPattern, err)
		return false
	}
	return removed > 0
}

// Exists reports whether key is present. False when unavailable.
func (c *KeyValueCache) Exists(ctx context.Context, key string) bool {
	if !c.available("exists", key) {
		return false
	}

	ok, err := c.store.Exists(ctx, key)
	if err != nil {
		c.fail("exists", key, err)
		return false
	}
	return ok
}

// Expire resets the TTL on an existing key. The duration is passed to
// the store as-is, so sub-second windows keep their precision.
func (c *KeyValueCache) Expire(ctx context.Context, key string, ttl time.Duration) bool {
	if !c.available("expire", key) {
		return false
	}

	ok, err := c.store.Expire(ctx, key, ttl)
	if err != nil {
		c.fail("expire", key, err)
		return false
	}
	return ok
}

// TTL returns the remaining lifetime of key in seconds, or -1 when the
// key is missing, persistent, or the cache is unavailable.
func (c *KeyValueCache) TTL(ctx context.Context, key string) int64 {
	if !c.available("ttl", key) {
		return -1
	}

	d, err := c.store.TTL(ctx, key)
	if err != nil {
		c.fail("ttl", key, err)
		return -1
	}
	if d <= 0 {
		return -1
	}
	return int64(d / time.Second)
}

// Increment atomically adds amount to the counter at key and returns
// the new value. ok is false when the cache is unavailable or the
// increment failed; rate limiting relies on the store-side atomicity.
func (c *KeyValueCache) Increment(ctx context.Context, key string, amount int64) (int64, bool) {
	if !c.available("incr", key) {
		return 0, false
	}

	n, err := c.store.IncrBy(ctx, key, amount)
	if err != nil {
		c.fail("incr", key, err)
		return 0, false
	}
	return n, true
}

// SetAdd adds members to the set at key.
func (c *KeyValueCache) SetAdd(ctx context.Context, key string, members ...string) bool {
	if len(members) == 0 || !c.available("sadd", key) {
		return false
	}

	if err := c.store.SAdd(ctx, key, members...); err != nil {
		c.fail("sadd", key, err)
		return false
	}
	return true
}

// SetRemove removes members from the set at key.
func (c *KeyValueCache) SetRemove(ctx context.Context, key string, members ...string) bool {
	if len(members) == 0 || !c.available("srem", key) {
		return false
	}

	if err := c.store.SRem(ctx, key, members...); err != nil {
		c.fail("srem", key, err)
		return false
	}
	return true
}

// SetMembers returns the members of the set at key; empty when
// unavailable or missing.
func (c *KeyValueCache) SetMembers(ctx context.Context, key string) []string {
	if !c.available("smembers", key) {
		return nil
	}

	members, err := c.store.SMembers(ctx, key)
	if err != nil {
		c.fail("smembers", key, err)
		return nil
	}
	return members
}

// FlushAll clears the entire backing store. Administrative use only.
func (c *KeyValueCache) FlushAll(ctx context.Context) bool {
	if !c.available("flushall", "*") {
		return false
	}

	c.log.Warn("flushing entire cache keyspace", nil)
	if err := c.store.FlushAll(ctx); err != nil {
		c.fail("flushall", "*", err)
		return false
	}
	return true
}

// Stats returns a best-effort snapshot of backend health. It never
// fails; an unreachable backend yields {Connected: false}.
func (c *KeyValueCache) Stats(ctx context.Context) Stats {
	st := Stats{State: c.State().String()}
	if !c.IsAvailable() {
		return st
	}

	st.Connected = true
	if mem, err := c.store.Info(ctx, "memory"); err == nil {
		st.Memory = mem
	}
	if ks, err := c.store.Info(ctx, "keyspace"); err == nil {
		st.Keyspace = ks
	}
	return st
}

// Shutdown stops the supervisor and closes the store connection.
func (c *KeyValueCache) Shutdown() error {
	c.stopOnce.Do(func() {
		close(c.stop)
		<-c.done
	})
	c.setState(StateDisconnected)
	return c.store.Close()
}

func (c *KeyValueCache) setState(s ConnState) {
	c.state.Store(int32(s))
}

// available gates every operation: when the connection is not Ready the
// op short-circuits to its safe default with a debug-level diagnostic.
func (c *KeyValueCache) available(op, key string) bool {
	if c.IsAvailable() {
		return true
	}
	c.log.Debug("cache unavailable, returning safe default", Fields{
		"op":    op,
		"key":   key,
		"state": c.State().String(),
	})
	return false
}

// fail records a mid-flight store failure and flips the state machine
// toward Error so the supervisor starts probing.
func (c *KeyValueCache) fail(op, key string, err error) {
	c.log.Error("cache operation failed", Fields{
		"op":    op,
		"key":   key,
		"error": err.Error(),
	})
	if c.State() == StateReady {
		c.setState(StateError)
	}
}

func (c *KeyValueCache) ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), c.pingTimeout)
	defer cancel()
	return c.store.Ping(ctx)
}

// supervise probes the backend and drives the state machine:
// Ready -> Error on a failed probe, Error -> Ready when a reconnect
// attempt succeeds, Error -> Disconnected (terminal) once the policy
// budget runs out.
func (c *KeyValueCache) supervise() {
	defer close(c.done)

	ticker := time.NewTicker(c.probeEvery)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
		}

		if c.State() == StateDisconnected {
			return
		}

		if err := c.ping(); err == nil {
			if c.State() != StateReady {
				c.log.Warn("cache connection restored", nil)
				c.setState(StateReady)
			}
			continue
		}

		c.setState(StateError)
		if !c.reconnect() {
			c.log.Warn("cache reconnect budget exhausted, disabling cache for process lifetime", Fields{
				"max_attempts": c.policy.MaxAttempts,
				"max_elapsed":  c.policy.MaxElapsed.String(),
			})
			c.setState(StateDisconnected)
			return
		}
	}
}

// reconnect runs the bounded retry schedule. True means the connection
// came back; false means the budget is spent.
func (c *KeyValueCache) reconnect() bool {
	start := time.Now()
	for attempt := 1; attempt <= c.policy.MaxAttempts; attempt++ {
		if time.Since(start) > c.policy.MaxElapsed {
			return false
		}

		select {
		case <-c.stop:
			return true // shutdown handles its own state
		case <-time.After(c.policy.Delay(attempt)):
		}

		if err := c.ping(); err == nil {
			c.log.Warn("cache connection restored", Fields{"attempt": attempt})
			c.setState(StateReady)
			return true
		}
		c.log.Debug("cache reconnect attempt failed", Fields{"attempt": attempt})
	}
	return false
}
