package cache

import (
	"context"
	"time"
)

// Store is the raw key-value backend behind KeyValueCache.
// Implementations must be safe for concurrent use. Callers never touch
// a Store directly; all access goes through KeyValueCache, which owns
// the connection handle for the process lifetime.
type Store interface {
	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Get returns (value, true, nil) on hit and ("", false, nil) on miss.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key. ttl <= 0 means no expiration.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Del removes the given keys and reports how many existed.
	Del(ctx context.Context, keys ...string) (int64, error)

	// Keys enumerates keys matching a pattern with a trailing '*' wildcard,
	// or the exact key otherwise.
	Keys(ctx context.Context, pattern string) ([]string, error)

	// Exists reports whether key is present and unexpired.
	Exists(ctx context.Context, key string) (bool, error)

	// Expire sets a new TTL on an existing key.
	Expire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// TTL returns the remaining lifetime of key. Zero or negative
	// means missing or persistent.
	TTL(ctx context.Context, key string) (time.Duration, error)

	// IncrBy atomically adds amount to the integer stored at key,
	// creating it at zero first if absent, and returns the new value.
	IncrBy(ctx context.Context, key string, amount int64) (int64, error)

	// SAdd, SRem and SMembers implement set semantics; duplicate
	// members are no-ops.
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)

	// FlushAll clears the entire keyspace.
	FlushAll(ctx context.Context) error

	// Info returns backend introspection sections (e.g. memory, keyspace).
	Info(ctx context.Context, sections ...string) (map[string]string, error)

	// Close releases the connection handle.
	Close() error
}
