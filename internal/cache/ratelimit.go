package cache

import (
	"context"
	"fmt"
	"time"
)

// RateLimiter is a fixed-window counter on top of KeyValueCache.
// Keys follow the `{scope}_rate_limit:{actorID}` convention.
//
// The window is a true fixed window: the TTL is set once, when the
// first request of a window creates the counter, and is never
// refreshed by later requests. Refreshing on every write would let a
// steady trickle of traffic hold the window open forever and defeat
// the cap.
//
// When the cache is unavailable the limiter fails open; dropping
// requests because the cache died would turn an optimization into a
// dependency.
type RateLimiter struct {
	kv     *KeyValueCache
	scope  string
	limit  int64
	window time.Duration
}

// NewRateLimiter builds a limiter allowing limit requests per actor
// per window for the given scope.
func NewRateLimiter(kv *KeyValueCache, scope string, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{kv: kv, scope: scope, limit: limit, window: window}
}

// Key returns the counter key for an actor.
func (l *RateLimiter) Key(actorID string) string {
	return fmt.Sprintf("%s_rate_limit:%s", l.scope, actorID)
}

// Allow records one request for the actor and reports whether it fits
// inside the current window, along with how many requests remain.
func (l *RateLimiter) Allow(ctx context.Context, actorID string) (bool, int64) {
	if !l.kv.IsAvailable() {
		return true, l.limit
	}

	key := l.Key(actorID)
	n, ok := l.kv.Increment(ctx, key, 1)
	if !ok {
		return true, l.limit
	}

	if n == 1 {
		l.kv.Expire(ctx, key, l.window)
	}

	if n > l.limit {
		return false, 0
	}
	return true, l.limit - n
}

// Window returns the configured window length.
func (l *RateLimiter) Window() time.Duration { return l.window }

// Limit returns the configured threshold.
func (l *RateLimiter) Limit() int64 { return l.limit }
