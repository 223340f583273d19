package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// memEntry holds either a string value or a set, with optional expiration.
type memEntry struct {
	value     string
	set       map[string]struct{}
	expiresAt time.Time // zero => no expiration
}

func (e *memEntry) isExpired() bool {
	return !e.expiresAt.IsZero() && time.Now().After(e.expiresAt)
}

// MemoryStore is an in-memory Store implementation.
// Use it for development/testing or single-instance deployments where
// running Redis is not worth it.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*memEntry

	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	stopOnce        sync.Once
}

// NewMemoryStore creates an in-memory store with automatic expiry sweeps.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		entries:         make(map[string]*memEntry),
		cleanupInterval: time.Minute,
		stopCleanup:     make(chan struct{}),
	}

	go s.cleanup()

	return s
}

// Ping always succeeds; the memory store has no connection to lose.
func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok || e.isExpired() || e.set != nil {
		return "", false, nil
	}
	return e.value, true, nil
}

func (s *MemoryStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := &memEntry{value: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	s.entries[key] = e
	return nil
}

func (s *MemoryStore) Del(ctx context.Context, keys ...string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for _, key := range keys {
		if e, ok := s.entries[key]; ok && !e.isExpired() {
			removed++
		}
		delete(s.entries, key)
	}
	return removed, nil
}

func (s *MemoryStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		for k, e := range s.entries {
			if strings.HasPrefix(k, prefix) && !e.isExpired() {
				keys = append(keys, k)
			}
		}
		return keys, nil
	}

	if e, ok := s.entries[pattern]; ok && !e.isExpired() {
		keys = append(keys, pattern)
	}
	return keys, nil
}

func (s *MemoryStore) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	return ok && !e.isExpired(), nil
}

func (s *MemoryStore) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || e.isExpired() {
		return false, nil
	}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	} else {
		e.expiresAt = time.Time{}
	}
	return true, nil
}

func (s *MemoryStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok || e.isExpired() || e.expiresAt.IsZero() {
		return 0, nil
	}
	return time.Until(e.expiresAt), nil
}

func (s *MemoryStore) IncrBy(ctx context.Context, key string, amount int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || e.isExpired() {
		e = &memEntry{value: "0"}
		s.entries[key] = e
	}

	n, err := strconv.ParseInt(e.value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("value at %s is not an integer", key)
	}

	n += amount
	e.value = strconv.FormatInt(n, 10)
	return n, nil
}

func (s *MemoryStore) SAdd(ctx context.Context, key string, members ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	switch {
	case !ok || e.isExpired():
		e = &memEntry{set: make(map[string]struct{})}
		s.entries[key] = e
	case e.set == nil:
		return fmt.Errorf("value at %s is not a set", key)
	}
	for _, m := range members {
		e.set[m] = struct{}{}
	}
	return nil
}

func (s *MemoryStore) SRem(ctx context.Context, key string, members ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || e.isExpired() {
		return nil
	}
	if e.set == nil {
		return fmt.Errorf("value at %s is not a set", key)
	}
	for _, m := range members {
		delete(e.set, m)
	}
	if len(e.set) == 0 {
		delete(s.entries, key)
	}
	return nil
}

func (s *MemoryStore) SMembers(ctx context.Context, key string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok || e.isExpired() {
		return nil, nil
	}
	if e.set == nil {
		return nil, fmt.Errorf("value at %s is not a set", key)
	}
	members := make([]string, 0, len(e.set))
	for m := range e.set {
		members = append(members, m)
	}
	return members, nil
}

func (s *MemoryStore) FlushAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]*memEntry)
	return nil
}

func (s *MemoryStore) Info(ctx context.Context, sections ...string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]string{
		"backend": "memory",
		"keys":    strconv.Itoa(len(s.entries)),
	}, nil
}

// Close stops the background cleanup goroutine.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopCleanup) })
	return nil
}

func (s *MemoryStore) cleanup() {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.removeExpired()
		case <-s.stopCleanup:
			return
		}
	}
}

func (s *MemoryStore) removeExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, e := range s.entries {
		if e.isExpired() {
			delete(s.entries, key)
		}
	}
}

var _ Store = (*MemoryStore)(nil)
