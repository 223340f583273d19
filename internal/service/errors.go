package service

import "errors"

// Sentinel errors handlers translate into HTTP responses.
var (
	// ErrNotFound means the entity does not exist (or expired).
	ErrNotFound = errors.New("not found")

	// ErrUnavailable means a cache-resident entity kind cannot be
	// served because the cache is down. Only the services whose data
	// lives exclusively in the cache return it.
	ErrUnavailable = errors.New("storage unavailable")

	// ErrRateLimited means the actor exhausted their window.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrConflict means the requested transition is not allowed from
	// the entity's current state.
	ErrConflict = errors.New("conflicting state")
)
