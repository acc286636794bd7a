package cache

import (
	"context"
	"time"
)

// Cache is the coherency layer in front of the review store. Implementations
// must be safe for concurrent use. A lookup distinguishes "miss" from
// "backend failure" so callers can absorb failures as misses.
type Cache interface {
	// Get unmarshals the cached value for key into dest. It returns false
	// with a nil error on a miss.
	Get(ctx context.Context, key string, dest any) (bool, error)

	// Set stores value under key for the given TTL.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error

	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching a glob-style pattern.
	DeletePattern(ctx context.Context, pattern string) error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error
}
