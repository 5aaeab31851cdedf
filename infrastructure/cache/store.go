package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when a key is absent or expired.
var ErrCacheMiss = errors.New("cache: miss")

// ErrStoreUnavailable is returned by counter and introspection operations
// when the remote store cannot be reached. Callers are expected to treat
// it as a signal to fail open, never to abort a request.
var ErrStoreUnavailable = errors.New("cache: store unavailable")

// Store abstracts the remote key-value store shared by the search cache,
// the rate limiter and the monitor. The cache is an optimization, never a
// correctness dependency: implementations degrade gracefully when the
// store is unreachable. Get returns ErrCacheMiss and Set/Delete become
// no-ops rather than surfacing connectivity trouble to request paths.
//
// IncrementWithExpiry and Info instead return ErrStoreUnavailable so
// that the rate limiter and monitor can apply their own fail-open
// policies (allow the request; report a disconnected snapshot).
//
// All methods are safe for concurrent use.
type Store interface {
	// Get returns the value stored under key, or ErrCacheMiss.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key with the given TTL. A zero TTL stores
	// without expiration.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// IncrementWithExpiry atomically increments the counter at key and,
	// in the same pipeline, sets its expiration. No other caller can
	// observe the incremented counter without its expiration set.
	IncrementWithExpiry(ctx context.Context, key string, ttl time.Duration) (int64, error)

	// SAdd adds members to the set at key and refreshes its expiration
	// in the same pipeline; used for invalidation tag sets.
	SAdd(ctx context.Context, key string, ttl time.Duration, members ...string) error

	// SMembers returns all members of the set at key.
	SMembers(ctx context.Context, key string) ([]string, error)

	// Info returns the store's raw introspection text for a section
	// (memory, stats, clients), in Redis INFO line format.
	Info(ctx context.Context, section string) (string, error)

	// Available reports whether the store is reachable right now.
	Available(ctx context.Context) bool

	// Close releases the underlying connection handle.
	Close() error
}
