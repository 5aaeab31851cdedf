package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisOptions configures the Redis-backed store.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int

	// OpTimeout bounds every store operation. Exceeding it is treated as
	// store unavailability, not as a request failure.
	OpTimeout time.Duration
}

// RedisStore implements Store on top of go-redis. Every method funnels
// through the same fail-open guard: a nil client (store not configured)
// or an operation error degrades to a miss or a no-op, so callers never
// block or error because the cache is down.
type RedisStore struct {
	client *redis.Client
	opts   RedisOptions
	logger *zap.Logger
}

// NewRedisStore creates a store client. The connection is established
// lazily by go-redis; an empty Addr produces a permanently-unavailable
// store that fails open everywhere, which keeps local development and
// tests working without Redis.
func NewRedisStore(opts RedisOptions, logger *zap.Logger) *RedisStore {
	if opts.OpTimeout <= 0 {
		opts.OpTimeout = 2 * time.Second
	}

	s := &RedisStore{opts: opts, logger: logger}
	if opts.Addr == "" {
		logger.Warn("redis address not configured, cache disabled")
		return s
	}

	s.client = redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  opts.OpTimeout,
		ReadTimeout:  opts.OpTimeout,
		WriteTimeout: opts.OpTimeout,
	})
	return s
}

// Get returns the value stored under key, or ErrCacheMiss. Store errors
// are logged and reported as misses.
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	if s.client == nil {
		return "", ErrCacheMiss
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logOp("get", key, err)
		}
		return "", ErrCacheMiss
	}
	return val, nil
}

// Set stores value under key. Write failures are logged and swallowed;
// caching is best-effort.
func (s *RedisStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if s.client == nil {
		return nil
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		s.logOp("set", key, err)
	}
	return nil
}

// Delete removes keys. Failures are logged and swallowed; the entries
// expire via TTL regardless.
func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if s.client == nil || len(keys) == 0 {
		return nil
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		s.logOp("delete", keys[0], err)
	}
	return nil
}

// IncrementWithExpiry increments the counter at key and sets its
// expiration in one transactional pipeline, so the two operations are
// not separately interruptible.
func (s *RedisStore) IncrementWithExpiry(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if s.client == nil {
		return 0, ErrStoreUnavailable
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		s.logOp("incr", key, err)
		return 0, ErrStoreUnavailable
	}
	return incr.Val(), nil
}

// SAdd adds invalidation tag members and refreshes the set's
// expiration; best-effort like Set.
func (s *RedisStore) SAdd(ctx context.Context, key string, ttl time.Duration, members ...string) error {
	if s.client == nil || len(members) == 0 {
		return nil
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}

	pipe := s.client.TxPipeline()
	pipe.SAdd(ctx, key, args...)
	if ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		s.logOp("sadd", key, err)
	}
	return nil
}

// SMembers returns the members of a tag set; an unreachable store yields
// an empty set, which callers treat as nothing to invalidate.
func (s *RedisStore) SMembers(ctx context.Context, key string) ([]string, error) {
	if s.client == nil {
		return nil, nil
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	members, err := s.client.SMembers(ctx, key).Result()
	if err != nil {
		s.logOp("smembers", key, err)
		return nil, nil
	}
	return members, nil
}

// Info returns raw INFO text for a section.
func (s *RedisStore) Info(ctx context.Context, section string) (string, error) {
	if s.client == nil {
		return "", ErrStoreUnavailable
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	text, err := s.client.Info(ctx, section).Result()
	if err != nil {
		s.logOp("info", section, err)
		return "", ErrStoreUnavailable
	}
	return text, nil
}

// Available reports whether the store answers a ping.
func (s *RedisStore) Available(ctx context.Context) bool {
	if s.client == nil {
		return false
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	return s.client.Ping(ctx).Err() == nil
}

// Close releases the connection handle.
func (s *RedisStore) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *RedisStore) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.opts.OpTimeout)
}

func (s *RedisStore) logOp(op, key string, err error) {
	s.logger.Warn("cache store operation failed",
		zap.String("op", op),
		zap.String("key", key),
		zap.Error(err),
	)
}
