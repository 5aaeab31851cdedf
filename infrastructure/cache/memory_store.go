package cache

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-process Store used in development and tests when
// no Redis endpoint is configured. It honors TTLs and tracks hit/miss
// counters so the monitor can run against it.
type MemoryStore struct {
	mu       sync.RWMutex
	items    map[string]memoryItem
	counters map[string]int64
	sets     map[string]map[string]struct{}

	hits    int64
	misses  int64
	started time.Time

	stop chan struct{}
	once sync.Once
}

type memoryItem struct {
	value     string
	expiresAt time.Time
}

// NewMemoryStore creates an in-memory store and starts its janitor.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		items:    make(map[string]memoryItem),
		counters: make(map[string]int64),
		sets:     make(map[string]map[string]struct{}),
		started:  time.Now(),
		stop:     make(chan struct{}),
	}

	go s.cleanupExpired()

	return s
}

// Get retrieves a value, honoring expiration.
func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.items[key]
	if !exists || (!item.expiresAt.IsZero() && time.Now().After(item.expiresAt)) {
		s.misses++
		return "", ErrCacheMiss
	}

	s.hits++
	return item.value, nil
}

// Set stores a value with a TTL; zero TTL means no expiration.
func (s *MemoryStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}
	s.items[key] = memoryItem{value: value, expiresAt: expiresAt}
	return nil
}

// Delete removes keys, counters and sets under the given names.
func (s *MemoryStore) Delete(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		delete(s.items, key)
		delete(s.counters, key)
		delete(s.sets, key)
	}
	return nil
}

// IncrementWithExpiry increments a counter under the store lock, which
// gives the same atomicity the Redis pipeline provides.
func (s *MemoryStore) IncrementWithExpiry(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.items[key]
	if exists && !item.expiresAt.IsZero() && time.Now().After(item.expiresAt) {
		delete(s.counters, key)
		exists = false
	}

	s.counters[key]++
	if !exists {
		var expiresAt time.Time
		if ttl > 0 {
			expiresAt = time.Now().Add(ttl)
		}
		s.items[key] = memoryItem{expiresAt: expiresAt}
	}
	return s.counters[key], nil
}

// SAdd adds members to a set. The in-memory janitor does not expire
// sets; they are reclaimed on Delete.
func (s *MemoryStore) SAdd(ctx context.Context, key string, ttl time.Duration, members ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.sets[key]
	if !ok {
		set = make(map[string]struct{})
		s.sets[key] = set
	}
	for _, m := range members {
		set[m] = struct{}{}
	}
	return nil
}

// SMembers returns the members of a set in sorted order.
func (s *MemoryStore) SMembers(ctx context.Context, key string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.sets[key]
	if !ok {
		return nil, nil
	}
	members := make([]string, 0, len(set))
	for m := range set {
		members = append(members, m)
	}
	sort.Strings(members)
	return members, nil
}

// Info synthesizes INFO-format text from the store's own counters so the
// monitor parses the same line format against either backend.
func (s *MemoryStore) Info(ctx context.Context, section string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var b strings.Builder
	switch section {
	case "memory":
		fmt.Fprintf(&b, "used_memory:%d\r\n", len(s.items)*256)
		fmt.Fprintf(&b, "used_memory_peak:%d\r\n", len(s.items)*256)
		b.WriteString("maxmemory:0\r\n")
		b.WriteString("mem_fragmentation_ratio:1.0\r\n")
	case "stats":
		fmt.Fprintf(&b, "keyspace_hits:%d\r\n", s.hits)
		fmt.Fprintf(&b, "keyspace_misses:%d\r\n", s.misses)
		b.WriteString("evicted_keys:0\r\n")
		b.WriteString("rejected_connections:0\r\n")
	case "clients":
		b.WriteString("connected_clients:1\r\n")
	case "server":
		fmt.Fprintf(&b, "uptime_in_seconds:%d\r\n", int64(time.Since(s.started).Seconds()))
	}
	return b.String(), nil
}

// Available always reports true; the process-local store cannot be down.
func (s *MemoryStore) Available(ctx context.Context) bool {
	return true
}

// Close stops the janitor.
func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.stop) })
	return nil
}

// cleanupExpired periodically removes expired items.
func (s *MemoryStore) cleanupExpired() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			now := time.Now()
			for key, item := range s.items {
				if !item.expiresAt.IsZero() && now.After(item.expiresAt) {
					delete(s.items, key)
					delete(s.counters, key)
				}
			}
			s.mu.Unlock()
		}
	}
}
