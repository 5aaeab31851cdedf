package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stayhub-backend/infrastructure/cache"
	"stayhub-backend/pkg/observability"
)

func newTestLimiter(t *testing.T) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := cache.NewRedisStore(cache.RedisOptions{Addr: mr.Addr(), OpTimeout: time.Second}, zap.NewNop())
	t.Cleanup(func() { store.Close() })
	return NewLimiter(store, observability.NewMetrics("test"), zap.NewNop()), mr
}

func TestCheckCountsDownThenDenies(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()
	cfg := Config{Window: time.Minute, MaxRequests: 5}

	for want := 4; want >= 0; want-- {
		result := limiter.Check(ctx, "user:alice", cfg)
		require.True(t, result.Allowed)
		assert.Equal(t, want, result.Remaining)
		assert.Zero(t, result.RetryAfter)
	}

	result := limiter.Check(ctx, "user:alice", cfg)
	assert.False(t, result.Allowed)
	assert.Zero(t, result.Remaining)
	assert.Greater(t, result.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, result.RetryAfter, time.Minute)
}

func TestCheckIsolatesIdentifiers(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()
	cfg := Config{Window: time.Minute, MaxRequests: 1}

	require.True(t, limiter.Check(ctx, "user:alice", cfg).Allowed)
	assert.False(t, limiter.Check(ctx, "user:alice", cfg).Allowed)

	// A different identifier has its own counter.
	assert.True(t, limiter.Check(ctx, "user:bob", cfg).Allowed)
}

func TestCheckWindowExpires(t *testing.T) {
	limiter, mr := newTestLimiter(t)
	ctx := context.Background()
	cfg := Config{Window: time.Minute, MaxRequests: 1}

	require.True(t, limiter.Check(ctx, "user:carol", cfg).Allowed)
	require.False(t, limiter.Check(ctx, "user:carol", cfg).Allowed)

	// Past the window's TTL the counter is gone and the budget is back.
	mr.FastForward(2 * time.Minute)

	assert.True(t, limiter.Check(ctx, "user:carol", cfg).Allowed)
}

func TestCheckFailsOpenWhenStoreDown(t *testing.T) {
	limiter, mr := newTestLimiter(t)
	ctx := context.Background()
	cfg := Config{Window: time.Minute, MaxRequests: 5}

	mr.Close()

	result := limiter.Check(ctx, "user:dave", cfg)
	assert.True(t, result.Allowed)
	assert.Equal(t, cfg.MaxRequests, result.Remaining)
}

func TestCheckMultiWindowBurstDenies(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()
	burst := Config{Window: time.Minute, MaxRequests: 2}
	sustained := Config{Window: time.Hour, MaxRequests: 100}

	require.True(t, limiter.CheckMultiWindow(ctx, "ip:10.0.0.1", burst, sustained).Allowed)
	require.True(t, limiter.CheckMultiWindow(ctx, "ip:10.0.0.1", burst, sustained).Allowed)

	result := limiter.CheckMultiWindow(ctx, "ip:10.0.0.1", burst, sustained)
	assert.False(t, result.Allowed)
	assert.Greater(t, result.RetryAfter, time.Duration(0))
}

func TestCheckMultiWindowReportsTighterBudget(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()
	burst := Config{Window: time.Minute, MaxRequests: 10}
	sustained := Config{Window: time.Hour, MaxRequests: 3}

	result := limiter.CheckMultiWindow(ctx, "ip:10.0.0.2", burst, sustained)
	require.True(t, result.Allowed)
	assert.Equal(t, 2, result.Remaining)
}

func TestCheckMultiWindowSustainedDenies(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()
	burst := Config{Window: time.Minute, MaxRequests: 100}
	sustained := Config{Window: time.Hour, MaxRequests: 1}

	require.True(t, limiter.CheckMultiWindow(ctx, "ip:10.0.0.3", burst, sustained).Allowed)
	assert.False(t, limiter.CheckMultiWindow(ctx, "ip:10.0.0.3", burst, sustained).Allowed)
}

func TestCheckIPSharesSanitizedCounter(t *testing.T) {
	limiter, _ := newTestLimiter(t)
	ctx := context.Background()
	cfg := Config{Window: time.Minute, MaxRequests: 1}

	require.True(t, limiter.CheckIP(ctx, "192.168.1.1", cfg).Allowed)
	// The same address with injected separators maps to the same counter.
	assert.False(t, limiter.CheckIP(ctx, "192.168.1.1|*(", cfg).Allowed)
}

func TestSanitizeIP(t *testing.T) {
	cases := map[string]string{
		"192.168.1.1":      "192.168.1.1",
		"2001:DB8::8a2e":   "2001:db8::8a2e",
		"1.2.3.4|evil key": "1.2.3.4ee",
		"   ":              "",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeIP(in), "input %q", in)
	}
}

func TestCeilSecondsFloorsAtOne(t *testing.T) {
	assert.Equal(t, time.Second, ceilSeconds(10*time.Millisecond))
	assert.Equal(t, 2*time.Second, ceilSeconds(1100*time.Millisecond))
	assert.Equal(t, time.Second, ceilSeconds(-time.Second))
}
