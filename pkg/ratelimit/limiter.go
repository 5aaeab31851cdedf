package ratelimit

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"stayhub-backend/infrastructure/cache"
	"stayhub-backend/pkg/observability"
)

const keyPrefix = "rate_limit:"

// Config describes one fixed window.
type Config struct {
	Window      time.Duration
	MaxRequests int
}

// Result is the outcome of a rate limit check.
type Result struct {
	Allowed    bool          `json:"allowed"`
	Remaining  int           `json:"remaining"`
	ResetTime  time.Time     `json:"reset_time"`
	RetryAfter time.Duration `json:"retry_after,omitempty"`
}

// Limiter implements fixed-window request throttling on top of the
// shared store. The counter for a window is incremented and given its
// expiration in one pipelined operation, so the count at any instant
// equals the number of requests recorded in that window. No manual
// decrement ever occurs; windows reset by keying on their start time.
//
// When the store is unreachable the limiter fails open: availability is
// prioritized over strict enforcement, consistent with the cache
// layer's policy.
type Limiter struct {
	store   cache.Store
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewLimiter creates a limiter over the given store.
func NewLimiter(store cache.Store, metrics *observability.Metrics, logger *zap.Logger) *Limiter {
	return &Limiter{
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
}

// Check records one request for the identifier and reports whether it
// fits within the window's budget.
func (l *Limiter) Check(ctx context.Context, identifier string, cfg Config) Result {
	now := time.Now()
	windowStart := now.Truncate(cfg.Window)
	windowEnd := windowStart.Add(cfg.Window)

	key := fmt.Sprintf("%s%s:%d", keyPrefix, identifier, windowStart.Unix())
	ttl := time.Duration(math.Ceil(cfg.Window.Seconds())) * time.Second

	count, err := l.store.IncrementWithExpiry(ctx, key, ttl)
	if err != nil {
		// Fail open; the request proceeds unthrottled.
		l.logger.Warn("rate limit check failed open",
			zap.String("identifier", identifier),
			zap.Error(err),
		)
		l.metrics.RateLimitAllowed.Inc()
		return Result{
			Allowed:   true,
			Remaining: cfg.MaxRequests,
			ResetTime: windowEnd,
		}
	}

	remaining := cfg.MaxRequests - int(count)
	if remaining < 0 {
		remaining = 0
	}

	result := Result{
		Allowed:   int(count) <= cfg.MaxRequests,
		Remaining: remaining,
		ResetTime: windowEnd,
	}
	if !result.Allowed {
		result.RetryAfter = ceilSeconds(windowEnd.Sub(now))
		l.metrics.RateLimitRejected.Inc()
	} else {
		l.metrics.RateLimitAllowed.Inc()
	}
	return result
}

// CheckMultiWindow evaluates a short burst window and a long sustained
// window independently and returns the more restrictive outcome: a
// denial if either denies, otherwise the result with fewer remaining
// requests.
func (l *Limiter) CheckMultiWindow(ctx context.Context, identifier string, burst, sustained Config) Result {
	burstResult := l.Check(ctx, identifier+":burst", burst)
	sustainedResult := l.Check(ctx, identifier+":sustained", sustained)

	switch {
	case !burstResult.Allowed && !sustainedResult.Allowed:
		if sustainedResult.RetryAfter > burstResult.RetryAfter {
			return sustainedResult
		}
		return burstResult
	case !burstResult.Allowed:
		return burstResult
	case !sustainedResult.Allowed:
		return sustainedResult
	case sustainedResult.Remaining < burstResult.Remaining:
		return sustainedResult
	default:
		return burstResult
	}
}

// CheckIP applies the limit scoped to a client IP. The identifier is
// sanitized before key construction so a crafted address cannot inject
// key separators.
func (l *Limiter) CheckIP(ctx context.Context, ip string, cfg Config) Result {
	return l.Check(ctx, "ip:"+SanitizeIP(ip), cfg)
}

// CheckUser applies the limit scoped to a user id.
func (l *Limiter) CheckUser(ctx context.Context, userID string, cfg Config) Result {
	return l.Check(ctx, "user:"+userID, cfg)
}

// CheckEndpoint applies the limit scoped to an endpoint name.
func (l *Limiter) CheckEndpoint(ctx context.Context, endpoint string, cfg Config) Result {
	return l.Check(ctx, "endpoint:"+endpoint, cfg)
}

// SanitizeIP strips every character outside [0-9a-f.:] after
// lowercasing, which covers IPv4 and IPv6 textual forms.
func SanitizeIP(ip string) string {
	ip = strings.ToLower(ip)
	var b strings.Builder
	b.Grow(len(ip))
	for _, r := range ip {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r == '.', r == ':':
			b.WriteRune(r)
		}
	}
	return b.String()
}

func ceilSeconds(d time.Duration) time.Duration {
	secs := time.Duration(math.Ceil(d.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs * time.Second
}
