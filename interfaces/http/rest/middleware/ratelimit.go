package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"stayhub-backend/pkg/common"
	"stayhub-backend/pkg/ratelimit"
)

// RateLimit throttles requests per client IP with a burst window and a
// sustained window; the more restrictive verdict wins. Responses carry
// the standard X-RateLimit headers, and denials answer 429 with
// Retry-After. When the backing store is down the limiter fails open and
// this middleware passes everything through.
func RateLimit(limiter *ratelimit.Limiter, burst, sustained ratelimit.Config) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			result := limiter.CheckMultiWindow(r.Context(), "ip:"+ratelimit.SanitizeIP(ip), burst, sustained)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(sustained.MaxRequests))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetTime.Unix(), 10))

			if !result.Allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(result.RetryAfter/time.Second)))
				common.RespondError(w, http.StatusTooManyRequests, "RATE_LIMIT", "too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP trusts chi's RealIP middleware to have rewritten RemoteAddr;
// it only strips a port if one is present.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
