package delivery

import (
	"net/http"

	"github.com/Vovarama1992/pdf_ziper/internal/ratelimit"
)

// RateLimitMiddleware is the outermost admission check, so a flooding
// client is always told "rate limit" even when its key or origin would
// also be rejected.
func RateLimitMiddleware(limiter *ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(ClientKey(r)) {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
