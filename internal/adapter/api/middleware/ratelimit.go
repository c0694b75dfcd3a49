package middleware

import (
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimit applies a server-wide token bucket to ingest traffic. Clients are
// expected to back off on 429 the same way they do on 503.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"rate_limited","detail":"ingest rate limit exceeded, retry with backoff"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
