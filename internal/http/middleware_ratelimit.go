package httpx

import (
	"context"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// RateCounter counts hits for key in a fixed window. It returns the count
// including this hit and the time left in the window.
type RateCounter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int, time.Duration, error)
}

// RateLimitPolicy is the per-client allowance.
type RateLimitPolicy struct {
	Max    int
	Window time.Duration
	// Headers adds RateLimit-Limit/-Remaining/-Reset to every response.
	Headers bool
}

// RateLimitOptions configures RateLimit.
type RateLimitOptions struct {
	Counter RateCounter
	Policy  RateLimitPolicy
	// Rejected renders the 429 response; nil sends plain text.
	Rejected http.Handler
	Logger   *slog.Logger
}

// rateLimitExempt lists path prefixes that are never limited.
//
//nolint:gochecknoglobals // read-only prefix list
var rateLimitExempt = []string{"/status", "/health", "/static/"}

// RateLimit returns a middleware that limits each client IP to Policy.Max
// requests per Policy.Window. Over the limit it answers 429 with
// Retry-After. Counter errors let the request through.
func RateLimit(opts RateLimitOptions) func(http.Handler) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		if opts.Counter == nil || opts.Policy.Max <= 0 || opts.Policy.Window <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isRateLimitExempt(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			count, ttl, err := opts.Counter.Incr(r.Context(), clientIP(r), opts.Policy.Window)
			if err != nil {
				logger.WarnContext(r.Context(), "rate limit counter unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			resetSeconds := int(math.Ceil(ttl.Seconds()))
			if opts.Policy.Headers {
				h := w.Header()
				h.Set("RateLimit-Limit", strconv.Itoa(opts.Policy.Max))
				h.Set("RateLimit-Remaining", strconv.Itoa(max(opts.Policy.Max-count, 0)))
				h.Set("RateLimit-Reset", strconv.Itoa(resetSeconds))
			}

			if count > opts.Policy.Max {
				w.Header().Set("Retry-After", strconv.Itoa(max(resetSeconds, 1)))
				if opts.Rejected != nil {
					opts.Rejected.ServeHTTP(w, r)
					return
				}
				http.Error(w, "Too many requests, please try again later.", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isRateLimitExempt(path string) bool {
	for _, p := range rateLimitExempt {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// clientIP returns the address of the client as seen by the first proxy
// in front of the service: the last X-Forwarded-For entry, else the
// connection's remote address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if ip := strings.TrimSpace(parts[len(parts)-1]); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
