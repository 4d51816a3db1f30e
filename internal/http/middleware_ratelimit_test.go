package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ministryofjustice/claims-ui/internal/adapters/memstore"
	redisadapter "github.com/ministryofjustice/claims-ui/internal/adapters/redis"
	"github.com/ministryofjustice/claims-ui/internal/testutil"
)

type failingCounter struct{}

func (failingCounter) Incr(context.Context, string, time.Duration) (int, time.Duration, error) {
	return 0, 0, errors.New("redis unavailable")
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
}

func requestFrom(ip, path string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = ip + ":51234"
	return req
}

func TestRateLimit_Counters(t *testing.T) {
	_, client := testutil.StartMiniRedis(t)
	counters := map[string]RateCounter{
		"memory": memstore.NewRateCounter(time.Now),
		"redis":  redisadapter.NewRateCounter(client, "rl:"),
	}

	for name, counter := range counters {
		t.Run(name, func(t *testing.T) {
			h := RateLimit(RateLimitOptions{
				Counter: counter,
				Policy:  RateLimitPolicy{Max: 2, Window: time.Minute, Headers: true},
				Logger:  discardLogger(),
			})(okHandler())

			rec := serve(h, requestFrom("10.0.0.1", "/"))
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "2", rec.Header().Get("RateLimit-Limit"))
			assert.Equal(t, "1", rec.Header().Get("RateLimit-Remaining"))

			rec = serve(h, requestFrom("10.0.0.1", "/"))
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "0", rec.Header().Get("RateLimit-Remaining"))

			rec = serve(h, requestFrom("10.0.0.1", "/"))
			assert.Equal(t, http.StatusTooManyRequests, rec.Code)
			assert.NotEmpty(t, rec.Header().Get("Retry-After"))

			rec = serve(h, requestFrom("10.0.0.2", "/"))
			assert.Equal(t, http.StatusOK, rec.Code, "other clients have their own allowance")
		})
	}
}

func TestRateLimit_ExemptPaths(t *testing.T) {
	h := RateLimit(RateLimitOptions{
		Counter: memstore.NewRateCounter(time.Now),
		Policy:  RateLimitPolicy{Max: 1, Window: time.Minute},
	})(okHandler())

	for range 3 {
		assert.Equal(t, http.StatusOK, serve(h, requestFrom("10.0.0.1", "/status")).Code)
		assert.Equal(t, http.StatusOK, serve(h, requestFrom("10.0.0.1", "/static/css/app.css")).Code)
	}
}

func TestRateLimit_RejectedHandler(t *testing.T) {
	rejected := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("slow down"))
	})
	h := RateLimit(RateLimitOptions{
		Counter:  memstore.NewRateCounter(time.Now),
		Policy:   RateLimitPolicy{Max: 1, Window: time.Minute},
		Rejected: rejected,
	})(okHandler())

	serve(h, requestFrom("10.0.0.1", "/"))
	rec := serve(h, requestFrom("10.0.0.1", "/"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "slow down", rec.Body.String())
}

func TestRateLimit_FailsOpen(t *testing.T) {
	h := RateLimit(RateLimitOptions{
		Counter: failingCounter{},
		Policy:  RateLimitPolicy{Max: 1, Window: time.Minute},
		Logger:  discardLogger(),
	})(okHandler())

	for range 3 {
		assert.Equal(t, http.StatusOK, serve(h, requestFrom("10.0.0.1", "/")).Code)
	}
}

func TestClientIP(t *testing.T) {
	req := requestFrom("192.0.2.10", "/")
	assert.Equal(t, "192.0.2.10", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 198.51.100.2")
	assert.Equal(t, "198.51.100.2", clientIP(req))
}
