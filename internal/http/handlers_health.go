package httpx

import (
	"context"
	"io"
	"net/http"
	"time"
)

// readinessTimeout bounds each dependency check behind /healthz.
const readinessTimeout = 2 * time.Second

// ReadinessCheck probes one dependency for /healthz.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// textHandler answers with a fixed plain-text body. Used for the
// /status and /health probes.
func textHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		if _, err := io.WriteString(w, body); err != nil {
			// Nothing more to do if the client connection is gone.
			return
		}
	}
}

// readinessHandler runs every check and reports 503 when any fails.
func readinessHandler(checks []ReadinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		code := http.StatusOK
		results := make(map[string]string, len(checks))
		for _, c := range checks {
			ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
			err := c.Check(ctx)
			cancel()
			if err != nil {
				results[c.Name] = err.Error()
				status = "unavailable"
				code = http.StatusServiceUnavailable
				continue
			}
			results[c.Name] = "ok"
		}

		w.Header().Set("Cache-Control", "no-store")
		if r.Method == http.MethodHead {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(code)
			return
		}
		WriteJSON(w, code, map[string]any{"status": status, "checks": results})
	}
}
