// Package metrics emits the service's request and claims API metrics to
// a statsd.Sink.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	obserrors "github.com/ministryofjustice/claims-ui/internal/observability/errors"
	"github.com/ministryofjustice/claims-ui/internal/observability/statsd"
)

// Result tag values.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// APICall describes one claims API request.
type APICall struct {
	// Endpoint is a fixed label such as "claims.list".
	Endpoint string
	// Status is the response status, zero when no response arrived.
	Status   int
	Duration time.Duration
	Err      error
}

// EmitAPICall records the claims_api.request counter and the
// claims_api.duration timing for call.
func EmitAPICall(sink statsd.Sink, call APICall) {
	if sink == nil {
		return
	}
	tags := statsd.Tags{"endpoint": call.Endpoint, "result": ResultSuccess}
	if call.Status > 0 {
		tags["status"] = strconv.Itoa(call.Status)
	}
	if call.Err != nil {
		tags["result"] = ResultError
		tags["error_class"] = obserrors.Classify(call.Err)
	}
	sink.Count("claims_api.request", 1, tags)
	if call.Duration > 0 {
		sink.Timing("claims_api.duration", call.Duration, tags)
	}
}

// Middleware records http.request and http.duration for every request,
// tagged with method, route and status class.
func Middleware(sink statsd.Sink) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if sink == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			tags := statsd.Tags{
				"method": r.Method,
				"route":  Route(r.URL.Path),
				"status": strconv.Itoa(rec.status/100) + "xx",
			}
			sink.Count("http.request", 1, tags)
			sink.Timing("http.duration", time.Since(start), tags)
		})
	}
}

// Route maps a request path onto the fixed set of route labels so that
// identifiers do not end up in tag values.
func Route(path string) string {
	switch {
	case path == "/":
		return "claims"
	case strings.HasPrefix(path, "/claims/"):
		return "claim"
	case path == "/submissions":
		return "submissions"
	case strings.HasPrefix(path, "/submissions/"):
		return "submission"
	case strings.HasPrefix(path, "/auth/"):
		return "auth"
	case strings.HasPrefix(path, "/static/"):
		return "static"
	case path == "/status", path == "/health", path == "/healthz":
		return "probe"
	}
	return "other"
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.status = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }
