package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/okian/mjoy/pkg/logger"
	"github.com/okian/mjoy/pkg/metrics"
)

// RequestIDHeader carries the per-request identifier echoed to clients.
const RequestIDHeader = "X-Request-ID"

// MetricsMiddleware records request counts and latency for endpoint, tags
// the response with a request ID and logs requests that were refused.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		wrapped := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		durationMs := float64(time.Since(start).Microseconds()) / 1000
		metrics.RecordHTTPRequest(endpoint, r.Method, strconv.Itoa(wrapped.status), durationMs)

		if wrapped.status >= http.StatusBadRequest {
			kind := errorKind(wrapped.status)
			metrics.RecordErrorByComponent("http", kind)
			logger.Get().Named("api").Debug(r.Context(), "request refused",
				logger.String("request_id", id),
				logger.String("endpoint", endpoint),
				logger.String("method", r.Method),
				logger.Int("status", wrapped.status),
				logger.String("kind", kind),
			)
		}
	}
}

// errorKind buckets a failing status for the errors metric.
func errorKind(status int) string {
	switch status {
	case http.StatusTooManyRequests:
		return "backpressure"
	case http.StatusServiceUnavailable:
		return "unavailable"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	}
	if status >= http.StatusInternalServerError {
		return "server_error"
	}
	return "bad_request"
}

// statusRecorder remembers the status written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
