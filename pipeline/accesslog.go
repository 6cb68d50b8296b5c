package pipeline

import (
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/c360/webkit/metric"
)

// statusRecorder captures the status code and body size a handler wrote.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  atomic.Int64
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes.Add(int64(n))
	return n, err
}

// AccessLog returns middleware that emits one structured log line per
// request and feeds the HTTP pipeline metrics. logger and metrics may be
// nil; a nil logger falls back to slog.Default.
func AccessLog(logger *slog.Logger, metrics *metric.Metrics) Middleware {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}

			next.ServeHTTP(rec, r)

			duration := time.Since(start)
			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}

			logger.Info("request handled",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", rec.bytes.Load(),
				"duration_ms", duration.Milliseconds(),
				"request_id", RequestIDFromContext(r.Context()),
			)

			if metrics != nil {
				metrics.RequestsTotal.WithLabelValues(r.Method, strconv.Itoa(status)).Inc()
				metrics.RequestDuration.WithLabelValues(r.Method).Observe(duration.Seconds())
			}
		})
	}
}
