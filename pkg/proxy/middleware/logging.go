package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

// newResponseWriter creates a new response writer wrapper.
func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

// WriteHeader captures the status code before writing.
func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
		rw.ResponseWriter.WriteHeader(code)
	}
}

// Write ensures WriteHeader is called if not already done.
func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// LoggingMiddleware writes one access line per request to the process logger
// at debug level. The request's own lines come from its request logger; the
// access line is kept at debug so that a rejected request produces only the
// authentication failure line at the default level.
//
// Log format (JSON):
//
//	{
//	  "time": "2026-10-19T10:30:00Z",
//	  "level": "DEBUG",
//	  "msg": "http request served",
//	  "method": "POST",
//	  "path": "/",
//	  "status": 200,
//	  "latency_ms": 125,
//	  "request_id": "5f0c6f9e-...",
//	  "remote_addr": "192.168.1.100:54321"
//	}
func LoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r)

			logger.Debug("http request served",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rw.statusCode,
				"latency_ms", time.Since(startTime).Milliseconds(),
				"request_id", GetRequestID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		})
	}
}
