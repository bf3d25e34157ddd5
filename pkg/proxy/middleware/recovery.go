package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"mercator-hq/egress/pkg/proxy"
	"mercator-hq/egress/pkg/proxy/types"
)

// RecoveryMiddleware recovers from panics in HTTP handlers and answers with
// the structured 500 error shape. The panic is logged with its stack trace;
// no internal detail is sent to the client.
//
// Example usage:
//
//	handler = RecoveryMiddleware(handler)
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}

				slog.ErrorContext(r.Context(), "panic in handler",
					"error", err,
					"request_id", GetRequestID(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				_ = proxy.WriteError(w, types.NewServerError("internal error"))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
