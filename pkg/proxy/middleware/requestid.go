package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"mercator-hq/egress/pkg/proxy"
	"mercator-hq/egress/pkg/telemetry/logging"
)

// maxRequestIDLength bounds caller supplied request IDs.
const maxRequestIDLength = 128

// RequestIDMiddleware assigns each request an ID and stores it in the
// context, where request loggers pick it up. A caller supplied X-Request-ID
// is kept when it is a printable token of reasonable length; otherwise a new
// UUID is generated. The ID is echoed in the X-Request-ID response header.
//
// Example usage:
//
//	handler = RequestIDMiddleware(handler)
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(proxy.RequestIDHeader)
		if !validRequestID(requestID) {
			requestID = uuid.NewString()
		}

		ctx := logging.WithRequestID(r.Context(), requestID)
		w.Header().Set(proxy.RequestIDHeader, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID extracts the request ID from the context.
// Returns empty string if not found.
func GetRequestID(ctx context.Context) string {
	return logging.GetRequestID(ctx)
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if c := id[i]; c <= ' ' || c >= 0x7f {
			return false
		}
	}
	return true
}
