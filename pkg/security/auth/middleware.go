package auth

import (
	"log/slog"
	"net/http"
)

// ForbiddenBody is the literal body of every rejected request.
const ForbiddenBody = "Forbidden"

// BearerMiddleware is HTTP middleware that gates requests on a bearer secret.
// It fails closed: a request is forwarded only when its credential matches.
type BearerMiddleware struct {
	validator *TokenValidator
	recorder  FailureRecorder
	logger    *slog.Logger
}

// NewBearerMiddleware creates a new bearer authentication middleware.
// recorder may be nil. A nil logger uses slog.Default().
func NewBearerMiddleware(validator *TokenValidator, recorder FailureRecorder, logger *slog.Logger) *BearerMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &BearerMiddleware{
		validator: validator,
		recorder:  recorder,
		logger:    logger,
	}
}

// Handle wraps an HTTP handler with bearer authentication. A rejected
// request produces exactly one log line and a 403 with body "Forbidden".
func (m *BearerMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := m.validator.Validate(r.Header.Get("Authorization")); err != nil {
			m.logger.Warn("authentication failed",
				"reason", err.Error(),
				"remote_addr", r.RemoteAddr,
			)
			if m.recorder != nil {
				m.recorder.RecordAuthFailure(Reason(err))
			}
			WriteForbidden(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// WriteForbidden writes the fixed authorization failure response.
func WriteForbidden(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(ForbiddenBody))
}
