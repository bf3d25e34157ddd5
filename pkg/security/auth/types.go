package auth

import "errors"

// Reasons a credential is rejected. They are logged and used as metric
// labels, never returned to the caller.
var (
	ErrMissingCredential   = errors.New("missing Authorization header")
	ErrMalformedCredential = errors.New("invalid Authorization header format")
	ErrInvalidCredential   = errors.New("invalid token")
)

// Reason returns a short label for err, suitable for metrics.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrMissingCredential):
		return "missing"
	case errors.Is(err, ErrMalformedCredential):
		return "malformed"
	default:
		return "invalid"
	}
}

// FailureRecorder observes rejected requests.
type FailureRecorder interface {
	RecordAuthFailure(reason string)
}
