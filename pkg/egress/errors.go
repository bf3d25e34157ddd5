package egress

import "fmt"

// TransportError reports that no upstream response was obtained: DNS,
// connect, TLS, or a failure while reading the response body.
type TransportError struct {
	// Region is the region whose client attempted the call.
	Region string

	// Err is the underlying transport error.
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("upstream request failed: %v", e.Err)
}

// Unwrap returns the underlying error for error chain support.
func (e *TransportError) Unwrap() error {
	return e.Err
}
