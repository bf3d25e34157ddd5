package proxy

import (
	"fmt"
	"io"
	"mime"
	"net/http"

	"mercator-hq/egress/pkg/envelope"
	"mercator-hq/egress/pkg/telemetry/logging"
)

const (
	// DefaultMaxBodyBytes is used when no body limit is configured (10MB).
	DefaultMaxBodyBytes = 10 * 1024 * 1024

	// AuthorizationHeader carries the bearer secret.
	AuthorizationHeader = "Authorization"

	// RegionHeader selects the regional actor.
	RegionHeader = "X-CF-Region"

	// RequestTypeHeader selects HTTP or SOAP translation.
	RequestTypeHeader = "X-Request-Type"

	// LogLevelHeader selects per-request log verbosity.
	LogLevelHeader = "X-Log-Level"

	// RequestIDHeader is the HTTP header for request ID propagation.
	RequestIDHeader = "X-Request-ID"
)

// Inbound is a boundary request after its headers have been interpreted and
// its body read. The envelope itself is decoded later by the protocol
// handler for Mode.
type Inbound struct {
	Region string
	Mode   envelope.Mode
	Body   []byte
}

// ReadRequest reads the region and request-type headers and the body of r. The body must be
// declared as application/json and may not exceed maxBytes; a non-positive
// maxBytes uses DefaultMaxBodyBytes.
func ReadRequest(r *http.Request, maxBytes int64) (*Inbound, error) {
	if err := checkContentType(r.Header.Get("Content-Type")); err != nil {
		return nil, err
	}

	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if int64(len(body)) > maxBytes {
		return nil, &RequestError{
			Status:  http.StatusRequestEntityTooLarge,
			Message: fmt.Sprintf("request body exceeds maximum size of %d bytes", maxBytes),
		}
	}

	return &Inbound{
		Region: r.Header.Get(RegionHeader),
		Mode:   envelope.ParseMode(r.Header.Get(RequestTypeHeader)),
		Body:   body,
	}, nil
}

// RequestLevel returns the log level selected by the X-Log-Level header.
func RequestLevel(r *http.Request) logging.Level {
	return logging.ParseLevel(r.Header.Get(LogLevelHeader))
}

func checkContentType(contentType string) error {
	if contentType == "" {
		return newUnsupportedMediaError("")
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != "application/json" {
		return newUnsupportedMediaError(contentType)
	}
	return nil
}
