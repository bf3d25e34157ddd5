package envelope

import "strings"

// Mode selects the protocol handler for a request.
type Mode string

const (
	// ModeHTTP forwards the envelope as a plain HTTP call.
	ModeHTTP Mode = "http"

	// ModeSOAP wraps the envelope params in a SOAP 1.1 envelope.
	ModeSOAP Mode = "soap"
)

// ParseMode reads the request-type header value. Only "soap" (any case)
// selects SOAP; anything else, including an empty value, is HTTP.
func ParseMode(raw string) Mode {
	if strings.EqualFold(strings.TrimSpace(raw), string(ModeSOAP)) {
		return ModeSOAP
	}
	return ModeHTTP
}
