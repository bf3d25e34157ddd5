package types

import (
	"bytes"
	"encoding/json"
)

// Response is the success shape returned for every upstream response that was
// actually received, whatever its status.
type Response struct {
	// Status is the upstream status code, relayed verbatim.
	Status int `json:"status"`

	// Headers holds the upstream response headers. Repeated headers are
	// joined with ", ".
	Headers map[string]string `json:"headers"`

	// Body is the decoded JSON document when the upstream answered with JSON,
	// otherwise the raw body as a JSON string.
	Body json.RawMessage `json:"body"`
}

// NewResponse builds a success response. A nil body is encoded as null.
func NewResponse(status int, headers map[string]string, body json.RawMessage) *Response {
	if headers == nil {
		headers = map[string]string{}
	}
	if len(body) == 0 {
		body = json.RawMessage("null")
	}
	return &Response{Status: status, Headers: headers, Body: body}
}

// TextBody encodes s as a JSON string body. Markup is left unescaped so
// relayed XML stays readable.
func TextBody(s string) json.RawMessage {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return bytes.TrimRight(buf.Bytes(), "\n")
}
