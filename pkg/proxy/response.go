package proxy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"mercator-hq/egress/pkg/proxy/types"
)

// WriteJSONResponse writes a JSON response to the HTTP response writer.
// It sets the appropriate content-type header and handles marshaling errors.
func WriteJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) error {
	payload, err := encodeJSON(data)
	if err != nil {
		return fmt.Errorf("failed to encode JSON response: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}
	return nil
}

// WriteResponse writes a relayed upstream response. The HTTP status is always
// 200; the upstream status travels in the body. If the response cannot be
// encoded a 500 error is written instead.
func WriteResponse(w http.ResponseWriter, resp *types.Response) error {
	if _, err := encodeJSON(resp); err != nil {
		return WriteError(w, types.NewServerError(fmt.Sprintf("failed to encode response: %v", err)))
	}
	return WriteJSONResponse(w, http.StatusOK, resp)
}

// WriteError writes the structured error shape with HTTP status equal to its
// Status.
func WriteError(w http.ResponseWriter, errResp *types.ErrorResponse) error {
	return WriteJSONResponse(w, errResp.Status, errResp)
}

// encodeJSON marshals data without escaping <, > and &, so relayed markup
// reaches the caller as sent.
func encodeJSON(data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
