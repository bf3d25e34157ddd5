package envelope

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
)

// HTTPRequest is the envelope for HTTP mode.
type HTTPRequest struct {
	// URL is the absolute http or https upstream URL.
	URL string `json:"url" validate:"required,upstream_url"`

	// Method defaults to post and is matched without regard to case.
	Method string `json:"method,omitempty"`

	// Params go to the query string or to a JSON body depending on Method.
	Params Params `json:"params,omitempty"`

	// Headers are forwarded to the upstream.
	Headers map[string]string `json:"headers,omitempty"`

	// Timeout is accepted for compatibility and never enforced.
	Timeout *float64 `json:"timeout,omitempty"`
}

// SOAPRequest is the envelope for SOAP mode.
type SOAPRequest struct {
	URL       string            `json:"url" validate:"required,upstream_url"`
	Action    string            `json:"action" validate:"required"`
	Namespace string            `json:"namespace" validate:"required"`
	Params    OrderedParams     `json:"params,omitempty"`
	Headers   map[string]string `json:"headers,omitempty"`
	Timeout   *float64          `json:"timeout,omitempty"`
}

type target struct {
	URL string `json:"url" validate:"required,upstream_url"`
}

// CheckTarget validates only the url of a raw envelope. The boundary calls it
// before any region is selected so that a request without a usable url never
// reaches a regional actor.
func CheckTarget(data []byte) error {
	var t target
	if err := unmarshal(data, &t); err != nil {
		return err
	}
	return validateStruct(&t)
}

// DecodeHTTP decodes and validates an HTTP-mode envelope.
func DecodeHTTP(data []byte) (*HTTPRequest, error) {
	var req HTTPRequest
	if err := unmarshal(data, &req); err != nil {
		return nil, err
	}
	if err := validateStruct(&req); err != nil {
		return nil, err
	}
	if _, err := NormalizeMethod(req.Method); err != nil {
		return nil, err
	}
	if err := validateHeaders(req.Headers); err != nil {
		return nil, err
	}
	return &req, nil
}

// DecodeSOAP decodes and validates a SOAP-mode envelope.
func DecodeSOAP(data []byte) (*SOAPRequest, error) {
	var req SOAPRequest
	if err := unmarshal(data, &req); err != nil {
		return nil, err
	}
	if err := validateStruct(&req); err != nil {
		return nil, err
	}
	if err := validateHeaders(req.Headers); err != nil {
		return nil, err
	}
	return &req, nil
}

// ParsedURL returns the parsed upstream URL. It must only be called on a
// validated envelope.
func (r *HTTPRequest) ParsedURL() *url.URL {
	u, _ := url.Parse(r.URL)
	return u
}

// NormalizedMethod returns the method of a validated envelope.
func (r *HTTPRequest) NormalizedMethod() Method {
	m, err := NormalizeMethod(r.Method)
	if err != nil {
		return DefaultMethod
	}
	return m
}

// HeaderNames returns the caller header names in sorted order.
func HeaderNames(h map[string]string) []string {
	names := make([]string, 0, len(h))
	for k := range h {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func unmarshal(data []byte, v any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return invalid("body", "request body is empty")
	}
	if trimmed[0] != '{' {
		return invalid("body", "request body must be a JSON object")
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return invalid("body", fmt.Sprintf("invalid JSON: %v", err))
	}
	return nil
}
