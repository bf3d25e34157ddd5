package protocol

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"mercator-hq/egress/pkg/envelope"
	"mercator-hq/egress/pkg/proxy/types"
	"mercator-hq/egress/pkg/telemetry/logging"
)

// HTTPHandler forwards HTTP-mode envelopes.
type HTTPHandler struct {
	userAgent string
	upstream  *upstream
}

// Handle decodes the envelope in call, builds the outbound request and
// exchanges it. Validation failures are returned as
// *envelope.ValidationError before any outbound call; transport failures as
// *egress.TransportError.
func (h *HTTPHandler) Handle(ctx context.Context, call Call) (*types.Response, error) {
	log := logging.FromContext(ctx)
	log.Info("processing HTTP request")

	env, err := envelope.DecodeHTTP(call.Body)
	if err != nil {
		return nil, err
	}

	req, err := h.outbound(ctx, env)
	if err != nil {
		return nil, err
	}

	log.Debug("normalized request", "method", req.Method, "url", log.URL(req.URL.String()))
	if req.ContentLength > 0 {
		log.Debug("outbound body", "present", true, "bytes", req.ContentLength)
	} else {
		log.Debug("outbound body", "present", false)
	}

	return h.upstream.exchange(ctx, call, req)
}

// outbound builds the request for env. Params go to exactly one channel:
// the query string for get, head and delete, the JSON body otherwise.
func (h *HTTPHandler) outbound(ctx context.Context, env *envelope.HTTPRequest) (*http.Request, error) {
	method := env.NormalizedMethod()
	target := env.ParsedURL()

	var body io.Reader
	var payload []byte
	if method.UsesQuery() {
		target = env.Params.AppendQuery(target)
	} else {
		var err error
		payload, err = env.Params.JSON()
		if err != nil {
			return nil, fmt.Errorf("failed to encode params: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method.HTTP(), target.String(), body)
	if err != nil {
		return nil, &envelope.ValidationError{Field: "url", Message: fmt.Sprintf("invalid url: %v", err)}
	}

	for _, name := range envelope.HeaderNames(env.Headers) {
		req.Header.Set(name, env.Headers[name])
	}
	if payload != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", h.userAgent)
	}

	return req, nil
}
