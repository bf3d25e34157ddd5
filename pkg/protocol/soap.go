package protocol

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"mercator-hq/egress/pkg/envelope"
	"mercator-hq/egress/pkg/proxy/types"
	"mercator-hq/egress/pkg/soap"
	"mercator-hq/egress/pkg/telemetry/logging"
	"mercator-hq/egress/pkg/telemetry/tracing"
)

// SOAPHandler wraps SOAP-mode envelopes in a SOAP 1.1 envelope and posts it.
type SOAPHandler struct {
	userAgent string
	builder   *soap.Builder
	upstream  *upstream
}

// Handle decodes the envelope in call, renders the SOAP body and exchanges
// it. The upstream response is normalized exactly as in HTTP mode.
func (h *SOAPHandler) Handle(ctx context.Context, call Call) (*types.Response, error) {
	log := logging.FromContext(ctx)
	log.Info("processing SOAP request")

	env, err := envelope.DecodeSOAP(call.Body)
	if err != nil {
		return nil, err
	}

	payload, err := h.builder.Build(env.Action, env.Namespace, env.Params)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, env.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, &envelope.ValidationError{Field: "url", Message: fmt.Sprintf("invalid url: %v", err)}
	}

	for _, name := range envelope.HeaderNames(env.Headers) {
		req.Header.Set(name, env.Headers[name])
	}
	req.Header.Set("Content-Type", h.builder.ContentType())
	req.Header.Set("SOAPAction", soap.Action(env.Namespace, env.Action))
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", h.userAgent)
	}

	tracing.SetSOAPAttributes(tracing.SpanFromContext(ctx), env.Action, env.Namespace)

	log.Debug("normalized request",
		"url", log.URL(env.URL),
		"action", env.Action,
		"namespace", env.Namespace,
		"params", len(env.Params),
	)
	log.Debug("outbound body", "present", true, "bytes", len(payload), "charset", h.builder.Charset())

	return h.upstream.exchange(ctx, call, req)
}
