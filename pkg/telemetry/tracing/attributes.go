package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys. Egress-specific keys live under "egress.*".
const (
	AttrRequestID = "egress.request_id"
	AttrRegion    = "egress.region"
	AttrActor     = "egress.actor"
	AttrMode      = "egress.mode"
	AttrColo      = "egress.placement.colo"

	AttrSOAPAction    = "egress.soap.action"
	AttrSOAPNamespace = "egress.soap.namespace"

	AttrHTTPMethod   = "http.request.method"
	AttrServerHost   = "server.address"
	AttrStatusCode   = "http.response.status_code"
	AttrBodySize     = "http.response.body.size"
	AttrErrorMessage = "error.message"
)

func serverSpan() trace.SpanStartOption {
	return trace.WithSpanKind(trace.SpanKindServer)
}

// ClientSpan marks a span as an outbound call.
func ClientSpan() trace.SpanStartOption {
	return trace.WithSpanKind(trace.SpanKindClient)
}

// SetRegionAttributes records which actor handled the request.
func SetRegionAttributes(span trace.Span, region, actor, mode string) {
	span.SetAttributes(
		attribute.String(AttrRegion, region),
		attribute.String(AttrActor, actor),
		attribute.String(AttrMode, mode),
	)
}

// SetUpstreamAttributes records the outbound method and host.
func SetUpstreamAttributes(span trace.Span, method, host string) {
	span.SetAttributes(
		attribute.String(AttrHTTPMethod, method),
		attribute.String(AttrServerHost, host),
	)
}

// SetResponseAttributes records the upstream status and body size.
func SetResponseAttributes(span trace.Span, status, bodySize int) {
	span.SetAttributes(
		attribute.Int(AttrStatusCode, status),
		attribute.Int(AttrBodySize, bodySize),
	)
}

// SetSOAPAttributes records the SOAP operation being invoked.
func SetSOAPAttributes(span trace.Span, action, namespace string) {
	span.SetAttributes(
		attribute.String(AttrSOAPAction, action),
		attribute.String(AttrSOAPNamespace, namespace),
	)
}
