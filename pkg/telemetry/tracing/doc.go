// Package tracing provides OpenTelemetry tracing for Mercator Egress.
//
// A boundary span is started for every proxied request, with child spans for
// the regional dispatch and the upstream call. Spans are exported over OTLP
// gRPC when telemetry.tracing.enabled is set; otherwise every call goes to a
// noop tracer.
//
// Inbound W3C traceparent headers are honoured. Nothing is injected into the
// outbound call, since the upstream sees only the headers the caller supplied.
//
//	telemetry:
//	  tracing:
//	    enabled: true
//	    endpoint: "otel-collector:4317"
//	    insecure: true
//	    sampler: ratio
//	    sample_ratio: 0.1
package tracing
