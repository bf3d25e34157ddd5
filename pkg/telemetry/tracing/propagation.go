package tracing

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/propagation"
)

// propagator handles W3C Trace Context and Baggage on inbound requests.
// Trace context is never injected into upstream calls; outbound headers are
// exactly what the caller asked for.
var propagator = propagation.NewCompositeTextMapPropagator(
	propagation.TraceContext{},
	propagation.Baggage{},
)

// Extract returns ctx carrying the trace context found in headers, if any.
func Extract(ctx context.Context, headers http.Header) context.Context {
	return propagator.Extract(ctx, propagation.HeaderCarrier(headers))
}

// HTTPMiddleware extracts the caller's trace context and starts a server
// span for the boundary request. The trace id is echoed in X-Trace-ID when
// the span is valid.
func HTTPMiddleware(t *Tracer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := Extract(r.Context(), r.Header)
			ctx, span := t.Start(ctx, "egress.request", serverSpan())
			defer span.End()

			if sc := span.SpanContext(); sc.IsValid() {
				w.Header().Set("X-Trace-ID", sc.TraceID().String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
