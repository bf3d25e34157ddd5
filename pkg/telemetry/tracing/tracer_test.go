package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"mercator-hq/egress/pkg/config"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func recordingTracer() (*Tracer, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	return NewWithProvider(provider), recorder
}

func TestNew(t *testing.T) {
	if _, err := New(nil, "test"); err == nil {
		t.Error("expected error for nil config")
	}

	tracer, err := New(&config.TracingConfig{Enabled: false}, "test")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if tracer.Enabled() {
		t.Error("disabled config should produce a disabled tracer")
	}

	_, span := tracer.Start(context.Background(), "noop")
	if span.SpanContext().IsValid() {
		t.Error("noop tracer should not produce valid spans")
	}
	span.End()

	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error: %v", err)
	}
}

func TestCreateSampler(t *testing.T) {
	tests := []struct {
		strategy string
		ratio    float64
		wantErr  bool
	}{
		{SamplerAlways, 0, false},
		{SamplerNever, 0, false},
		{SamplerRatio, 0.5, false},
		{SamplerRatio, 1.5, true},
		{"sometimes", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			_, err := createSampler(tt.strategy, tt.ratio)
			if (err != nil) != tt.wantErr {
				t.Errorf("createSampler(%q, %v) error = %v, wantErr %v", tt.strategy, tt.ratio, err, tt.wantErr)
			}
		})
	}
}

func TestSpanAttributesAndErrors(t *testing.T) {
	tracer, recorder := recordingTracer()

	ctx, span := tracer.Start(context.Background(), "egress.region.dispatch")
	SetRegionAttributes(span, "weur", "weur-processor-1", "http")
	SetUpstreamAttributes(span, "GET", "example.test")
	SetResponseAttributes(span, 200, 12)
	SetError(span, errors.New("boom"))
	SetError(span, nil)

	if TraceID(ctx) == "" {
		t.Error("expected trace id in context")
	}
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("ended spans = %d, want 1", len(ended))
	}
	got := ended[0]
	if got.Status().Code != codes.Error {
		t.Errorf("status = %v, want Error", got.Status().Code)
	}

	attrs := map[string]bool{}
	for _, kv := range got.Attributes() {
		attrs[string(kv.Key)] = true
	}
	for _, key := range []string{AttrRegion, AttrActor, AttrMode, AttrHTTPMethod, AttrServerHost, AttrStatusCode, AttrErrorMessage} {
		if !attrs[key] {
			t.Errorf("missing attribute %s", key)
		}
	}
}

func TestTraceIDWithoutSpan(t *testing.T) {
	if id := TraceID(context.Background()); id != "" {
		t.Errorf("TraceID() = %q, want empty", id)
	}
}

func TestHTTPMiddleware(t *testing.T) {
	tracer, recorder := recordingTracer()

	var innerTrace string
	handler := HTTPMiddleware(tracer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		innerTrace = TraceID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if innerTrace != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("handler trace id = %q, want the inbound trace", innerTrace)
	}
	if rec.Header().Get("X-Trace-ID") != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("X-Trace-ID = %q", rec.Header().Get("X-Trace-ID"))
	}

	ended := recorder.Ended()
	if len(ended) != 1 || ended[0].Parent().SpanID().String() != "00f067aa0ba902b7" {
		t.Errorf("expected one span parented to the inbound span, got %d", len(ended))
	}
}
