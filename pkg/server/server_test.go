package server

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"mercator-hq/egress/pkg/config"
	"mercator-hq/egress/pkg/security/auth"
	"mercator-hq/egress/pkg/telemetry/health"
	"mercator-hq/egress/pkg/telemetry/metrics"
)

type fixture struct {
	server    *Server
	checker   *health.Checker
	collector *metrics.Collector
	calls     *atomic.Int32
	logs      *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := config.NewDefault()
	cfg.Proxy.ListenAddress = "127.0.0.1:0"
	cfg.Proxy.ShutdownTimeout = time.Second

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	calls := &atomic.Int32{}
	boundary := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	})

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, prometheus.NewRegistry())
	checker := health.New(0)

	srv, err := NewServer(cfg, Dependencies{
		Boundary: boundary,
		Regions:  boundary,
		Auth:     auth.NewBearerMiddleware(auth.NewTokenValidator([]string{"secret"}), collector, logger),
		Checker:  checker,
		Metrics:  collector,
		Logger:   logger,
		Version:  "1.2.3",
	})
	if err != nil {
		t.Fatalf("NewServer() error: %v", err)
	}
	return &fixture{server: srv, checker: checker, collector: collector, calls: calls, logs: &buf}
}

func (f *fixture) do(method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(`{}`))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(w, req)
	return w
}

func TestNewServer_RequiresBoundaryAndAuth(t *testing.T) {
	cfg := config.NewDefault()
	if _, err := NewServer(cfg, Dependencies{}); err == nil {
		t.Error("expected error without boundary handler")
	}
	if _, err := NewServer(cfg, Dependencies{Boundary: http.NotFoundHandler()}); err == nil {
		t.Error("expected error without authorization gate")
	}
}

func TestHandler_AuthorizationGate(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		token  string
		status int
		passed bool
	}{
		{"valid secret", "/", "secret", http.StatusOK, true},
		{"any path", "/some/path", "secret", http.StatusOK, true},
		{"wrong secret", "/", "nope", http.StatusForbidden, false},
		{"no secret", "/", "", http.StatusForbidden, false},
		{"regions without secret", "/regions", "", http.StatusForbidden, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			w := f.do(http.MethodPost, tt.path, tt.token)

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			if got := f.calls.Load() == 1; got != tt.passed {
				t.Errorf("handler reached = %v, want %v", got, tt.passed)
			}
			if !tt.passed && w.Body.String() != auth.ForbiddenBody {
				t.Errorf("body = %q", w.Body.String())
			}
		})
	}
}

func TestHandler_RejectionWritesOneLine(t *testing.T) {
	f := newFixture(t)
	f.do(http.MethodPost, "/", "wrong")

	lines := strings.Split(strings.TrimSpace(f.logs.String()), "\n")
	if len(lines) != 1 || !strings.Contains(lines[0], "authentication failed") {
		t.Errorf("log lines = %v", lines)
	}
	if n := testutil.CollectAndCount(f.collector.Registry(), "mercator_egress_auth_failures_total"); n != 1 {
		t.Errorf("auth failure series = %d, want 1", n)
	}
}

func TestHandler_OperationalEndpointsSkipAuth(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{"/health", "/ready", "/version", "/metrics"} {
		w := f.do(http.MethodGet, path, "")
		if w.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, w.Code)
		}
	}
	if f.calls.Load() != 0 {
		t.Errorf("boundary reached %d times", f.calls.Load())
	}
}

func TestHandler_RequestIDEchoed(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodPost, "/", "secret")
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID not set")
	}
}

func TestServer_StartAndStop(t *testing.T) {
	f := newFixture(t)

	done := make(chan error, 1)
	go func() { done <- f.server.Start(context.Background()) }()

	deadline := time.Now().Add(2 * time.Second)
	for !f.server.IsRunning() {
		if time.Now().After(deadline) {
			t.Fatal("server did not start")
		}
		time.Sleep(10 * time.Millisecond)
	}

	f.server.Stop()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start() returned %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}

	if f.server.IsRunning() {
		t.Error("server still running")
	}
	if status := f.checker.CheckReadiness(context.Background()); status.Status != health.StatusDraining {
		t.Errorf("readiness = %s, want draining", status.Status)
	}
}
