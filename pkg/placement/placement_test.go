package placement

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"mercator-hq/egress/pkg/config"
	"mercator-hq/egress/pkg/egress"
	"mercator-hq/egress/pkg/telemetry/metrics"
)

func newClients(t *testing.T, regions ...string) map[string]*egress.Client {
	t.Helper()
	upstream := config.NewDefault().Upstream
	clients := make(map[string]*egress.Client, len(regions))
	for _, region := range regions {
		c, err := egress.NewClient(region, upstream, config.EgressConfig{})
		if err != nil {
			t.Fatalf("NewClient(%s) error: %v", region, err)
		}
		clients[region] = c
	}
	return clients
}

func traceServer(body string, status int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
}

func TestParseTrace(t *testing.T) {
	fields := ParseTrace([]byte("fl=29f1\nh=www.cloudflare.com\nip=198.51.100.7\nts=1700000000.1\ncolo=FRA\nbogus line\nloc=DE\n"))

	if fields["colo"] != "FRA" || fields["ip"] != "198.51.100.7" || fields["loc"] != "DE" {
		t.Errorf("fields = %v", fields)
	}
	if _, ok := fields["bogus line"]; ok {
		t.Error("lines without = should be ignored")
	}
	if len(ParseTrace(nil)) != 0 {
		t.Error("empty body should yield no fields")
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	colo, ip := r.Placement("weur")
	if colo != Unknown || ip != Unknown {
		t.Errorf("unprobed placement = %s %s", colo, ip)
	}

	r.Record("weur", Observation{Colo: "FRA", IP: "198.51.100.7", CheckedAt: time.Now()})
	if colo, ip := r.Placement("weur"); colo != "FRA" || ip != "198.51.100.7" {
		t.Errorf("placement = %s %s", colo, ip)
	}

	r.Record("weur", Observation{Error: "timeout", CheckedAt: time.Now()})
	if colo, _ := r.Placement("weur"); colo != "FRA" {
		t.Errorf("failed probe should keep the last colo, got %s", colo)
	}
	if snap := r.Snapshot(); snap["weur"].Error != "timeout" {
		t.Errorf("snapshot = %+v", snap)
	}
	if err := r.Check(context.Background()); err == nil || !strings.Contains(err.Error(), "weur: timeout") {
		t.Errorf("Check() = %v", err)
	}

	r.Record("weur", Observation{Colo: "AMS", IP: "198.51.100.8", CheckedAt: time.Now()})
	if err := r.Check(context.Background()); err != nil {
		t.Errorf("Check() after recovery = %v", err)
	}
}

func TestProber_ProbeAll(t *testing.T) {
	srv := traceServer("ip=203.0.113.9\ncolo=SJC\n", http.StatusOK)
	defer srv.Close()

	cfg := config.NewDefault()
	cfg.Placement.TraceURL = srv.URL
	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	registry := NewRegistry()

	p := NewProber(&cfg.Placement, newClients(t, "wnam", "enam"), registry, collector)
	p.ProbeAll(context.Background())

	for _, region := range []string{"wnam", "enam"} {
		if colo, ip := registry.Placement(region); colo != "SJC" || ip != "203.0.113.9" {
			t.Errorf("%s placement = %s %s", region, colo, ip)
		}
	}

	count, err := testutil.GatherAndCount(collector.Registry(), "mercator_egress_placement_probes_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if count != 2 {
		t.Errorf("probe series = %d, want 2", count)
	}
}

func TestProber_Failures(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"non-200", "colo=FRA", http.StatusServiceUnavailable},
		{"no colo", "ip=198.51.100.7", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := traceServer(tt.body, tt.status)
			defer srv.Close()

			cfg := config.NewDefault()
			cfg.Placement.TraceURL = srv.URL
			registry := NewRegistry()

			obs := NewProber(&cfg.Placement, newClients(t, "me"), registry, nil).Probe(context.Background(), "me")
			if obs.Error == "" {
				t.Fatal("expected probe error")
			}
			if colo, _ := registry.Placement("me"); colo != Unknown {
				t.Errorf("colo = %s, want unknown", colo)
			}
		})
	}
}

func TestProber_UnknownRegion(t *testing.T) {
	cfg := config.NewDefault()
	obs := NewProber(&cfg.Placement, nil, NewRegistry(), nil).Probe(context.Background(), "af")
	if obs.Error == "" {
		t.Error("expected error for region without client")
	}
}

func TestScheduler_Start(t *testing.T) {
	tests := []struct {
		name        string
		schedule    string
		wantRunning bool
		wantError   bool
	}{
		{"every descriptor", "@every 1h", true, false},
		{"standard cron", "0 * * * *", true, false},
		{"empty schedule", "", false, false},
		{"invalid schedule", "invalid cron", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := traceServer("colo=AMS\nip=192.0.2.1\n", http.StatusOK)
			defer srv.Close()

			cfg := config.NewDefault()
			cfg.Placement.TraceURL = srv.URL
			p := NewProber(&cfg.Placement, newClients(t, "weur"), NewRegistry(), nil)

			s := NewScheduler(p, tt.schedule)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			err := s.Start(ctx)
			if (err != nil) != tt.wantError {
				t.Fatalf("Start() error = %v, wantError %v", err, tt.wantError)
			}
			if s.IsRunning() != tt.wantRunning {
				t.Errorf("IsRunning() = %v, want %v", s.IsRunning(), tt.wantRunning)
			}
			if tt.wantRunning && s.NextRun() == nil {
				t.Error("NextRun() should be set")
			}

			s.Stop()
			if s.IsRunning() {
				t.Error("scheduler should be stopped")
			}
		})
	}
}

func TestScheduler_InitialProbe(t *testing.T) {
	srv := traceServer("colo=NRT\nip=192.0.2.9\n", http.StatusOK)
	defer srv.Close()

	cfg := config.NewDefault()
	cfg.Placement.TraceURL = srv.URL
	registry := NewRegistry()
	s := NewScheduler(NewProber(&cfg.Placement, newClients(t, "apac"), registry, nil), "@every 1h")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer s.Stop()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if colo, _ := registry.Placement("apac"); colo == "NRT" {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("initial probe did not record a placement")
}
