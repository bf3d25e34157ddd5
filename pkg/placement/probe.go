package placement

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"mercator-hq/egress/pkg/config"
	"mercator-hq/egress/pkg/egress"
	"mercator-hq/egress/pkg/telemetry/metrics"
)

// Prober fetches the trace endpoint through each regional egress client.
type Prober struct {
	traceURL string
	timeout  time.Duration
	clients  map[string]*egress.Client
	registry *Registry
	metrics  *metrics.Collector
	logger   *slog.Logger
}

// NewProber creates a prober for clients, keyed by region. collector may be
// nil.
func NewProber(cfg *config.PlacementConfig, clients map[string]*egress.Client, registry *Registry, collector *metrics.Collector) *Prober {
	return &Prober{
		traceURL: cfg.TraceURL,
		timeout:  cfg.Timeout,
		clients:  clients,
		registry: registry,
		metrics:  collector,
		logger:   slog.Default().With("component", "placement.prober"),
	}
}

// ProbeAll probes every region concurrently and waits for all of them.
func (p *Prober) ProbeAll(ctx context.Context) {
	regions := make([]string, 0, len(p.clients))
	for region := range p.clients {
		regions = append(regions, region)
	}
	sort.Strings(regions)

	var wg sync.WaitGroup
	for _, region := range regions {
		wg.Add(1)
		go func(region string) {
			defer wg.Done()
			p.Probe(ctx, region)
		}(region)
	}
	wg.Wait()
}

// Probe probes one region and records the result.
func (p *Prober) Probe(ctx context.Context, region string) Observation {
	obs := Observation{CheckedAt: time.Now()}

	fields, err := p.fetch(ctx, region)
	if err != nil {
		obs.Error = err.Error()
		p.logger.Warn("placement probe failed", "region", region, "error", err)
	} else {
		obs.Colo = fields["colo"]
		obs.IP = fields["ip"]
		p.logger.Debug("placement observed", "region", region, "colo", obs.Colo, "ip", obs.IP)
	}

	p.registry.Record(region, obs)
	p.metrics.RecordPlacement(region, obs.Colo, err)
	return obs
}

func (p *Prober) fetch(ctx context.Context, region string) (map[string]string, error) {
	client, ok := p.clients[region]
	if !ok {
		return nil, fmt.Errorf("no egress client for region %s", region)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.traceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid trace url: %w", err)
	}

	reply, err := client.Exchange(ctx, req)
	if err != nil {
		return nil, err
	}
	if reply.Status != http.StatusOK {
		return nil, fmt.Errorf("trace endpoint returned status %d", reply.Status)
	}

	fields := ParseTrace(reply.Body)
	if fields["colo"] == "" {
		return nil, fmt.Errorf("trace response has no colo")
	}
	return fields, nil
}

// ParseTrace parses key=value lines. Lines without "=" are ignored.
func ParseTrace(body []byte) map[string]string {
	fields := make(map[string]string)
	scanner := bufio.NewScanner(bytes.NewReader(body))
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), "=")
		if !ok {
			continue
		}
		fields[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return fields
}
