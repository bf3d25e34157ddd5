package metrics

import (
	"time"

	"mercator-hq/egress/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector owns every Prometheus metric exported by Mercator Egress.
//
// All label values come from closed sets (regions, modes, outcomes, status
// classes), so no cardinality limiting is needed. A nil *Collector, or one
// created from a disabled config, accepts every call and records nothing.
type Collector struct {
	enabled  bool
	registry *prometheus.Registry

	requestMetrics   *RequestMetrics
	upstreamMetrics  *UpstreamMetrics
	placementMetrics *PlacementMetrics
}

// NewCollector creates a collector and registers its metrics with registry.
// If registry is nil a new one is created.
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		enabled:  cfg.IsEnabled(),
		registry: registry,
	}

	c.requestMetrics = NewRequestMetrics(cfg, registry)
	c.upstreamMetrics = NewUpstreamMetrics(cfg, registry)
	c.placementMetrics = NewPlacementMetrics(cfg, registry)

	return c
}

func (c *Collector) active() bool {
	return c != nil && c.enabled
}

// RecordRequest records a request that reached a regional actor.
// outcome is "success", "invalid", "upstream_error", "abandoned" or
// "internal_error".
func (c *Collector) RecordRequest(region, mode, outcome string, duration time.Duration) {
	if !c.active() {
		return
	}
	c.requestMetrics.RecordRequest(region, mode, outcome, duration)
}

// RecordAuthFailure records a request rejected by the authorization gate.
func (c *Collector) RecordAuthFailure(reason string) {
	if !c.active() {
		return
	}
	c.requestMetrics.RecordAuthFailure(reason)
}

// RecordTurnWait records how long a request waited for its actor's turn.
func (c *Collector) RecordTurnWait(region string, wait time.Duration) {
	if !c.active() {
		return
	}
	c.requestMetrics.RecordTurnWait(region, wait)
}

// IncInFlight marks a request as in flight on region's actor.
func (c *Collector) IncInFlight(region string) {
	if !c.active() {
		return
	}
	c.requestMetrics.inFlight.WithLabelValues(region).Inc()
}

// DecInFlight marks a request on region's actor as finished.
func (c *Collector) DecInFlight(region string) {
	if !c.active() {
		return
	}
	c.requestMetrics.inFlight.WithLabelValues(region).Dec()
}

// RecordUpstreamResponse records a response received from an upstream.
func (c *Collector) RecordUpstreamResponse(region, mode string, status int, latency time.Duration, bodyBytes int) {
	if !c.active() {
		return
	}
	c.upstreamMetrics.RecordResponse(region, mode, status, latency, bodyBytes)
}

// RecordUpstreamError records an outbound call that produced no response.
func (c *Collector) RecordUpstreamError(region, mode string) {
	if !c.active() {
		return
	}
	c.upstreamMetrics.RecordError(region, mode)
}

// RecordPlacement records the outcome of a placement probe for region. colo
// is ignored when err is non-nil.
func (c *Collector) RecordPlacement(region, colo string, err error) {
	if !c.active() {
		return
	}
	c.placementMetrics.Record(region, colo, err)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Enabled reports whether metrics are recorded.
func (c *Collector) Enabled() bool {
	return c.active()
}
