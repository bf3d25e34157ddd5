package metrics

import (
	"strconv"
	"time"

	"mercator-hq/egress/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// UpstreamMetrics tracks outbound calls made by the regional egress clients.
//
// Metrics:
//   - mercator_egress_upstream_responses_total: responses by region, mode and status class
//   - mercator_egress_upstream_latency_seconds: outbound call latency
//   - mercator_egress_upstream_response_size_bytes: upstream body size
//   - mercator_egress_upstream_errors_total: calls that produced no response
type UpstreamMetrics struct {
	responses *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	sizeBytes *prometheus.HistogramVec
	errors    *prometheus.CounterVec
}

// NewUpstreamMetrics creates and registers upstream metrics with the provided registry.
func NewUpstreamMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *UpstreamMetrics {
	um := &UpstreamMetrics{
		responses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "upstream_responses_total",
				Help:      "Total number of upstream responses by status class",
			},
			[]string{"region", "mode", "code"},
		),

		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "upstream_latency_seconds",
				Help:      "Upstream call latency in seconds",
				Buckets:   cfg.RequestDurationBuckets,
			},
			[]string{"region", "mode"},
		),

		sizeBytes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "upstream_response_size_bytes",
				Help:      "Size of upstream response bodies in bytes",
				Buckets:   prometheus.ExponentialBuckets(256, 4, 8), // 256B to 4MB
			},
			[]string{"region"},
		),

		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "upstream_errors_total",
				Help:      "Total number of upstream calls that failed without a response",
			},
			[]string{"region", "mode"},
		),
	}

	registry.MustRegister(
		um.responses,
		um.latency,
		um.sizeBytes,
		um.errors,
	)

	return um
}

// RecordResponse records a received upstream response.
func (um *UpstreamMetrics) RecordResponse(region, mode string, status int, latency time.Duration, bodyBytes int) {
	um.responses.WithLabelValues(region, mode, statusClass(status)).Inc()
	um.latency.WithLabelValues(region, mode).Observe(latency.Seconds())
	um.sizeBytes.WithLabelValues(region).Observe(float64(bodyBytes))
}

// RecordError records a transport failure.
func (um *UpstreamMetrics) RecordError(region, mode string) {
	um.errors.WithLabelValues(region, mode).Inc()
}

// statusClass maps 404 to "4xx".
func statusClass(status int) string {
	if status < 100 || status > 599 {
		return "other"
	}
	return strconv.Itoa(status/100) + "xx"
}
