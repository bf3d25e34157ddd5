package metrics

import (
	"time"

	"mercator-hq/egress/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// RequestMetrics tracks requests handled at the proxy boundary.
//
// Metrics:
//   - mercator_egress_requests_total: requests by region, mode and outcome
//   - mercator_egress_request_duration_seconds: end-to-end duration
//   - mercator_egress_auth_failures_total: rejected requests by reason
//   - mercator_egress_actor_in_flight: requests currently held by an actor
//   - mercator_egress_actor_turn_wait_seconds: time spent waiting for a turn
type RequestMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	authFailures    *prometheus.CounterVec
	inFlight        *prometheus.GaugeVec
	turnWait        *prometheus.HistogramVec
}

// NewRequestMetrics creates and registers request metrics with the provided registry.
func NewRequestMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RequestMetrics {
	rm := &RequestMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "requests_total",
				Help:      "Total number of proxied requests",
			},
			[]string{"region", "mode", "outcome"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "request_duration_seconds",
				Help:      "Duration of proxied requests in seconds",
				Buckets:   cfg.RequestDurationBuckets,
			},
			[]string{"region", "mode"},
		),

		authFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "auth_failures_total",
				Help:      "Total number of requests rejected by the authorization gate",
			},
			[]string{"reason"},
		),

		inFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "actor_in_flight",
				Help:      "Requests currently held by a regional actor",
			},
			[]string{"region"},
		),

		turnWait: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "actor_turn_wait_seconds",
				Help:      "Time requests waited for their regional actor's turn",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8), // 100µs to ~1.6s
			},
			[]string{"region"},
		),
	}

	registry.MustRegister(
		rm.requestsTotal,
		rm.requestDuration,
		rm.authFailures,
		rm.inFlight,
		rm.turnWait,
	)

	return rm
}

// RecordRequest records a completed request.
func (rm *RequestMetrics) RecordRequest(region, mode, outcome string, duration time.Duration) {
	rm.requestsTotal.WithLabelValues(region, mode, outcome).Inc()
	rm.requestDuration.WithLabelValues(region, mode).Observe(duration.Seconds())
}

// RecordAuthFailure records a rejected request.
func (rm *RequestMetrics) RecordAuthFailure(reason string) {
	rm.authFailures.WithLabelValues(reason).Inc()
}

// RecordTurnWait records time spent waiting for an actor turn.
func (rm *RequestMetrics) RecordTurnWait(region string, wait time.Duration) {
	rm.turnWait.WithLabelValues(region).Observe(wait.Seconds())
}
