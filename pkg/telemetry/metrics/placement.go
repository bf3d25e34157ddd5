package metrics

import (
	"mercator-hq/egress/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// PlacementMetrics tracks the placement probe.
//
// Metrics:
//   - mercator_egress_placement_probes_total: probes by region and result
//   - mercator_egress_placement_info: 1 for the colo each region was last observed in
type PlacementMetrics struct {
	probes *prometheus.CounterVec
	info   *prometheus.GaugeVec
}

// NewPlacementMetrics creates and registers placement metrics with the provided registry.
func NewPlacementMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *PlacementMetrics {
	pm := &PlacementMetrics{
		probes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "placement_probes_total",
				Help:      "Total number of placement probes by result",
			},
			[]string{"region", "result"},
		),

		info: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "placement_info",
				Help:      "Datacenter each region's egress was last observed in (always 1)",
			},
			[]string{"region", "colo"},
		),
	}

	registry.MustRegister(pm.probes, pm.info)

	return pm
}

// Record records a probe result. A successful probe replaces the region's
// previous colo series.
func (pm *PlacementMetrics) Record(region, colo string, err error) {
	if err != nil {
		pm.probes.WithLabelValues(region, "error").Inc()
		return
	}
	pm.probes.WithLabelValues(region, "success").Inc()
	pm.info.DeletePartialMatch(prometheus.Labels{"region": region})
	pm.info.WithLabelValues(region, colo).Set(1)
}
