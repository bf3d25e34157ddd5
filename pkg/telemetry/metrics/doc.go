// Package metrics provides Prometheus metrics for Mercator Egress.
//
// # Metrics Categories
//
//   - Request metrics: proxied requests by region, mode and outcome, duration,
//     authorization failures, actor in-flight counts and turn waits
//   - Upstream metrics: responses by status class, latency, body size and
//     transport failures
//   - Placement metrics: probe results and the datacenter each region's
//     egress was last observed in
//
// All metric names are prefixed with telemetry.metrics.namespace and
// subsystem, mercator_egress_ by default.
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordRequest("weur", "soap", "success", 120*time.Millisecond)
//	mux.Handle("/metrics", collector.Handler())
package metrics
