// Package telemetry groups the proxy's observability packages.
//
// # Components
//
//   - logging: process logger and the per-request logger selected by X-Log-Level
//   - metrics: Prometheus counters and histograms per region and mode
//   - tracing: OpenTelemetry spans for the boundary, the regional actor and
//     the upstream call, exported over OTLP gRPC
//   - health: /health, /ready and /version
//
// # Usage
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json", RedactURLs: true})
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, version)
//	defer tracer.Shutdown(ctx)
//
//	checker := health.New(0)
//	checker.RegisterCheck("regions", router.Check)
//
// # Redaction
//
// URLs written by request loggers have the values of credential-like query
// parameters (token, key, secret, password, signature, auth) replaced with
// "***". Header values are never logged, only their count.
package telemetry
