package config

import (
	"os"
	"time"
)

// Default values for configuration fields.
const (
	// Proxy defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576  // 1MB
	DefaultMaxBodyBytes    = 10485760 // 10MB

	// Upstream defaults
	DefaultUserAgent           = "ApiProxy/1.0"
	DefaultMaxIdleConns        = 100
	DefaultMaxIdleConnsPerHost = 10
	DefaultIdleConnTimeout     = 90 * time.Second
	DefaultTLSHandshakeTimeout = 10 * time.Second

	// SOAP defaults match the NuSOAP client that legacy endpoints expect.
	DefaultSOAPCharset   = "ISO-8859-1"
	DefaultSOAPUserAgent = "NuSOAP/0.9.17 (1.123)"

	// Placement defaults
	DefaultPlacementTraceURL = "https://cloudflare.com/cdn-cgi/trace"
	DefaultPlacementSchedule = "@every 5m"
	DefaultPlacementTimeout  = 5 * time.Second

	// Telemetry defaults
	DefaultLogLevel           = "info"
	DefaultLogFormat          = "json"
	DefaultMetricsPath        = "/metrics"
	DefaultMetricsNamespace   = "mercator"
	DefaultMetricsSubsystem   = "egress"
	DefaultTracingSampler     = "ratio"
	DefaultTracingSampleRatio = 0.1
	DefaultTracingServiceName = "mercator-egress"
	DefaultTracingTimeout     = 10 * time.Second
)

// DefaultRequestDurationBuckets covers fast JSON APIs up to slow SOAP backends.
var DefaultRequestDurationBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0}

// ApplyDefaults fills every unset field of cfg with its default value.
// Fields that were explicitly set are left untouched.
func ApplyDefaults(cfg *Config) {
	// Proxy defaults
	if cfg.Proxy.ListenAddress == "" {
		cfg.Proxy.ListenAddress = DefaultListenAddress
	}
	if cfg.Proxy.ReadTimeout == 0 {
		cfg.Proxy.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Proxy.IdleTimeout == 0 {
		cfg.Proxy.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Proxy.ShutdownTimeout == 0 {
		cfg.Proxy.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Proxy.MaxHeaderBytes == 0 {
		cfg.Proxy.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if cfg.Proxy.MaxBodyBytes == 0 {
		cfg.Proxy.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Proxy.NodeName == "" {
		cfg.Proxy.NodeName = defaultNodeName()
	}

	// Upstream defaults
	if cfg.Upstream.UserAgent == "" {
		cfg.Upstream.UserAgent = DefaultUserAgent
	}
	if cfg.Upstream.MaxIdleConns == 0 {
		cfg.Upstream.MaxIdleConns = DefaultMaxIdleConns
	}
	if cfg.Upstream.MaxIdleConnsPerHost == 0 {
		cfg.Upstream.MaxIdleConnsPerHost = DefaultMaxIdleConnsPerHost
	}
	if cfg.Upstream.IdleConnTimeout == 0 {
		cfg.Upstream.IdleConnTimeout = DefaultIdleConnTimeout
	}
	if cfg.Upstream.TLSHandshakeTimeout == 0 {
		cfg.Upstream.TLSHandshakeTimeout = DefaultTLSHandshakeTimeout
	}

	// SOAP defaults
	if cfg.SOAP.Charset == "" {
		cfg.SOAP.Charset = DefaultSOAPCharset
	}
	if cfg.SOAP.UserAgent == "" {
		cfg.SOAP.UserAgent = DefaultSOAPUserAgent
	}

	// Placement defaults
	if cfg.Placement.TraceURL == "" {
		cfg.Placement.TraceURL = DefaultPlacementTraceURL
	}
	if cfg.Placement.Schedule == "" {
		cfg.Placement.Schedule = DefaultPlacementSchedule
	}
	if cfg.Placement.Timeout == 0 {
		cfg.Placement.Timeout = DefaultPlacementTimeout
	}

	applyTelemetryDefaults(cfg)
}

func applyTelemetryDefaults(cfg *Config) {
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}

	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(cfg.Telemetry.Metrics.RequestDurationBuckets) == 0 {
		cfg.Telemetry.Metrics.RequestDurationBuckets = append([]float64(nil), DefaultRequestDurationBuckets...)
	}

	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Telemetry.Tracing.Timeout == 0 {
		cfg.Telemetry.Tracing.Timeout = DefaultTracingTimeout
	}
}

func defaultNodeName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "unknown"
	}
	return host
}

// NewDefault returns a configuration with every default applied.
func NewDefault() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
