package config

import (
	"time"

	tlsconfig "mercator-hq/egress/pkg/security/tls"
)

// Config is the root configuration structure for Mercator Egress.
// It contains all configuration sections for the proxy boundary, authorization,
// regional egress, upstream transport, SOAP translation, placement probing,
// and telemetry.
type Config struct {
	// Proxy contains HTTP server configuration including listen address,
	// timeouts, and request size limits.
	Proxy ProxyConfig `yaml:"proxy"`

	// Auth contains the bearer secrets accepted by the authorization gate.
	Auth AuthConfig `yaml:"auth"`

	// Regions overrides per-region placement metadata and egress bindings.
	// Keys are region identifiers (wnam, enam, weur, eeur, apac, oc, af, me).
	// Regions that are not listed use their built-in defaults.
	Regions map[string]RegionConfig `yaml:"regions"`

	// Upstream contains settings shared by every regional egress client.
	Upstream UpstreamConfig `yaml:"upstream"`

	// SOAP contains SOAP 1.1 envelope settings.
	SOAP SOAPConfig `yaml:"soap"`

	// Placement contains configuration for the egress placement probe.
	Placement PlacementConfig `yaml:"placement"`

	// Telemetry contains configuration for observability including logging,
	// metrics, and distributed tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ProxyConfig contains configuration for the HTTP proxy server.
type ProxyConfig struct {
	// ListenAddress is the address and port for the proxy to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:8080", "0.0.0.0:8080").
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. Zero disables the timeout, which is the default because
	// upstream calls are not bounded by the proxy.
	// Default: 0
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes controls the maximum number of bytes the server will
	// read parsing the request header's keys and values.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// MaxBodyBytes limits the size of an incoming request envelope.
	// Default: 10485760 (10MB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// NodeName identifies this proxy instance in "request received" log lines.
	// Default: the host name, or "unknown"
	NodeName string `yaml:"node_name"`
}

// AuthConfig contains the authorization gate configuration.
type AuthConfig struct {
	// Tokens is the set of accepted bearer secrets. More than one secret may
	// be listed to rotate credentials without downtime.
	// Usually provided through EGRESS_AUTH_TOKEN rather than the file.
	Tokens []string `yaml:"tokens"`

	// TokenFile names a file with one secret per line, typically a mounted
	// secret volume. It is watched and reloaded on change. Secrets from the
	// file are accepted in addition to Tokens.
	// Env: EGRESS_AUTH_TOKEN_FILE
	TokenFile string `yaml:"token_file"`
}

// RegionConfig contains placement metadata and egress binding for one region.
type RegionConfig struct {
	// LocationHint is the jurisdiction/datacenter affinity for the region.
	// Default: the region identifier
	LocationHint string `yaml:"location_hint"`

	// Description is a human-readable region name used in logs.
	Description string `yaml:"description"`

	// Egress pins the network path used for outbound calls from this region.
	Egress EgressConfig `yaml:"egress"`
}

// EgressConfig pins the outbound network identity of a region.
type EgressConfig struct {
	// LocalAddress is the source IP the region's client binds to.
	// Example: "203.0.113.10"
	LocalAddress string `yaml:"local_address"`

	// ProxyURL routes every outbound call through a forward proxy located
	// in the region.
	// Example: "http://fra-egress.internal:3128"
	ProxyURL string `yaml:"proxy_url"`
}

// UpstreamConfig contains settings shared by the regional egress clients.
type UpstreamConfig struct {
	// UserAgent is sent on HTTP-mode calls when the caller does not set one.
	// Default: "ApiProxy/1.0"
	UserAgent string `yaml:"user_agent"`

	// MaxIdleConns is the connection pool size per regional client.
	// Default: 100
	MaxIdleConns int `yaml:"max_idle_conns"`

	// MaxIdleConnsPerHost is the idle connection limit per upstream host.
	// Default: 10
	MaxIdleConnsPerHost int `yaml:"max_idle_conns_per_host"`

	// IdleConnTimeout is how long idle upstream connections are kept.
	// Default: 90s
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`

	// TLSHandshakeTimeout bounds the TLS handshake with the upstream.
	// Default: 10s
	TLSHandshakeTimeout time.Duration `yaml:"tls_handshake_timeout"`

	// TLS configures upstream certificate verification and an optional
	// client certificate for upstreams that require mutual TLS.
	TLS tlsconfig.ClientConfig `yaml:"tls"`
}

// SOAPConfig contains SOAP 1.1 envelope settings.
type SOAPConfig struct {
	// Charset is the declared and actual encoding of outbound envelopes.
	// Options: "ISO-8859-1", "UTF-8"
	// Default: "ISO-8859-1"
	Charset string `yaml:"charset"`

	// UserAgent is sent on SOAP calls when the caller does not set one.
	// Default: "NuSOAP/0.9.17 (1.123)"
	UserAgent string `yaml:"user_agent"`
}

// PlacementConfig configures the egress placement probe.
type PlacementConfig struct {
	// Enabled controls whether each region periodically resolves the
	// datacenter and address its egress client is observed from.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// TraceURL returns newline separated key=value pairs including "colo"
	// and "ip".
	// Default: "https://cloudflare.com/cdn-cgi/trace"
	TraceURL string `yaml:"trace_url"`

	// Schedule is a cron expression (robfig/cron syntax, descriptors allowed).
	// Default: "@every 5m"
	Schedule string `yaml:"schedule"`

	// Timeout bounds a single probe request.
	// Default: 5s
	Timeout time.Duration `yaml:"timeout"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum level for process logs. Request logs follow the
	// X-Log-Level header of each request instead.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// RedactURLs masks credential-like query parameters in logged URLs.
	// Default: true
	RedactURLs *bool `yaml:"redact_urls"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled *bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "mercator"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "egress"
	Subsystem string `yaml:"subsystem"`

	// RequestDurationBuckets defines histogram buckets for request duration (seconds).
	// Default: [0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0]
	RequestDurationBuckets []float64 `yaml:"request_duration_buckets"`
}

// IsEnabled reports whether metrics are enabled, treating an unset value as true.
func (m MetricsConfig) IsEnabled() bool {
	return m.Enabled == nil || *m.Enabled
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Default: 0.1
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector endpoint.
	// Example: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// ServiceName is the service name in traces.
	// Default: "mercator-egress"
	ServiceName string `yaml:"service_name"`

	// Insecure disables TLS for the OTLP connection.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// Timeout bounds each export call.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}

// RedactionEnabled reports whether URL redaction is on, treating an unset value as true.
func (l LoggingConfig) RedactionEnabled() bool {
	return l.RedactURLs == nil || *l.RedactURLs
}
