package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// RegionIDs lists the region identifiers accepted under the regions section.
var RegionIDs = []string{"wnam", "enam", "weur", "eeur", "apac", "oc", "af", "me"}

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "proxy.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateProxy(&cfg.Proxy)...)
	errs = append(errs, validateAuth(&cfg.Auth)...)
	errs = append(errs, validateRegions(cfg.Regions)...)
	errs = append(errs, validateUpstream(&cfg.Upstream)...)
	errs = append(errs, validateSOAP(&cfg.SOAP)...)
	errs = append(errs, validatePlacement(&cfg.Placement)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateProxy(cfg *ProxyConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "proxy.listen_address",
			Message: "listen address is required",
		})
	} else if _, _, err := net.SplitHostPort(cfg.ListenAddress); err != nil {
		errs = append(errs, FieldError{
			Field:   "proxy.listen_address",
			Message: fmt.Sprintf("invalid listen address %q: %v", cfg.ListenAddress, err),
		})
	}

	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "proxy.read_timeout",
			Message: "read timeout must be positive",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "proxy.write_timeout",
			Message: "write timeout must not be negative",
		})
	}
	if cfg.IdleTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "proxy.idle_timeout",
			Message: "idle timeout must be positive",
		})
	}

	if cfg.MaxHeaderBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "proxy.max_header_bytes",
			Message: "max header bytes must be non-negative",
		})
	}
	if cfg.MaxHeaderBytes > 10*1024*1024 { // 10MB is excessive
		errs = append(errs, FieldError{
			Field:   "proxy.max_header_bytes",
			Message: "max header bytes exceeds reasonable limit (10MB)",
		})
	}
	if cfg.MaxBodyBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "proxy.max_body_bytes",
			Message: "max body bytes must be non-negative",
		})
	}

	return errs
}

func validateAuth(cfg *AuthConfig) []FieldError {
	if len(cfg.Tokens) == 0 && cfg.TokenFile == "" {
		return []FieldError{{
			Field:   "auth.tokens",
			Message: "at least one bearer token is required (set EGRESS_AUTH_TOKEN or auth.token_file)",
		}}
	}

	var errs []FieldError
	for i, token := range cfg.Tokens {
		if strings.TrimSpace(token) == "" {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("auth.tokens[%d]", i),
				Message: "token must not be empty",
			})
		}
	}
	return errs
}

func validateRegions(regions map[string]RegionConfig) []FieldError {
	known := make(map[string]bool, len(RegionIDs))
	for _, id := range RegionIDs {
		known[id] = true
	}

	var errs []FieldError
	for id, rc := range regions {
		prefix := "regions." + id
		if !known[id] {
			errs = append(errs, FieldError{
				Field:   prefix,
				Message: fmt.Sprintf("unknown region %q: must be one of %s", id, strings.Join(RegionIDs, ", ")),
			})
			continue
		}

		if rc.Egress.LocalAddress != "" && net.ParseIP(rc.Egress.LocalAddress) == nil {
			errs = append(errs, FieldError{
				Field:   prefix + ".egress.local_address",
				Message: fmt.Sprintf("invalid IP address %q", rc.Egress.LocalAddress),
			})
		}

		if rc.Egress.ProxyURL != "" {
			u, err := url.Parse(rc.Egress.ProxyURL)
			if err != nil || u.Host == "" {
				errs = append(errs, FieldError{
					Field:   prefix + ".egress.proxy_url",
					Message: fmt.Sprintf("invalid proxy URL %q", rc.Egress.ProxyURL),
				})
			} else if u.Scheme != "http" && u.Scheme != "https" && u.Scheme != "socks5" {
				errs = append(errs, FieldError{
					Field:   prefix + ".egress.proxy_url",
					Message: fmt.Sprintf("unsupported proxy scheme %q: must be http, https or socks5", u.Scheme),
				})
			}
		}
	}
	return errs
}

func validateUpstream(cfg *UpstreamConfig) []FieldError {
	var errs []FieldError

	if cfg.MaxIdleConns < 0 {
		errs = append(errs, FieldError{
			Field:   "upstream.max_idle_conns",
			Message: "max idle connections must be non-negative",
		})
	}
	if cfg.MaxIdleConnsPerHost < 0 {
		errs = append(errs, FieldError{
			Field:   "upstream.max_idle_conns_per_host",
			Message: "max idle connections per host must be non-negative",
		})
	}
	if cfg.IdleConnTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "upstream.idle_conn_timeout",
			Message: "idle connection timeout must be positive",
		})
	}
	if err := cfg.TLS.Validate(); err != nil {
		errs = append(errs, FieldError{
			Field:   "upstream.tls",
			Message: err.Error(),
		})
	}

	return errs
}

func validateSOAP(cfg *SOAPConfig) []FieldError {
	switch strings.ToUpper(cfg.Charset) {
	case "ISO-8859-1", "UTF-8":
		return nil
	default:
		return []FieldError{{
			Field:   "soap.charset",
			Message: fmt.Sprintf("unsupported charset %q: must be 'ISO-8859-1' or 'UTF-8'", cfg.Charset),
		}}
	}
}

func validatePlacement(cfg *PlacementConfig) []FieldError {
	if !cfg.Enabled {
		return nil
	}

	var errs []FieldError
	if u, err := url.Parse(cfg.TraceURL); err != nil || u.Host == "" {
		errs = append(errs, FieldError{
			Field:   "placement.trace_url",
			Message: fmt.Sprintf("invalid trace URL %q", cfg.TraceURL),
		})
	}
	if cfg.Schedule == "" {
		errs = append(errs, FieldError{
			Field:   "placement.schedule",
			Message: "schedule is required when placement probing is enabled",
		})
	}
	if cfg.Timeout <= 0 {
		errs = append(errs, FieldError{
			Field:   "placement.timeout",
			Message: "timeout must be positive",
		})
	}
	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json', 'text' or 'console'", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.IsEnabled() && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with '/'",
		})
	}

	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "tracing endpoint is required when tracing is enabled",
		})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1.0 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0.0 and 1.0",
		})
	}
	validSamplers := map[string]bool{"always": true, "never": true, "ratio": true}
	if !validSamplers[cfg.Tracing.Sampler] {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("invalid sampler %q: must be 'always', 'never' or 'ratio'", cfg.Tracing.Sampler),
		})
	}

	return errs
}
