package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment variable override.
const EnvPrefix = "EGRESS_"

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// The configuration is not modified by environment variables; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	cfg, err := readFile(path)
	if err != nil {
		return nil, err
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention EGRESS_SECTION_FIELD (e.g., EGRESS_PROXY_LISTEN_ADDRESS).
// Environment variables always take precedence over file-based configuration.
//
// When allowMissing is true a missing file is not an error and the
// configuration is built from defaults and the environment alone.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string, allowMissing bool) (*Config, error) {
	cfg, err := Read(path, allowMissing)
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Read performs the first three steps of LoadConfigWithEnvOverrides and
// skips validation. It serves read-only tooling that must work before
// secrets are provisioned.
func Read(path string, allowMissing bool) (*Config, error) {
	cfg, err := readFile(path)
	if err != nil {
		if !allowMissing || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg = &Config{}
	}

	ApplyDefaults(cfg)
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadEnvFile loads KEY=VALUE pairs from a dotenv file into the process
// environment. Variables that are already set are not overwritten.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %q: %w", path, err)
	}
	return nil
}

func readFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	return &cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	// Proxy overrides
	if val := os.Getenv("EGRESS_PROXY_LISTEN_ADDRESS"); val != "" {
		cfg.Proxy.ListenAddress = val
	}
	if val := os.Getenv("EGRESS_PROXY_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Proxy.ReadTimeout = d
		}
	}
	if val := os.Getenv("EGRESS_PROXY_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Proxy.WriteTimeout = d
		}
	}
	if val := os.Getenv("EGRESS_PROXY_MAX_BODY_BYTES"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Proxy.MaxBodyBytes = i
		}
	}
	if val := os.Getenv("EGRESS_PROXY_NODE_NAME"); val != "" {
		cfg.Proxy.NodeName = val
	}

	// Auth overrides replace the configured tokens entirely.
	if val := os.Getenv("EGRESS_AUTH_TOKEN"); val != "" {
		cfg.Auth.Tokens = splitList(val)
	}
	if val := os.Getenv("EGRESS_AUTH_TOKEN_FILE"); val != "" {
		cfg.Auth.TokenFile = val
	}

	// Per-region egress overrides: EGRESS_REGION_<ID>_LOCAL_ADDRESS / _PROXY_URL
	for _, id := range RegionIDs {
		key := EnvPrefix + "REGION_" + strings.ToUpper(id) + "_"
		local := os.Getenv(key + "LOCAL_ADDRESS")
		proxyURL := os.Getenv(key + "PROXY_URL")
		if local == "" && proxyURL == "" {
			continue
		}
		if cfg.Regions == nil {
			cfg.Regions = make(map[string]RegionConfig)
		}
		rc := cfg.Regions[id]
		if local != "" {
			rc.Egress.LocalAddress = local
		}
		if proxyURL != "" {
			rc.Egress.ProxyURL = proxyURL
		}
		cfg.Regions[id] = rc
	}

	// Upstream overrides
	if val := os.Getenv("EGRESS_UPSTREAM_USER_AGENT"); val != "" {
		cfg.Upstream.UserAgent = val
	}
	if val := os.Getenv("EGRESS_UPSTREAM_INSECURE_SKIP_VERIFY"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Upstream.TLS.InsecureSkipVerify = b
		}
	}

	// SOAP overrides
	if val := os.Getenv("EGRESS_SOAP_CHARSET"); val != "" {
		cfg.SOAP.Charset = val
	}

	// Placement overrides
	if val := os.Getenv("EGRESS_PLACEMENT_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Placement.Enabled = b
		}
	}
	if val := os.Getenv("EGRESS_PLACEMENT_SCHEDULE"); val != "" {
		cfg.Placement.Schedule = val
	}

	// Telemetry overrides
	if val := os.Getenv("EGRESS_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("EGRESS_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("EGRESS_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = &b
		}
	}
	if val := os.Getenv("EGRESS_TELEMETRY_TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Tracing.Enabled = b
		}
	}
	if val := os.Getenv("EGRESS_TELEMETRY_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
}

func splitList(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
