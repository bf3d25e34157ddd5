// Package config provides configuration management for Mercator Egress.
//
// Configuration is read from a YAML file, completed with defaults, overridden
// from the environment, and validated once at startup. The resulting *Config
// is treated as immutable and passed explicitly to the components that need
// it; there is no package-level instance.
//
// # Configuration Loading
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("config.yaml")
//
//  2. From a YAML file with environment variable overrides, optionally
//     tolerating a missing file:
//     cfg, err := config.LoadConfigWithEnvOverrides("config.yaml", true)
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention EGRESS_SECTION_FIELD:
//
//   - EGRESS_AUTH_TOKEN sets auth.tokens (comma separated)
//   - EGRESS_PROXY_LISTEN_ADDRESS overrides proxy.listen_address
//   - EGRESS_REGION_WEUR_PROXY_URL overrides regions.weur.egress.proxy_url
//   - EGRESS_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// A dotenv file can seed the environment first with LoadEnvFile.
//
// # Configuration Precedence
//
// Later sources override earlier ones:
//
//  1. Default values (defaults.go)
//  2. YAML file
//  3. Environment variables
//
// # Example
//
//	proxy:
//	  listen_address: "0.0.0.0:8080"
//	regions:
//	  weur:
//	    description: "Western Europe (EU)"
//	    egress:
//	      proxy_url: "http://fra-egress.internal:3128"
//	soap:
//	  charset: "ISO-8859-1"
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
package config
