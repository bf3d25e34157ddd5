package tls

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log/slog"
	"os"
)

// ClientConfig describes how egress clients authenticate upstreams and,
// optionally, themselves.
type ClientConfig struct {
	// CAFile is a PEM bundle of additional roots trusted for upstream
	// certificates. The system pool is always included.
	CAFile string `yaml:"ca_file"`

	// CertFile and KeyFile hold a client certificate presented to upstreams
	// that require mutual TLS. Both or neither must be set.
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`

	// MinVersion is the minimum TLS version to negotiate ("1.2" or "1.3").
	// Default: "1.2"
	MinVersion string `yaml:"min_version"`

	// InsecureSkipVerify disables upstream certificate verification.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`
}

// IsZero reports whether c requests nothing beyond Go's defaults.
func (c *ClientConfig) IsZero() bool {
	return c.CAFile == "" && c.CertFile == "" && c.KeyFile == "" && c.MinVersion == "" && !c.InsecureSkipVerify
}

// Validate checks the configuration without touching the filesystem.
func (c *ClientConfig) Validate() error {
	if (c.CertFile == "") != (c.KeyFile == "") {
		return fmt.Errorf("cert_file and key_file must be set together")
	}
	switch c.MinVersion {
	case "", "1.2", "1.3":
	default:
		return fmt.Errorf("unsupported min_version %q: must be '1.2' or '1.3'", c.MinVersion)
	}
	return nil
}

// ToTLSConfig converts ClientConfig to a crypto/tls.Config for an
// http.Transport. It loads the CA bundle and client certificate from disk.
func (c *ClientConfig) ToTLSConfig() (*tls.Config, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	// #nosec G402 - InsecureSkipVerify is an explicit operator opt-in
	tlsConfig := &tls.Config{
		MinVersion:         c.parseTLSVersion(),
		InsecureSkipVerify: c.InsecureSkipVerify,
	}

	if c.CAFile != "" {
		pool, err := c.loadRootCAs()
		if err != nil {
			return nil, err
		}
		tlsConfig.RootCAs = pool
	}

	if c.CertFile != "" {
		cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load client certificate: %w", err)
		}
		if err := ValidateCertificate(&cert); err != nil {
			return nil, fmt.Errorf("client certificate validation failed: %w", err)
		}
		if leaf, err := x509.ParseCertificate(cert.Certificate[0]); err == nil {
			if _, warning := CheckCertificateExpiration(leaf); warning != "" {
				slog.Warn("upstream client certificate expiring", "file", c.CertFile, "warning", warning)
			}
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}

func (c *ClientConfig) loadRootCAs() (*x509.CertPool, error) {
	pem, err := os.ReadFile(c.CAFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA file: %w", err)
	}

	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		pool = x509.NewCertPool()
	}
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("failed to parse CA certificates from %s", c.CAFile)
	}
	return pool, nil
}

// parseTLSVersion converts the MinVersion string to a tls.Version constant.
// Upstreams are third-party services, so TLS 1.2 remains the floor.
func (c *ClientConfig) parseTLSVersion() uint16 {
	if c.MinVersion == "1.3" {
		return tls.VersionTLS13
	}
	return tls.VersionTLS12
}
