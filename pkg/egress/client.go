package egress

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"mercator-hq/egress/pkg/config"
)

const dialKeepAlive = 30 * time.Second

// Reply is a fully read upstream response.
type Reply struct {
	Status int
	Header http.Header
	Body   []byte
}

// Client performs outbound calls for a single region.
type Client struct {
	region string
	http   *http.Client
}

// NewClient creates the egress client for region. Upstream settings are
// shared by every region; egress pins this region's network path.
func NewClient(region string, upstream config.UpstreamConfig, egress config.EgressConfig) (*Client, error) {
	tlsConfig, err := upstream.TLS.ToTLSConfig()
	if err != nil {
		return nil, fmt.Errorf("region %s: %w", region, err)
	}

	dialer := &net.Dialer{KeepAlive: dialKeepAlive}
	if egress.LocalAddress != "" {
		ip := net.ParseIP(egress.LocalAddress)
		if ip == nil {
			return nil, fmt.Errorf("region %s: invalid local address %q", region, egress.LocalAddress)
		}
		dialer.LocalAddr = &net.TCPAddr{IP: ip}
	}

	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		TLSClientConfig:     tlsConfig,
		MaxIdleConns:        upstream.MaxIdleConns,
		MaxIdleConnsPerHost: upstream.MaxIdleConnsPerHost,
		IdleConnTimeout:     upstream.IdleConnTimeout,
		TLSHandshakeTimeout: upstream.TLSHandshakeTimeout,
		ForceAttemptHTTP2:   true,
	}

	if egress.ProxyURL != "" {
		proxyURL, err := url.Parse(egress.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("region %s: invalid proxy URL: %w", region, err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	return &Client{
		region: region,
		http:   &http.Client{Transport: transport},
	}, nil
}

// Region returns the region the client belongs to.
func (c *Client) Region() string {
	return c.region
}

// Exchange sends req bound to ctx and reads the whole response. Any upstream
// status is a successful exchange; only the absence of a response is an
// error, reported as *TransportError.
func (c *Client) Exchange(ctx context.Context, req *http.Request) (*Reply, error) {
	resp, err := c.http.Do(req.WithContext(ctx))
	if err != nil {
		return nil, &TransportError{Region: c.region, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Region: c.region, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	return &Reply{
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   body,
	}, nil
}

// CloseIdleConnections closes idle upstream connections held by the client.
func (c *Client) CloseIdleConnections() {
	c.http.CloseIdleConnections()
}
