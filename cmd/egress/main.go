// Egress is an authenticated HTTP egress proxy with pinned regional placement.
//
// Callers POST a JSON envelope describing an upstream call. The proxy checks
// the bearer secret, selects one of eight regional actors from the
// X-CF-Region header, performs the call as plain HTTP or as a SOAP 1.1 RPC
// through that region's egress path, and returns the upstream status,
// headers and body as JSON.
//
// Usage:
//
//	# Start the proxy (EGRESS_AUTH_TOKEN supplies the secret)
//	egress run --config /etc/egress/config.yaml
//
//	# Check a configuration file
//	egress validate --config config.yaml
//
//	# Show the region table with effective overrides
//	egress regions --format yaml
//
//	# Show version information
//	egress version
package main

import "os"

func main() {
	os.Exit(Execute())
}
