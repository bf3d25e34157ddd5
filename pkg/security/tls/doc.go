// Package tls builds the TLS settings egress clients use toward upstreams.
//
// Some upstreams behind IP allowlists also require a client certificate or
// are signed by a private CA. Both are configured once under upstream.tls and
// shared by every regional client:
//
//	upstream:
//	  tls:
//	    ca_file: /etc/egress/partner-ca.pem
//	    cert_file: /etc/egress/client.pem
//	    key_file: /etc/egress/client-key.pem
//	    min_version: "1.2"
//
// Certificates are checked for validity when loaded, and a warning is logged
// when the client certificate expires within 30 days.
package tls
