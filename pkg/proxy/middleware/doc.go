// Package middleware provides HTTP middleware for cross-cutting concerns of
// the egress boundary.
//
// # Middleware Chain
//
// The server chains middleware in this order, outermost first:
//
//	handler = Recovery(RequestID(Tracing(Logging(Auth(boundary)))))
//
//  1. Recovery: recover from panics, answer with the 500 error shape
//  2. RequestID: keep or generate X-Request-ID and store it in the context
//  3. Tracing: start the server span (pkg/telemetry/tracing)
//  4. Logging: one debug access line per request
//  5. Auth: bearer gate (pkg/security/auth), only in front of the boundary
//
// Health, readiness, version and metrics endpoints are mounted outside the
// auth gate.
//
// # Request IDs
//
// Request IDs are UUIDs unless the caller supplies a printable X-Request-ID
// of at most 128 bytes. The ID is stored with logging.WithRequestID so that
// every request log line carries it.
package middleware
