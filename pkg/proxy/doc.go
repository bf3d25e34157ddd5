// Package proxy defines the client-facing boundary of the egress proxy: the
// request headers it reads, how envelopes are read from the request body, how
// errors map to response shapes, and how responses are written.
//
// # Request Flow
//
//  1. The bearer middleware rejects unauthorized calls with 403 Forbidden.
//  2. The boundary handler reads the envelope (POST, application/json).
//  3. The region router picks a regional actor from X-CF-Region.
//  4. The actor dispatches on X-Request-Type to the HTTP or SOAP handler.
//  5. The normalized response is written back with HTTP 200.
//
// # Response Shapes
//
// Any response actually received from the upstream is relayed as
//
//	{"status": 404, "headers": {"content-type": "text/html"}, "body": "..."}
//
// with HTTP status 200. Failures produced by the proxy itself use
//
//	{"status": 400, "message": "url is required"}
//
// with HTTP status equal to status. HandleError performs the mapping:
//
//	*envelope.ValidationError, *RequestError(400) -> 400
//	*RequestError(413)                            -> 413
//	*egress.TransportError                        -> 502
//	anything else                                 -> 500
//
// Subpackages provide the boundary handlers (handlers), the middleware chain
// (middleware) and the response types (types).
package proxy
