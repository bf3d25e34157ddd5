// Package types defines the response shapes written by the proxy boundary.
//
// Two JSON shapes exist:
//
//	// success: any response actually received from the upstream
//	{"status": 404, "headers": {"content-type": "application/json"}, "body": {"error": "nope"}}
//
//	// error: the proxy could not produce an upstream response
//	{"status": 502, "message": "upstream request failed: dial tcp: connection refused"}
//
// A success response is written with HTTP 200; the upstream status lives in
// the body. An error response is written with HTTP status equal to its Status.
// Authorization failures use neither shape and are answered with a bare
// "Forbidden" text body.
package types
