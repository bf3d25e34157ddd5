// Package envelope defines the request envelope accepted at the proxy boundary.
//
// A client describes one outbound call as a JSON document. Two shapes share the
// same boundary and are selected by the request-type header:
//
//	// HTTP mode
//	{"url": "https://api.example.com/v1/items", "method": "get", "params": {"page": 2}}
//
//	// SOAP mode
//	{"url": "https://soap.example.com", "action": "getDIDCountry",
//	 "namespace": "urn:getDIDCountry", "params": [["did", "123"], ["country", "US"]]}
//
// HTTP params are an unordered mapping whose values may be any JSON value.
// SOAP params are an ordered list of key/value pairs in which duplicate keys
// are legal; the order is carried verbatim into the outbound XML.
//
// Decoding never performs I/O. Every decoding or validation failure is reported
// as a *ValidationError so the boundary can answer 400 without contacting the
// upstream.
package envelope
