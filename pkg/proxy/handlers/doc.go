// Package handlers provides the HTTP handlers mounted by the egress server.
//
// BoundaryHandler serves the proxy endpoint. Every POST, whatever its path,
// carries one request envelope:
//
//	POST / HTTP/1.1
//	Authorization: Bearer <secret>
//	Content-Type: application/json
//	X-CF-Region: weur
//	X-Request-Type: soap
//	X-Log-Level: debug
//
//	{"url": "https://partner.example/ws", "action": "getDIDCountry",
//	 "namespace": "urn:getDIDCountry", "params": [["did", "123"], ["country", "US"]]}
//
// The handler creates the request logger for the X-Log-Level, rejects
// bodies without a usable url before any region is selected, resolves the
// regional actor and writes whatever the actor returns.
//
// RegionsHandler lists the region table together with the placement each
// region's egress was last observed at.
package handlers
