// Package health provides the unauthenticated probe endpoints of Mercator
// Egress.
//
//   - /health: liveness, always ok while the process runs
//   - /ready: readiness, aggregates registered component checks
//   - /version: build information
//
// The proxy registers a "regions" check confirming every regional actor is
// up and, when placement probing is enabled, a "placement" check reporting
// regions whose last probe failed. Readiness also fails once shutdown has
// begun, so traffic drains before the listener closes.
//
//	checker := health.New(5 * time.Second)
//	checker.RegisterCheck("regions", router.Check)
//	health.Register(mux, checker, version, commit, buildTime)
package health
