// Package server assembles the egress proxy's HTTP surface and manages its
// lifecycle.
//
// # Routes
//
//	/           proxy boundary (any path, POST), behind the authorization gate
//	/regions    region table with observed placements, behind the gate
//	/health     liveness
//	/ready      readiness; fails once shutdown has started
//	/version    build information
//	/metrics    Prometheus exposition, when metrics are enabled
//
// The middleware chain, outermost first, is recovery, request id, tracing,
// access logging. The authorization gate is applied per route so the health
// and metrics endpoints stay reachable by probes that carry no secret.
//
// # Usage
//
//	srv, err := server.NewServer(cfg, server.Dependencies{
//	    Boundary: handlers.NewBoundaryHandler(router, logger, collector, &cfg.Proxy),
//	    Regions:  handlers.NewRegionsHandler(router, registry),
//	    Auth:     auth.NewBearerMiddleware(auth.NewTokenValidator(cfg.Auth.Tokens), collector, logger.Slog()),
//	    Checker:  checker,
//	    Metrics:  collector,
//	})
//	if err != nil {
//	    return err
//	}
//	return srv.Start(ctx)
//
// # Graceful Shutdown
//
// Start returns after SIGINT, SIGTERM, context cancellation or Stop. The
// server first marks the health checker as draining, then waits up to
// proxy.shutdown_timeout for in-flight requests, including hung upstream
// calls, before closing connections.
package server
