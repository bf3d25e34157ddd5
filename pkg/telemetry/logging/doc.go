// Package logging provides the process logger and the request-scoped logger.
//
// # Process logging
//
// Logger wraps log/slog with JSON, text, and console formats and a minimum
// level taken from configuration:
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json", RedactURLs: true})
//	slog.SetDefault(logger.Slog())
//
// # Request logging
//
// Every proxied request gets a RequestLogger carried in its context. The
// caller picks its verbosity with the X-Log-Level header:
//
//	rl := logger.NewRequest(ctx, logging.ParseLevel(r.Header.Get("X-Log-Level")))
//	ctx = logging.WithRequestLogger(ctx, rl)
//	...
//	logging.FromContext(ctx).Info("region selected", "region", "weur")
//	logging.FromContext(ctx).Debug("outbound headers", "count", 3)
//
// Debug lines are no-ops at LevelInfo. Because Info and Debug lines are
// written from the same call sites, the Debug output of a request always
// contains its Info output in the same relative order.
//
// # Redaction
//
// Upstream URLs often carry API keys in the query string. When redaction is
// enabled, RequestLogger.URL masks sensitive query values and URL passwords,
// and bearer tokens are masked in any string field.
package logging
