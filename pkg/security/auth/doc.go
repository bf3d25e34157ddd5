/*
Package auth implements the authorization gate in front of the proxy.

Every request must carry the header

	Authorization: Bearer <token>

where <token> equals one of the configured secrets. Missing, malformed (no
"Bearer " prefix), or unequal credentials are rejected with HTTP 403 and the
literal body "Forbidden". The rejection happens before any other processing
and writes exactly one log line.

	validator := auth.NewTokenValidator(cfg.Auth.Tokens)
	gate := auth.NewBearerMiddleware(validator, metricsCollector, slog.Default())
	handler = gate.Handle(handler)

Secrets are compared through their SHA-256 digests with
crypto/subtle.ConstantTimeCompare, and all configured secrets are checked on
every request, so response timing reveals neither a correct prefix nor which
secret matched. Several secrets may be configured at once to rotate
credentials without downtime.
*/
package auth
