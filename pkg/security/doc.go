/*
Package security groups the proxy's credential handling.

# Authorization

Package auth gates every proxied request on a shared bearer secret and
rejects anything else with 403 "Forbidden":

	validator := auth.NewTokenValidator(cfg.Auth.Tokens)
	handler = auth.NewBearerMiddleware(validator, collector, logger).Handle(handler)

# Secret Rotation

Package secrets merges configured secrets with a mounted token file and
swaps them into the validator whenever the file changes:

	manager := secrets.NewManager(validator, logger,
		secrets.Static(cfg.Auth.Tokens),
		secrets.NewFileSource("/run/secrets/egress-tokens"),
	)
	if _, err := manager.Load(ctx); err != nil {
		return err
	}
	go manager.Watch(ctx)

# Upstream TLS

Package tls builds the client TLS settings shared by the regional egress
clients, including private CAs and client certificates:

	tlsConfig, err := cfg.Upstream.TLS.ToTLSConfig()
*/
package security
