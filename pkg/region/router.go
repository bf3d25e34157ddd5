package region

import (
	"context"
	"fmt"

	"mercator-hq/egress/pkg/config"
	"mercator-hq/egress/pkg/egress"
	"mercator-hq/egress/pkg/protocol"
	"mercator-hq/egress/pkg/telemetry/logging"
	"mercator-hq/egress/pkg/telemetry/metrics"
	"mercator-hq/egress/pkg/telemetry/tracing"
)

// Options carries the optional collaborators of a Router.
type Options struct {
	Metrics   *metrics.Collector
	Tracer    *tracing.Tracer
	Placement PlacementLookup
}

// Router resolves the region selector to one of the eight actors.
type Router struct {
	regions []Region
	actors  map[string]*Actor
}

// NewRouter builds the region table from cfg and creates one actor, with its
// own egress client, per region.
func NewRouter(cfg *config.Config, dispatcher *protocol.Dispatcher, opts Options) (*Router, error) {
	if opts.Tracer == nil {
		opts.Tracer = tracing.Noop()
	}

	r := &Router{
		regions: Table(cfg.Regions),
		actors:  make(map[string]*Actor, len(builtin)),
	}

	for _, reg := range r.regions {
		client, err := egress.NewClient(reg.ID, cfg.Upstream, cfg.Regions[reg.ID].Egress)
		if err != nil {
			return nil, fmt.Errorf("failed to create egress client for region %s: %w", reg.ID, err)
		}
		r.actors[reg.ID] = newActor(reg, client, dispatcher, opts)
	}

	return r, nil
}

// Resolve returns the actor for the raw selector value, logging the
// selection. An absent or unknown selector resolves to Default.
func (r *Router) Resolve(ctx context.Context, raw string) *Actor {
	log := logging.FromContext(ctx)

	id, known := Normalize(raw)
	if raw == "" {
		log.Info("region selected", "region", Default)
	} else {
		log.Info("region selected", "region", raw)
		if !known {
			log.Info("unknown region, using default", "requested", raw, "region", Default, "description", r.actors[Default].region.Description)
		}
	}

	actor := r.actors[id]
	log.Debug("routing to regional actor",
		"namespace", actor.region.Namespace,
		"actor", actor.region.ActorID,
		"location_hint", actor.region.LocationHint,
		"eu_jurisdiction", actor.region.EU,
	)
	return actor
}

// Actor returns the actor for a known region ID.
func (r *Router) Actor(id string) (*Actor, bool) {
	a, ok := r.actors[id]
	return a, ok
}

// Regions returns the region table in canonical order.
func (r *Router) Regions() []Region {
	out := make([]Region, len(r.regions))
	copy(out, r.regions)
	return out
}

// Clients returns each region's egress client keyed by region ID.
func (r *Router) Clients() map[string]*egress.Client {
	out := make(map[string]*egress.Client, len(r.actors))
	for id, a := range r.actors {
		out[id] = a.client
	}
	return out
}

// Check reports whether every region has an actor. It is registered as a
// readiness check.
func (r *Router) Check(ctx context.Context) error {
	for _, reg := range builtin {
		if _, ok := r.actors[reg.ID]; !ok {
			return fmt.Errorf("no actor for region %s", reg.ID)
		}
	}
	return nil
}

// Close releases idle upstream connections of every region.
func (r *Router) Close() {
	for _, a := range r.actors {
		a.client.CloseIdleConnections()
	}
}
