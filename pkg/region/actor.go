package region

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"mercator-hq/egress/pkg/egress"
	"mercator-hq/egress/pkg/envelope"
	"mercator-hq/egress/pkg/protocol"
	"mercator-hq/egress/pkg/proxy"
	"mercator-hq/egress/pkg/proxy/types"
	"mercator-hq/egress/pkg/telemetry/logging"
	"mercator-hq/egress/pkg/telemetry/metrics"
	"mercator-hq/egress/pkg/telemetry/tracing"
)

// PlacementLookup reports where a region's egress was last observed.
type PlacementLookup interface {
	Placement(region string) (colo, ip string)
}

const unknownPlacement = "unknown"

// Actor is the long-lived execution context of one region.
type Actor struct {
	region     Region
	client     *egress.Client
	dispatcher *protocol.Dispatcher
	placement  PlacementLookup
	metrics    *metrics.Collector
	tracer     *tracing.Tracer

	// turn is a single-slot semaphore held by whichever request is running
	// handler logic on this actor.
	turn chan struct{}
}

func newActor(r Region, client *egress.Client, d *protocol.Dispatcher, opts Options) *Actor {
	return &Actor{
		region:     r,
		client:     client,
		dispatcher: d,
		placement:  opts.Placement,
		metrics:    opts.Metrics,
		tracer:     opts.Tracer,
		turn:       make(chan struct{}, 1),
	}
}

// Region returns the static description of the actor's region.
func (a *Actor) Region() Region {
	return a.region
}

// ID returns the actor's stable identity.
func (a *Actor) ID() string {
	return a.region.ActorID
}

// Client returns the region's egress client.
func (a *Actor) Client() *egress.Client {
	return a.client
}

// Serve handles one envelope on this actor. Exactly one of the results is
// non-nil: the relayed upstream response, or the error shape for a request
// that produced no upstream response. Serve never panics.
func (a *Actor) Serve(ctx context.Context, mode envelope.Mode, body []byte) (*types.Response, *types.ErrorResponse) {
	start := time.Now()
	log := logging.FromContext(ctx)

	ctx, span := a.tracer.Start(ctx, "egress.region.dispatch")
	defer span.End()
	tracing.SetRegionAttributes(span, a.region.ID, a.region.ActorID, string(mode))

	a.metrics.IncInFlight(a.region.ID)
	defer a.metrics.DecInFlight(a.region.ID)

	t, err := a.acquire(ctx)
	if err != nil {
		errResp := types.NewErrorResponse(http.StatusServiceUnavailable,
			fmt.Sprintf("request abandoned while waiting for region %s: %v", a.region.ID, err))
		tracing.SetError(span, err)
		log.Info("request failed", "status", errResp.Status, "message", errResp.Message)
		a.metrics.RecordRequest(a.region.ID, string(mode), outcome(errResp.Status), time.Since(start))
		return nil, errResp
	}
	defer t.release()

	colo, ip := a.observedPlacement()
	log.Info("processing at placement",
		"actor", a.region.ActorID,
		"description", a.region.Description,
		"location_hint", a.region.LocationHint,
		"colo", colo,
		"ip", ip,
	)

	resp, err := a.dispatch(ctx, t, mode, body)
	if err != nil {
		errResp := proxy.HandleError(err)
		tracing.SetError(span, err)
		log.Info("request failed", "status", errResp.Status, "message", errResp.Message)
		a.metrics.RecordRequest(a.region.ID, string(mode), outcome(errResp.Status), time.Since(start))
		return nil, errResp
	}

	log.Info("request completed successfully", "status", resp.Status)
	a.metrics.RecordRequest(a.region.ID, string(mode), "success", time.Since(start))
	return resp, nil
}

func (a *Actor) dispatch(ctx context.Context, t *turn, mode envelope.Mode, body []byte) (resp *types.Response, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			logging.FromContext(ctx).Error("handler panic", "panic", rec, "stack", string(debug.Stack()))
			resp, err = nil, fmt.Errorf("panic in %s handler: %v", mode, rec)
		}
	}()

	return a.dispatcher.Dispatch(ctx, protocol.Call{
		Region: a.region.ID,
		Mode:   mode,
		Body:   body,
		Egress: t,
	})
}

func (a *Actor) observedPlacement() (string, string) {
	if a.placement == nil {
		return unknownPlacement, unknownPlacement
	}
	return a.placement.Placement(a.region.ID)
}

// acquire blocks until the request holds the actor's turn or ctx is done.
func (a *Actor) acquire(ctx context.Context) (*turn, error) {
	t := &turn{actor: a}
	if err := t.reacquire(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

// turn tracks whether one request currently holds its actor's turn. It is
// the Exchanger handed to protocol handlers: the turn is released for the
// duration of the outbound call only.
type turn struct {
	actor *Actor
	held  bool
}

func (t *turn) reacquire(ctx context.Context) error {
	if t.held {
		return nil
	}
	start := time.Now()
	select {
	case t.actor.turn <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	t.held = true
	t.actor.metrics.RecordTurnWait(t.actor.region.ID, time.Since(start))
	return nil
}

func (t *turn) release() {
	if !t.held {
		return
	}
	t.held = false
	<-t.actor.turn
}

// Exchange implements protocol.Exchanger. A caller that goes away while the
// call is in flight does not wait to take the turn back.
func (t *turn) Exchange(ctx context.Context, req *http.Request) (*egress.Reply, error) {
	t.release()
	reply, err := t.actor.client.Exchange(ctx, req)
	if rerr := t.reacquire(ctx); rerr != nil && err == nil {
		return nil, &egress.TransportError{Region: t.actor.region.ID, Err: rerr}
	}
	return reply, err
}

func outcome(status int) string {
	switch {
	case status == http.StatusBadGateway:
		return "upstream_error"
	case status == http.StatusServiceUnavailable:
		return "abandoned"
	case status >= 500:
		return "internal_error"
	default:
		return "invalid"
	}
}
