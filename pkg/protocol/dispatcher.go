package protocol

import (
	"context"
	"net/http"

	"mercator-hq/egress/pkg/config"
	"mercator-hq/egress/pkg/egress"
	"mercator-hq/egress/pkg/envelope"
	"mercator-hq/egress/pkg/proxy/types"
	"mercator-hq/egress/pkg/soap"
	"mercator-hq/egress/pkg/telemetry/metrics"
	"mercator-hq/egress/pkg/telemetry/tracing"
)

// Exchanger performs one outbound call on a region's egress path.
type Exchanger interface {
	Exchange(ctx context.Context, req *http.Request) (*egress.Reply, error)
}

// Call is one envelope to translate and send.
type Call struct {
	Region string
	Mode   envelope.Mode
	Body   []byte
	Egress Exchanger
}

// Dispatcher selects the handler for a call's mode.
type Dispatcher struct {
	http *HTTPHandler
	soap *SOAPHandler
}

// NewDispatcher creates the HTTP and SOAP handlers from cfg. collector and
// tracer may be nil.
func NewDispatcher(cfg *config.Config, collector *metrics.Collector, tracer *tracing.Tracer) (*Dispatcher, error) {
	builder, err := soap.NewBuilder(cfg.SOAP.Charset)
	if err != nil {
		return nil, err
	}
	if tracer == nil {
		tracer = tracing.Noop()
	}

	up := &upstream{metrics: collector, tracer: tracer}
	return &Dispatcher{
		http: &HTTPHandler{userAgent: cfg.Upstream.UserAgent, upstream: up},
		soap: &SOAPHandler{userAgent: cfg.SOAP.UserAgent, builder: builder, upstream: up},
	}, nil
}

// Dispatch runs call through the handler for its mode.
func (d *Dispatcher) Dispatch(ctx context.Context, call Call) (*types.Response, error) {
	if call.Mode == envelope.ModeSOAP {
		return d.soap.Handle(ctx, call)
	}
	return d.http.Handle(ctx, call)
}
