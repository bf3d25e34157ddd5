package handlers

import (
	"net/http"
	"time"

	"mercator-hq/egress/pkg/config"
	"mercator-hq/egress/pkg/envelope"
	"mercator-hq/egress/pkg/proxy"
	"mercator-hq/egress/pkg/proxy/types"
	"mercator-hq/egress/pkg/region"
	"mercator-hq/egress/pkg/telemetry/logging"
	"mercator-hq/egress/pkg/telemetry/metrics"
	"mercator-hq/egress/pkg/telemetry/tracing"
)

// BoundaryHandler serves the proxy endpoint.
type BoundaryHandler struct {
	router       *region.Router
	logger       *logging.Logger
	metrics      *metrics.Collector
	nodeName     string
	maxBodyBytes int64
}

// NewBoundaryHandler creates the proxy endpoint handler. collector may be nil.
func NewBoundaryHandler(router *region.Router, logger *logging.Logger, collector *metrics.Collector, cfg *config.ProxyConfig) *BoundaryHandler {
	return &BoundaryHandler{
		router:       router,
		logger:       logger,
		metrics:      collector,
		nodeName:     cfg.NodeName,
		maxBodyBytes: cfg.MaxBodyBytes,
	}
}

// ServeHTTP implements http.Handler.
func (h *BoundaryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		_ = proxy.WriteError(w, types.NewMethodNotAllowedError(r.Method))
		return
	}

	start := time.Now()
	ctx := r.Context()
	if traceID := tracing.TraceID(ctx); traceID != "" {
		ctx = logging.WithTraceID(ctx, traceID)
	}

	log := h.logger.NewRequest(ctx, proxy.RequestLevel(r))
	ctx = logging.WithRequestLogger(ctx, log)

	log.Info("request received", "node", h.nodeName, "method", r.Method)
	log.Debug("request path", "path", r.URL.Path)

	in, err := proxy.ReadRequest(r, h.maxBodyBytes)
	if err == nil {
		err = envelope.CheckTarget(in.Body)
	}
	if err != nil {
		errResp := proxy.HandleError(err)
		log.Info("request failed", "status", errResp.Status, "message", errResp.Message)

		mode := envelope.ParseMode(r.Header.Get(proxy.RequestTypeHeader))
		regionID, _ := region.Normalize(r.Header.Get(proxy.RegionHeader))
		h.metrics.RecordRequest(regionID, string(mode), "invalid", time.Since(start))

		_ = proxy.WriteError(w, errResp)
		return
	}

	actor := h.router.Resolve(ctx, in.Region)
	resp, errResp := actor.Serve(ctx, in.Mode, in.Body)
	if errResp != nil {
		_ = proxy.WriteError(w, errResp)
		return
	}

	if err := proxy.WriteResponse(w, resp); err != nil {
		log.Error("failed to write response", "error", err)
	}
}
