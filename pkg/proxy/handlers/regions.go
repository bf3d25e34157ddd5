package handlers

import (
	"net/http"
	"time"

	"mercator-hq/egress/pkg/placement"
	"mercator-hq/egress/pkg/proxy"
	"mercator-hq/egress/pkg/proxy/types"
	"mercator-hq/egress/pkg/region"
)

// RegionInfo describes one region in the /regions listing.
type RegionInfo struct {
	ID           string     `json:"id"`
	Namespace    string     `json:"namespace"`
	Actor        string     `json:"actor"`
	Description  string     `json:"description"`
	LocationHint string     `json:"location_hint"`
	EU           bool       `json:"eu_jurisdiction"`
	Colo         string     `json:"colo"`
	IP           string     `json:"ip"`
	CheckedAt    *time.Time `json:"checked_at,omitempty"`
	ProbeError   string     `json:"probe_error,omitempty"`
}

// RegionsHandler lists the region table with observed placements.
type RegionsHandler struct {
	router   *region.Router
	registry *placement.Registry
}

// NewRegionsHandler creates the handler. registry may be nil when placement
// probing is disabled.
func NewRegionsHandler(router *region.Router, registry *placement.Registry) *RegionsHandler {
	return &RegionsHandler{router: router, registry: registry}
}

// ServeHTTP implements http.Handler.
func (h *RegionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		_ = proxy.WriteError(w, types.NewErrorResponse(http.StatusMethodNotAllowed, "method "+r.Method+" not allowed, use GET"))
		return
	}

	_ = proxy.WriteJSONResponse(w, http.StatusOK, h.List())
}

// List returns the listing in canonical region order.
func (h *RegionsHandler) List() []RegionInfo {
	var observed map[string]placement.Observation
	if h.registry != nil {
		observed = h.registry.Snapshot()
	}

	regions := h.router.Regions()
	out := make([]RegionInfo, 0, len(regions))
	for _, reg := range regions {
		info := RegionInfo{
			ID:           reg.ID,
			Namespace:    reg.Namespace,
			Actor:        reg.ActorID,
			Description:  reg.Description,
			LocationHint: reg.LocationHint,
			EU:           reg.EU,
			Colo:         placement.Unknown,
			IP:           placement.Unknown,
		}
		if obs, ok := observed[reg.ID]; ok {
			if obs.Colo != "" {
				info.Colo = obs.Colo
			}
			if obs.IP != "" {
				info.IP = obs.IP
			}
			checked := obs.CheckedAt
			info.CheckedAt = &checked
			info.ProbeError = obs.Error
		}
		out = append(out, info)
	}
	return out
}
