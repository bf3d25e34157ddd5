package region

import (
	"strings"

	"mercator-hq/egress/pkg/config"
)

// Default is used when the selector is absent or unknown.
const Default = "wnam"

// Region is the static description of one region.
type Region struct {
	// ID is the selector value, e.g. "weur".
	ID string

	// Namespace names the actor binding the region is served by.
	Namespace string

	// ActorID is the stable identity of the region's actor.
	ActorID string

	// Description is used in placement log lines.
	Description string

	// LocationHint is the jurisdiction/datacenter affinity of the region.
	LocationHint string

	// EU marks regions whose placement is restricted to the EU jurisdiction.
	EU bool
}

var builtin = []Region{
	{ID: "wnam", Namespace: "WNAM_PROCESSOR", ActorID: "wnam-processor-1", Description: "Western North America", LocationHint: "wnam"},
	{ID: "enam", Namespace: "ENAM_PROCESSOR", ActorID: "enam-processor-1", Description: "Eastern North America", LocationHint: "enam"},
	{ID: "weur", Namespace: "WEUR_PROCESSOR", ActorID: "weur-processor-1", Description: "Western Europe", LocationHint: "weur", EU: true},
	{ID: "eeur", Namespace: "EEUR_PROCESSOR", ActorID: "eeur-processor-1", Description: "Eastern Europe", LocationHint: "eeur", EU: true},
	{ID: "apac", Namespace: "APAC_PROCESSOR", ActorID: "apac-processor-1", Description: "Asia Pacific", LocationHint: "apac"},
	{ID: "oc", Namespace: "OC_PROCESSOR", ActorID: "oc-processor-1", Description: "Oceania", LocationHint: "oc"},
	{ID: "af", Namespace: "AF_PROCESSOR", ActorID: "af-processor-1", Description: "Africa", LocationHint: "af"},
	{ID: "me", Namespace: "ME_PROCESSOR", ActorID: "me-processor-1", Description: "Middle East", LocationHint: "me"},
}

// Table returns the eight regions in their canonical order with description
// and location hint overrides from overrides applied.
func Table(overrides map[string]config.RegionConfig) []Region {
	out := make([]Region, len(builtin))
	copy(out, builtin)

	for i := range out {
		o, ok := overrides[out[i].ID]
		if !ok {
			continue
		}
		if o.Description != "" {
			out[i].Description = o.Description
		}
		if o.LocationHint != "" {
			out[i].LocationHint = o.LocationHint
		}
	}
	return out
}

// Normalize maps a selector value to a known region ID. The second result
// is false when raw does not name a region, in which case Default is
// returned.
func Normalize(raw string) (string, bool) {
	id := strings.ToLower(strings.TrimSpace(raw))
	for _, r := range builtin {
		if r.ID == id {
			return id, true
		}
	}
	return Default, false
}
