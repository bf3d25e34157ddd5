package placement

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Unknown is reported for regions without a successful probe.
const Unknown = "unknown"

// Observation is the latest probe result for one region.
type Observation struct {
	Colo      string    `json:"colo" yaml:"colo"`
	IP        string    `json:"ip" yaml:"ip"`
	CheckedAt time.Time `json:"checked_at" yaml:"checked_at"`
	Error     string    `json:"error,omitempty" yaml:"error,omitempty"`
}

// Registry holds the latest observation per region. It is safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Observation
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Observation)}
}

// Record stores obs for region. A failed probe keeps the last known colo
// and ip and only updates the error and timestamp.
func (r *Registry) Record(region string, obs Observation) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if obs.Error != "" {
		prev := r.entries[region]
		prev.Error = obs.Error
		prev.CheckedAt = obs.CheckedAt
		r.entries[region] = prev
		return
	}
	r.entries[region] = obs
}

// Placement returns the last observed colo and ip of region.
func (r *Registry) Placement(region string) (string, string) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	obs, ok := r.entries[region]
	if !ok {
		return Unknown, Unknown
	}
	colo, ip := obs.Colo, obs.IP
	if colo == "" {
		colo = Unknown
	}
	if ip == "" {
		ip = Unknown
	}
	return colo, ip
}

// Snapshot returns a copy of every observation keyed by region.
func (r *Registry) Snapshot() map[string]Observation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]Observation, len(r.entries))
	for k, v := range r.entries {
		out[k] = v
	}
	return out
}

// Check fails when the latest probe of any region failed. It is registered
// as the "placement" readiness check.
func (r *Registry) Check(ctx context.Context) error {
	r.mu.RLock()
	var failed []string
	for region, obs := range r.entries {
		if obs.Error != "" {
			failed = append(failed, region+": "+obs.Error)
		}
	}
	r.mu.RUnlock()

	if len(failed) == 0 {
		return nil
	}
	sort.Strings(failed)
	return fmt.Errorf("probe failed for %s", strings.Join(failed, "; "))
}
