// Package device holds the in-memory registry of sensor devices keyed by
// identifier, with a latest-observation-wins merge policy.
package device

import (
	"sort"
	"time"
)

// Device is the latest known record for one physical sensor unit.
type Device struct {
	ID       string    // unique device identifier
	Lat      float64   // last reported latitude
	Lon      float64   // last reported longitude
	LastSeen time.Time // timestamp of the last observation
}

// Registry maps device ID to its latest record. It is only ever touched
// from the UI loop, so it carries no locking.
type Registry struct {
	devices map[string]Device
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{devices: make(map[string]Device)}
}

// Apply merges an incoming record. A record for an unknown ID is inserted;
// a record with a strictly newer LastSeen replaces the stored one. Anything
// else is a stale duplicate and is discarded. The return value reports
// whether the stored record changed, i.e. whether the marker needs a
// re-render. Comparing on the reported timestamp rather than arrival order
// keeps overlapping, out-of-order responses from corrupting state.
func (r *Registry) Apply(d Device) bool {
	cur, ok := r.devices[d.ID]
	if ok && !d.LastSeen.After(cur.LastSeen) {
		return false
	}
	r.devices[d.ID] = d
	return true
}

// Get returns the stored record for id.
func (r *Registry) Get(id string) (Device, bool) {
	d, ok := r.devices[id]
	return d, ok
}

// Len returns the number of known devices.
func (r *Registry) Len() int { return len(r.devices) }

// Devices returns a snapshot of all records sorted by ID, so render order
// and cursor traversal stay stable between updates.
func (r *Registry) Devices() []Device {
	out := make([]Device, 0, len(r.devices))
	for _, d := range r.devices {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
