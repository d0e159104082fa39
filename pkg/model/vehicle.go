package model

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Vehicle is a single unit of fleet capacity available to the solver.
type Vehicle struct {
	ID       string
	Capacity int
}

// NewVehicle creates a vehicle, generating an ID if none is supplied.
func NewVehicle(id string, capacity int) *Vehicle {
	if id == "" {
		id = uuid.NewString()
	}
	return &Vehicle{ID: id, Capacity: capacity}
}

// Fleet tracks which vehicles are available and which have already been
// committed to a route. A vehicle is deducted the first time it backs a
// route and stays deducted until Release returns it (C4: "a fleet
// registry deducting a vehicle when first used").
type Fleet struct {
	mu        sync.Mutex
	available map[string]*Vehicle
	used      map[string]*Vehicle
}

// NewFleet builds a registry over the given vehicles, all initially available.
func NewFleet(vehicles []*Vehicle) *Fleet {
	available := make(map[string]*Vehicle, len(vehicles))
	for _, v := range vehicles {
		available[v.ID] = v
	}
	return &Fleet{available: available, used: make(map[string]*Vehicle)}
}

// Use marks a vehicle as committed to a route, deducting it from the
// available pool. It is idempotent: using an already-used vehicle is a no-op.
func (f *Fleet) Use(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.used[id]; ok {
		return nil
	}
	v, ok := f.available[id]
	if !ok {
		return fmt.Errorf("model: vehicle %q is not available", id)
	}
	delete(f.available, id)
	f.used[id] = v
	return nil
}

// Release returns a vehicle to the available pool, undoing a prior Use.
// Releasing a vehicle that is not in use is a no-op.
func (f *Fleet) Release(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	v, ok := f.used[id]
	if !ok {
		return
	}
	delete(f.used, id)
	f.available[v.ID] = v
}

// Available returns the vehicles not yet committed to a route.
func (f *Fleet) Available() []*Vehicle {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]*Vehicle, 0, len(f.available))
	for _, v := range f.available {
		out = append(out, v)
	}
	return out
}

// Used returns the vehicles already committed to a route.
func (f *Fleet) Used() []*Vehicle {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]*Vehicle, 0, len(f.used))
	for _, v := range f.used {
		out = append(out, v)
	}
	return out
}

// Clone returns an independent copy of the registry with the same
// available/used split. Vehicles themselves are immutable and shared
// between the original and the clone. Used by the evolution driver to
// fork a candidate solution without disturbing its parent's fleet state.
func (f *Fleet) Clone() *Fleet {
	f.mu.Lock()
	defer f.mu.Unlock()

	available := make(map[string]*Vehicle, len(f.available))
	for k, v := range f.available {
		available[k] = v
	}
	used := make(map[string]*Vehicle, len(f.used))
	for k, v := range f.used {
		used[k] = v
	}
	return &Fleet{available: available, used: used}
}
