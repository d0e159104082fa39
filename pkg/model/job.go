package model

import (
	"time"

	"github.com/google/uuid"
)

// Demand is a signed scalar measure of how much of a vehicle's capacity a
// job consumes. Positive values are pick-ups, negative values are
// deliveries (demand that must already be on board when the route starts).
//
// The original algorithm generalizes demand to a vector (one dimension per
// commodity); the core ships the scalar case, documented as a deliberate
// simplification in DESIGN.md.
type Demand int

// Place is the geographic location a job must be served at. Computing
// travel cost/time between places is an external collaborator's job
// (TransportCost); this type only carries an opaque location reference.
type Place struct {
	Location string
}

// TimeWindow bounds when an activity may start service.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within the window, inclusive of both ends.
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Job is a unit of work that must be assigned to exactly one route, or
// else flow into the solution's unassigned set with a reason code.
type Job struct {
	ID       string
	Demand   Demand
	Duration time.Duration
	Place    Place
	Window   TimeWindow
}

// NewJob creates a job, generating an ID if none is supplied.
func NewJob(id string, demand Demand) *Job {
	if id == "" {
		id = uuid.NewString()
	}
	return &Job{ID: id, Demand: demand}
}
