package model

import "fmt"

// Activity is one stop on a route: a job being served, or one of the two
// synthetic bracketing activities (start/end) that every route carries.
// ActivityContext (the transient (prev, target, next) triple used during
// insertion evaluation) is never stored on the activity itself.
type Activity struct {
	Job    *Job // nil for the synthetic start/end activities
	Demand Demand
	Place  Place
	Window TimeWindow
}

// IsSynthetic reports whether this is a start/end bracket, not a real job.
func (a *Activity) IsSynthetic() bool {
	return a.Job == nil
}

// NewStartActivity builds the synthetic activity bracketing a route's beginning.
func NewStartActivity(place Place) *Activity {
	return &Activity{Place: place}
}

// NewEndActivity builds the synthetic activity bracketing a route's end.
func NewEndActivity(place Place) *Activity {
	return &Activity{Place: place}
}

// NewJobActivity wraps a job as a route activity, carrying its demand forward.
func NewJobActivity(job *Job) *Activity {
	return &Activity{Job: job, Demand: job.Demand, Place: job.Place, Window: job.Window}
}

// Tour is a route's ordered activity sequence, bracketed by a synthetic
// start at index 0 and a synthetic end at the last index. Indices in
// between (1..Count()-2) are real job activities, matching the indexing
// used throughout the constraint pipeline: Get(0) is the start, Get(n+1)
// is the end for a tour with n job activities.
type Tour struct {
	activities []*Activity
}

// NewTour creates a tour bracketed by the given start and end activities.
func NewTour(start, end *Activity) *Tour {
	return &Tour{activities: []*Activity{start, end}}
}

// Start returns the synthetic start activity.
func (t *Tour) Start() *Activity { return t.activities[0] }

// End returns the synthetic end activity.
func (t *Tour) End() *Activity { return t.activities[len(t.activities)-1] }

// Get returns the activity at position i in the full (start..end) sequence,
// or nil if i is out of range.
func (t *Tour) Get(i int) *Activity {
	if i < 0 || i >= len(t.activities) {
		return nil
	}
	return t.activities[i]
}

// Count returns the number of activities including the synthetic start/end.
func (t *Tour) Count() int { return len(t.activities) }

// JobCount returns the number of real job activities (excluding start/end).
func (t *Tour) JobCount() int { return len(t.activities) - 2 }

// Activities returns the real job activities, excluding the synthetic start/end.
func (t *Tour) Activities() []*Activity {
	if t.JobCount() <= 0 {
		return nil
	}
	return t.activities[1 : len(t.activities)-1]
}

// All returns the full sequence including the synthetic start/end.
func (t *Tour) All() []*Activity {
	return t.activities
}

// InsertAt inserts act at position i (1 <= i <= JobCount()+1), shifting
// later activities back. Inserting at or before 0 or past the end
// sentinel's index is a programmer error: the start/end brackets are fixed.
func (t *Tour) InsertAt(i int, act *Activity) {
	last := len(t.activities) - 1
	if i <= 0 || i > last {
		panic(fmt.Sprintf("model: tour insertion index %d out of bounds [1,%d]", i, last))
	}
	t.activities = append(t.activities, nil)
	copy(t.activities[i+1:], t.activities[i:])
	t.activities[i] = act
}

// RemoveAt removes the job activity at position i, shifting later
// activities forward. Removing the start/end brackets is a programmer error.
func (t *Tour) RemoveAt(i int) {
	last := len(t.activities) - 1
	if i <= 0 || i >= last {
		panic(fmt.Sprintf("model: tour removal index %d out of bounds [1,%d)", i, last))
	}
	t.activities = append(t.activities[:i], t.activities[i+1:]...)
}

// Clone returns a tour with an independent activity slice; the Activity
// values themselves are immutable and shared with the original.
func (t *Tour) Clone() *Tour {
	activities := make([]*Activity, len(t.activities))
	copy(activities, t.activities)
	return &Tour{activities: activities}
}

// Route is a single vehicle's ordered tour.
type Route struct {
	Vehicle *Vehicle
	Tour    *Tour
}

// NewRoute builds an empty route for the given vehicle, bracketed by
// start/end activities at the same place.
func NewRoute(vehicle *Vehicle, depot Place) *Route {
	return &Route{
		Vehicle: vehicle,
		Tour:    NewTour(NewStartActivity(depot), NewEndActivity(depot)),
	}
}

// Clone returns a route with an independently mutable tour, sharing the
// same vehicle (vehicles are immutable once created).
func (r *Route) Clone() *Route {
	return &Route{Vehicle: r.Vehicle, Tour: r.Tour.Clone()}
}
