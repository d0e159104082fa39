package solution

import (
	"fmt"
	"sync"

	"github.com/PeakBI/vrp/pkg/model"
	"github.com/PeakBI/vrp/pkg/routestate"
)

// LockedPosition pins a job to a fixed (route, tour index) that the
// insertion evaluator must never move it away from.
type LockedPosition struct {
	RouteID string
	Index   int
}

// InsertionContext (C4) bundles everything one evolving candidate solution
// needs: its routes, which jobs remain unassigned (and why), the fleet
// registry, and any locked activity positions. Per the concurrency model,
// it is mutated only by the driver thread that committed an insertion;
// concurrent insertion evaluation only reads it, guarded by mu.
type InsertionContext struct {
	mu sync.RWMutex

	Routes     []*routestate.RouteContext
	Unassigned map[string]int // job id -> last dominating reason code
	Fleet      *model.Fleet
	Locked     map[string]LockedPosition // job id -> locked position
	Extras     map[string]any
}

// New creates an InsertionContext with every job in problem unassigned
// and no routes yet constructed. Its fleet registry is a fork of
// problem.Fleet, so using vehicles never changes the problem's own fleet.
func New(problem *model.Problem) *InsertionContext {
	unassigned := make(map[string]int, len(problem.Jobs))
	for _, j := range problem.Jobs {
		unassigned[j.ID] = 0
	}
	fleet := problem.Fleet
	if fleet != nil {
		fleet = fleet.Clone()
	}
	return &InsertionContext{
		Routes:     nil,
		Unassigned: unassigned,
		Fleet:      fleet,
		Locked:     make(map[string]LockedPosition),
		Extras:     make(map[string]any),
	}
}

// Snapshot returns a read-only copy of the route list for concurrent
// evaluation (C3 scans it without holding InsertionContext's lock across
// the whole scan).
func (ic *InsertionContext) Snapshot() []*routestate.RouteContext {
	ic.mu.RLock()
	defer ic.mu.RUnlock()
	out := make([]*routestate.RouteContext, len(ic.Routes))
	copy(out, ic.Routes)
	return out
}

// AddRoute commits a new route backed by a freshly-used vehicle.
func (ic *InsertionContext) AddRoute(rc *routestate.RouteContext) error {
	ic.mu.Lock()
	defer ic.mu.Unlock()

	if err := ic.Fleet.Use(rc.Route.Vehicle.ID); err != nil {
		return fmt.Errorf("solution: cannot add route: %w", err)
	}
	ic.Routes = append(ic.Routes, rc)
	return nil
}

// MarkAssigned removes a job from the unassigned set once it has been
// committed into a route's tour.
func (ic *InsertionContext) MarkAssigned(jobID string) {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	delete(ic.Unassigned, jobID)
}

// MarkUnassigned records the last dominating reason a job could not be
// inserted anywhere. Overwrites any prior reason for the same job.
func (ic *InsertionContext) MarkUnassigned(jobID string, reason int) {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	ic.Unassigned[jobID] = reason
}

// UnassignedHistogram aggregates unassigned jobs by reason code, useful
// for reporting which constraint is most often blocking assignment.
func (ic *InsertionContext) UnassignedHistogram() map[int]int {
	ic.mu.RLock()
	defer ic.mu.RUnlock()

	hist := make(map[int]int)
	for _, reason := range ic.Unassigned {
		hist[reason]++
	}
	return hist
}

// Lock pins a job to a fixed position so the evaluator must not relocate it.
func (ic *InsertionContext) Lock(jobID string, pos LockedPosition) {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	ic.Locked[jobID] = pos
}

// Unlock releases a previously locked job.
func (ic *InsertionContext) Unlock(jobID string) {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	delete(ic.Locked, jobID)
}

// IsLocked reports whether a job is pinned, and to where.
func (ic *InsertionContext) IsLocked(jobID string) (LockedPosition, bool) {
	ic.mu.RLock()
	defer ic.mu.RUnlock()
	pos, ok := ic.Locked[jobID]
	return pos, ok
}

// CheckInvariants verifies the C4 invariants: every activity appears in
// exactly one route, and assigned ∪ unassigned equals the job set. It is
// intended for tests and debug builds, not the hot path.
func (ic *InsertionContext) CheckInvariants(problem *model.Problem) error {
	ic.mu.RLock()
	defer ic.mu.RUnlock()

	seen := make(map[string]string) // job id -> route vehicle id, to catch duplicates
	for _, rc := range ic.Routes {
		for _, act := range rc.Route.Tour.Activities() {
			if act.Job == nil {
				continue
			}
			if other, dup := seen[act.Job.ID]; dup {
				return fmt.Errorf("solution: job %q appears in both route %q and %q", act.Job.ID, other, rc.Route.Vehicle.ID)
			}
			seen[act.Job.ID] = rc.Route.Vehicle.ID
		}
	}

	for _, j := range problem.Jobs {
		_, assigned := seen[j.ID]
		_, unassigned := ic.Unassigned[j.ID]
		if assigned == unassigned {
			return fmt.Errorf("solution: job %q assignment state inconsistent (assigned=%v, unassigned=%v)", j.ID, assigned, unassigned)
		}
	}

	return nil
}

// Clone returns an independent copy: routes are deep-copied (fresh
// per-route state caches, repopulated by the caller via the constraint
// pipeline's AcceptRouteState), the fleet registry is forked, and the
// unassigned/locked sets are copied. Used by the evolution driver to
// produce a mutable child from a population member without disturbing it.
func (ic *InsertionContext) Clone() *InsertionContext {
	ic.mu.RLock()
	defer ic.mu.RUnlock()

	routes := make([]*routestate.RouteContext, len(ic.Routes))
	for i, rc := range ic.Routes {
		routes[i] = routestate.NewRouteContext(rc.Route.Clone())
	}

	unassigned := make(map[string]int, len(ic.Unassigned))
	for k, v := range ic.Unassigned {
		unassigned[k] = v
	}
	locked := make(map[string]LockedPosition, len(ic.Locked))
	for k, v := range ic.Locked {
		locked[k] = v
	}
	extras := make(map[string]any, len(ic.Extras))
	for k, v := range ic.Extras {
		extras[k] = v
	}

	return &InsertionContext{
		Routes:     routes,
		Unassigned: unassigned,
		Fleet:      ic.Fleet.Clone(),
		Locked:     locked,
		Extras:     extras,
	}
}

// Solution is the read-only, caller-facing view of a finished InsertionContext.
type Solution struct {
	Routes     []*model.Route
	Unassigned map[string]int
}

// ToSolution extracts the caller-facing view.
func (ic *InsertionContext) ToSolution() *Solution {
	ic.mu.RLock()
	defer ic.mu.RUnlock()

	routes := make([]*model.Route, 0, len(ic.Routes))
	for _, rc := range ic.Routes {
		routes = append(routes, rc.Route)
	}
	unassigned := make(map[string]int, len(ic.Unassigned))
	for k, v := range ic.Unassigned {
		unassigned[k] = v
	}
	return &Solution{Routes: routes, Unassigned: unassigned}
}
