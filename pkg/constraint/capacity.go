package constraint

import (
	"github.com/PeakBI/vrp/pkg/model"
	"github.com/PeakBI/vrp/pkg/routestate"
	"github.com/PeakBI/vrp/pkg/solution"
)

// ViolationCapacity is the stable violation code for capacity breaches
// (§6: "code 2 = capacity").
const ViolationCapacity = 2

// Capacity is the illustrative hard constraint module from spec.md
// §4.2.1. It owns CurrentCapacityKey, MaxFutureCapacityKey, and
// MaxPastCapacityKey, and treats job demand as a signed scalar: positive
// is a pick-up, negative is a delivery that must already be on board
// when the route starts.
type Capacity struct{}

// NewCapacity constructs the capacity constraint module.
func NewCapacity() *Capacity {
	return &Capacity{}
}

// capacityArrays computes current/max-future/max-past over a tour's full
// activity sequence (including the synthetic start/end brackets), without
// touching RouteState. Used both to populate the cache (AcceptRouteState)
// and, for EvaluateHardRoute, without requiring the cache to be warm
// first — callers may ask whether a job fits an as-yet-unaccepted route.
func capacityArrays(tour *model.Tour) (current, maxFuture, maxPast []int) {
	acts := tour.All()
	n := len(acts)

	negSum := 0
	for _, a := range tour.Activities() {
		if a.Demand < 0 {
			negSum += int(a.Demand)
		}
	}

	current = make([]int, n)
	current[0] = -negSum
	for i := 1; i < n; i++ {
		current[i] = current[i-1] + int(acts[i].Demand)
	}

	maxFuture = make([]int, n)
	maxFuture[n-1] = current[n-1]
	for i := n - 2; i >= 0; i-- {
		maxFuture[i] = max(current[i], maxFuture[i+1])
	}

	maxPast = make([]int, n)
	maxPast[0] = current[0]
	for i := 1; i < n; i++ {
		maxPast[i] = max(current[i], maxPast[i-1])
	}

	return current, maxFuture, maxPast
}

// AcceptRouteState recomputes the prefix-sum capacity state for every
// activity in the route, matching the worked cases in spec.md §4.2.1.
func (c *Capacity) AcceptRouteState(rc *routestate.RouteContext) {
	tour := rc.Route.Tour
	acts := tour.All()
	current, maxFuture, maxPast := capacityArrays(tour)

	for i, a := range acts {
		rc.State.PutActivityState(routestate.CurrentCapacityKey, a, current[i])
		rc.State.PutActivityState(routestate.MaxFutureCapacityKey, a, maxFuture[i])
		rc.State.PutActivityState(routestate.MaxPastCapacityKey, a, maxPast[i])
	}
	rc.State.PutRouteState(routestate.CurrentCapacityKey, current[0])
	rc.State.PutRouteState(routestate.MaxFutureCapacityKey, maxFuture[0])
}

// EvaluateHardRoute rejects a job outright if its demand alone, added at
// the route's worst-case peak load, would exceed vehicle capacity. This
// does not require accept_route_state to have run first: it recomputes
// the peak directly from the tour.
func (c *Capacity) EvaluateHardRoute(rc *routestate.RouteContext, job *model.Job) *RouteViolation {
	_, maxFuture, _ := capacityArrays(rc.Route.Tour)
	peak := maxFuture[0]

	d := int(job.Demand)
	if d < 0 {
		d = -d
	}

	if peak+d > rc.Route.Vehicle.Capacity {
		return &RouteViolation{Code: ViolationCapacity}
	}
	return nil
}

// EvaluateHardActivity checks feasibility of inserting the target activity
// right after ac.Prev. A pick-up (positive demand) is checked against the
// max future load anchored at Prev; a delivery (negative demand) is
// checked against the max past load anchored at Prev, since the delivered
// quantity must already be loaded at the route's start.
//
// Stopped is always false here: the Prev-anchored bound used by this
// module is not a global, position-independent bound (a later position
// can still be feasible after an earlier one fails), so this module never
// asserts route-wide hopelessness on its own.
func (c *Capacity) EvaluateHardActivity(rc *routestate.RouteContext, ac *routestate.ActivityContext) *ActivityViolation {
	d := int(ac.Target.Demand)
	if d == 0 {
		return nil
	}

	capacity := rc.Route.Vehicle.Capacity

	if d > 0 {
		maxFuturePrev := routestate.MustGetActivityState[int](rc.State, routestate.MaxFutureCapacityKey, ac.Prev)
		if maxFuturePrev+d > capacity {
			return &ActivityViolation{Code: ViolationCapacity, Stopped: false}
		}
		return nil
	}

	maxPastPrev := routestate.MustGetActivityState[int](rc.State, routestate.MaxPastCapacityKey, ac.Prev)
	if maxPastPrev+(-d) > capacity {
		return &ActivityViolation{Code: ViolationCapacity, Stopped: false}
	}
	return nil
}

// EvaluateSoftRoute contributes no cost penalty: capacity is a hard
// constraint only.
func (c *Capacity) EvaluateSoftRoute(rc *routestate.RouteContext, job *model.Job) float64 {
	return 0
}

// EvaluateSoftActivity contributes no cost penalty.
func (c *Capacity) EvaluateSoftActivity(rc *routestate.RouteContext, ac *routestate.ActivityContext) float64 {
	return 0
}

// AcceptSolutionState has no cross-route invariant to enforce.
func (c *Capacity) AcceptSolutionState(ic *solution.InsertionContext) {}
