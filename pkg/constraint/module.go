package constraint

import (
	"github.com/PeakBI/vrp/pkg/model"
	"github.com/PeakBI/vrp/pkg/routestate"
	"github.com/PeakBI/vrp/pkg/solution"
)

// RouteViolation signals that a job cannot enter a route at all,
// regardless of position.
type RouteViolation struct {
	Code int
}

// ActivityViolation signals that a job cannot enter at one candidate
// insertion position. Stopped, when true, tells the insertion evaluator
// that the infeasibility can only worsen at later positions in this
// route's scan, so it should stop scanning rather than try the rest.
type ActivityViolation struct {
	Code    int
	Stopped bool
}

// Module is the capability set every constraint implementation exposes.
// The pipeline never downcasts to a concrete type: all dispatch goes
// through this interface (per the "trait-object polymorphism" design
// note — keep as an interface with a fixed capability set).
type Module interface {
	// AcceptRouteState recomputes every state key this module owns, in
	// place, over the route. Idempotent given the same route contents.
	AcceptRouteState(rc *routestate.RouteContext)

	// EvaluateHardRoute is a cheap, constant-per-route admissibility check.
	EvaluateHardRoute(rc *routestate.RouteContext, job *model.Job) *RouteViolation

	// EvaluateHardActivity checks local feasibility at one candidate
	// insertion point.
	EvaluateHardActivity(rc *routestate.RouteContext, ac *routestate.ActivityContext) *ActivityViolation

	// EvaluateSoftRoute returns an additive route-level cost penalty.
	EvaluateSoftRoute(rc *routestate.RouteContext, job *model.Job) float64

	// EvaluateSoftActivity returns an additive activity-level cost penalty.
	EvaluateSoftActivity(rc *routestate.RouteContext, ac *routestate.ActivityContext) float64

	// AcceptSolutionState enforces cross-route invariants (locking, fleet
	// usage, ...) after a committed mutation.
	AcceptSolutionState(ic *solution.InsertionContext)
}
