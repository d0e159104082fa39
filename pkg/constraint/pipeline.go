package constraint

import (
	"github.com/PeakBI/vrp/pkg/model"
	"github.com/PeakBI/vrp/pkg/routestate"
	"github.com/PeakBI/vrp/pkg/solution"
)

// Pipeline composes an ordered list of constraint modules. Execution
// order is registration order: route-level hard checks first (cheap
// reject), then per-activity hard checks (short-circuit on the first
// violation), then the sum of soft penalties. Violations from earlier
// modules preempt later ones.
type Pipeline struct {
	modules []Module
}

// NewPipeline builds a pipeline from modules in the order they must run.
func NewPipeline(modules ...Module) *Pipeline {
	return &Pipeline{modules: modules}
}

// AcceptRouteState asks every module to recompute the state keys it owns.
func (p *Pipeline) AcceptRouteState(rc *routestate.RouteContext) {
	for _, m := range p.modules {
		m.AcceptRouteState(rc)
	}
}

// AcceptSolutionState asks every module to enforce its cross-route invariants.
func (p *Pipeline) AcceptSolutionState(ic *solution.InsertionContext) {
	for _, m := range p.modules {
		m.AcceptSolutionState(ic)
	}
}

// EvaluateHardRoute returns the first route-level violation found, in
// registration order, or nil if every module admits the route.
func (p *Pipeline) EvaluateHardRoute(rc *routestate.RouteContext, job *model.Job) *RouteViolation {
	for _, m := range p.modules {
		if v := m.EvaluateHardRoute(rc, job); v != nil {
			return v
		}
	}
	return nil
}

// EvaluateHardActivity returns the first activity-level violation found,
// in registration order, or nil if every module admits the position.
func (p *Pipeline) EvaluateHardActivity(rc *routestate.RouteContext, ac *routestate.ActivityContext) *ActivityViolation {
	for _, m := range p.modules {
		if v := m.EvaluateHardActivity(rc, ac); v != nil {
			return v
		}
	}
	return nil
}

// EvaluateSoftRoute sums every module's route-level cost penalty.
func (p *Pipeline) EvaluateSoftRoute(rc *routestate.RouteContext, job *model.Job) float64 {
	total := 0.0
	for _, m := range p.modules {
		total += m.EvaluateSoftRoute(rc, job)
	}
	return total
}

// EvaluateSoftActivity sums every module's activity-level cost penalty.
func (p *Pipeline) EvaluateSoftActivity(rc *routestate.RouteContext, ac *routestate.ActivityContext) float64 {
	total := 0.0
	for _, m := range p.modules {
		total += m.EvaluateSoftActivity(rc, ac)
	}
	return total
}
