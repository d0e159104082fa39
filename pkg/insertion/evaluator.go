package insertion

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/PeakBI/vrp/pkg/constraint"
	"github.com/PeakBI/vrp/pkg/model"
	"github.com/PeakBI/vrp/pkg/routestate"
	"github.com/PeakBI/vrp/pkg/solution"
)

// ErrNoFeasiblePosition is returned when no route admits the job at any position.
var ErrNoFeasiblePosition = errors.New("insertion: no feasible position found")

// Evaluation names the cheapest feasible place found for a job: which
// route (by its position in the InsertionContext's route list at
// evaluation time) and which tour index.
type Evaluation struct {
	RouteIndex int
	Position   int
	Cost       float64
}

// Evaluator scans every route in an InsertionContext for the cheapest
// feasible insertion point for a job, consulting a constraint pipeline at
// both the route and activity level and pricing detour against transport.
type Evaluator struct {
	pipeline  *constraint.Pipeline
	transport model.TransportCost
}

// NewEvaluator builds an evaluator backed by the given constraint pipeline
// and cost matrix.
func NewEvaluator(pipeline *constraint.Pipeline, transport model.TransportCost) *Evaluator {
	return &Evaluator{pipeline: pipeline, transport: transport}
}

type routeCandidate struct {
	routeIndex int
	vehicleID  string
	position   int
	cost       float64
	found      bool
}

// Evaluate finds the cheapest feasible position for job across every
// route currently in ic. Candidate routes are scanned concurrently; a
// worker pool bounded by GOMAXPROCS keeps CPU-bound constraint evaluation
// from oversubscribing the machine. Ties are broken by the lowest tour
// index, then by the lowest vehicle ID.
// A locked job (solution.LockedPosition) skips the scan entirely: its
// pinned (route, index) is returned as-is, subject only to a feasibility
// check, since a lock overrides cost-optimal placement by definition.
func (e *Evaluator) Evaluate(ctx context.Context, ic *solution.InsertionContext, job *model.Job) (*Evaluation, error) {
	if pos, locked := ic.IsLocked(job.ID); locked {
		return e.evaluateLocked(ic, job, pos)
	}

	routes := ic.Snapshot()
	results := make([]routeCandidate, len(routes))

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, rc := range routes {
		i, rc := i, rc
		g.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			cand, ok := e.evaluateRoute(ic, rc, job)
			if ok {
				cand.routeIndex = i
				cand.vehicleID = rc.Route.Vehicle.ID
				results[i] = cand
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var best *routeCandidate
	for i := range results {
		c := results[i]
		if !c.found {
			continue
		}
		if best == nil || betterCandidate(c, *best) {
			cCopy := c
			best = &cCopy
		}
	}

	if best == nil {
		return nil, ErrNoFeasiblePosition
	}
	return &Evaluation{RouteIndex: best.routeIndex, Position: best.position, Cost: best.cost}, nil
}

// evaluateLocked looks up the route pos.RouteID names, confirms job still
// fits there, and prices its fixed position without considering any other
// candidate.
func (e *Evaluator) evaluateLocked(ic *solution.InsertionContext, job *model.Job, pos solution.LockedPosition) (*Evaluation, error) {
	for i, rc := range ic.Snapshot() {
		if rc.Route.Vehicle.ID != pos.RouteID {
			continue
		}
		if v := e.pipeline.EvaluateHardRoute(rc, job); v != nil {
			return nil, ErrNoFeasiblePosition
		}

		tour := rc.Route.Tour
		last := tour.Count() - 1
		if pos.Index < 1 || pos.Index > last {
			return nil, ErrNoFeasiblePosition
		}

		target := model.NewJobActivity(job)
		prev := tour.Get(pos.Index - 1)
		next := tour.Get(pos.Index)
		ac := &routestate.ActivityContext{Index: pos.Index, Prev: prev, Target: target, Next: next}

		if v := e.pipeline.EvaluateHardActivity(rc, ac); v != nil {
			return nil, ErrNoFeasiblePosition
		}

		cost := e.pipeline.EvaluateSoftRoute(rc, job) + e.detour(prev, target, next) + e.pipeline.EvaluateSoftActivity(rc, ac)
		return &Evaluation{RouteIndex: i, Position: pos.Index, Cost: cost}, nil
	}
	return nil, ErrNoFeasiblePosition
}

// detour is the added travel cost of visiting target between prev and
// next: Distance(prev,target) + Distance(target,next) - Distance(prev,next).
func (e *Evaluator) detour(prev, target, next *model.Activity) float64 {
	return e.transport.Distance(prev.Place, target.Place) +
		e.transport.Distance(target.Place, next.Place) -
		e.transport.Distance(prev.Place, next.Place)
}

// betterCandidate reports whether a should replace b as the current best:
// strictly lower cost wins outright; a cost tie is broken by the lower
// tour index, then by the lower vehicle ID.
func betterCandidate(a, b routeCandidate) bool {
	if a.cost != b.cost {
		return a.cost < b.cost
	}
	if a.position != b.position {
		return a.position < b.position
	}
	return a.vehicleID < b.vehicleID
}

// evaluateRoute scans every insertion position in rc's tour, returning
// the cheapest feasible one found, if any. Positions at or before an
// activity locked to this route are skipped, since inserting there would
// shift the locked activity off its pinned index.
func (e *Evaluator) evaluateRoute(ic *solution.InsertionContext, rc *routestate.RouteContext, job *model.Job) (routeCandidate, bool) {
	if v := e.pipeline.EvaluateHardRoute(rc, job); v != nil {
		return routeCandidate{}, false
	}

	routeSoft := e.pipeline.EvaluateSoftRoute(rc, job)

	target := model.NewJobActivity(job)
	tour := rc.Route.Tour
	last := tour.Count() - 1

	var best routeCandidate
	found := false

	first := 1
	for idx, act := range tour.All() {
		if act.Job == nil {
			continue
		}
		if pos, locked := ic.IsLocked(act.Job.ID); locked && pos.RouteID == rc.Route.Vehicle.ID {
			first = idx + 1
		}
	}

	for idx := first; idx <= last; idx++ {
		prev := tour.Get(idx - 1)
		next := tour.Get(idx)

		ac := &routestate.ActivityContext{Index: idx, Prev: prev, Target: target, Next: next}

		if v := e.pipeline.EvaluateHardActivity(rc, ac); v != nil {
			if v.Stopped {
				break
			}
			continue
		}

		cost := routeSoft + e.detour(prev, target, next) + e.pipeline.EvaluateSoftActivity(rc, ac)
		if !found || cost < best.cost {
			best = routeCandidate{position: idx, cost: cost, found: true}
			found = true
		}
	}

	return best, found
}
