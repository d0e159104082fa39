package evolution

import (
	"context"
	"slices"

	"github.com/PeakBI/vrp/pkg/constraint"
	"github.com/PeakBI/vrp/pkg/insertion"
	"github.com/PeakBI/vrp/pkg/model"
	"github.com/PeakBI/vrp/pkg/refinement"
	"github.com/PeakBI/vrp/pkg/rng"
	"github.com/PeakBI/vrp/pkg/solution"
)

// ReasonRuined marks a job unassigned because a mutation pulled it out of
// its route for reinsertion elsewhere, not because no feasible position exists.
const ReasonRuined = -1

// Operator turns one parent solution into one child solution. The driver
// treats it as a pure function: parent is never mutated, only read.
type Operator interface {
	Mutate(ctx context.Context, rc *refinement.Context, parent *solution.InsertionContext) (*solution.InsertionContext, error)
}

// RuinAndRecreate removes a random subset of assigned jobs from a cloned
// solution and reinserts each through the insertion evaluator, in the
// order they were ruined, then tries every job that was already
// unassigned, in problem order. A job the evaluator cannot place anywhere
// stays unassigned rather than aborting the mutation.
type RuinAndRecreate struct {
	Pipeline  *constraint.Pipeline
	Evaluator *insertion.Evaluator
	RuinCount int
}

// NewRuinAndRecreate builds a ruin-and-recreate operator that disturbs up
// to ruinCount jobs per mutation.
func NewRuinAndRecreate(pipeline *constraint.Pipeline, evaluator *insertion.Evaluator, ruinCount int) *RuinAndRecreate {
	if ruinCount < 1 {
		ruinCount = 1
	}
	return &RuinAndRecreate{Pipeline: pipeline, Evaluator: evaluator, RuinCount: ruinCount}
}

func (m *RuinAndRecreate) Mutate(ctx context.Context, rc *refinement.Context, parent *solution.InsertionContext) (*solution.InsertionContext, error) {
	child := parent.Clone()
	for _, route := range child.Routes {
		m.Pipeline.AcceptRouteState(route)
	}

	jobsByID := make(map[string]*model.Job, len(rc.Problem.Jobs))
	for _, j := range rc.Problem.Jobs {
		jobsByID[j.ID] = j
	}

	targets := m.ruinTargets(child, rc.Environment.Random)
	for _, jobID := range targets {
		routeIndex, ok := removeJobByID(child, jobID)
		if !ok {
			continue
		}
		child.MarkUnassigned(jobID, ReasonRuined)
		m.Pipeline.AcceptRouteState(child.Routes[routeIndex])
	}

	pending := append([]string(nil), targets...)
	for _, j := range rc.Problem.Jobs {
		if _, unassigned := child.Unassigned[j.ID]; unassigned && !slices.Contains(targets, j.ID) {
			pending = append(pending, j.ID)
		}
	}

	for _, jobID := range pending {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		job, ok := jobsByID[jobID]
		if !ok {
			continue
		}
		eval, err := m.Evaluator.Evaluate(ctx, child, job)
		if err != nil {
			continue // stays unassigned with its existing reason code
		}
		child.Routes[eval.RouteIndex].Route.Tour.InsertAt(eval.Position, model.NewJobActivity(job))
		child.MarkAssigned(jobID)
		m.Pipeline.AcceptRouteState(child.Routes[eval.RouteIndex])
	}

	m.Pipeline.AcceptSolutionState(child)
	return child, nil
}

// ruinTargets samples up to RuinCount distinct job IDs currently assigned
// somewhere in child, in a deterministic-given-seed random order. Locked
// jobs are never candidates: the evaluator must honor their pinned
// position, so ruining one would only force an identical reinsertion.
func (m *RuinAndRecreate) ruinTargets(child *solution.InsertionContext, random *rng.RNG) []string {
	var assigned []string
	for _, rc := range child.Routes {
		for _, act := range rc.Route.Tour.Activities() {
			if _, locked := child.IsLocked(act.Job.ID); locked {
				continue
			}
			assigned = append(assigned, act.Job.ID)
		}
	}
	if len(assigned) == 0 {
		return nil
	}
	random.Shuffle(len(assigned), func(i, j int) { assigned[i], assigned[j] = assigned[j], assigned[i] })

	n := m.RuinCount
	if n > len(assigned) {
		n = len(assigned)
	}
	return assigned[:n]
}

// removeJobByID finds and removes the activity backing jobID from
// whichever route carries it, reporting that route's index. A locked job
// is left in place: the evaluator must honor its pinned position, so ruin
// is never allowed to touch it even if a caller bypasses ruinTargets'
// own filtering.
func removeJobByID(ic *solution.InsertionContext, jobID string) (routeIndex int, found bool) {
	if _, locked := ic.IsLocked(jobID); locked {
		return 0, false
	}
	for i, rc := range ic.Routes {
		for idx, act := range rc.Route.Tour.All() {
			if act.Job != nil && act.Job.ID == jobID {
				rc.Route.Tour.RemoveAt(idx)
				return i, true
			}
		}
	}
	return 0, false
}
