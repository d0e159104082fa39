package evolution

import (
	"context"
	"time"

	"github.com/PeakBI/vrp/pkg/gsom"
	"github.com/PeakBI/vrp/pkg/model"
	"github.com/PeakBI/vrp/pkg/refinement"
	"github.com/PeakBI/vrp/pkg/solution"
)

// DefaultMaxPopulationSize caps how many individuals the GSOM population
// is allowed to grow to before the driver starts periodically compacting
// nodes that have gone cold (no recent hits).
const DefaultMaxPopulationSize = 10

// DefaultRebalanceEvery is how many generations pass between calls to
// the population's Retrain, the periodic rebalance spec.md's C5
// describes ("New solutions return to C5, ... and periodically
// rebalances").
const DefaultRebalanceEvery = 25

// DefaultRebalanceCount is how many shuffle-and-replay passes each
// Retrain call performs.
const DefaultRebalanceCount = 1

// Driver runs the select -> mutate -> insert loop: repeatedly draws a
// parent from the GSOM-backed population, mutates it, and routes the
// child back into the network, until Terminate reports the run is done.
type Driver struct {
	Objective         model.Objective
	Select            Selector
	Mutate            Operator
	Terminate         Termination
	Metrics           *Metrics
	MaxPopulationSize int
	RebalanceEvery    int
	RebalanceCount    int
}

// NewDriver builds a driver with the given collaborators. metrics may be
// nil, in which case metric recording is skipped entirely.
func NewDriver(objective model.Objective, selector Selector, mutator Operator, terminate Termination, metrics *Metrics) *Driver {
	return &Driver{
		Objective:         objective,
		Select:            selector,
		Mutate:            mutator,
		Terminate:         terminate,
		Metrics:           metrics,
		MaxPopulationSize: DefaultMaxPopulationSize,
		RebalanceEvery:    DefaultRebalanceEvery,
		RebalanceCount:    DefaultRebalanceCount,
	}
}

// Run drives rc's population forward until termination, returning the
// best individual found. ctx cancellation is honored between generations
// and passed through to the mutation operator for mid-generation aborts.
func (d *Driver) Run(ctx context.Context, rc *refinement.Context) (*solution.InsertionContext, error) {
	for !d.Terminate(rc) {
		if err := ctx.Err(); err != nil {
			return d.best(rc), err
		}

		start := time.Now()

		parent := d.Select(rc, d.Objective)
		if parent == nil {
			break
		}

		child, err := d.Mutate.Mutate(ctx, rc, parent)
		if err != nil {
			if d.Metrics != nil {
				d.Metrics.IncrementMutations("rejected")
			}
			if ctx.Err() != nil {
				return d.best(rc), err
			}
			continue
		}

		d.accept(rc, child)
		if d.Metrics != nil {
			d.Metrics.IncrementMutations("accepted")
		}

		best := d.best(rc)
		bestCost := Cost(best, d.Objective)
		rc.Statistics.RecordGeneration(bestCost, bestCost, bestCost, time.Since(start).Nanoseconds())

		if d.Metrics != nil {
			d.Metrics.RecordGeneration(
				rc.Statistics.Snapshot().Generation,
				rc.Population.Len(),
				bestCost,
				rc.Statistics.GenerationsSinceImprovement(),
				time.Since(start),
			)
		}
	}

	return d.best(rc), nil
}

// accept routes child into the GSOM population (C5's "New solutions
// return to C5, which routes them to BMU nodes, may grow its topology,
// and periodically rebalances"). Every RebalanceEvery generations, the
// network compacts cold nodes -- ones with no recorded hits -- once the
// population has grown past MaxPopulationSize, then rebalances by
// replaying every stored individual through the lattice again.
func (d *Driver) accept(rc *refinement.Context, child *solution.InsertionContext) {
	rc.Population.Add(child)

	every := d.RebalanceEvery
	if every <= 0 {
		every = DefaultRebalanceEvery
	}
	if generation := rc.Statistics.Snapshot().Generation; generation > 0 && generation%every == 0 {
		rc.Population.Retrain(d.rebalanceCount(), d.keepNode(rc))
	}
}

func (d *Driver) rebalanceCount() int {
	if d.RebalanceCount <= 0 {
		return DefaultRebalanceCount
	}
	return d.RebalanceCount
}

// keepNode builds a compaction predicate for Population.Retrain: nodes
// are left alone while the population (measured before Retrain starts) is
// within its cap, and only a node that has never recorded a hit (HitCount
// zero) is dropped once the cap is exceeded.
func (d *Driver) keepNode(rc *refinement.Context) func(*gsom.Node[refinement.Individual, *gsom.SliceStorage[refinement.Individual]]) bool {
	limit := d.MaxPopulationSize
	if limit <= 0 {
		limit = DefaultMaxPopulationSize
	}
	size := rc.Population.Len()
	return func(n *gsom.Node[refinement.Individual, *gsom.SliceStorage[refinement.Individual]]) bool {
		if size <= limit {
			return true
		}
		return n.HitCount() > 0
	}
}

func (d *Driver) best(rc *refinement.Context) *solution.InsertionContext {
	return rc.Best()
}
