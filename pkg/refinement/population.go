package refinement

import (
	"github.com/PeakBI/vrp/pkg/gsom"
	"github.com/PeakBI/vrp/pkg/model"
	"github.com/PeakBI/vrp/pkg/rng"
	"github.com/PeakBI/vrp/pkg/solution"
)

// Individual is how the GSOM population (C5) sees one candidate
// solution: a point in objective space -- [fitness, unassigned-job
// count] -- plus the solution that produced it. The network routes an
// Individual to a node by this vector, not by route structure, so
// solutions with similar fitness profiles cluster at the same or
// neighbouring nodes and compete locally instead of globally, which is
// what keeps the population topologically diverse instead of collapsing
// onto one winner.
type Individual struct {
	Solution *solution.InsertionContext
	Fitness  float64

	weights []float64
}

// Weights implements gsom.Input.
func (ind Individual) Weights() []float64 { return ind.weights }

func newIndividual(sol *solution.InsertionContext, objective model.Objective) Individual {
	view := sol.ToSolution()
	fitness := objective.Fitness(view.Routes, len(view.Unassigned))
	return Individual{
		Solution: sol,
		Fitness:  fitness,
		weights:  []float64{fitness, float64(len(view.Unassigned))},
	}
}

type individualStorage = gsom.SliceStorage[Individual]
type individualFactory = gsom.SliceStorageFactory[Individual]

// Population is the evolution driver's pool of candidate solutions,
// backed directly by a GSOM network (C5) instead of a flat list: every
// accepted child is scored under objective and routed to a
// best-matching node, which may grow its neighbourhood or absorb error
// exactly as spec.md's C5 describes ("New solutions return to C5, which
// routes them to BMU nodes, may grow its topology, and periodically
// rebalances"). Parents are drawn from one node's local neighbourhood
// (SelectNear), not the whole population, so selection pressure and
// diversity preservation both come from the lattice topology itself.
type Population struct {
	net       *gsom.Network[Individual, *individualStorage, individualFactory]
	objective model.Objective
	time      int
}

// NewPopulation seeds a GSOM-backed population from an initial set of
// solutions -- typically one, fresh out of a construction heuristic.
// gsom.New always seeds four root nodes; fewer than four initial
// solutions are padded by cycling back through the ones given, and
// New's own multiplicative jitter keeps repeated roots from landing on
// literally identical weights.
func NewPopulation(initial []*solution.InsertionContext, objective model.Objective, cfg gsom.NetworkConfig) *Population {
	if len(initial) == 0 {
		panic("refinement: population requires at least one initial solution")
	}

	var roots [4]Individual
	for i := range roots {
		roots[i] = newIndividual(initial[i%len(initial)], objective)
	}

	p := &Population{
		net:       gsom.New[Individual, *individualStorage, individualFactory](roots, cfg, individualFactory{}),
		objective: objective,
	}
	for i := 4; i < len(initial); i++ {
		p.Add(initial[i])
	}
	return p
}

// Add scores sol under the population's objective and stores it into the
// network, advancing the population's logical clock by one.
func (p *Population) Add(sol *solution.InsertionContext) {
	p.time++
	p.net.Store(newIndividual(sol, p.objective), p.time)
}

// Retrain compacts away nodes that fail keep (never below four), replays
// every stored individual rebalanceCount times, and compacts again --
// C5's periodic rebalance, exposed so the evolution driver can call it
// every few generations instead of relying on a flat worst-cost eviction.
func (p *Population) Retrain(rebalanceCount int, keep func(*gsom.Node[Individual, *individualStorage]) bool) {
	p.net.Retrain(rebalanceCount, keep)
}

// Individuals flattens every node's storage into one slice without
// draining it. Used by whole-population operations (Best, Len, and
// SelectNear's fallback) that must see every candidate
// rather than one neighbourhood.
func (p *Population) Individuals() []Individual {
	var out []Individual
	for _, n := range p.net.Nodes() {
		out = append(out, n.Items()...)
	}
	return out
}

// Len reports how many individuals the population currently holds.
func (p *Population) Len() int {
	return len(p.Individuals())
}

// Best returns the lowest-fitness individual's solution across the whole
// population, or nil if the population is empty.
func (p *Population) Best() *solution.InsertionContext {
	individuals := p.Individuals()
	if len(individuals) == 0 {
		return nil
	}
	best := individuals[0]
	for _, ind := range individuals[1:] {
		if ind.Fitness < best.Fitness {
			best = ind
		}
	}
	return best.Solution
}

// SelectNear draws a lattice coordinate at random, then tournament-
// selects among the individuals stored at that node and its immediate
// cardinal neighbours -- the BMU neighbourhood spec.md describes C5
// routing solutions into, rather than sampling the whole archive. Falls
// back to the whole population if the sampled neighbourhood happens to
// be empty (e.g. right after a node was grown, before anything has
// settled there). Reports false only if the population holds nothing at all.
func (p *Population) SelectNear(random *rng.RNG, tournamentSize int) (Individual, bool) {
	coords := p.net.Coordinates()
	if len(coords) == 0 {
		return Individual{}, false
	}
	coord := coords[random.Intn(len(coords))]

	var candidates []Individual
	if node, ok := p.net.Find(coord); ok {
		candidates = append(candidates, node.Items()...)
	}
	for _, neighbour := range p.net.CardinalNeighbours(coord) {
		candidates = append(candidates, neighbour.Items()...)
	}
	if len(candidates) == 0 {
		candidates = p.Individuals()
	}
	if len(candidates) == 0 {
		return Individual{}, false
	}

	if tournamentSize < 1 {
		tournamentSize = 1
	}
	best := candidates[random.Intn(len(candidates))]
	for i := 1; i < tournamentSize; i++ {
		candidate := candidates[random.Intn(len(candidates))]
		if candidate.Fitness < best.Fitness {
			best = candidate
		}
	}
	return best, true
}

// Network exposes the underlying GSOM lattice so a collaborator outside
// the core (e.g. a topology visualizer) can inspect the live population
// instead of building its own side-channel copy.
func (p *Population) Network() *gsom.Network[Individual, *individualStorage, individualFactory] {
	return p.net
}
