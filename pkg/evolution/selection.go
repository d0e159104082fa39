package evolution

import (
	"github.com/PeakBI/vrp/pkg/model"
	"github.com/PeakBI/vrp/pkg/refinement"
	"github.com/PeakBI/vrp/pkg/solution"
)

// Selector picks one parent out of rc's population for the driver to mutate.
type Selector func(rc *refinement.Context, objective model.Objective) *solution.InsertionContext

// TournamentSelector returns a Selector favoring better-ranked individuals
// without sampling the whole archive: it draws a random lattice
// coordinate from the GSOM population and tournament-selects among the
// individuals routed to that node and its immediate neighbours (see
// refinement.Population.SelectNear). size == 1 degenerates to uniform
// random selection within that neighbourhood; larger sizes bias the
// search toward the local best at the cost of diversity. objective is
// accepted for Selector's signature but unused: the population already
// scored each individual under the objective it was built with when the
// child was first added.
func TournamentSelector(size int) Selector {
	if size < 1 {
		size = 1
	}
	return func(rc *refinement.Context, _ model.Objective) *solution.InsertionContext {
		ind, ok := rc.Population.SelectNear(rc.Environment.Random, size)
		if !ok {
			return nil
		}
		return ind.Solution
	}
}
