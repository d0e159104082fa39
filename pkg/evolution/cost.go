package evolution

import (
	"github.com/PeakBI/vrp/pkg/model"
	"github.com/PeakBI/vrp/pkg/solution"
)

// Cost scores ic under objective: the objective's fitness for its
// committed routes and the number of jobs that remain unassigned, as
// objective.Fitness combines them. Lower is better, per
// model.Objective's contract.
func Cost(ic *solution.InsertionContext, objective model.Objective) float64 {
	sol := ic.ToSolution()
	return objective.Fitness(sol.Routes, len(sol.Unassigned))
}
