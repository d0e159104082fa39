package refinement

import (
	"github.com/PeakBI/vrp/pkg/gsom"
	"github.com/PeakBI/vrp/pkg/model"
	"github.com/PeakBI/vrp/pkg/solution"
)

// Context (C7) is what an evolution driver threads through every
// generation: the problem being solved, the GSOM-backed population of
// candidate solutions (C5), the shared environment, opaque state
// mutations and termination predicates can stash between generations,
// and the running statistics.
type Context struct {
	Problem     *model.Problem
	Population  *Population
	Environment *Environment
	Statistics  *Statistics

	state *keyedState
}

// NewContext starts a refinement run over problem with an initial
// population (typically a single solution produced by a construction
// heuristic), scored under objective and seeded into a GSOM network
// configured by networkConfig.
func NewContext(problem *model.Problem, initial []*solution.InsertionContext, objective model.Objective, networkConfig gsom.NetworkConfig, env *Environment) *Context {
	return &Context{
		Problem:     problem,
		Population:  NewPopulation(initial, objective, networkConfig),
		Environment: env,
		Statistics:  NewStatistics(),
		state:       newKeyedState(),
	}
}

// Best returns the lowest-fitness individual's solution across the whole
// population, or nil if the population is empty.
func (c *Context) Best() *solution.InsertionContext {
	return c.Population.Best()
}

// SetState stashes a value under key for later generations to read back.
func SetState[T any](c *Context, key string, value T) {
	setState(c.state, key, value)
}

// GetState retrieves a previously stashed value, reporting whether it was present.
func GetState[T any](c *Context, key string) (T, bool) {
	return getState[T](c.state, key)
}

// StateMut returns the value under key, creating it via insert on first access.
func StateMut[T any](c *Context, key string, insert func() T) *T {
	return stateMut(c.state, key, insert)
}
