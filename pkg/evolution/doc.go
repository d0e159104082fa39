// Package evolution implements the evolution driver (C6): the
// select -> mutate -> insert loop that advances a population of candidate
// solutions (pkg/solution) toward lower cost, consulting the refinement
// context (pkg/refinement) for shared environment, state, and statistics,
// and the insertion evaluator (pkg/insertion) to place jobs a mutation
// displaced or that are still unassigned.
package evolution
