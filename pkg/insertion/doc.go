// Package insertion implements the construction engine (C3): given an
// unassigned job and the current set of routes, it finds the cheapest
// feasible (route, position) to insert the job, evaluating every
// candidate route concurrently through the constraint pipeline
// (pkg/constraint).
package insertion
