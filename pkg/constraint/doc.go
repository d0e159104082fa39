// Package constraint implements the constraint pipeline (C2): an ordered
// composition of hard/soft, route/activity constraint modules that the
// insertion evaluator (pkg/insertion) consults for every candidate
// position, and that recomputes cached RouteState after a committed
// mutation.
package constraint
