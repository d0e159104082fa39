// Package routestate provides RouteState: a per-route keyed state cache
// used by the constraint pipeline to avoid recomputing route-level and
// activity-level aggregates (capacity prefix sums, schedules, distances)
// on every insertion evaluation. State is type-erased on write and
// type-asserted on read; a mismatched type is a programmer error and
// panics rather than silently returning a zero value.
package routestate
