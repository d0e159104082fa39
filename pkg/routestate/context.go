package routestate

import "github.com/PeakBI/vrp/pkg/model"

// RouteContext is a shared handle to a route and its cached state. It is
// the unit of work constraint modules operate on: read-only during
// insertion evaluation, mutable only via accept_route_state.
type RouteContext struct {
	Route *model.Route
	State *RouteState
}

// NewRouteContext wraps a route with a fresh, empty state cache.
func NewRouteContext(route *model.Route) *RouteContext {
	return &RouteContext{Route: route, State: New()}
}

// ActivityContext is the transient (prev, target, next) triple considered
// at one candidate insertion position. It is never stored: it exists only
// for the duration of one evaluate_hard_activity/evaluate_soft_activity call.
type ActivityContext struct {
	// Index is the tour position target would occupy if inserted.
	Index  int
	Prev   *model.Activity
	Target *model.Activity
	Next   *model.Activity // the activity target would displace forward; the end bracket at the tour's last insertable index
}
