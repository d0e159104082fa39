package routestate

import (
	"fmt"
	"sync"

	"github.com/PeakBI/vrp/pkg/model"
)

// RouteState is a type-erased key/value cache scoped either to a route as
// a whole or to one of its activities. It is read-only during constraint
// evaluation and writable only between phases, orchestrated by the
// constraint pipeline's accept_* methods (pkg/constraint).
type RouteState struct {
	mu       sync.RWMutex
	route    map[int]any
	activity map[int]map[*model.Activity]any
}

// New creates an empty RouteState.
func New() *RouteState {
	return &RouteState{
		route:    make(map[int]any),
		activity: make(map[int]map[*model.Activity]any),
	}
}

// PutRouteState stores a value under a route-scoped key.
func (s *RouteState) PutRouteState(key int, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.route[key] = v
}

// PutActivityState stores a value under an activity-scoped key.
func (s *RouteState) PutActivityState(key int, act *model.Activity, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byActivity, ok := s.activity[key]
	if !ok {
		byActivity = make(map[*model.Activity]any)
		s.activity[key] = byActivity
	}
	byActivity[act] = v
}

// Remove deletes a key from both route and activity scope.
func (s *RouteState) Remove(key int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.route, key)
	delete(s.activity, key)
}

// Clear removes all stored state.
func (s *RouteState) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.route = make(map[int]any)
	s.activity = make(map[int]map[*model.Activity]any)
}

// rawRouteState reports whether a route-scoped value is present, returning
// the raw value for the generic accessors below.
func (s *RouteState) rawRouteState(key int) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.route[key]
	return v, ok
}

func (s *RouteState) rawActivityState(key int, act *model.Activity) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byActivity, ok := s.activity[key]
	if !ok {
		return nil, false
	}
	v, ok := byActivity[act]
	return v, ok
}

// GetRouteState reads a route-scoped value of type T. A present value of
// the wrong type is a programmer error and panics; a missing value
// returns the zero value and false.
func GetRouteState[T any](s *RouteState, key int) (T, bool) {
	var zero T
	raw, ok := s.rawRouteState(key)
	if !ok {
		return zero, false
	}
	v, ok := raw.(T)
	if !ok {
		panic(fmt.Sprintf("routestate: route key %d holds %T, not %T", key, raw, zero))
	}
	return v, true
}

// GetActivityState reads an activity-scoped value of type T, with the
// same type-mismatch contract as GetRouteState.
func GetActivityState[T any](s *RouteState, key int, act *model.Activity) (T, bool) {
	var zero T
	raw, ok := s.rawActivityState(key, act)
	if !ok {
		return zero, false
	}
	v, ok := raw.(T)
	if !ok {
		panic(fmt.Sprintf("routestate: activity key %d holds %T, not %T", key, raw, zero))
	}
	return v, true
}

// MustGetRouteState reads a route-scoped value, panicking if it is absent.
// Used by modules that assume accept_route_state already ran.
func MustGetRouteState[T any](s *RouteState, key int) T {
	v, ok := GetRouteState[T](s, key)
	if !ok {
		panic(fmt.Sprintf("routestate: route key %d not populated", key))
	}
	return v
}

// MustGetActivityState reads an activity-scoped value, panicking if absent.
func MustGetActivityState[T any](s *RouteState, key int, act *model.Activity) T {
	v, ok := GetActivityState[T](s, key, act)
	if !ok {
		panic(fmt.Sprintf("routestate: activity key %d not populated for activity", key))
	}
	return v
}
