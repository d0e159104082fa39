// Package transport provides a concrete model.TransportCost external
// collaborators can use out of the box: a matrix of named points on a
// plane. Real deployments typically back model.TransportCost with a
// routing-engine-produced matrix instead; PointCost exists so the core can
// be exercised end to end without one.
package transport

import (
	"math"

	"github.com/PeakBI/vrp/pkg/model"
)

// Point is a named location's coordinates on a plane.
type Point struct {
	X, Y float64
}

// PointCost answers distance/duration questions from a fixed table of
// named points, keyed by model.Place.Location. Locations absent from the
// table are treated as coincident with every other location (distance 0),
// so an incompletely-populated table degrades to "no detour penalty"
// rather than panicking.
type PointCost struct {
	points map[string]Point
	speed  float64 // distance units per time unit, for Duration
}

// NewPointCost builds a PointCost over the given named points. speed must
// be positive; it converts a Euclidean distance into a travel duration.
func NewPointCost(points map[string]Point, speed float64) *PointCost {
	if speed <= 0 {
		speed = 1
	}
	return &PointCost{points: points, speed: speed}
}

func (c *PointCost) Distance(from, to model.Place) float64 {
	a, okA := c.points[from.Location]
	b, okB := c.points[to.Location]
	if !okA || !okB {
		return 0
	}
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Duration converts the Euclidean distance between from and to into travel
// time at the configured speed.
func (c *PointCost) Duration(from, to model.Place) float64 {
	return c.Distance(from, to) / c.speed
}
