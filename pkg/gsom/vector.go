package gsom

// Vector is the plain, general-purpose Input implementation: a point in
// weight space with no attached payload. Route/solution-shaped inputs
// (pkg/refinement's Individual) implement Input directly instead
// of wrapping their data in a Vector.
type Vector []float64

// Weights returns the vector itself.
func (v Vector) Weights() []float64 {
	return v
}
