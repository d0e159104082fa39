package gsom

import "github.com/PeakBI/vrp/pkg/rng"

// Noise perturbs a weight value by a small multiplicative jitter, applied
// once when the four root nodes are seeded. This breaks the symmetry a
// perfectly uniform initial lattice would otherwise have, letting the
// first few training steps pick a growth direction instead of oscillating.
type Noise struct {
	scale    float64
	min, max float64
	random   *rng.RNG
}

// NewNoise builds a jitter generator scaling by scale and sampling its
// multiplicative factor uniformly from [min, max).
func NewNoise(scale, min, max float64, random *rng.RNG) *Noise {
	return &Noise{scale: scale, min: min, max: max, random: random}
}

// Generate returns value perturbed by the configured jitter.
func (n *Noise) Generate(value float64) float64 {
	return value * n.scale * n.random.Float64Range(n.min, n.max)
}
