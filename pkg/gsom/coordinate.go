package gsom

// Coordinate addresses a node's position on the growing lattice.
type Coordinate struct {
	X, Y int
}

// Add returns the coordinate offset by another coordinate treated as a
// displacement.
func (c Coordinate) Add(offset Coordinate) Coordinate {
	return Coordinate{X: c.X + offset.X, Y: c.Y + offset.Y}
}

// manhattan returns the L1 norm of a coordinate treated as a displacement.
func (c Coordinate) manhattan() int {
	return absInt(c.X) + absInt(c.Y)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// cardinalOffsets returns the four direct (Manhattan distance 1)
// neighbor offsets: the "4-neighbor" sides used for boundary detection
// and growth, distinct from the Chebyshev neighborhoods used for error
// distribution and weight adjustment.
func cardinalOffsets() []Coordinate {
	return []Coordinate{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}}
}

// offsetsWithinRadius returns every non-zero integer displacement whose
// Chebyshev distance from the origin is at most radius, in a stable
// deterministic order. Radius 1 yields the 3x3 patch minus the center (8
// cells); radius 2 yields the 5x5 patch minus the center (24 cells).
func offsetsWithinRadius(radius int) []Coordinate {
	offsets := make([]Coordinate, 0, (2*radius+1)*(2*radius+1)-1)
	for dx := -radius; dx <= radius; dx++ {
		for dy := -radius; dy <= radius; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			offsets = append(offsets, Coordinate{X: dx, Y: dy})
		}
	}
	return offsets
}
