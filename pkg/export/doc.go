// Package export renders diagnostic views of solver-internal state. It is
// not part of the solver's stable ABI: WriteTopologySVG visualizes a GSOM
// population manager's current lattice, for debugging how the network
// partitions a population during a run.
package export
