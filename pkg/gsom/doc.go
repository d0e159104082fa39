// Package gsom implements the Growing Self-Organizing Map population
// manager (C5): a 2D lattice of weighted nodes that grows new nodes at
// its boundary when local reconstruction error exceeds a threshold, and
// otherwise nudges the best-matching node and its neighbourhood toward
// each trained input.
//
// The lattice starts as a 2x2 grid of root nodes and grows outward along
// the four cardinal directions. Each node accumulates an error value; a
// node whose error crosses growing_threshold either spawns missing
// cardinal neighbours (if it sits on the lattice boundary) or redistributes
// its error to nearby nodes (if it does not).
package gsom
