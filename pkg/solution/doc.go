// Package solution holds InsertionContext (C4): the mutable bundle of
// routes, unassigned jobs, vehicle registry, and locked positions that an
// evolving candidate solution carries through construction and mutation.
package solution
