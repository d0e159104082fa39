// Package refinement implements the refinement context (C7): the
// environment and opaque keyed state an evolution driver (pkg/evolution)
// threads through every generation, plus the per-run statistics other
// packages read to decide when to stop.
package refinement
