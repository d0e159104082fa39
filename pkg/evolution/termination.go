package evolution

import (
	"context"
	"time"

	"github.com/PeakBI/vrp/pkg/refinement"
)

// Termination reports whether the driver's loop should stop, given the
// current refinement context.
type Termination func(rc *refinement.Context) bool

// Any combines terminations so the loop stops as soon as any one reports true.
func Any(terms ...Termination) Termination {
	return func(rc *refinement.Context) bool {
		for _, t := range terms {
			if t(rc) {
				return true
			}
		}
		return false
	}
}

// MaxGenerations stops once rc.Statistics has recorded n generations.
func MaxGenerations(n int) Termination {
	return func(rc *refinement.Context) bool {
		return rc.Statistics.Snapshot().Generation >= n
	}
}

// Deadline stops once wall-clock time reaches deadline. now is injected so
// tests can supply a fixed clock; callers pass time.Now.
func Deadline(deadline time.Time, now func() time.Time) Termination {
	return func(rc *refinement.Context) bool {
		return !now().Before(deadline)
	}
}

// Plateau stops once the best cost hasn't improved for generations
// consecutive generations.
func Plateau(generations int) Termination {
	return func(rc *refinement.Context) bool {
		return rc.Statistics.GenerationsSinceImprovement() >= generations
	}
}

// ContextDone stops as soon as ctx is cancelled or its deadline passes,
// letting the driver honor an external cancel signal between iterations.
func ContextDone(ctx context.Context) Termination {
	return func(rc *refinement.Context) bool {
		select {
		case <-ctx.Done():
			return true
		default:
			return false
		}
	}
}
