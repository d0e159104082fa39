package refinement

import (
	"log/slog"

	"github.com/PeakBI/vrp/pkg/rng"
)

// Environment bundles the ambient collaborators every stage of a
// refinement run shares: the seeded RNG driving every stochastic
// decision, a structured logger, and the degree of parallelism workers
// should use.
type Environment struct {
	Random      *rng.RNG
	Logger      *slog.Logger
	Concurrency int
}

// NewEnvironment builds an Environment, defaulting Logger to slog's
// default handler and Concurrency to 1 if left unset.
func NewEnvironment(random *rng.RNG, logger *slog.Logger, concurrency int) *Environment {
	if logger == nil {
		logger = slog.Default()
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Environment{Random: random, Logger: logger, Concurrency: concurrency}
}
