package refinement

import (
	"math"
	"sync"
)

// Statistics tracks the running numbers an evolution driver and its
// termination predicates consult every generation: how far the run has
// progressed, and how the population's cost has moved recently.
type Statistics struct {
	mu sync.RWMutex

	Generation    int
	TotalDuration int64 // nanoseconds, summed over every recorded generation

	BestCost    float64
	MedianCost  float64
	WorstCost   float64

	improvements int // generations since BestCost last improved
}

// NewStatistics returns a zeroed Statistics with BestCost at +Inf so the
// very first generation's result always registers as an improvement.
func NewStatistics() *Statistics {
	return &Statistics{BestCost: math.Inf(1)}
}

// RecordGeneration advances the generation counter, adds elapsedNanos to
// TotalDuration and updates the cost summary. It reports whether best
// improved on the prior best.
func (s *Statistics) RecordGeneration(best, median, worst float64, elapsedNanos int64) (improved bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Generation++
	s.TotalDuration += elapsedNanos
	s.MedianCost = median
	s.WorstCost = worst

	if best < s.BestCost {
		s.BestCost = best
		s.improvements = 0
		return true
	}
	s.improvements++
	return false
}

// GenerationsSinceImprovement reports how many consecutive generations
// have passed without a new best cost, for plateau-based termination.
func (s *Statistics) GenerationsSinceImprovement() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.improvements
}

// Snapshot returns a copy safe to read without holding any lock.
func (s *Statistics) Snapshot() Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Statistics{
		Generation:    s.Generation,
		TotalDuration: s.TotalDuration,
		BestCost:      s.BestCost,
		MedianCost:    s.MedianCost,
		WorstCost:     s.WorstCost,
		improvements:  s.improvements,
	}
}
