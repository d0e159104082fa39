package evolution

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes Prometheus instrumentation for a running evolution
// driver, namespaced "vrp_evolution". Gauges track the current state of
// the run (generation, population size, best/plateau); counters and a
// histogram track the mutation throughput that produced it.
type Metrics struct {
	generation     prometheus.Gauge
	populationSize prometheus.Gauge
	bestCost       prometheus.Gauge
	plateauLength  prometheus.Gauge

	generationLatency prometheus.Histogram
	mutations         *prometheus.CounterVec // outcome: accepted, rejected

	mu      sync.RWMutex
	enabled bool
}

// NewMetrics registers every evolution gauge/counter/histogram with registry.
// Pass nil to use prometheus.DefaultRegisterer.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Metrics{
		enabled: true,

		generation: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "vrp_evolution",
			Name:      "generation",
			Help:      "Current generation count of the running evolution driver",
		}),
		populationSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "vrp_evolution",
			Name:      "population_size",
			Help:      "Number of candidate solutions currently in the population",
		}),
		bestCost: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "vrp_evolution",
			Name:      "best_cost",
			Help:      "Lowest objective value found so far this run",
		}),
		plateauLength: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "vrp_evolution",
			Name:      "plateau_length",
			Help:      "Consecutive generations since the best cost last improved",
		}),
		generationLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "vrp_evolution",
			Name:      "generation_latency_ms",
			Help:      "Wall-clock duration of one select-mutate-insert generation, in milliseconds",
			Buckets:   []float64{1, 5, 10, 50, 100, 500, 1000, 5000},
		}),
		mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vrp_evolution",
			Name:      "mutations_total",
			Help:      "Mutations produced by the operator, labeled by whether they entered the population",
		}, []string{"outcome"}),
	}
}

// RecordGeneration updates the gauges that reflect the state of the run
// after one generation completes.
func (m *Metrics) RecordGeneration(generation, populationSize int, bestCost float64, plateauLength int, latency time.Duration) {
	if !m.isEnabled() {
		return
	}
	m.generation.Set(float64(generation))
	m.populationSize.Set(float64(populationSize))
	m.bestCost.Set(bestCost)
	m.plateauLength.Set(float64(plateauLength))
	m.generationLatency.Observe(float64(latency.Milliseconds()))
}

// IncrementMutations records one mutation outcome ("accepted" or "rejected").
func (m *Metrics) IncrementMutations(outcome string) {
	if !m.isEnabled() {
		return
	}
	m.mutations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) isEnabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enabled
}

// Disable stops metric recording (useful for testing).
func (m *Metrics) Disable() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = false
}

// Enable re-enables metric recording after Disable.
func (m *Metrics) Enable() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = true
}

// Reset zeroes the gauges. Counters and the histogram are cumulative by
// Prometheus design and are not reset.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.generation.Set(0)
	m.populationSize.Set(0)
	m.bestCost.Set(0)
	m.plateauLength.Set(0)
}
