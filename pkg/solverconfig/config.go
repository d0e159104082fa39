// Package solverconfig loads and validates the YAML configuration that
// parameterizes a solver run: the seed, the GSOM population's growth
// parameters, and the evolution driver's termination thresholds.
package solverconfig

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config specifies every tunable parameter of a solve. It supports YAML
// parsing and includes validation mirroring the invariants pkg/gsom and
// pkg/evolution otherwise enforce only by panicking.
type Config struct {
	// Seed is the master seed for deterministic solving. Use 0 to
	// auto-generate from current time.
	Seed uint64 `yaml:"seed" json:"seed"`

	// Network configures the GSOM population manager.
	Network NetworkCfg `yaml:"network" json:"network"`

	// Termination bounds how long the evolution driver may run.
	Termination TerminationCfg `yaml:"termination" json:"termination"`

	// RuinCount is how many jobs the ruin-and-recreate operator disturbs
	// per mutation.
	RuinCount int `yaml:"ruinCount" json:"ruinCount"`

	// TournamentSize is how many candidates the selector samples before
	// picking the fittest.
	TournamentSize int `yaml:"tournamentSize" json:"tournamentSize"`

	// MaxPopulationSize is the population size above which the evolution
	// driver's periodic rebalance drops nodes that have never recorded a hit.
	MaxPopulationSize int `yaml:"maxPopulationSize" json:"maxPopulationSize"`

	// Concurrency is the degree of parallelism workers should use; values
	// below 1 become 1 (refinement.NewEnvironment's default).
	Concurrency int `yaml:"concurrency" json:"concurrency"`
}

// NetworkCfg configures the GSOM population manager (C5).
type NetworkCfg struct {
	// SpreadFactor sets the growing threshold: GT = -D*log2(SpreadFactor).
	// Must be in (0, 1).
	SpreadFactor float64 `yaml:"spreadFactor" json:"spreadFactor"`

	// DistributionFactor is the error-sharing fraction applied to
	// neighbors during error distribution. Must be in (0, 1).
	DistributionFactor float64 `yaml:"distributionFactor" json:"distributionFactor"`

	// LearningRate is the base Kohonen learning rate eta0.
	LearningRate float64 `yaml:"learningRate" json:"learningRate"`

	// RebalanceMemory bounds each node's usage-hit ring buffer length.
	RebalanceMemory int `yaml:"rebalanceMemory" json:"rebalanceMemory"`

	// HasInitialError seeds the four root nodes at the growing threshold
	// instead of 0; nodes grown later always start at 0.
	HasInitialError bool `yaml:"hasInitialError" json:"hasInitialError"`

	// RebalanceCount is how many drain-shuffle-replay cycles retrain runs.
	RebalanceCount int `yaml:"rebalanceCount" json:"rebalanceCount"`
}

// TerminationCfg bounds an evolution run. Zero values disable that criterion.
type TerminationCfg struct {
	// MaxGenerations stops the run after this many generations. 0 disables.
	MaxGenerations int `yaml:"maxGenerations" json:"maxGenerations"`

	// MaxDuration stops the run after this much wall-clock time has
	// elapsed. 0 disables.
	MaxDuration time.Duration `yaml:"maxDuration" json:"maxDuration"`

	// PlateauGenerations stops the run once this many consecutive
	// generations pass with no best-cost improvement. 0 disables.
	PlateauGenerations int `yaml:"plateauGenerations" json:"plateauGenerations"`
}

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("solverconfig: reading config file: %w", err)
	}
	return LoadConfigFromBytes(data)
}

// LoadConfigFromBytes parses YAML configuration from a byte slice.
func LoadConfigFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("solverconfig: parsing YAML: %w", err)
	}

	if cfg.Seed == 0 {
		cfg.Seed = generateSeed()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("solverconfig: validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks every configuration constraint, returning the first failure found.
func (c *Config) Validate() error {
	if err := c.Network.Validate(); err != nil {
		return fmt.Errorf("network: %w", err)
	}
	if err := c.Termination.Validate(); err != nil {
		return fmt.Errorf("termination: %w", err)
	}
	if c.RuinCount < 1 {
		return fmt.Errorf("ruinCount must be at least 1, got %d", c.RuinCount)
	}
	if c.TournamentSize < 1 {
		return fmt.Errorf("tournamentSize must be at least 1, got %d", c.TournamentSize)
	}
	if c.MaxPopulationSize < 1 {
		return fmt.Errorf("maxPopulationSize must be at least 1, got %d", c.MaxPopulationSize)
	}
	return nil
}

// Validate checks NetworkCfg constraints.
func (n *NetworkCfg) Validate() error {
	if n.SpreadFactor <= 0.0 || n.SpreadFactor >= 1.0 {
		return fmt.Errorf("spreadFactor must be in (0.0, 1.0), got %f", n.SpreadFactor)
	}
	if n.DistributionFactor <= 0.0 || n.DistributionFactor >= 1.0 {
		return fmt.Errorf("distributionFactor must be in (0.0, 1.0), got %f", n.DistributionFactor)
	}
	if n.LearningRate <= 0.0 {
		return fmt.Errorf("learningRate must be positive, got %f", n.LearningRate)
	}
	if n.RebalanceMemory < 1 {
		return fmt.Errorf("rebalanceMemory must be at least 1, got %d", n.RebalanceMemory)
	}
	if n.RebalanceCount < 0 {
		return fmt.Errorf("rebalanceCount must be non-negative, got %d", n.RebalanceCount)
	}
	return nil
}

// Validate checks TerminationCfg constraints: at least one criterion must be set.
func (t *TerminationCfg) Validate() error {
	if t.MaxGenerations == 0 && t.MaxDuration == 0 && t.PlateauGenerations == 0 {
		return errors.New("at least one of maxGenerations, maxDuration, or plateauGenerations must be set")
	}
	if t.MaxGenerations < 0 {
		return fmt.Errorf("maxGenerations must be non-negative, got %d", t.MaxGenerations)
	}
	if t.MaxDuration < 0 {
		return fmt.Errorf("maxDuration must be non-negative, got %v", t.MaxDuration)
	}
	if t.PlateauGenerations < 0 {
		return fmt.Errorf("plateauGenerations must be non-negative, got %d", t.PlateauGenerations)
	}
	return nil
}

// ToYAML serializes the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// Hash computes a deterministic hash of the configuration, used to derive
// per-stage RNG seeds the same way pkg/rng derives them for any solver stage.
func (c *Config) Hash() []byte {
	data, err := c.ToYAML()
	if err != nil {
		h := sha256.New()
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], c.Seed)
		h.Write(buf[:])
		return h.Sum(nil)
	}
	h := sha256.New()
	h.Write(data)
	return h.Sum(nil)
}

// generateSeed creates a seed from the current time, for runs that don't pin one.
func generateSeed() uint64 {
	now := time.Now().UnixNano()
	if now < 0 {
		now = -now
	}
	seed := uint64(now)
	if seed == 0 {
		seed = 1
	}
	return seed
}
