package solverconfig

import "testing"

func TestLoadConfigFromBytesValid(t *testing.T) {
	yaml := `
seed: 12345
network:
  spreadFactor: 0.2
  distributionFactor: 0.3
  learningRate: 0.1
  rebalanceMemory: 20
  hasInitialError: false
  rebalanceCount: 2
termination:
  maxGenerations: 500
  plateauGenerations: 50
ruinCount: 3
tournamentSize: 4
maxPopulationSize: 10
concurrency: 0
`
	cfg, err := LoadConfigFromBytes([]byte(yaml))
	if err != nil {
		t.Fatalf("LoadConfigFromBytes() failed: %v", err)
	}

	if cfg.Seed != 12345 {
		t.Errorf("Seed = %d, want 12345", cfg.Seed)
	}
	if cfg.Network.SpreadFactor != 0.2 {
		t.Errorf("Network.SpreadFactor = %f, want 0.2", cfg.Network.SpreadFactor)
	}
	if cfg.Termination.MaxGenerations != 500 {
		t.Errorf("Termination.MaxGenerations = %d, want 500", cfg.Termination.MaxGenerations)
	}
	if cfg.RuinCount != 3 {
		t.Errorf("RuinCount = %d, want 3", cfg.RuinCount)
	}
}

func TestLoadConfigAutoGeneratesSeed(t *testing.T) {
	yaml := `
network:
  spreadFactor: 0.2
  distributionFactor: 0.3
  learningRate: 0.1
  rebalanceMemory: 20
termination:
  maxGenerations: 100
ruinCount: 1
tournamentSize: 1
maxPopulationSize: 1
`
	cfg, err := LoadConfigFromBytes([]byte(yaml))
	if err != nil {
		t.Fatalf("LoadConfigFromBytes() failed: %v", err)
	}
	if cfg.Seed == 0 {
		t.Error("expected a non-zero auto-generated seed")
	}
}

func TestValidateRejectsBadSpreadFactor(t *testing.T) {
	cfg := &Config{
		Seed: 1,
		Network: NetworkCfg{
			SpreadFactor:       1.5,
			DistributionFactor: 0.3,
			LearningRate:       0.1,
			RebalanceMemory:    10,
		},
		Termination:       TerminationCfg{MaxGenerations: 10},
		RuinCount:         1,
		TournamentSize:    1,
		MaxPopulationSize: 1,
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for spreadFactor outside (0,1)")
	}
}

func TestValidateRejectsNoTerminationCriteria(t *testing.T) {
	cfg := &Config{
		Seed: 1,
		Network: NetworkCfg{
			SpreadFactor:       0.2,
			DistributionFactor: 0.3,
			LearningRate:       0.1,
			RebalanceMemory:    10,
		},
		RuinCount:         1,
		TournamentSize:    1,
		MaxPopulationSize: 1,
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error when no termination criterion is set")
	}
}

func TestHashIsDeterministic(t *testing.T) {
	cfg := &Config{
		Seed: 42,
		Network: NetworkCfg{
			SpreadFactor:       0.2,
			DistributionFactor: 0.3,
			LearningRate:       0.1,
			RebalanceMemory:    10,
		},
		Termination:       TerminationCfg{MaxGenerations: 10},
		RuinCount:         1,
		TournamentSize:    1,
		MaxPopulationSize: 1,
	}
	h1 := cfg.Hash()
	h2 := cfg.Hash()
	if string(h1) != string(h2) {
		t.Fatal("expected Hash to be deterministic for an unchanged config")
	}
}
