package config

import (
	"errors"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Sim.MatrixSize != 20 {
		t.Fatalf("matrix size = %d, want 20", cfg.Sim.MatrixSize)
	}
	if cfg.Sim.NumberOfTicks != 10 || cfg.Sim.NumberOfExperiments != 10 {
		t.Fatalf("ticks/experiments = %d/%d, want 10/10",
			cfg.Sim.NumberOfTicks, cfg.Sim.NumberOfExperiments)
	}
	if cfg.Sim.SearchPrice != 1 || cfg.Sim.ConsumePrice != 5 || cfg.Sim.StartingBudget != 10 {
		t.Fatalf("prices/budget = %v/%v/%v, want 1/5/10",
			cfg.Sim.SearchPrice, cfg.Sim.ConsumePrice, cfg.Sim.StartingBudget)
	}
	if cfg.Sim.WellServedThreshold != 0.8 {
		t.Fatalf("well-served threshold = %v, want 0.8", cfg.Sim.WellServedThreshold)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SIM_MATRIX_SIZE", "50")
	t.Setenv("SIM_SEED", "7")
	t.Setenv("SIM_UTILITY_MEAN", "2.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Sim.MatrixSize != 50 || cfg.Sim.Seed != 7 || cfg.Sim.UtilityMean != 2.5 {
		t.Fatalf("overrides not applied: %+v", cfg.Sim)
	}
}

func TestLoadRejectsInvalidParameters(t *testing.T) {
	cases := []struct {
		key, value string
	}{
		{"SIM_MATRIX_SIZE", "0"},
		{"SIM_TICKS", "-3"},
		{"SIM_SEARCH_PRICE", "0"},
		{"SIM_WELL_SERVED_THRESHOLD", "1.5"},
		{"SIM_UTILITY_STD", "0"},
		{"SIM_RATING_SCALE", "1"},
	}

	for _, c := range cases {
		t.Run(c.key, func(t *testing.T) {
			t.Setenv(c.key, c.value)

			_, err := Load()
			if err == nil {
				t.Fatalf("%s=%s accepted, want validation failure", c.key, c.value)
			}
			var cerr *ConfigurationError
			if !errors.As(err, &cerr) {
				t.Fatalf("error type = %T, want ConfigurationError", err)
			}
		})
	}
}

func TestLoadRequiresDatabasePassword(t *testing.T) {
	t.Setenv("DB_ENABLED", "true")

	_, err := Load()
	var cerr *ConfigurationError
	if !errors.As(err, &cerr) || cerr.Field != "DB_PASSWORD" {
		t.Fatalf("err = %v, want DB_PASSWORD configuration error", err)
	}
}

func TestNeutralScore(t *testing.T) {
	if got := (SimConfig{RatingScale: 0}).NeutralScore(); got != 0 {
		t.Fatalf("three-level neutral = %v, want 0", got)
	}
	if got := (SimConfig{RatingScale: 5}).NeutralScore(); got != 3 {
		t.Fatalf("five-star neutral = %v, want 3", got)
	}
	if got := (SimConfig{RatingScale: 10}).NeutralScore(); got != 5.5 {
		t.Fatalf("ten-point neutral = %v, want 5.5", got)
	}
}
