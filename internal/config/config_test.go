package config

import (
	"path/filepath"
	"sort"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Iterations != 1 {
		t.Errorf("expected 1 iteration, got %d", cfg.Iterations)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("stiff")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Iterations != 20 {
		t.Errorf("expected 20 iterations, got %d", cfg.Iterations)
	}

	cfg.Nodes = 99
	if Presets["stiff"].Nodes == 99 {
		t.Error("GetPreset should return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(presets))
	}
	if !sort.StringsAreSorted(presets) {
		t.Errorf("presets not sorted: %v", presets)
	}
	for _, name := range presets {
		if err := Presets[name].Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no chains", func(c *Config) { c.Chains = 0 }},
		{"single node", func(c *Config) { c.Nodes = 1 }},
		{"zero spacing", func(c *Config) { c.Spacing = 0 }},
		{"friction above one", func(c *Config) { c.Friction = 1.5 }},
		{"negative friction", func(c *Config) { c.Friction = -0.1 }},
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"zero duration", func(c *Config) { c.Duration = 0 }},
		{"zero iterations", func(c *Config) { c.Iterations = 0 }},
		{"zero workers", func(c *Config) { c.Workers = 0 }},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chain.yaml")
	cfg := GetPreset("hair")

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestBuild(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Chains = 3
	cfg.Nodes = 5

	solver, driver, err := cfg.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if driver == nil {
		t.Fatal("expected a driver")
	}

	chains := solver.Chains()
	if len(chains) != 3 {
		t.Fatalf("expected 3 chains, got %d", len(chains))
	}
	for _, c := range chains {
		if len(c.Members) != 4 {
			t.Errorf("chain %d: expected 4 members, got %d", c.Root, len(c.Members))
		}
	}
	if solver.World().Constraints.Count() != 12 {
		t.Errorf("expected 12 constraints, got %d", solver.World().Constraints.Count())
	}
}

func TestBuild_UnknownDriver(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Driver.Kind = "wobble"
	if _, _, err := cfg.Build(); err == nil {
		t.Error("expected error for unknown driver")
	}
}
