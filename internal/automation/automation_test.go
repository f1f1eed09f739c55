package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/chainsim/internal/config"
	"github.com/san-kum/chainsim/internal/storage"
)

const scenarioYAML = `
name: demo
description: a pendulum then a swaying antenna
steps:
  - preset: pendulum
    duration: 0.5
  - preset: antenna
    duration: 0.5
    params:
      iterations: 3
    driver: { kind: sway, amplitude: 0.5, frequency: 1, axis: z }
    save_as: antenna-z
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	st := storage.New(t.TempDir())
	results, err := RunScenario(context.Background(), sc, st)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	if results[0].RunID != "" {
		t.Error("step without save_as should not be stored")
	}
	if results[1].RunID == "" {
		t.Fatal("step with save_as should be stored")
	}
	if results[1].Config.Iterations != 3 || results[1].Config.Driver.Axis != "z" {
		t.Errorf("overrides not applied: %+v", results[1].Config)
	}

	meta, err := st.Load(results[1].RunID)
	if err != nil {
		t.Fatalf("load stored run: %v", err)
	}
	if meta.Preset != "antenna-z" {
		t.Errorf("expected stored preset antenna-z, got %s", meta.Preset)
	}
}

func TestScenarioStep_Invalid(t *testing.T) {
	if _, err := (ScenarioStep{Preset: "nope"}).Config(); err == nil {
		t.Error("expected error for unknown preset")
	}
	if _, err := (ScenarioStep{Params: map[string]float64{"gravity": 1}}).Config(); err == nil {
		t.Error("expected error for unknown param")
	}
	if _, err := (ScenarioStep{Params: map[string]float64{"friction": 2}}).Config(); err == nil {
		t.Error("expected validation error")
	}
}

func TestLoadScenario_NoSteps(t *testing.T) {
	if _, err := LoadScenario(writeScenario(t, "name: empty\n")); err == nil {
		t.Error("expected error for empty scenario")
	}
}

func TestRunSweep(t *testing.T) {
	base := config.GetPreset("stiff")
	base.Duration = 0.5

	results, err := RunSweep(context.Background(), &ParameterSweep{
		Base:      base,
		ParamName: "iterations",
		ParamMin:  1,
		ParamMax:  21,
		NumSteps:  2,
	})
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[1].MaxStretch >= results[0].MaxStretch {
		t.Errorf("more passes should stretch less: %f vs %f", results[1].MaxStretch, results[0].MaxStretch)
	}
	if base.Iterations != 20 {
		t.Error("sweep must not modify the base config")
	}
}

func TestRunMonteCarlo(t *testing.T) {
	base := config.GetPreset("pendulum")
	base.Duration = 0.25

	results, err := RunMonteCarlo(context.Background(), &MonteCarloConfig{
		Base:         base,
		Perturbation: 10,
		NumTrials:    3,
		Seed:         42,
	})
	if err != nil {
		t.Fatalf("monte carlo: %v", err)
	}

	stable, unstable := MonteCarloStats(results)
	if stable != 3 || unstable != 0 {
		t.Errorf("expected 3 stable trials, got %d stable %d unstable", stable, unstable)
	}
	for _, r := range results {
		if r.Tilt < 50 || r.Tilt > 70 {
			t.Errorf("trial %d tilt %f outside perturbation", r.TrialID, r.Tilt)
		}
	}
}
