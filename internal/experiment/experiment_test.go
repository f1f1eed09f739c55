package experiment

import (
	"context"
	"testing"

	"github.com/san-kum/chainsim/internal/config"
)

func TestExperimentRun(t *testing.T) {
	cfg := config.GetPreset("pendulum")
	cfg.Duration = 0.5

	exp := New(cfg)
	if _, err := exp.Run(context.Background()); err == nil {
		t.Fatal("expected error before setup")
	}

	if err := exp.Setup(NewRegistry().DefaultMetrics()); err != nil {
		t.Fatalf("setup: %v", err)
	}
	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.StepsTaken != 30 {
		t.Errorf("expected 30 steps, got %d", result.StepsTaken)
	}
	for _, name := range NewRegistry().ListMetrics() {
		if _, ok := result.Metrics[name]; !ok {
			t.Errorf("missing metric %s", name)
		}
	}
	if result.Metrics["stability"] != 1 {
		t.Errorf("expected stable run, got %f", result.Metrics["stability"])
	}
}

func TestExperimentSetup_InvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Nodes = 0
	if err := New(cfg).Setup(nil); err == nil {
		t.Error("expected setup to reject config")
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if _, err := r.GetMetric("max_stretch"); err != nil {
		t.Errorf("max_stretch: %v", err)
	}
	if _, err := r.GetMetric("nope"); err == nil {
		t.Error("expected error for unknown metric")
	}
	if len(r.DefaultMetrics()) != 4 {
		t.Errorf("expected 4 default metrics, got %d", len(r.DefaultMetrics()))
	}
}
