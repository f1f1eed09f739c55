package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/chainsim/internal/control"
	"github.com/san-kum/chainsim/internal/scene"
)

func newTestSimulator(t *testing.T, driver control.Driver) (*Simulator, *scene.World) {
	t.Helper()
	w := scene.NewWorld()
	bakedChain(t, w, scene.HangingSpec{Nodes: 4, Spacing: 1, Tilt: 30}, 0.05)
	return New(NewSolver(w, nil, nil), driver), w
}

func TestSimulatorRun(t *testing.T) {
	sim, _ := newTestSimulator(t, nil)

	result, err := sim.Run(context.Background(), Config{Dt: 0.1, Duration: 1.0, ValidateState: true})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.States) != 11 {
		t.Errorf("expected 11 states, got %d", len(result.States))
	}
	if len(result.Times) != 11 {
		t.Errorf("expected 11 times, got %d", len(result.Times))
	}
	if result.StepsTaken != 10 {
		t.Errorf("expected 10 steps, got %d", result.StepsTaken)
	}
	if len(result.States[0]) != 12 {
		t.Errorf("expected 12 coordinates per state, got %d", len(result.States[0]))
	}

	// The tilted chain swings down: the leaf ends lower than it started.
	first, last := result.States[0], result.States[len(result.States)-1]
	if last[10] >= first[10] {
		t.Errorf("leaf y went from %f to %f, expected to fall", first[10], last[10])
	}
	// The root is anchored.
	if last[0] != first[0] || last[1] != first[1] {
		t.Errorf("root moved from (%f,%f) to (%f,%f)", first[0], first[1], last[0], last[1])
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	sim, _ := newTestSimulator(t, nil)

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}},
		{"zero duration", Config{Dt: 0.1, Duration: 0}},
		{"negative duration", Config{Dt: 0.1, Duration: -1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := sim.Run(context.Background(), tt.cfg); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

type testMetric struct {
	count int
	sum   float64
}

func (m *testMetric) Name() string { return "test" }
func (m *testMetric) Observe(f Frame) {
	m.count++
	m.sum += float64(f.Chains[0].Leaf().Y())
}
func (m *testMetric) Value() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}
func (m *testMetric) Reset() {
	m.count = 0
	m.sum = 0
}

func TestSimulatorMetrics(t *testing.T) {
	sim, _ := newTestSimulator(t, nil)

	metric := &testMetric{}
	sim.AddMetric(metric)

	result, err := sim.Run(context.Background(), Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["test"]; !ok {
		t.Error("metric not found in result")
	}
	if metric.count != 11 {
		t.Errorf("expected 11 observations, got %d", metric.count)
	}
}

func TestSimulatorCanceled(t *testing.T) {
	sim, _ := newTestSimulator(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := sim.Run(ctx, Config{Dt: 0.1, Duration: 1.0})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if len(result.States) != 1 {
		t.Errorf("expected only the initial state, got %d", len(result.States))
	}
}

func TestSimulatorDriverMovesRoot(t *testing.T) {
	sway, err := control.NewSway(1, 0.25, "x")
	if err != nil {
		t.Fatalf("NewSway: %v", err)
	}
	sim, w := newTestSimulator(t, sway)

	result, err := sim.Run(context.Background(), Config{Dt: 0.05, Duration: 1.05})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// The driver runs before each tick, so the root trails the sway by one step.
	root := w.Roots.Entities()[0]
	want := mgl32.Vec3{1, 0, 0}
	if got := w.WorldPosition(root); !near(got, want, 1e-4) {
		t.Errorf("root at %v, want %v after %d steps", got, want, result.StepsTaken)
	}
}

func TestRunWithCallback(t *testing.T) {
	sim, _ := newTestSimulator(t, nil)

	calls := 0
	err := sim.RunWithCallback(context.Background(), Config{Dt: 0.1, Duration: 10}, func(f Frame) bool {
		calls++
		return calls < 5
	})
	if err != nil {
		t.Fatalf("RunWithCallback: %v", err)
	}
	if calls != 5 {
		t.Errorf("callback called %d times, want 5", calls)
	}
}
