package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/chainsim/internal/metrics"
	"github.com/san-kum/chainsim/internal/sim"
)

// StabilityBound is the coordinate magnitude past which a frame counts as
// diverged.
const StabilityBound = 1e3

type Registry struct {
	metrics map[string]func() sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func() sim.Metric),
	}

	r.metrics["max_stretch"] = func() sim.Metric { return metrics.NewStretch() }
	r.metrics["leaf_sag"] = func() sim.Metric { return metrics.NewSag() }
	r.metrics["kinetic_energy"] = func() sim.Metric { return metrics.NewMotion() }
	r.metrics["stability"] = func() sim.Metric { return metrics.NewStability(StabilityBound) }

	return r
}

func (r *Registry) GetMetric(name string) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns a fresh instance of every registered metric.
func (r *Registry) DefaultMetrics() []sim.Metric {
	out := make([]sim.Metric, 0, len(r.metrics))
	for _, name := range r.ListMetrics() {
		out = append(out, r.metrics[name]())
	}
	return out
}
