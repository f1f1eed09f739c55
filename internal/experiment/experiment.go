package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/chainsim/internal/config"
	"github.com/san-kum/chainsim/internal/sim"
)

type Experiment struct {
	cfg       *config.Config
	solver    *sim.Solver
	simulator *sim.Simulator
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup builds the configured world and attaches the given metrics.
func (e *Experiment) Setup(metrics []sim.Metric) error {
	solver, driver, err := e.cfg.Build()
	if err != nil {
		return err
	}
	e.solver = solver
	e.simulator = sim.New(solver, driver)
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.cfg.SimConfig())
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

func (e *Experiment) Solver() *sim.Solver { return e.solver }
