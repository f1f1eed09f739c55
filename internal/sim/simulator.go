package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/chainsim/internal/control"
	"github.com/san-kum/chainsim/internal/dynamo"
)

type Simulator struct {
	solver    *Solver
	driver    control.Driver
	metrics   []Metric
	observers []Observer
}

func New(solver *Solver, driver control.Driver) *Simulator {
	if driver == nil {
		driver = control.NewNone()
	}
	return &Simulator{
		solver:    solver,
		driver:    driver,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run steps the world for cfg.Duration at a fixed cfg.Dt.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration/cfg.Dt + 1e-9)
	result := &Result{
		States:  make([]dynamo.State, 0, steps+1),
		Times:   make([]float64, 0, steps+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	t := 0.0
	// Adopt every root's position before the first driver update.
	s.solver.DriveRoots()
	frame := s.solver.Frame(t)
	s.observe(frame)
	result.States = append(result.States, frame.State())
	result.Times = append(result.Times, t)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		s.driver.Update(s.solver.Points(), t)
		if err := s.solver.Tick(float32(cfg.Dt)); err != nil {
			return result, fmt.Errorf("step %d (t=%.4f): %w", i, t, err)
		}
		t += cfg.Dt

		frame = s.solver.Frame(t)
		state := frame.State()
		if cfg.ValidateState && !state.IsValid() {
			result.Errors = append(result.Errors, fmt.Errorf("step %d (t=%.4f): %w", i, t, dynamo.ErrInvalidState))
			break
		}

		s.observe(frame)
		result.StepsTaken++
		result.States = append(result.States, state)
		result.Times = append(result.Times, t)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) observe(f Frame) {
	for _, m := range s.metrics {
		m.Observe(f)
	}
	for _, obs := range s.observers {
		obs.OnStep(f)
	}
}

// RunWithCallback steps until the callback returns false or Duration ends.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(Frame) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	s.solver.DriveRoots()
	t := 0.0
	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		frame := s.solver.Frame(t)
		if !callback(frame) {
			return nil
		}

		s.driver.Update(s.solver.Points(), t)
		if err := s.solver.Tick(float32(cfg.Dt)); err != nil {
			return err
		}
		t += cfg.Dt

		if cfg.ValidateState && !s.solver.Frame(t).State().IsValid() {
			return fmt.Errorf("t=%.4f: %w", t, dynamo.ErrInvalidState)
		}
	}

	return nil
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}
