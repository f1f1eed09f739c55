package config

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/chainsim/internal/bake"
	"github.com/san-kum/chainsim/internal/control"
	"github.com/san-kum/chainsim/internal/integrators"
	"github.com/san-kum/chainsim/internal/scene"
	"github.com/san-kum/chainsim/internal/sim"
)

// Build authors and bakes the configured chains in a fresh world and returns
// a solver for it together with the configured driver.
func (c *Config) Build() (*sim.Solver, control.Driver, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, err
	}

	w := scene.NewWorld()
	for i := 0; i < c.Chains; i++ {
		root, err := scene.BuildHanging(w, scene.HangingSpec{
			Name:    fmt.Sprintf("%s%d", c.Name, i),
			Origin:  mgl32.Vec3{float32(float64(i) * ChainGap), 0, 0},
			Nodes:   c.Nodes,
			Spacing: float32(c.Spacing),
			Tilt:    float32(c.Tilt),
		})
		if err != nil {
			return nil, nil, err
		}
		if err := bake.Author(w, root, float32(c.Friction)); err != nil {
			return nil, nil, err
		}
	}
	if _, err := bake.Bake(w); err != nil {
		return nil, nil, err
	}

	driver, err := control.New(c.Driver.Kind, c.Driver.Amplitude, c.Driver.Frequency, c.Driver.Axis)
	if err != nil {
		return nil, nil, err
	}

	solver := sim.NewSolver(w, control.NewPoints(), integrators.NewVerlet())
	solver.Iterations = c.Iterations
	solver.Workers = c.Workers
	return solver, driver, nil
}

// SimConfig returns the run loop settings.
func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		Dt:            c.Dt,
		Duration:      c.Duration,
		ValidateState: true,
	}
}
