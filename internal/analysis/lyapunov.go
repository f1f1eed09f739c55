package analysis

import (
	"math"

	"github.com/san-kum/chainsim/internal/config"
	"github.com/san-kum/chainsim/internal/sim"
)

// LyapunovExponent estimates the largest Lyapunov exponent of a chain
// configuration using the trajectory separation method. A positive value
// indicates chaos.
//
// Algorithm:
// 1. Build two worlds whose root tilt differs by perturbation degrees
// 2. Step both and record the log of the leaf separation
// 3. λ is the least-squares slope of that log against time
func LyapunovExponent(cfg *config.Config, perturbation float64) (float64, error) {
	a, _, err := cfg.Build()
	if err != nil {
		return 0, err
	}
	shifted := *cfg
	shifted.Tilt += perturbation
	b, _, err := shifted.Build()
	if err != nil {
		return 0, err
	}

	dt := float32(cfg.Dt)
	steps := int(cfg.Duration / cfg.Dt)
	times := make([]float64, 0, steps)
	logs := make([]float64, 0, steps)

	a.DriveRoots()
	b.DriveRoots()
	for i := 1; i <= steps; i++ {
		if err := a.Tick(dt); err != nil {
			return 0, err
		}
		if err := b.Tick(dt); err != nil {
			return 0, err
		}

		d := leafSeparation(a.Frame(0), b.Frame(0))
		if d < 1e-12 || math.IsNaN(d) {
			continue
		}
		times = append(times, float64(i)*cfg.Dt)
		logs = append(logs, math.Log(d))
	}

	return slope(times, logs), nil
}

func leafSeparation(fa, fb sim.Frame) float64 {
	d := 0.0
	for i := range fa.Chains {
		if i >= len(fb.Chains) {
			break
		}
		v := fa.Chains[i].Leaf().Sub(fb.Chains[i].Leaf())
		d += float64(v.Dot(v))
	}
	return math.Sqrt(d)
}

func slope(x, y []float64) float64 {
	n := float64(len(x))
	if n < 2 {
		return 0
	}
	var sx, sy, sxx, sxy float64
	for i := range x {
		sx += x[i]
		sy += y[i]
		sxx += x[i] * x[i]
		sxy += x[i] * y[i]
	}
	den := n*sxx - sx*sx
	if den == 0 {
		return 0
	}
	return (n*sxy - sx*sy) / den
}
