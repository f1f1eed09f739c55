package sim

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/chainsim/internal/dynamo"
)

// ChainFrame holds one chain's positions root first; RestLengths[i] belongs
// to the link ending at Positions[i+1].
type ChainFrame struct {
	Root        dynamo.Entity
	Positions   []mgl32.Vec3
	RestLengths []float32
}

// Leaf returns the last position of the chain.
func (c ChainFrame) Leaf() mgl32.Vec3 {
	return c.Positions[len(c.Positions)-1]
}

// Stretch returns the largest relative rest-length violation in the chain.
func (c ChainFrame) Stretch() float64 {
	worst := 0.0
	for i, rest := range c.RestLengths {
		if rest == 0 {
			continue
		}
		l := c.Positions[i+1].Sub(c.Positions[i]).Len()
		v := float64((l - rest) / rest)
		if v < 0 {
			v = -v
		}
		if v > worst {
			worst = v
		}
	}
	return worst
}

type Frame struct {
	Time   float64
	Chains []ChainFrame
}

// State flattens every position into x, y, z triples, chain by chain.
func (f Frame) State() dynamo.State {
	s := make(dynamo.State, 0, 3*f.Count())
	for _, c := range f.Chains {
		for _, p := range c.Positions {
			s = s.AppendVec(p)
		}
	}
	return s
}

// Stretch returns the largest relative rest-length violation of any chain.
func (f Frame) Stretch() float64 {
	worst := 0.0
	for _, c := range f.Chains {
		worst = max(worst, c.Stretch())
	}
	return worst
}

// Count returns the number of positions in the frame.
func (f Frame) Count() int {
	n := 0
	for _, c := range f.Chains {
		n += len(c.Positions)
	}
	return n
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(f Frame)
}

type Config struct {
	Dt            float64
	Duration      float64
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            1.0 / 60.0,
		Duration:      10.0,
		ValidateState: true,
	}
}

type Result struct {
	States     []dynamo.State
	Times      []float64
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}
