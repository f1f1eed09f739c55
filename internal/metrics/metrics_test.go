package metrics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/chainsim/internal/sim"
)

func frame(t float64, pos ...mgl32.Vec3) sim.Frame {
	rest := make([]float32, len(pos)-1)
	for i := range rest {
		rest[i] = 1
	}
	return sim.Frame{
		Time:   t,
		Chains: []sim.ChainFrame{{Root: 1, Positions: pos, RestLengths: rest}},
	}
}

func TestStretch(t *testing.T) {
	m := NewStretch()
	m.Observe(frame(0, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, -1, 0}))
	if m.Value() != 0 {
		t.Errorf("expected no stretch at rest, got %f", m.Value())
	}

	m.Observe(frame(1, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, -1.5, 0}))
	m.Observe(frame(2, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, -1.2, 0}))
	if math.Abs(m.Value()-0.5) > 1e-6 {
		t.Errorf("expected worst stretch 0.5, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("reset should clear stretch")
	}
}

func TestSag(t *testing.T) {
	m := NewSag()
	m.Observe(frame(0, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}))
	m.Observe(frame(1, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, -1, 0}))

	if math.Abs(m.Value()-1) > 1e-6 {
		t.Errorf("expected sag 1, got %f", m.Value())
	}
}

func TestMotion(t *testing.T) {
	m := NewMotion()
	m.Observe(frame(0, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, -1, 0}))
	if m.Value() != 0 {
		t.Errorf("first frame has no velocity, got %f", m.Value())
	}

	// Leaf moves 1 unit in 0.5s: v = 2, ke = 2.
	m.Observe(frame(0.5, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, -1, 0}))
	if math.Abs(m.Value()-2) > 1e-6 {
		t.Errorf("expected kinetic energy 2, got %f", m.Value())
	}
}

func TestStability(t *testing.T) {
	m := NewStability(10)
	m.Observe(frame(0, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, -1, 0}))
	m.Observe(frame(1, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, -100, 0}))

	if math.Abs(m.Value()-0.5) > 1e-9 {
		t.Errorf("expected stability 0.5, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 1 {
		t.Errorf("empty stability should be 1, got %f", m.Value())
	}
}
