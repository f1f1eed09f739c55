package metrics

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/chainsim/internal/sim"
)

// Motion is the mean kinetic energy per frame, estimated from the position
// change between consecutive frames with unit node mass.
type Motion struct {
	name    string
	prev    []mgl32.Vec3
	prevT   float64
	samples int
	total   float64
}

func NewMotion() *Motion {
	return &Motion{name: "kinetic_energy"}
}

func (m *Motion) Name() string { return m.name }

func (m *Motion) Observe(f sim.Frame) {
	cur := make([]mgl32.Vec3, 0, f.Count())
	for _, c := range f.Chains {
		cur = append(cur, c.Positions...)
	}
	defer func() { m.prev, m.prevT = cur, f.Time }()

	dt := f.Time - m.prevT
	if m.prev == nil || len(m.prev) != len(cur) || dt <= 0 {
		return
	}

	ke := 0.0
	for i := range cur {
		v := float64(cur[i].Sub(m.prev[i]).Len()) / dt
		ke += 0.5 * v * v
	}
	m.total += ke
	m.samples++
}

func (m *Motion) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *Motion) Reset() {
	m.prev = nil
	m.prevT = 0
	m.samples = 0
	m.total = 0
}
