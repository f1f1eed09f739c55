package metrics

import "github.com/san-kum/chainsim/internal/sim"

// Stretch reports the worst relative rest-length violation seen in any
// frame of the run.
type Stretch struct {
	name  string
	worst float64
}

func NewStretch() *Stretch {
	return &Stretch{name: "max_stretch"}
}

func (s *Stretch) Name() string { return s.name }

func (s *Stretch) Observe(f sim.Frame) {
	s.worst = max(s.worst, f.Stretch())
}

func (s *Stretch) Value() float64 { return s.worst }

func (s *Stretch) Reset() { s.worst = 0 }
