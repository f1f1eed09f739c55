package metrics

import (
	"github.com/san-kum/chainsim/internal/dynamo"
	"github.com/san-kum/chainsim/internal/sim"
)

// Sag reports how far leaves have dropped below their starting height,
// averaged over chains, as of the latest frame.
type Sag struct {
	name    string
	start   map[dynamo.Entity]float32
	current float64
}

func NewSag() *Sag {
	return &Sag{name: "leaf_sag", start: make(map[dynamo.Entity]float32)}
}

func (s *Sag) Name() string { return s.name }

func (s *Sag) Observe(f sim.Frame) {
	if len(f.Chains) == 0 {
		return
	}
	total := 0.0
	for _, c := range f.Chains {
		y := c.Leaf().Y()
		y0, ok := s.start[c.Root]
		if !ok {
			s.start[c.Root] = y
			y0 = y
		}
		total += float64(y0 - y)
	}
	s.current = total / float64(len(f.Chains))
}

func (s *Sag) Value() float64 { return s.current }

func (s *Sag) Reset() {
	s.start = make(map[dynamo.Entity]float32)
	s.current = 0
}
