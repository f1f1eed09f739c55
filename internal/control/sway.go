package control

import (
	"fmt"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/chainsim/internal/dynamo"
)

// Sway oscillates each control point sinusoidally around the position it
// had when Sway first saw it.
type Sway struct {
	Amplitude float64
	Frequency float64 // Hz

	mu      sync.Mutex
	axis    mgl32.Vec3
	anchors map[dynamo.Entity]mgl32.Vec3
}

func NewSway(amplitude, frequency float64, axis string) (*Sway, error) {
	var dir mgl32.Vec3
	switch axis {
	case "", "x":
		dir = mgl32.Vec3{1, 0, 0}
	case "y":
		dir = mgl32.Vec3{0, 1, 0}
	case "z":
		dir = mgl32.Vec3{0, 0, 1}
	default:
		return nil, fmt.Errorf("unknown sway axis: %s", axis)
	}
	return &Sway{
		Amplitude: amplitude,
		Frequency: frequency,
		axis:      dir,
		anchors:   make(map[dynamo.Entity]mgl32.Vec3),
	}, nil
}

func (s *Sway) Update(points *Points, t float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	offset := float32(s.Amplitude * math.Sin(2*math.Pi*s.Frequency*t))
	for _, root := range points.Roots() {
		anchor, ok := s.anchors[root]
		if !ok {
			anchor, _ = points.Get(root)
			s.anchors[root] = anchor
		}
		points.Set(root, anchor.Add(s.axis.Mul(offset)))
	}
}
