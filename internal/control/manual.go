package control

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/chainsim/internal/dynamo"
)

// Manual applies a user-set offset to every control point.
// Used for keyboard interaction in the live view.
type Manual struct {
	mu      sync.Mutex
	offset  mgl32.Vec3
	anchors map[dynamo.Entity]mgl32.Vec3
}

func NewManual() *Manual {
	return &Manual{anchors: make(map[dynamo.Entity]mgl32.Vec3)}
}

// Nudge shifts the offset by delta.
func (m *Manual) Nudge(delta mgl32.Vec3) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.offset = m.offset.Add(delta)
}

func (m *Manual) Offset() mgl32.Vec3 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.offset
}

func (m *Manual) Update(points *Points, _ float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, root := range points.Roots() {
		anchor, ok := m.anchors[root]
		if !ok {
			anchor, _ = points.Get(root)
			m.anchors[root] = anchor
		}
		points.Set(root, anchor.Add(m.offset))
	}
}
