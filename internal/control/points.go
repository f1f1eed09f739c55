package control

import (
	"sort"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/chainsim/internal/dynamo"
)

// Points maps each chain root to the position it is anchored at.
type Points struct {
	mu     sync.RWMutex
	points map[dynamo.Entity]mgl32.Vec3
}

func NewPoints() *Points {
	return &Points{points: make(map[dynamo.Entity]mgl32.Vec3)}
}

// Resolve returns root's control position, first adopting current if the
// root has none yet.
func (p *Points) Resolve(root dynamo.Entity, current mgl32.Vec3) mgl32.Vec3 {
	p.mu.Lock()
	defer p.mu.Unlock()
	pos, ok := p.points[root]
	if !ok {
		p.points[root] = current
		return current
	}
	return pos
}

func (p *Points) Get(root dynamo.Entity) (mgl32.Vec3, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	pos, ok := p.points[root]
	return pos, ok
}

func (p *Points) Set(root dynamo.Entity, pos mgl32.Vec3) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.points[root] = pos
}

// Move shifts an initialised control point. Reports false for unknown roots.
func (p *Points) Move(root dynamo.Entity, delta mgl32.Vec3) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	pos, ok := p.points[root]
	if !ok {
		return false
	}
	p.points[root] = pos.Add(delta)
	return true
}

// Roots lists roots with a control point, ascending.
func (p *Points) Roots() []dynamo.Entity {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]dynamo.Entity, 0, len(p.points))
	for r := range p.points {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Reset forgets every control point.
func (p *Points) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.points = make(map[dynamo.Entity]mgl32.Vec3)
}
