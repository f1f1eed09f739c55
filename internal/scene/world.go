package scene

import (
	"fmt"
	"sort"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/chainsim/internal/dynamo"
)

// Transform is an entity's placement relative to its parent.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    float32
}

// FromPosition returns a translation-only transform.
func FromPosition(p mgl32.Vec3) Transform {
	return Transform{Position: p, Rotation: mgl32.QuatIdent(), Scale: 1}
}

// Matrix composes translation, rotation and uniform scale.
func (t Transform) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Position[0], t.Position[1], t.Position[2]).
		Mul4(t.Rotation.Mat4()).
		Mul4(mgl32.Scale3D(t.Scale, t.Scale, t.Scale))
}

// World is the host scene: a transform hierarchy plus one component store
// per chain data type.
type World struct {
	mu       sync.RWMutex
	frame    sync.Mutex
	next     dynamo.Entity
	names    map[dynamo.Entity]string
	locals   map[dynamo.Entity]Transform
	parents  map[dynamo.Entity]dynamo.Entity
	children map[dynamo.Entity][]dynamo.Entity

	Roots       *Store[dynamo.ChainRoot]
	Links       *Store[dynamo.RawChainLink]
	Nodes       *Store[dynamo.ChainNode]
	Constraints *Store[dynamo.DistanceConstraint]
}

func NewWorld() *World {
	return &World{
		names:       make(map[dynamo.Entity]string),
		locals:      make(map[dynamo.Entity]Transform),
		parents:     make(map[dynamo.Entity]dynamo.Entity),
		children:    make(map[dynamo.Entity][]dynamo.Entity),
		Roots:       NewStore[dynamo.ChainRoot](),
		Links:       NewStore[dynamo.RawChainLink](),
		Nodes:       NewStore[dynamo.ChainNode](),
		Constraints: NewStore[dynamo.DistanceConstraint](),
	}
}

// LockFrame serialises structural batches against solver ticks.
func (w *World) LockFrame()   { w.frame.Lock() }
func (w *World) UnlockFrame() { w.frame.Unlock() }

// Spawn creates an unparented entity.
func (w *World) Spawn(name string, local Transform) dynamo.Entity {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.next++
	e := w.next
	if local.Scale == 0 {
		local.Scale = 1
	}
	if local.Rotation.Len() == 0 {
		local.Rotation = mgl32.QuatIdent()
	}
	w.names[e] = name
	w.locals[e] = local
	return e
}

func (w *World) Exists(e dynamo.Entity) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.locals[e]
	return ok
}

func (w *World) Name(e dynamo.Entity) string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.names[e]
}

// Entities returns every entity in creation order.
func (w *World) Entities() []dynamo.Entity {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]dynamo.Entity, 0, len(w.locals))
	for e := range w.locals {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SetParent attaches child under parent, keeping child's local transform.
func (w *World) SetParent(child, parent dynamo.Entity) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.locals[child]; !ok {
		return fmt.Errorf("set parent of %d: %w", child, dynamo.ErrUnknownEntity)
	}
	if _, ok := w.locals[parent]; !ok {
		return fmt.Errorf("set parent %d: %w", parent, dynamo.ErrUnknownEntity)
	}
	for p, ok := parent, true; ok; p, ok = w.parents[p] {
		if p == child {
			return fmt.Errorf("set parent of %d to %d: hierarchy cycle", child, parent)
		}
	}

	w.unlinkLocked(child)
	w.parents[child] = parent
	w.children[parent] = append(w.children[parent], child)
	return nil
}

func (w *World) Parent(e dynamo.Entity) (dynamo.Entity, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	p, ok := w.parents[e]
	return p, ok
}

// Children returns e's children in attach order.
func (w *World) Children(e dynamo.Entity) []dynamo.Entity {
	w.mu.RLock()
	defer w.mu.RUnlock()
	src := w.children[e]
	out := make([]dynamo.Entity, len(src))
	copy(out, src)
	return out
}

// Detach drops e's parent and child links. Former children become roots of
// the hierarchy with their local transforms untouched.
func (w *World) Detach(e dynamo.Entity) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.unlinkLocked(e)
	for _, c := range w.children[e] {
		delete(w.parents, c)
	}
	delete(w.children, e)
}

func (w *World) unlinkLocked(e dynamo.Entity) {
	p, ok := w.parents[e]
	if !ok {
		return
	}
	siblings := w.children[p]
	for i, s := range siblings {
		if s == e {
			w.children[p] = append(siblings[:i:i], siblings[i+1:]...)
			break
		}
	}
	if len(w.children[p]) == 0 {
		delete(w.children, p)
	}
	delete(w.parents, e)
}

func (w *World) Local(e dynamo.Entity) (Transform, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	t, ok := w.locals[e]
	return t, ok
}

func (w *World) LocalPosition(e dynamo.Entity) mgl32.Vec3 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.locals[e].Position
}

// SetLocalPosition replaces e's local transform with a translation to p.
func (w *World) SetLocalPosition(e dynamo.Entity, p mgl32.Vec3) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.locals[e]; !ok {
		return
	}
	w.locals[e] = FromPosition(p)
}

// LocalToWorld resolves e's transform through all its ancestors.
func (w *World) LocalToWorld(e dynamo.Entity) mgl32.Mat4 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.localToWorldLocked(e)
}

func (w *World) localToWorldLocked(e dynamo.Entity) mgl32.Mat4 {
	m := w.locals[e].Matrix()
	for p, ok := w.parents[e]; ok; p, ok = w.parents[p] {
		m = w.locals[p].Matrix().Mul4(m)
	}
	return m
}

// WorldPosition returns e's resolved position. Unknown entities resolve to
// the origin.
func (w *World) WorldPosition(e dynamo.Entity) mgl32.Vec3 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if _, ok := w.locals[e]; !ok {
		return mgl32.Vec3{}
	}
	return w.localToWorldLocked(e).Col(3).Vec3()
}

// SetWorldPosition moves e so it resolves to p, keeping rotation and scale.
func (w *World) SetWorldPosition(e dynamo.Entity, p mgl32.Vec3) {
	w.mu.Lock()
	defer w.mu.Unlock()

	t, ok := w.locals[e]
	if !ok {
		return
	}
	if parent, ok := w.parents[e]; ok {
		p = mgl32.TransformCoordinate(p, w.localToWorldLocked(parent).Inv())
	}
	t.Position = p
	w.locals[e] = t
}
