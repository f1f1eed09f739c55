package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/chainsim/internal/dynamo"
)

func TestStore_SetGetRemove(t *testing.T) {
	s := NewStore[dynamo.ChainRoot]()
	s.Set(3, dynamo.ChainRoot{Damping: 0.5})
	s.Set(1, dynamo.ChainRoot{Damping: 0.1})

	if s.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", s.Count())
	}
	if got, ok := s.Get(3); !ok || got.Damping != 0.5 {
		t.Errorf("Get(3) = %v, %v", got, ok)
	}
	if ents := s.Entities(); ents[0] != 1 || ents[1] != 3 {
		t.Errorf("Entities() = %v, want ascending", ents)
	}

	if !s.Update(1, func(r *dynamo.ChainRoot) { r.Damping = 0.9 }) {
		t.Error("Update reported missing component")
	}
	if got, _ := s.Get(1); got.Damping != 0.9 {
		t.Errorf("Update not applied: %v", got)
	}
	if s.Update(7, func(*dynamo.ChainRoot) {}) {
		t.Error("Update on absent entity reported success")
	}

	s.Remove(3)
	if s.Has(3) || s.Count() != 1 {
		t.Error("Remove did not delete component")
	}
	s.Remove(3)
}

func TestQuery_Intersection(t *testing.T) {
	w := NewWorld()
	w.Roots.Set(1, dynamo.ChainRoot{})
	w.Roots.Set(2, dynamo.ChainRoot{})
	w.Roots.Set(5, dynamo.ChainRoot{})
	w.Links.Set(5, dynamo.RawChainLink{})
	w.Links.Set(2, dynamo.RawChainLink{})
	w.Links.Set(9, dynamo.RawChainLink{})

	got := Query(w.Roots, w.Links)
	if len(got) != 2 || got[0] != 2 || got[1] != 5 {
		t.Errorf("Query = %v, want [2 5]", got)
	}
	if Query() != nil {
		t.Error("empty query should return nil")
	}
}

func TestCommandBuffer_Deferred(t *testing.T) {
	w := NewWorld()
	a := w.Spawn("a", Transform{})
	b := w.Spawn("b", FromPosition(mgl32.Vec3{0, -1, 0}))
	_ = w.SetParent(b, a)

	cb := NewCommandBuffer()
	AddComponent(cb, w.Nodes, b, dynamo.ChainNode{Mass: 1})
	cb.SetLocalPosition(b, mgl32.Vec3{4, 4, 4})
	cb.Detach(b)
	RemoveComponent(cb, w.Roots, a)
	w.Roots.Set(a, dynamo.ChainRoot{})

	if cb.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", cb.Len())
	}
	if w.Nodes.Has(b) {
		t.Fatal("component visible before playback")
	}
	if _, ok := w.Parent(b); !ok {
		t.Fatal("detach applied before playback")
	}

	cb.Playback(w)

	if !w.Nodes.Has(b) {
		t.Error("component missing after playback")
	}
	if _, ok := w.Parent(b); ok {
		t.Error("b still parented after playback")
	}
	if got := w.WorldPosition(b); got != (mgl32.Vec3{4, 4, 4}) {
		t.Errorf("b at %v after playback, want (4,4,4)", got)
	}
	if w.Roots.Has(a) {
		t.Error("root component not removed")
	}
	if cb.Len() != 0 {
		t.Error("buffer not emptied by playback")
	}
}
