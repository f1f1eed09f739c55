package bake

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/chainsim/internal/dynamo"
	"github.com/san-kum/chainsim/internal/scene"
)

// Author marks root as the head of a floppy chain. It walks the hierarchy
// from root to the leaf by always descending to the only child and stores
// the walk on the root for Bake.
func Author(w *scene.World, root dynamo.Entity, friction float32) error {
	if !w.Exists(root) {
		return fmt.Errorf("author chain %d: %w", root, dynamo.ErrUnknownEntity)
	}
	if friction < 0 || friction > 1 {
		return &dynamo.ChainError{Root: root, Entity: root, Wrapped: dynamo.ErrDampingBounds}
	}
	if w.Roots.Has(root) && !w.Links.Has(root) {
		return &dynamo.ChainError{Root: root, Entity: root, Wrapped: dynamo.ErrAlreadyBaked}
	}

	walk := []dynamo.Entity{root}
	for e := root; ; {
		kids := w.Children(e)
		if len(kids) == 0 {
			break
		}
		if len(kids) > 1 {
			return &dynamo.ChainError{Root: root, Entity: e, Wrapped: dynamo.ErrBranchingChain}
		}
		e = kids[0]
		walk = append(walk, e)
	}

	w.Roots.Set(root, dynamo.ChainRoot{Damping: friction})
	w.Links.Set(root, dynamo.RawChainLink{Entities: walk})
	return nil
}

// Bake converts every authored chain into solver state. World positions are
// sampled before anything is detached; all changes go through one command
// buffer played back after every chain has been walked. On error nothing is
// applied. Returns the number of chains baked.
func Bake(w *scene.World) (int, error) {
	cb := scene.NewCommandBuffer()
	roots := scene.Query(w.Roots, w.Links)

	for _, root := range roots {
		if err := bakeChain(w, cb, root); err != nil {
			return 0, err
		}
	}

	cb.Playback(w)
	return len(roots), nil
}

func bakeChain(w *scene.World, cb *scene.CommandBuffer, root dynamo.Entity) error {
	rc, _ := w.Roots.Get(root)
	link, _ := w.Links.Get(root)

	if len(link.Entities) == 0 || link.Entities[0] != root {
		return &dynamo.ChainError{Root: root, Entity: root, Wrapped: dynamo.ErrNotAuthored}
	}

	prev := root
	prevPos := w.WorldPosition(root)
	for i, curr := range link.Entities[1:] {
		if !w.Exists(curr) {
			return &dynamo.ChainError{Root: root, Entity: curr, Wrapped: dynamo.ErrUnknownEntity}
		}
		if w.Nodes.Has(curr) || w.Constraints.Has(curr) {
			return &dynamo.ChainError{Root: root, Entity: curr, Wrapped: dynamo.ErrAlreadyBaked}
		}
		if p, ok := w.Parent(curr); !ok || p != prev {
			// The hierarchy link is the only source of the predecessor.
			return &dynamo.ChainError{Root: root, Entity: curr, Wrapped: dynamo.ErrAlreadyBaked}
		}

		pos := w.WorldPosition(curr)
		scene.AddComponent(cb, w.Nodes, curr, dynamo.ChainNode{
			LastPosition: pos,
			Mass:         1,
			Damping:      rc.Damping,
			Root:         root,
			Index:        i + 1,
		})
		scene.AddComponent(cb, w.Constraints, curr, dynamo.DistanceConstraint{
			Predecessor:    prev,
			RestLength:     distance(prevPos, pos),
			AnchoredToRoot: prev == root,
		})
		cb.SetLocalPosition(curr, pos)
		cb.Detach(curr)

		prev, prevPos = curr, pos
	}

	scene.RemoveComponent(cb, w.Links, root)
	return nil
}

func distance(a, b mgl32.Vec3) float32 {
	return b.Sub(a).Len()
}
