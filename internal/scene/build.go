package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/chainsim/internal/dynamo"
)

// HangingSpec describes an authored chain hierarchy hanging from a root.
type HangingSpec struct {
	Name    string
	Origin  mgl32.Vec3
	Nodes   int     // root included
	Spacing float32 // distance between consecutive nodes
	Tilt    float32 // degrees about Z applied to the root
}

// BuildHanging spawns a parented chain: each node sits Spacing below its
// parent in the parent's frame. Returns the root.
func BuildHanging(w *World, spec HangingSpec) (dynamo.Entity, error) {
	if spec.Nodes < 1 {
		return 0, fmt.Errorf("hanging chain needs at least one node, got %d", spec.Nodes)
	}
	if spec.Spacing < 0 {
		return 0, fmt.Errorf("hanging chain spacing must be non-negative, got %f", spec.Spacing)
	}
	name := spec.Name
	if name == "" {
		name = "chain"
	}

	root := w.Spawn(name, Transform{
		Position: spec.Origin,
		Rotation: mgl32.QuatRotate(mgl32.DegToRad(spec.Tilt), mgl32.Vec3{0, 0, 1}),
		Scale:    1,
	})

	prev := root
	for i := 1; i < spec.Nodes; i++ {
		e := w.Spawn(fmt.Sprintf("%s.%d", name, i), FromPosition(mgl32.Vec3{0, -spec.Spacing, 0}))
		if err := w.SetParent(e, prev); err != nil {
			return 0, err
		}
		prev = e
	}
	return root, nil
}
