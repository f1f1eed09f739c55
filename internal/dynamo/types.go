package dynamo

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Entity identifies a positioned object in the host world. Zero is never
// handed out and means "no entity".
type Entity uint32

// Gravity is the constant acceleration applied to every chain node.
var Gravity = mgl32.Vec3{0, -10, 0}

// ChainRoot marks the head of a chain.
type ChainRoot struct {
	Damping float32
}

// RawChainLink is the authored root-to-leaf walk, root first. It only lives
// between authoring and bake.
type RawChainLink struct {
	Entities []Entity
}

// ChainNode is the Verlet state of a non-root chain member.
type ChainNode struct {
	LastPosition mgl32.Vec3
	Mass         float32
	Damping      float32
	Root         Entity
	Index        int // 1 for the node hanging from the root
}

// DistanceConstraint keeps a node at RestLength from its predecessor, the
// neighbour one step closer to the root. AnchoredToRoot is set when the
// predecessor carries no constraint of its own and must not be moved.
type DistanceConstraint struct {
	Predecessor    Entity
	RestLength     float32
	AnchoredToRoot bool
}

// NormalizeSafe returns v scaled to unit length, or the zero vector when v
// has no length.
func NormalizeSafe(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l == 0 {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}

// State is a flat snapshot of chain coordinates (x, y, z per entity).
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// AppendVec appends the three components of v.
func (s State) AppendVec(v mgl32.Vec3) State {
	return append(s, float64(v[0]), float64(v[1]), float64(v[2]))
}
