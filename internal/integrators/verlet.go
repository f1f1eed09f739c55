package integrators

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/chainsim/internal/dynamo"
)

// Integrator advances one chain node by dt.
type Integrator interface {
	Step(pos mgl32.Vec3, node *dynamo.ChainNode, dt float32) mgl32.Vec3
}

// Verlet is position Verlet under constant gravity, blended toward rest by
// the node's damping factor.
type Verlet struct {
	Gravity mgl32.Vec3
}

func NewVerlet() *Verlet {
	return &Verlet{Gravity: dynamo.Gravity}
}

// Step returns the node's next position and records pos as its history.
// Damping 0 keeps the full Verlet motion, damping 1 freezes the node.
func (v *Verlet) Step(pos mgl32.Vec3, node *dynamo.ChainNode, dt float32) mgl32.Vec3 {
	// Force is scaled by mass and divided back out, so mass has no effect.
	force := v.Gravity.Mul(node.Mass)
	accel := force.Mul(1 / node.Mass)

	next := pos.Mul(2).Sub(node.LastPosition).Add(accel.Mul(dt * dt))
	node.LastPosition = pos

	movement := next.Sub(pos)
	return pos.Add(movement.Mul(1 - node.Damping))
}
