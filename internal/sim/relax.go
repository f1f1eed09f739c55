package sim

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/chainsim/internal/dynamo"
)

// Positions reads and writes resolved entity positions.
type Positions interface {
	WorldPosition(e dynamo.Entity) mgl32.Vec3
	SetWorldPosition(e dynamo.Entity, p mgl32.Vec3)
}

// Relax applies one correction to the constraint between e and its
// predecessor. The correction is split evenly between both ends unless the
// predecessor is the chain root, which never moves.
func Relax(p Positions, e dynamo.Entity, c dynamo.DistanceConstraint) {
	a := p.WorldPosition(e)
	b := p.WorldPosition(c.Predecessor)

	vec := b.Sub(a)
	violation := vec.Len() - c.RestLength
	adjust := dynamo.NormalizeSafe(vec).Mul(violation)

	if c.AnchoredToRoot {
		p.SetWorldPosition(e, a.Add(adjust))
		return
	}

	adjust = adjust.Mul(0.5)
	p.SetWorldPosition(e, a.Add(adjust))
	p.SetWorldPosition(c.Predecessor, b.Sub(adjust))
}
