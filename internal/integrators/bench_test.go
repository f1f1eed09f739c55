package integrators

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/chainsim/internal/dynamo"
)

func BenchmarkVerlet(b *testing.B) {
	v := NewVerlet()
	node := &dynamo.ChainNode{Mass: 1, Damping: 0.05}
	pos := mgl32.Vec3{0, 0, 0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pos = v.Step(pos, node, 1.0/60.0)
	}
}
