package sim_test

import (
	"github.com/go-gl/mathgl/mgl32"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/chainsim/internal/bake"
	"github.com/san-kum/chainsim/internal/dynamo"
	"github.com/san-kum/chainsim/internal/scene"
	"github.com/san-kum/chainsim/internal/sim"
)

var _ = Describe("a four node chain hanging from the origin", func() {
	const dt = float32(1.0 / 60.0)

	var (
		world  *scene.World
		solver *sim.Solver
		chain  []dynamo.Entity
	)

	distance := func(a, b dynamo.Entity) float32 {
		return world.WorldPosition(a).Sub(world.WorldPosition(b)).Len()
	}

	BeforeEach(func() {
		world = scene.NewWorld()
		root, err := scene.BuildHanging(world, scene.HangingSpec{Nodes: 4, Spacing: 1})
		Expect(err).NotTo(HaveOccurred())

		chain = []dynamo.Entity{root}
		for e := root; len(world.Children(e)) > 0; {
			e = world.Children(e)[0]
			chain = append(chain, e)
		}

		Expect(bake.Author(world, root, 0.1)).To(Succeed())
		n, err := bake.Bake(world)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(1))

		solver = sim.NewSolver(world, nil, nil)
	})

	It("bakes unit rest lengths", func() {
		for _, e := range chain[1:] {
			c, ok := world.Constraints.Get(e)
			Expect(ok).To(BeTrue())
			Expect(c.RestLength).To(BeNumerically("~", 1.0, 1e-6))
		}
	})

	It("moves the leaf strictly between its position and the Verlet candidate", func() {
		leaf := chain[3]
		pos := world.WorldPosition(leaf)
		node, _ := world.Nodes.Get(leaf)
		next := pos.Mul(2).Sub(node.LastPosition).Add(dynamo.Gravity.Mul(dt * dt))

		solver.DriveRoots()
		Expect(solver.Integrate(dt)).To(Succeed())

		got := world.WorldPosition(leaf)
		Expect(got.Y()).To(BeNumerically("<", pos.Y()))
		Expect(got.Y()).To(BeNumerically(">", next.Y()))
		Expect(got.X()).To(BeNumerically("~", 0, 1e-6))

		blended := pos.Add(next.Sub(pos).Mul(0.9))
		Expect(near(got, blended, 1e-5)).To(BeTrue())
	})

	It("does not move the leaf link further from rest when relaxing", func() {
		solver.DriveRoots()
		Expect(solver.Integrate(dt)).To(Succeed())
		before := distance(chain[3], chain[2])

		Expect(solver.RelaxAll()).To(Succeed())
		after := distance(chain[3], chain[2])

		Expect(mgl32.Abs(after - 1)).To(BeNumerically("<=", mgl32.Abs(before-1)+1e-6))
	})

	It("shortens the stretched root link without moving the root", func() {
		solver.DriveRoots()
		Expect(solver.Integrate(dt)).To(Succeed())
		stretched := distance(chain[1], chain[0])
		Expect(stretched).To(BeNumerically(">", 1.001))

		Expect(solver.RelaxAll()).To(Succeed())
		Expect(distance(chain[1], chain[0])).To(BeNumerically("<", stretched))
		Expect(world.WorldPosition(chain[0])).To(Equal(mgl32.Vec3{0, 0, 0}))
	})

	It("keeps every link near rest length over a second of ticks", func() {
		for i := 0; i < 60; i++ {
			Expect(solver.Tick(dt)).To(Succeed())
		}
		frame := solver.Frame(1)
		Expect(frame.Chains).To(HaveLen(1))
		Expect(frame.Chains[0].Stretch()).To(BeNumerically("<", 0.05))
		Expect(frame.State().IsValid()).To(BeTrue())
	})

	It("stores mass without it affecting the motion", func() {
		heavy := scene.NewWorld()
		root, _ := scene.BuildHanging(heavy, scene.HangingSpec{Nodes: 4, Spacing: 1})
		Expect(bake.Author(heavy, root, 0.1)).To(Succeed())
		_, err := bake.Bake(heavy)
		Expect(err).NotTo(HaveOccurred())
		for _, e := range heavy.Nodes.Entities() {
			heavy.Nodes.Update(e, func(n *dynamo.ChainNode) { n.Mass = 2 })
		}
		heavySolver := sim.NewSolver(heavy, nil, nil)

		for i := 0; i < 10; i++ {
			Expect(solver.Tick(dt)).To(Succeed())
			Expect(heavySolver.Tick(dt)).To(Succeed())
		}
		Expect(heavySolver.Frame(0).State()).To(Equal(solver.Frame(0).State()))
	})
})

func near(a, b mgl32.Vec3, tol float32) bool {
	return a.Sub(b).Len() <= tol
}
