package sim

import (
	"errors"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/chainsim/internal/control"
	"github.com/san-kum/chainsim/internal/dynamo"
	"github.com/san-kum/chainsim/internal/integrators"
	"github.com/san-kum/chainsim/internal/scene"
)

// Chain is a root and its baked members in root-to-leaf order.
type Chain struct {
	Root    dynamo.Entity
	Members []dynamo.Entity
}

// Solver steps every baked chain in a world.
//
// Each tick drives roots onto their control points, integrates every node
// and runs Iterations relaxation passes. Chains are processed in parallel;
// within a chain relaxation is sequential from root to leaf, since adjacent
// constraints share a node.
type Solver struct {
	world      *scene.World
	points     *control.Points
	integrator integrators.Integrator

	Iterations int
	Workers    int
}

func NewSolver(w *scene.World, points *control.Points, integ integrators.Integrator) *Solver {
	if points == nil {
		points = control.NewPoints()
	}
	if integ == nil {
		integ = integrators.NewVerlet()
	}
	return &Solver{
		world:      w,
		points:     points,
		integrator: integ,
		Iterations: 1,
		Workers:    1,
	}
}

func (s *Solver) World() *scene.World     { return s.world }
func (s *Solver) Points() *control.Points { return s.points }

// Chains groups baked nodes by root. Roots without nodes yield empty chains.
func (s *Solver) Chains() []Chain {
	byRoot := make(map[dynamo.Entity][]dynamo.Entity)
	index := make(map[dynamo.Entity]int)
	for _, e := range s.world.Nodes.Entities() {
		node, _ := s.world.Nodes.Get(e)
		byRoot[node.Root] = append(byRoot[node.Root], e)
		index[e] = node.Index
	}

	roots := s.world.Roots.Entities()
	chains := make([]Chain, 0, len(roots))
	for _, r := range roots {
		members := byRoot[r]
		sort.Slice(members, func(i, j int) bool { return index[members[i]] < index[members[j]] })
		chains = append(chains, Chain{Root: r, Members: members})
	}
	return chains
}

// Tick advances every chain by dt under the world's frame lock.
func (s *Solver) Tick(dt float32) error {
	s.world.LockFrame()
	defer s.world.UnlockFrame()

	chains := s.Chains()
	s.driveAll(chains)
	if err := s.each(chains, func(c Chain) error { return s.integrate(c, dt) }); err != nil {
		return err
	}
	for i := 0; i < s.Iterations; i++ {
		if err := s.each(chains, s.relax); err != nil {
			return err
		}
	}
	return nil
}

// DriveRoots pins every root onto its control point.
func (s *Solver) DriveRoots() {
	s.world.LockFrame()
	defer s.world.UnlockFrame()
	s.driveAll(s.Chains())
}

// Integrate runs one Verlet pass over every node.
func (s *Solver) Integrate(dt float32) error {
	s.world.LockFrame()
	defer s.world.UnlockFrame()
	return s.each(s.Chains(), func(c Chain) error { return s.integrate(c, dt) })
}

// RelaxAll runs a single relaxation pass over every constraint.
func (s *Solver) RelaxAll() error {
	s.world.LockFrame()
	defer s.world.UnlockFrame()
	return s.each(s.Chains(), s.relax)
}

func (s *Solver) each(chains []Chain, fn func(Chain) error) error {
	errs := make([]error, len(chains))
	dynamo.ParallelFor(len(chains), 1, s.Workers, func(start, end int) {
		for i := start; i < end; i++ {
			errs[i] = fn(chains[i])
		}
	})
	return errors.Join(errs...)
}

func (s *Solver) driveAll(chains []Chain) {
	dynamo.ParallelFor(len(chains), 1, s.Workers, func(start, end int) {
		for i := start; i < end; i++ {
			s.drive(chains[i])
		}
	})
}

func (s *Solver) drive(c Chain) {
	pos := s.points.Resolve(c.Root, s.world.WorldPosition(c.Root))
	s.world.SetWorldPosition(c.Root, pos)
}

func (s *Solver) integrate(c Chain, dt float32) error {
	for _, e := range c.Members {
		pos := s.world.WorldPosition(e)
		var next mgl32.Vec3
		s.world.Nodes.Update(e, func(n *dynamo.ChainNode) {
			next = s.integrator.Step(pos, n, dt)
		})
		s.world.SetWorldPosition(e, next)
	}
	return nil
}

func (s *Solver) relax(c Chain) error {
	for _, e := range c.Members {
		con, ok := s.world.Constraints.Get(e)
		if !ok {
			continue
		}
		if !s.world.Exists(con.Predecessor) {
			return &dynamo.ChainError{Root: c.Root, Entity: e, Wrapped: dynamo.ErrMissingPredecessor}
		}
		Relax(s.world, e, con)
	}
	return nil
}

// Frame captures every chain's positions, root first.
func (s *Solver) Frame(t float64) Frame {
	chains := s.Chains()
	f := Frame{Time: t, Chains: make([]ChainFrame, len(chains))}
	for i, c := range chains {
		cf := ChainFrame{
			Root:        c.Root,
			Positions:   make([]mgl32.Vec3, 0, len(c.Members)+1),
			RestLengths: make([]float32, 0, len(c.Members)),
		}
		cf.Positions = append(cf.Positions, s.world.WorldPosition(c.Root))
		for _, e := range c.Members {
			cf.Positions = append(cf.Positions, s.world.WorldPosition(e))
			con, _ := s.world.Constraints.Get(e)
			cf.RestLengths = append(cf.RestLengths, con.RestLength)
		}
		f.Chains[i] = cf
	}
	return f
}
