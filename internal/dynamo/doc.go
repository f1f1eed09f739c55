// Package dynamo provides the core data model for chain simulation.
//
// A chain is a root entity followed by nodes, each tied to its predecessor
// by a distance constraint:
//
//   - [ChainRoot]: head of a chain, carries the authored damping
//   - [ChainNode]: Verlet state (previous position, mass, damping)
//   - [DistanceConstraint]: rest length to the predecessor
//   - [RawChainLink]: authored root-to-leaf walk consumed at bake time
//
// Entities are plain integer identities; predecessor references are lookup
// keys and never own the entity they point at.
//
// All vector math is single precision using mgl32.
package dynamo
