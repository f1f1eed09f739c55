// Package bake turns an authored transform hierarchy into chain solver state.
//
// [Author] records the root-to-leaf walk of a linear hierarchy on its root.
// [Bake] then gives every non-root node a [dynamo.ChainNode] and a
// [dynamo.DistanceConstraint] measured from the current world positions,
// pins each node at its world position and detaches it from the hierarchy,
// so from then on only the solver moves it.
//
// Bake runs once per chain. A second bake finds the hierarchy links gone and
// fails with [dynamo.ErrAlreadyBaked].
package bake
