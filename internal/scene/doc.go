// Package scene is the host world the chain solver runs against.
//
// It provides the three collaborators a chain needs:
//
//   - a transform hierarchy resolving world positions ([World.WorldPosition])
//     with detach and position pinning
//   - per-type component storage ([Store]) with intersection queries ([Query])
//   - a deferred [CommandBuffer] applied atomically against solver ticks
package scene
