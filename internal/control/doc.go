// Package control owns the anchor positions chain roots are pinned to.
//
// [Points] holds one control position per root. The solver lazily adopts a
// root's current position the first time it sees it and afterwards forces
// the root onto its control point every tick. Drivers move the points:
//
//   - [None]: points stay where they were initialised
//   - [Sway]: sinusoidal oscillation along one axis
//   - [Manual]: offset set interactively
//
// # Usage
//
//	points := control.NewPoints()
//	sway, _ := control.NewSway(1.0, 0.5, "x")
//	sway.Update(points, t) // before each solver tick
package control
