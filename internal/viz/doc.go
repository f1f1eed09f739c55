// Package viz provides the terminal live view of a chain world.
//
// The view is a Bubble Tea program that steps the solver at 60Hz and draws
// every chain on a Braille [Canvas] through an orbiting [Camera]. Roots
// follow the manual driver unless the config names another one.
//
// # Key Bindings
//
//	Space  - Pause/Resume simulation
//	Arrows - Move the roots in X/Y (, and . for Z)
//	I      - Cycle relaxation passes per tick
//	R      - Rebuild the world
//	T      - Cycle color themes
//	G      - Toggle GIF recording
//	?      - Show help overlay
//	[]     - Time travel (rewind/forward)
//
// # Recording
//
// G toggles recording; the frames are written to chainsim.gif in the
// current directory when recording stops.
package viz
