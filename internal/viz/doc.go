// Package viz is the terminal live view for gravity and bounce simulations.
//
// [Model] is a Bubble Tea program that advances a [sim.Runner] from a frame
// timer and draws it on a braille [Canvas]: every body as a filled disc in
// its own colour, a fading trail, and a ground grid for 3D systems, either
// top-down or through an orbiting perspective [Camera]. [Picker] puts a
// preset menu in front of it.
//
// # Key Bindings
//
//	Space  - Pause/Resume
//	R      - Reset to the initial bodies
//	+/-    - Double/halve the speed-up
//	Arrows - Pan (orbit in perspective)
//	Z/X    - Zoom in/out
//	V      - Toggle perspective for 3D systems
//	T      - Cycle colour themes
//	G      - Start/stop GIF recording
//	Q/Esc  - Quit
//
// Recordings are written to gravsim.gif unless [WithGIFPath] says otherwise.
package viz
