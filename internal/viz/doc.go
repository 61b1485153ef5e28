// Package viz provides the live terminal view of a running simulation.
//
// [Model] is a Bubble Tea model that advances a [sim.Simulator] a few steps
// per tick message and renders:
//
//   - the XY path on a [Canvas], a braille raster with 2x4 dots per cell
//   - wheel speed history as an asciigraph chart
//   - pose, commands and tunable control law parameters
//
// # Key Bindings
//
//	Space  - Pause/Resume simulation
//	N      - Single step while paused
//	+/-    - Steps per frame
//	Tab    - Select parameter, J/K tune it
//	Arrows - Drive a manual control law, S stops
//	T      - Cycle color themes
//	?      - Show help overlay
//
// [sim.Simulator]: github.com/san-kum/diffsim/internal/sim.Simulator
package viz
