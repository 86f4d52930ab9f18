// Package cellauto evolves one-dimensional binary cellular automata, measures
// how their live population grows and recognizes the segments each
// neighbourhood produces.
//
// 🚀 What is cellauto?
//
//	A small, deterministic engine plus the plumbing to run it at scale:
//		• Rules: flat quadruplet specifications or Wolfram numbers 0..255
//		• Generation: two interchangeable canvas layouts, optional light-cone boost
//		• Growth: per-row samples, mean, standard deviation and sigma bands
//		• Recognition: segment frequencies and parent→segment derivations
//		• Hand-off: opaque handles for every buffer given to a host
//		• Batch: concurrent independent runs with a BadgerDB canvas cache
//
// Under the hood, everything is organized by concern:
//
//	cell/       the binary state and the two core error kinds
//	canvas/     row-major grid with bounds-checked access
//	rule/       neighbourhood lookup table
//	lightcone/  the boost window shared by generation and recognition
//	evolve/     the evolution engine
//	growth/     growth statistics
//	recognize/  segment recognition and collision-free keys
//	handoff/    handle registry
//	kernel/     generate / stats / recognize / release for a host
//	seed/       initial-row patterns
//	store/      BadgerDB canvas cache
//	batch/      concurrent runner, benchmark, OpenTelemetry instruments
//	telemetry/  OpenTelemetry providers for the stdout exporter
//	config/     YAML and environment configuration
//	cmd/cellauto the command-line host
//
// Quick ASCII example (rule 90, one live cell):
//
//	....#....
//	...#.#...
//	..#...#..
//	.#.#.#.#.
//	#.......#
//
//	go install github.com/katalvlaran/cellauto/cmd/cellauto@latest
package cellauto
