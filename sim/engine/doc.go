// Package engine provides the core simulation logic for the vacancy
// diffusion simulator.
//
// The engine package implements the simulation mechanics including:
//   - The fixed 2x3 board and vacancy movement rules
//   - Rejection-sampled random walks with per-instance RNG
//   - Occupancy tallies and long-run distribution estimates
//   - Scenario loading and validation
//
// Core Types:
//
// Board holds the vacancy position on the fixed grid and enforces the
// movement rules. Simulator owns a random source and drives the walk,
// recording every accepted move into a Tally. Result bundles the counts,
// the occupancy Distribution, and the seed that produced them. Scenario
// describes a run preset loaded from JSON files.
//
// Usage:
//
//	sim, err := engine.NewEntropySimulator()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := sim.Run(0, 0, 100_000_000)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(result)
//
// Simulation Rules:
//
// Every cell of the board is occupied except one, the vacancy. Each
// iteration draws a uniform value in [0,1) and quarters it into the four
// directions (up, down, left, right). A draw that picks an illegal move is
// rejected and redrawn; the iteration completes only when a move is
// accepted, which makes acceptance uniform over the legal directions of
// the current cell. The tally records the vacancy position after every
// accepted move, and the occupancy distribution is the per-cell fraction
// of recorded positions.
package engine
