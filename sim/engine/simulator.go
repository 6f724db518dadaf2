package engine

import (
	"fmt"
	"math/rand"
)

// Simulator drives the vacancy walk. Each simulator owns its random
// source, so concurrent simulators never share generator state and a
// fixed seed replays the exact same walk.
type Simulator struct {
	seed int64
	rng  *rand.Rand
}

// NewSimulator creates a simulator seeded with the given value. The same
// seed always produces the same walk.
func NewSimulator(seed int64) *Simulator {
	return &Simulator{
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// NewEntropySimulator creates a simulator seeded from the operating
// system's entropy source.
func NewEntropySimulator() (*Simulator, error) {
	seed, err := NewSeed()
	if err != nil {
		return nil, err
	}
	return NewSimulator(seed), nil
}

// Seed returns the seed this simulator was created with.
func (s *Simulator) Seed() int64 {
	return s.seed
}

// Advance runs a chunk of iterations against caller-owned board and
// tally state. Each iteration draws uniform values until a move is
// accepted, then records the vacancy position the move ended at.
//
// The draw is quartered into the four directions in fixed order: up,
// down, left, right. A rejected draw is discarded and redrawn, which
// leaves acceptance uniform over the legal directions of the current
// cell. At least two directions are legal from every cell, so the
// redraw loop terminates with probability one; there is no draw cap.
func (s *Simulator) Advance(board *Board, tally *Tally, steps uint64) {
	for i := uint64(0); i < steps; i++ {
		for {
			v := s.rng.Float64()
			var err error
			switch {
			case v < 0.25:
				err = board.MoveUp()
			case v < 0.5:
				err = board.MoveDown()
			case v < 0.75:
				err = board.MoveLeft()
			default:
				err = board.MoveRight()
			}
			if err == nil {
				break
			}
		}
		tally.Record(board.Position())
	}
}

// Run walks the vacancy from the given start cell for the given number
// of iterations and returns the occupancy result. The start position is
// validated, never recorded; the first recorded position is the landing
// cell of the first accepted move.
func (s *Simulator) Run(startX, startY int, iterations uint64) (*Result, error) {
	board, err := NewBoard(startX, startY)
	if err != nil {
		return nil, err
	}
	if iterations < MinIterations {
		return nil, fmt.Errorf("simulator: iterations must be at least %d, got %d", MinIterations, iterations)
	}
	if iterations > MaxIterations {
		return nil, fmt.Errorf("simulator: iterations must be at most %d, got %d", uint64(MaxIterations), iterations)
	}

	tally := NewTally()
	s.Advance(board, tally, iterations)

	return NewResult(Position{X: startX, Y: startY}, s.seed, tally)
}

// NewResult packages a finished tally into a result. The tally of a
// completed run is never empty, so a distribution error here means the
// run accounting itself broke.
func NewResult(start Position, seed int64, tally *Tally) (*Result, error) {
	occupancy, err := tally.Distribution()
	if err != nil {
		return nil, err
	}
	return &Result{
		Start:      start,
		Iterations: tally.Iterations(),
		Seed:       seed,
		Counts:     tally.Counts(),
		Occupancy:  occupancy,
	}, nil
}

// Simulate is the one-call entry point: an entropy-seeded simulator
// running a single walk.
func Simulate(startX, startY int, iterations uint64) (*Result, error) {
	sim, err := NewEntropySimulator()
	if err != nil {
		return nil, err
	}
	return sim.Run(startX, startY, iterations)
}

// Result summarizes a completed run: where the walk started, how many
// iterations it recorded, the seed that drove it, and the per-cell
// occupancy it measured.
type Result struct {
	Start      Position          `json:"start"`
	Iterations uint64            `json:"iterations"`
	Seed       int64             `json:"seed"`
	Counts     [CellCount]uint64 `json:"counts"`
	Occupancy  Distribution      `json:"occupancy"`
}

// Tally reconstructs a tally from the recorded counts, for merging
// results of independent runs.
func (r *Result) Tally() *Tally {
	t := NewTally()
	t.counts = r.Counts
	t.iterations = r.Iterations
	return t
}

// String renders the occupancy distribution, one "In <label>: <value>"
// line per cell.
func (r *Result) String() string {
	return r.Occupancy.String()
}
