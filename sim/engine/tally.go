package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyTally is returned when a distribution is requested from a tally
// with no recorded iterations.
var ErrEmptyTally = errors.New("tally: no iterations recorded")

// Tally accumulates vacancy occupancy counts, one counter per cell in
// row-major order, plus the number of iterations recorded. The sum of the
// six counters always equals the iteration count.
type Tally struct {
	iterations uint64
	counts     [CellCount]uint64
}

// NewTally creates an empty tally.
func NewTally() *Tally {
	return &Tally{}
}

// Record counts one accepted move ending at p. A position off the board
// means the walk state is corrupted, and the tally must not absorb it:
// that is a panic, not an error.
func (t *Tally) Record(p Position) {
	if !p.InBounds() {
		panic(fmt.Sprintf("tally: position %s outside the %dx%d grid", p, BoardWidth, BoardHeight))
	}
	t.counts[p.Index()]++
	t.iterations++
}

// Iterations returns the number of recorded iterations.
func (t *Tally) Iterations() uint64 {
	return t.iterations
}

// Counts returns a copy of the six per-cell counters in row-major order.
func (t *Tally) Counts() [CellCount]uint64 {
	return t.counts
}

// Count returns the counter for a single cell index.
func (t *Tally) Count(index int) uint64 {
	if index < 0 || index >= CellCount {
		return 0
	}
	return t.counts[index]
}

// Merge adds another tally's counts into this one. Merging always sums
// raw counts; percentages from partial tallies must never be averaged.
func (t *Tally) Merge(other *Tally) {
	if other == nil {
		return
	}
	for i := range t.counts {
		t.counts[i] += other.counts[i]
	}
	t.iterations += other.iterations
}

// Distribution converts the counts into per-cell occupancy fractions.
// It is undefined for an empty tally.
func (t *Tally) Distribution() (Distribution, error) {
	var d Distribution
	if t.iterations == 0 {
		return d, ErrEmptyTally
	}
	total := float64(t.iterations)
	for i, c := range t.counts {
		d[i] = float64(c) / total
	}
	return d, nil
}

// Distribution holds the estimated long-run occupancy fraction of each
// cell in row-major order.
type Distribution [CellCount]float64

// Sum returns the total of all fractions. A well-formed distribution
// sums to 1 within floating-point error.
func (d Distribution) Sum() float64 {
	var sum float64
	for _, v := range d {
		sum += v
	}
	return sum
}

// String renders one "In <label>: <value>" line per cell in the fixed
// row-major order zero through five.
func (d Distribution) String() string {
	var b strings.Builder
	for i, v := range d {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "In %s: %v", cellLabels[i], v)
	}
	return b.String()
}
