package engine

import (
	"math"
	"testing"
)

func TestSimulator_Deterministic(t *testing.T) {
	first, err := NewSimulator(42).Run(0, 0, 10_000)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := NewSimulator(42).Run(0, 0, 10_000)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if first.Counts != second.Counts {
		t.Errorf("same seed produced different counts:\n%v\n%v", first.Counts, second.Counts)
	}
	if first.Occupancy != second.Occupancy {
		t.Errorf("same seed produced different occupancy:\n%v\n%v", first.Occupancy, second.Occupancy)
	}
	if first.Seed != 42 {
		t.Errorf("Seed: expected 42, got %d", first.Seed)
	}
}

func TestSimulator_DifferentSeedsDiverge(t *testing.T) {
	first, err := NewSimulator(1).Run(0, 0, 10_000)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	second, err := NewSimulator(2).Run(0, 0, 10_000)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if first.Counts == second.Counts {
		t.Error("different seeds produced identical counts")
	}
}

func TestSimulator_RunValidation(t *testing.T) {
	tests := []struct {
		name       string
		x, y       int
		iterations uint64
	}{
		{"x out of range", 3, 0, 1000},
		{"y out of range", 0, 2, 1000},
		{"negative x", -1, 0, 1000},
		{"zero iterations", 0, 0, 0},
		{"iterations above cap", 0, 0, MaxIterations + 1},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := NewSimulator(1).Run(test.x, test.y, test.iterations); err == nil {
				t.Errorf("Run(%d, %d, %d): expected error, got none", test.x, test.y, test.iterations)
			}
		})
	}
}

func TestSimulator_CountsSumToIterations(t *testing.T) {
	const iterations = 250_000
	result, err := NewSimulator(7).Run(1, 1, iterations)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	var sum uint64
	for _, c := range result.Counts {
		sum += c
	}
	if sum != iterations {
		t.Errorf("counts sum to %d, expected %d", sum, iterations)
	}
	if result.Iterations != iterations {
		t.Errorf("Iterations: expected %d, got %d", iterations, result.Iterations)
	}
}

func TestSimulator_OccupancySumsToOne(t *testing.T) {
	result, err := NewSimulator(11).Run(2, 0, 100_000)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if diff := math.Abs(result.Occupancy.Sum() - 1); diff > 1e-9 {
		t.Errorf("occupancy sums to %v, off by %v", result.Occupancy.Sum(), diff)
	}
	for i, v := range result.Occupancy {
		if v < 0 || v > 1 {
			t.Errorf("cell %s occupancy %v outside [0, 1]", CellLabel(i), v)
		}
	}
}

func TestSimulator_EveryCellVisited(t *testing.T) {
	// Six cells and a hundred thousand steps: a zero counter would mean
	// the walk never left a corner of the chain, not bad luck.
	result, err := NewSimulator(13).Run(0, 0, 100_000)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	for i, c := range result.Counts {
		if c == 0 {
			t.Errorf("cell %s was never visited", CellLabel(i))
		}
	}
}

func TestSimulator_SymmetrySanity(t *testing.T) {
	// The board is symmetric under horizontal and vertical reflection,
	// so the four corner cells should agree with each other, as should
	// the two edge-center cells. Corners accept fewer moves and
	// accumulate less occupancy than centers.
	const iterations = 1_000_000
	const tolerance = 0.02

	result, err := NewSimulator(99).Run(0, 0, iterations)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	d := result.Occupancy

	corners := []int{0, 2, 3, 5}
	centers := []int{1, 4}

	for i := 0; i < len(corners); i++ {
		for j := i + 1; j < len(corners); j++ {
			a, b := d[corners[i]], d[corners[j]]
			if math.Abs(a-b) > tolerance {
				t.Errorf("corner cells %s and %s differ too much: %v vs %v",
					CellLabel(corners[i]), CellLabel(corners[j]), a, b)
			}
		}
	}
	if math.Abs(d[centers[0]]-d[centers[1]]) > tolerance {
		t.Errorf("edge-center cells differ too much: %v vs %v", d[centers[0]], d[centers[1]])
	}

	cornerMean := (d[0] + d[2] + d[3] + d[5]) / 4
	centerMean := (d[1] + d[4]) / 2
	if cornerMean >= centerMean {
		t.Errorf("expected corner occupancy below edge-center occupancy, got %v vs %v", cornerMean, centerMean)
	}
}

func TestSimulator_AdvanceChunksMatchSingleRun(t *testing.T) {
	// Splitting the walk into chunks must not change the draw stream.
	const iterations = 50_000

	whole, err := NewSimulator(5).Run(0, 0, iterations)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	sim := NewSimulator(5)
	board := mustBoard(t, 0, 0)
	tally := NewTally()
	sim.Advance(board, tally, 20_000)
	sim.Advance(board, tally, 20_000)
	sim.Advance(board, tally, 10_000)

	if tally.Counts() != whole.Counts {
		t.Errorf("chunked advance diverged from single run:\n%v\n%v", tally.Counts(), whole.Counts)
	}
}

func TestSimulate_EntryPoint(t *testing.T) {
	result, err := Simulate(0, 0, 5_000)
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if result.Iterations != 5_000 {
		t.Errorf("Iterations: expected 5000, got %d", result.Iterations)
	}
	if result.Start.X != 0 || result.Start.Y != 0 {
		t.Errorf("Start: expected (0, 0), got %s", result.Start)
	}

	// Replaying the recorded seed reproduces the result.
	replay, err := NewSimulator(result.Seed).Run(0, 0, 5_000)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if replay.Counts != result.Counts {
		t.Error("replay with recorded seed diverged from original run")
	}
}

func TestNewSeed(t *testing.T) {
	seed, err := NewSeed()
	if err != nil {
		t.Fatalf("NewSeed failed: %v", err)
	}
	// Any value is valid; the call just must not fail.
	_ = seed
}

func TestResult_TallyRoundTrip(t *testing.T) {
	result, err := NewSimulator(3).Run(1, 0, 10_000)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	tally := result.Tally()
	if tally.Iterations() != result.Iterations {
		t.Errorf("Iterations: expected %d, got %d", result.Iterations, tally.Iterations())
	}
	if tally.Counts() != result.Counts {
		t.Errorf("Counts: expected %v, got %v", result.Counts, tally.Counts())
	}

	d, err := tally.Distribution()
	if err != nil {
		t.Fatalf("Distribution failed: %v", err)
	}
	if d != result.Occupancy {
		t.Errorf("Distribution: expected %v, got %v", result.Occupancy, d)
	}
}

func TestResult_String(t *testing.T) {
	result := &Result{
		Occupancy: Distribution{0.25, 0.25, 0.125, 0.125, 0.125, 0.125},
	}
	want := "In zero: 0.25\nIn one: 0.25\nIn two: 0.125\nIn three: 0.125\nIn four: 0.125\nIn five: 0.125"
	if got := result.String(); got != want {
		t.Errorf("String():\nexpected %q\ngot      %q", want, got)
	}
}
