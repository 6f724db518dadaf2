// Command analyze prints quick, human-readable heuristics about persisted
// run files in the project's runs directory. It summarizes each run's
// state, start cell, iterations and seed, checks occupancy tallies for
// internal consistency, and pools completed runs of the same scenario by
// merging raw visit counts.
package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/wricardo/mcp-training/vacancysim/sim/engine"
)

// RunFile is a light struct for reading persisted run files used by analysis.
type RunFile struct {
	ID         string           `json:"id"`
	ScenarioID string           `json:"scenario_id"`
	Scenario   *engine.Scenario `json:"scenario"`
	State      string           `json:"state"`
	CreatedAt  time.Time        `json:"created_at"`
	StartedAt  *time.Time       `json:"started_at"`
	FinishedAt *time.Time       `json:"finished_at"`
	Result     *engine.Result   `json:"result"`
	Error      string           `json:"error"`
}

// classTolerance bounds how far cells of the same class may drift apart
// before the spread is flagged. Runs shorter than about a million
// iterations scatter more than this on their own.
const classTolerance = 0.005

// Cells grouped by how many directions the walk accepts there: corners
// accept two of the four, middle-column cells three. Cells within a
// class converge to a common occupancy share.
var (
	cornerCells = []int{0, 2, 3, 5}
	middleCells = []int{1, 4}
)

// scenarioGroup pools the completed runs of one scenario.
type scenarioGroup struct {
	runs  int
	tally *engine.Tally
}

func main() {
	files, err := filepath.Glob(filepath.Join("runs", "*.json"))
	if err != nil {
		fmt.Printf("Error listing run files: %v\n", err)
		return
	}
	if len(files) == 0 {
		fmt.Println("No run files found under runs/")
		return
	}

	groups := make(map[string]*scenarioGroup)
	var order []string

	for _, file := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))
		run := analyzeRun(file)
		if run == nil || run.State != "completed" || run.Result == nil {
			continue
		}

		key := run.ScenarioID
		if key == "" {
			key = "(ad hoc)"
		}
		g, ok := groups[key]
		if !ok {
			g = &scenarioGroup{tally: engine.NewTally()}
			groups[key] = g
			order = append(order, key)
		}
		g.runs++
		g.tally.Merge(run.Result.Tally())
	}

	for _, key := range order {
		g := groups[key]
		if g.runs < 2 {
			continue
		}
		fmt.Printf("\n=== Pooled %s (%d runs, %d iterations) ===\n", key, g.runs, g.tally.Iterations())
		dist, err := g.tally.Distribution()
		if err != nil {
			fmt.Printf("Error pooling runs: %v\n", err)
			continue
		}
		printDistribution(dist, g.tally.Counts())
		checkDistribution(dist, g.tally.Counts(), g.tally.Iterations())
	}
}

// analyzeRun reads one run file, prints its summary and, for completed
// runs, the occupancy checks. It returns the decoded file so the caller
// can pool it, or nil when the file could not be read.
func analyzeRun(path string) *RunFile {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("Error reading file: %v\n", err)
		return nil
	}

	var run RunFile
	if err := json.Unmarshal(data, &run); err != nil {
		fmt.Printf("Error parsing JSON: %v\n", err)
		return nil
	}

	fmt.Printf("Run: %s\n", run.ID)
	scenario := run.ScenarioID
	if scenario == "" {
		scenario = "(ad hoc)"
	}
	fmt.Printf("Scenario: %s\n", scenario)
	fmt.Printf("State: %s\n", run.State)
	if run.StartedAt != nil && run.FinishedAt != nil {
		fmt.Printf("Elapsed: %s\n", run.FinishedAt.Sub(*run.StartedAt).Round(time.Millisecond))
	}
	if run.Error != "" {
		fmt.Printf("Error: %s\n", run.Error)
	}

	if run.Result != nil {
		r := run.Result
		fmt.Printf("Start: %s (%s)\n", r.Start, engine.CellLabel(r.Start.Index()))
		fmt.Printf("Iterations: %d\n", r.Iterations)
		fmt.Printf("Seed: %d\n", r.Seed)
	} else if run.Scenario != nil {
		s := run.Scenario
		fmt.Printf("Start: %s (%s)\n", s.Start(), engine.CellLabel(s.Start().Index()))
		fmt.Printf("Iterations: %d\n", s.Iterations)
	}

	if run.State != "completed" || run.Result == nil {
		fmt.Printf("No occupancy to analyze (state: %s)\n", run.State)
		return &run
	}

	printDistribution(run.Result.Occupancy, run.Result.Counts)
	checkDistribution(run.Result.Occupancy, run.Result.Counts, run.Result.Iterations)

	return &run
}

func printDistribution(d engine.Distribution, counts [engine.CellCount]uint64) {
	for i := 0; i < engine.CellCount; i++ {
		fmt.Printf("  In %s %s: %.6f (%d visits)\n", engine.CellLabel(i), engine.CellAt(i), d[i], counts[i])
	}
}

// checkDistribution runs the consistency heuristics: counts must sum to
// the iteration count, fractions must sum to 1, cells of the same class
// must agree within classTolerance, and middle cells must lead corners.
func checkDistribution(d engine.Distribution, counts [engine.CellCount]uint64, iterations uint64) {
	var countSum uint64
	for _, c := range counts {
		countSum += c
	}
	if countSum != iterations {
		fmt.Printf("⚠️  WARNING: counts sum to %d but the run recorded %d iterations, the file looks corrupted\n", countSum, iterations)
	}

	if diff := math.Abs(d.Sum() - 1); diff > 1e-9 {
		fmt.Printf("⚠️  WARNING: fractions sum to %v, off 1 by %g\n", d.Sum(), diff)
	} else {
		fmt.Printf("✅ Fractions sum to 1 within floating-point error\n")
	}

	cornerLo, cornerHi := classRange(d, cornerCells)
	if spread := cornerHi - cornerLo; spread > classTolerance {
		fmt.Printf("⚠️  WARNING: corner cells disagree by %.6f (tolerance %.6f)\n", spread, classTolerance)
		for _, i := range cornerCells {
			fmt.Printf("   %s: %.6f\n", engine.CellLabel(i), d[i])
		}
	} else {
		fmt.Printf("✅ Corner cells agree (spread %.6f, tolerance %.6f)\n", cornerHi-cornerLo, classTolerance)
	}

	middleLo, middleHi := classRange(d, middleCells)
	if spread := middleHi - middleLo; spread > classTolerance {
		fmt.Printf("⚠️  WARNING: middle cells disagree by %.6f (tolerance %.6f)\n", spread, classTolerance)
		for _, i := range middleCells {
			fmt.Printf("   %s: %.6f\n", engine.CellLabel(i), d[i])
		}
	} else {
		fmt.Printf("✅ Middle cells agree (spread %.6f, tolerance %.6f)\n", middleHi-middleLo, classTolerance)
	}

	cornerMean := classMean(d, cornerCells)
	middleMean := classMean(d, middleCells)
	if middleMean <= cornerMean {
		fmt.Printf("⚠️  WARNING: middle cells average %.6f, corners %.6f; middles accept more moves and should lead\n", middleMean, cornerMean)
	} else {
		fmt.Printf("✅ Middle cells lead corners (%.6f vs %.6f average)\n", middleMean, cornerMean)
	}
}

// classRange returns the smallest and largest occupancy fraction among
// the given cells.
func classRange(d engine.Distribution, cells []int) (lo, hi float64) {
	lo = d[cells[0]]
	hi = d[cells[0]]
	for _, i := range cells[1:] {
		if d[i] < lo {
			lo = d[i]
		}
		if d[i] > hi {
			hi = d[i]
		}
	}
	return lo, hi
}

// classMean returns the average occupancy fraction of the given cells.
func classMean(d engine.Distribution, cells []int) float64 {
	var sum float64
	for _, i := range cells {
		sum += d[i]
	}
	return sum / float64(len(cells))
}
