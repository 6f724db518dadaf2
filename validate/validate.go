// Command validate provides a small CLI that validates scenario preset JSON
// files in the ../scenarios directory. It checks:
//   - JSON structure and required fields
//   - Start position against the fixed 2x3 grid
//   - Iteration bounds and the progress interval
//   - Reachability: every cell is reachable from the preset's start via legal moves
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Scenario mirrors the JSON schema for a run preset.
type Scenario struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	StartX        int    `json:"start_x"`
	StartY        int    `json:"start_y"`
	Iterations    uint64 `json:"iterations"`
	Seed          int64  `json:"seed"`
	ProgressEvery uint64 `json:"progress_every"`
}

// The walk grid is fixed at 3 wide by 2 tall; presets must start on it.
const (
	boardWidth  = 3
	boardHeight = 2

	minIterations = 1
	maxIterations = 10_000_000_000
)

var cellLabels = [boardWidth * boardHeight]string{"zero", "one", "two", "three", "four", "five"}

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateScenario loads and validates a single preset JSON file. Unlike
// the serving layer, which stops at the first problem, it accumulates
// every error it finds so a broken preset can be fixed in one pass.
func validateScenario(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var scenario Scenario
	if err := json.Unmarshal(data, &scenario); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	// Validate required fields
	if scenario.Name == "" {
		result.Valid = false
		result.Errors = append(result.Errors, "name is required")
	}

	if scenario.Description == "" {
		result.Valid = false
		result.Errors = append(result.Errors, "description is required")
	}

	// Validate the start position
	if scenario.StartX < 0 || scenario.StartX >= boardWidth {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("start_x must be between 0 and %d, got %d", boardWidth-1, scenario.StartX))
	}

	if scenario.StartY < 0 || scenario.StartY >= boardHeight {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("start_y must be between 0 and %d, got %d", boardHeight-1, scenario.StartY))
	}

	// Validate iteration bounds
	if scenario.Iterations < minIterations {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("iterations must be at least %d, got %d", minIterations, scenario.Iterations))
	}

	if scenario.Iterations > maxIterations {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("iterations must be at most %d, got %d", uint64(maxIterations), scenario.Iterations))
	}

	if scenario.ProgressEvery > scenario.Iterations {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("progress_every (%d) exceeds iterations (%d)", scenario.ProgressEvery, scenario.Iterations))
	}

	// Reachability validation - check the walk can reach every cell from the start
	if result.Valid {
		reachabilityResult := validateReachability(scenario.StartX, scenario.StartY)
		if !reachabilityResult.Valid {
			result.Valid = false
			result.Errors = append(result.Errors, reachabilityResult.Errors...)
		} else {
			result.Errors = append(result.Errors, reachabilityResult.Errors...)
		}
	}

	// Add informational data
	if result.Valid {
		label := cellLabels[scenario.StartY*boardWidth+scenario.StartX]
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", scenario.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Start: (%d, %d) (%s)", scenario.StartX, scenario.StartY, label))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Iterations: %d", scenario.Iterations))
		if scenario.Seed == 0 {
			result.Errors = append(result.Errors, "✓ Seed: entropy")
		} else {
			result.Errors = append(result.Errors, fmt.Sprintf("✓ Seed: %d (replayable)", scenario.Seed))
		}
		if scenario.ProgressEvery == 0 {
			result.Errors = append(result.Errors, "✓ Progress interval: server default")
		} else {
			result.Errors = append(result.Errors, fmt.Sprintf("✓ Progress interval: every %d iterations", scenario.ProgressEvery))
		}
	}

	return result
}

// validateReachability ensures every cell is reachable from the start using
// the walk's move rules: up and down jump to the top and bottom row, left
// and right step one column. It reports any stranded cells and returns an
// aggregated ValidationResult.
func validateReachability(startX, startY int) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	if startX < 0 || startX >= boardWidth || startY < 0 || startY >= boardHeight {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot validate reachability: start (%d, %d) off the grid", startX, startY))
		return result
	}

	// Flood fill from the start cell over the legal moves
	visited := make(map[string]bool)
	queue := [][]int{{startX, startY}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		x, y := current[0], current[1]
		key := fmt.Sprintf("%d,%d", x, y)

		if visited[key] {
			continue
		}
		visited[key] = true

		var neighbors [][]int
		if y != 0 {
			neighbors = append(neighbors, []int{x, 0})
		}
		if y != boardHeight-1 {
			neighbors = append(neighbors, []int{x, boardHeight - 1})
		}
		if x > 0 {
			neighbors = append(neighbors, []int{x - 1, y})
		}
		if x < boardWidth-1 {
			neighbors = append(neighbors, []int{x + 1, y})
		}

		for _, next := range neighbors {
			nkey := fmt.Sprintf("%d,%d", next[0], next[1])
			if !visited[nkey] {
				queue = append(queue, next)
			}
		}
	}

	// Check every cell was reached
	unreachableCells := []string{}
	for y := 0; y < boardHeight; y++ {
		for x := 0; x < boardWidth; x++ {
			key := fmt.Sprintf("%d,%d", x, y)
			if !visited[key] {
				unreachableCells = append(unreachableCells, fmt.Sprintf("Cell %s at (%d,%d)", cellLabels[y*boardWidth+x], x, y))
			}
		}
	}

	if len(unreachableCells) > 0 {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Reachability failure: %d/%d cells unreachable from start", len(unreachableCells), boardWidth*boardHeight))
		for _, cell := range unreachableCells {
			result.Errors = append(result.Errors, fmt.Sprintf("Unreachable: %s", cell))
		}
	} else {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Reachability: all %d cells reachable from start", boardWidth*boardHeight))
	}

	return result
}

// main scans ../scenarios for *.json files and validates each one, printing a
// concise report and exiting with non-zero status if any are invalid.
func main() {
	scenarioDir := "../scenarios"
	files, err := filepath.Glob(filepath.Join(scenarioDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding scenario files: %v\n", err)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateScenario(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All scenarios are valid!")
	} else {
		fmt.Println("❌ Some scenarios have errors")
		os.Exit(1)
	}
}
