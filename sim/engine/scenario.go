package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Scenario describes a run preset loaded from JSON. Seed zero means the
// run seeds itself from entropy; any other value replays exactly.
// ProgressEvery zero lets the serving layer pick its own chunk size.
type Scenario struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	StartX        int    `json:"start_x"`
	StartY        int    `json:"start_y"`
	Iterations    uint64 `json:"iterations"`
	Seed          int64  `json:"seed,omitempty"`
	ProgressEvery uint64 `json:"progress_every,omitempty"`
}

// Start returns the scenario's starting position.
func (s *Scenario) Start() Position {
	return Position{X: s.StartX, Y: s.StartY}
}

// ValidateScenario validates a scenario for correctness before any
// walking starts.
func ValidateScenario(scenario *Scenario) error {
	if scenario.Name == "" {
		return fmt.Errorf("scenario validation: name is required")
	}
	if scenario.Description == "" {
		return fmt.Errorf("scenario validation: description is required")
	}

	if !scenario.Start().InBounds() {
		return fmt.Errorf("scenario validation: start position %s outside the %dx%d grid",
			scenario.Start(), BoardWidth, BoardHeight)
	}

	if scenario.Iterations < MinIterations {
		return fmt.Errorf("scenario validation: iterations must be at least %d, got %d",
			MinIterations, scenario.Iterations)
	}
	if scenario.Iterations > MaxIterations {
		return fmt.Errorf("scenario validation: iterations must be at most %d, got %d",
			uint64(MaxIterations), scenario.Iterations)
	}

	if scenario.ProgressEvery > scenario.Iterations {
		return fmt.Errorf("scenario validation: progress_every (%d) exceeds iterations (%d)",
			scenario.ProgressEvery, scenario.Iterations)
	}

	return nil
}

// LoadScenario loads a scenario from a JSON file
func LoadScenario(filename string) (*Scenario, error) {
	// Support SCENARIO_DIR environment variable for alternative preset directory
	scenarioPath := filename
	if scenarioDir := os.Getenv("SCENARIO_DIR"); scenarioDir != "" {
		if strings.HasPrefix(filename, "scenarios/") {
			scenarioPath = filepath.Join(scenarioDir, strings.TrimPrefix(filename, "scenarios/"))
		}
	}

	data, err := os.ReadFile(scenarioPath)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := json.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}

	if err := ValidateScenario(&scenario); err != nil {
		return nil, err
	}

	return &scenario, nil
}

// LoadScenarioByName loads a scenario by name from the scenarios directory
func LoadScenarioByName(name string) (*Scenario, error) {
	if !strings.HasSuffix(name, ".json") {
		name = name + ".json"
	}

	scenarioPath := filepath.Join("scenarios", name)

	if _, err := os.Stat(scenarioPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("scenario file '%s' not found", name)
	}

	data, err := os.ReadFile(scenarioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file '%s': %v", name, err)
	}

	var scenario Scenario
	if err := json.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("failed to parse scenario file '%s': %v", name, err)
	}

	if err := ValidateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario '%s': %v", name, err)
	}

	return &scenario, nil
}

// DefaultScenario returns the built-in fallback: the reference workload's
// corner start trimmed to a size that finishes quickly.
func DefaultScenario() *Scenario {
	return &Scenario{
		Name:        "default",
		Description: "Corner start with a quick iteration count.",
		StartX:      0,
		StartY:      0,
		Iterations:  1_000_000,
	}
}
