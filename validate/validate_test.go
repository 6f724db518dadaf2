package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateScenario_ValidScenario(t *testing.T) {
	// Create a valid test preset
	validScenario := `{
		"name": "Reference",
		"description": "Corner start reference workload",
		"start_x": 0,
		"start_y": 0,
		"iterations": 100000000,
		"seed": 42
	}`

	// Write to temp file
	tmpfile, err := os.CreateTemp("", "test_scenario_*.json")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(validScenario)); err != nil {
		t.Fatalf("Failed to write scenario: %v", err)
	}
	tmpfile.Close()

	result := validateScenario(tmpfile.Name())
	if !result.Valid {
		t.Errorf("Expected valid scenario, but got errors: %v", result.Errors)
	}

	if result.File != filepath.Base(tmpfile.Name()) {
		t.Errorf("Expected file name %s, got %s", filepath.Base(tmpfile.Name()), result.File)
	}
}

func TestValidateScenario_InvalidJSON(t *testing.T) {
	// Create invalid JSON
	invalidJSON := `{"name": "test", invalid json}`

	tmpfile, err := os.CreateTemp("", "test_scenario_*.json")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpfile.Name())

	tmpfile.Write([]byte(invalidJSON))
	tmpfile.Close()

	result := validateScenario(tmpfile.Name())
	if result.Valid {
		t.Error("Expected invalid scenario due to bad JSON")
	}

	found := false
	for _, err := range result.Errors {
		if contains(err, "Invalid JSON") {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected 'Invalid JSON' error")
	}
}

func TestValidateScenario_MissingFile(t *testing.T) {
	result := validateScenario("/non/existent/file.json")
	if result.Valid {
		t.Error("Expected invalid result for missing file")
	}

	found := false
	for _, err := range result.Errors {
		if contains(err, "Failed to read file") {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected 'Failed to read file' error")
	}
}

func TestValidateScenario_MissingName(t *testing.T) {
	scenario := `{
		"description": "Preset without a name",
		"start_x": 1,
		"start_y": 1,
		"iterations": 1000000
	}`

	tmpfile, err := os.CreateTemp("", "test_scenario_*.json")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpfile.Name())

	tmpfile.Write([]byte(scenario))
	tmpfile.Close()

	result := validateScenario(tmpfile.Name())
	if result.Valid {
		t.Error("Expected invalid scenario due to missing name")
	}

	found := false
	for _, err := range result.Errors {
		if contains(err, "name is required") {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected 'name is required' error")
	}
}

func TestValidateScenario_StartOutOfBounds(t *testing.T) {
	scenario := `{
		"name": "Off Grid",
		"description": "Start outside the grid",
		"start_x": 5,
		"start_y": -1,
		"iterations": 1000000
	}`

	tmpfile, err := os.CreateTemp("", "test_scenario_*.json")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpfile.Name())

	tmpfile.Write([]byte(scenario))
	tmpfile.Close()

	result := validateScenario(tmpfile.Name())
	if result.Valid {
		t.Error("Expected invalid scenario due to out-of-bounds start")
	}

	foundStartX := false
	foundStartY := false
	for _, err := range result.Errors {
		if contains(err, "start_x must be between") {
			foundStartX = true
		}
		if contains(err, "start_y must be between") {
			foundStartY = true
		}
	}
	if !foundStartX {
		t.Error("Expected 'start_x must be between' error")
	}
	if !foundStartY {
		t.Error("Expected 'start_y must be between' error")
	}
}

func TestValidateScenario_IterationBounds(t *testing.T) {
	scenario := `{
		"name": "No Work",
		"description": "Zero iterations with a progress interval",
		"start_x": 0,
		"start_y": 0,
		"iterations": 0,
		"progress_every": 10
	}`

	tmpfile, err := os.CreateTemp("", "test_scenario_*.json")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpfile.Name())

	tmpfile.Write([]byte(scenario))
	tmpfile.Close()

	result := validateScenario(tmpfile.Name())
	if result.Valid {
		t.Error("Expected invalid scenario due to iteration bounds")
	}

	foundMinimum := false
	foundInterval := false
	for _, err := range result.Errors {
		if contains(err, "iterations must be at least") {
			foundMinimum = true
		}
		if contains(err, "progress_every") && contains(err, "exceeds iterations") {
			foundInterval = true
		}
	}
	if !foundMinimum {
		t.Error("Expected 'iterations must be at least' error")
	}
	if !foundInterval {
		t.Error("Expected 'progress_every exceeds iterations' error")
	}
}

func TestValidateScenario_IterationsTooLarge(t *testing.T) {
	scenario := `{
		"name": "Marathon",
		"description": "More iterations than the cap allows",
		"start_x": 2,
		"start_y": 1,
		"iterations": 20000000000
	}`

	tmpfile, err := os.CreateTemp("", "test_scenario_*.json")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpfile.Name())

	tmpfile.Write([]byte(scenario))
	tmpfile.Close()

	result := validateScenario(tmpfile.Name())
	if result.Valid {
		t.Error("Expected invalid scenario due to iteration cap")
	}

	found := false
	for _, err := range result.Errors {
		if contains(err, "iterations must be at most") {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected 'iterations must be at most' error")
	}
}

func TestValidateReachability_AllStarts(t *testing.T) {
	for y := 0; y < boardHeight; y++ {
		for x := 0; x < boardWidth; x++ {
			result := validateReachability(x, y)
			if !result.Valid {
				t.Errorf("Expected valid reachability from (%d, %d), but got errors: %v", x, y, result.Errors)
			}
		}
	}
}

func TestValidateReachability_OffGrid(t *testing.T) {
	result := validateReachability(5, 5)
	if result.Valid {
		t.Error("Expected invalid result for an off-grid start")
	}

	found := false
	for _, err := range result.Errors {
		if contains(err, "Cannot validate reachability") {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected 'Cannot validate reachability' error")
	}
}

// Helper function to check if a string contains a substring
func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
