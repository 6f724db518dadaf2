package service

import (
	"time"

	"github.com/wricardo/mcp-training/vacancysim/sim/engine"
)

// StartRunRequest selects what a new run should execute. Params, when
// set, wins over ScenarioID; an empty request starts the default
// scenario.
type StartRunRequest struct {
	ScenarioID string           `json:"scenario_id,omitempty"`
	Params     *engine.Scenario `json:"params,omitempty"`
}

// SimulateParams describes a synchronous run. Seed zero requests entropy
// seeding, matching scenario semantics.
type SimulateParams struct {
	StartX     int    `json:"start_x"`
	StartY     int    `json:"start_y"`
	Iterations uint64 `json:"iterations"`
	Seed       int64  `json:"seed,omitempty"`
}

// ProgressInfo reports how far a run has walked
type ProgressInfo struct {
	Completed uint64  `json:"completed"`
	Total     uint64  `json:"total"`
	Percent   float64 `json:"percent"`
}

// RunInfo provides information about a simulation run
type RunInfo struct {
	ID         string           `json:"id"`
	ScenarioID string           `json:"scenario_id"`
	Scenario   *engine.Scenario `json:"scenario"`
	State      RunState         `json:"state"`
	CreatedAt  time.Time        `json:"created_at"`
	StartedAt  *time.Time       `json:"started_at,omitempty"`
	FinishedAt *time.Time       `json:"finished_at,omitempty"`
	Progress   ProgressInfo     `json:"progress"`
	Result     *engine.Result   `json:"result,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// ScenarioInfo provides information about a scenario preset
type ScenarioInfo struct {
	Filename    string          `json:"filename"`
	ScenarioID  string          `json:"scenario_id"` // The identifier to use when starting runs
	Name        string          `json:"name"`        // Display name
	Description string          `json:"description"`
	Start       engine.Position `json:"start"`
	Iterations  uint64          `json:"iterations"`
	Seeded      bool            `json:"seeded"`
}

// RunSummary aggregates the registry for dashboards
type RunSummary struct {
	Total   int              `json:"total"`
	ByState map[RunState]int `json:"by_state"`
	Recent  []*RunInfo       `json:"recent"` // newest terminal runs first
}
