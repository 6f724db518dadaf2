package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/wricardo/mcp-training/vacancysim/sim/engine"
)

// simulationServiceImpl implements the SimulationService interface
type simulationServiceImpl struct {
	runs        RunManager
	scenarios   ScenarioManager
	broadcaster RunBroadcaster
	mu          sync.RWMutex
}

// NewSimulationService creates a new simulation service instance. The
// broadcaster may be nil for headless use.
func NewSimulationService(runs RunManager, scenarios ScenarioManager, broadcaster RunBroadcaster) SimulationService {
	return &simulationServiceImpl{
		runs:        runs,
		scenarios:   scenarios,
		broadcaster: broadcaster,
	}
}

// StartRun resolves the requested scenario, registers a run, and launches
// its worker goroutine.
func (s *simulationServiceImpl) StartRun(ctx context.Context, req StartRunRequest) (*RunInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	scenario, scenarioID, err := s.resolveScenario(req)
	if err != nil {
		return nil, err
	}

	// Let the run manager generate a proper 4-character ID
	run, err := s.runs.Create("", scenarioID, scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	workerCtx, cancel := context.WithCancel(context.Background())
	run.arm(cancel)
	go s.execute(workerCtx, run)

	log.Printf("Run %s started: scenario=%s start=%s iterations=%d",
		run.ID, scenarioID, scenario.Start(), scenario.Iterations)

	return run.Snapshot(), nil
}

// resolveScenario picks the scenario a request asks for: inline params
// beat a named scenario, and an empty request falls back to the default.
func (s *simulationServiceImpl) resolveScenario(req StartRunRequest) (*engine.Scenario, string, error) {
	if req.Params != nil {
		scenario := *req.Params
		if scenario.Name == "" {
			scenario.Name = "adhoc"
		}
		if scenario.Description == "" {
			scenario.Description = "Ad hoc run parameters"
		}
		if err := engine.ValidateScenario(&scenario); err != nil {
			return nil, "", err
		}
		return &scenario, "adhoc", nil
	}

	if req.ScenarioID != "" {
		scenario, err := s.scenarios.LoadScenario(req.ScenarioID)
		if err != nil {
			// Provide helpful error message with available options
			if strings.Contains(err.Error(), "scenario not found") {
				available, listErr := s.scenarios.ListScenarios()
				if listErr == nil && len(available) > 0 {
					var ids []string
					for _, info := range available {
						ids = append(ids, info.ScenarioID)
					}
					return nil, "", fmt.Errorf("scenario '%s' not found. Available scenarios: %v", req.ScenarioID, ids)
				}
				return nil, "", fmt.Errorf("scenario '%s' not found. Use /api/scenarios to list available scenarios", req.ScenarioID)
			}
			return nil, "", fmt.Errorf("failed to load scenario %s: %w", req.ScenarioID, err)
		}
		return scenario, req.ScenarioID, nil
	}

	def := s.scenarios.GetDefault()
	if def == nil {
		return nil, "", fmt.Errorf("no default scenario available")
	}
	return def, "default", nil
}

// execute is the run worker: one goroutine, one simulator, one board,
// one tally. It walks in chunks so progress and cancellation happen at
// chunk boundaries without touching the walk inside a chunk.
func (s *simulationServiceImpl) execute(ctx context.Context, run *Run) {
	run.markRunning()

	scenario := run.Scenario

	var sim *engine.Simulator
	if scenario.Seed != 0 {
		sim = engine.NewSimulator(scenario.Seed)
	} else {
		var err error
		sim, err = engine.NewEntropySimulator()
		if err != nil {
			s.fail(run, fmt.Sprintf("failed to seed simulator: %v", err))
			return
		}
	}

	board, err := engine.NewBoard(scenario.StartX, scenario.StartY)
	if err != nil {
		s.fail(run, err.Error())
		return
	}
	tally := engine.NewTally()

	chunk := scenario.ProgressEvery
	if chunk == 0 {
		chunk = DefaultProgressInterval
	}

	var done uint64
	for done < scenario.Iterations {
		if ctx.Err() != nil {
			run.markCancelled()
			log.Printf("Run %s cancelled after %d of %d iterations", run.ID, done, scenario.Iterations)
			s.notifyCancelled(run.ID)
			s.persist(run.ID)
			return
		}

		step := chunk
		if remaining := scenario.Iterations - done; step > remaining {
			step = remaining
		}
		sim.Advance(board, tally, step)
		done += step

		progress := run.setProgress(done)
		s.notifyProgress(run.ID, progress)
	}

	result, err := engine.NewResult(scenario.Start(), sim.Seed(), tally)
	if err != nil {
		s.fail(run, fmt.Sprintf("failed to build result: %v", err))
		return
	}

	run.complete(result)
	log.Printf("Run %s completed: %d iterations, seed %d", run.ID, result.Iterations, result.Seed)
	s.notifyCompleted(run.ID, result)
	s.persist(run.ID)
}

func (s *simulationServiceImpl) fail(run *Run, message string) {
	run.markFailed(message)
	log.Printf("Run %s failed: %s", run.ID, message)
	s.notifyFailed(run.ID, message)
	s.persist(run.ID)
}

// persist saves a terminal run, tolerating a registry that no longer
// holds it (the run may have been deleted mid-flight).
func (s *simulationServiceImpl) persist(runID string) {
	if err := s.runs.Save(runID); err != nil {
		fmt.Printf("Warning: Failed to persist run %s: %v\n", runID, err)
	}
}

func (s *simulationServiceImpl) notifyProgress(runID string, progress ProgressInfo) {
	if s.broadcaster != nil {
		s.broadcaster.RunProgress(runID, progress)
	}
}

func (s *simulationServiceImpl) notifyCompleted(runID string, result *engine.Result) {
	if s.broadcaster != nil {
		s.broadcaster.RunCompleted(runID, result)
	}
}

func (s *simulationServiceImpl) notifyCancelled(runID string) {
	if s.broadcaster != nil {
		s.broadcaster.RunCancelled(runID)
	}
}

func (s *simulationServiceImpl) notifyFailed(runID, message string) {
	if s.broadcaster != nil {
		s.broadcaster.RunFailed(runID, message)
	}
}

// GetRun retrieves run information
func (s *simulationServiceImpl) GetRun(ctx context.Context, runID string) (*RunInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, err := s.runs.Get(runID)
	if err != nil {
		return nil, fmt.Errorf("run not found: %w", err)
	}
	return run.Snapshot(), nil
}

// ListRuns returns all known runs, newest first
func (s *simulationServiceImpl) ListRuns(ctx context.Context) ([]*RunInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := s.runs.List()
	infos := make([]*RunInfo, 0, len(runs))
	for _, run := range runs {
		infos = append(infos, run.Snapshot())
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].CreatedAt.After(infos[j].CreatedAt)
	})

	return infos, nil
}

// CancelRun asks a live run to stop at its next chunk boundary
func (s *simulationServiceImpl) CancelRun(ctx context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, err := s.runs.Get(runID)
	if err != nil {
		return fmt.Errorf("run not found: %w", err)
	}

	if !run.requestCancel() {
		return fmt.Errorf("run '%s' already finished (%s)", run.ID, run.State())
	}

	log.Printf("Run %s cancellation requested", run.ID)
	return nil
}

// DeleteRun removes a run, cancelling it first if still live
func (s *simulationServiceImpl) DeleteRun(ctx context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, err := s.runs.Get(runID)
	if err != nil {
		return fmt.Errorf("run not found: %w", err)
	}
	run.requestCancel()

	return s.runs.Delete(runID)
}

// GetResult returns the final result of a completed run
func (s *simulationServiceImpl) GetResult(ctx context.Context, runID string) (*engine.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, err := s.runs.Get(runID)
	if err != nil {
		return nil, fmt.Errorf("run not found: %w", err)
	}

	result, ok := run.Result()
	if !ok {
		return nil, fmt.Errorf("run '%s' has no result yet (state: %s)", run.ID, run.State())
	}
	return result, nil
}

// Summary aggregates the registry by state with the most recent
// terminal runs attached
func (s *simulationServiceImpl) Summary(ctx context.Context) (*RunSummary, error) {
	infos, err := s.ListRuns(ctx)
	if err != nil {
		return nil, err
	}

	summary := &RunSummary{
		Total:   len(infos),
		ByState: make(map[RunState]int),
	}
	for _, info := range infos {
		summary.ByState[info.State]++
		if info.State.Terminal() && len(summary.Recent) < 5 {
			summary.Recent = append(summary.Recent, info)
		}
	}
	return summary, nil
}

// Simulate runs a small workload synchronously and returns its result
func (s *simulationServiceImpl) Simulate(ctx context.Context, params SimulateParams) (*engine.Result, error) {
	if params.Iterations > engine.MaxSyncIterations {
		return nil, fmt.Errorf("synchronous runs are capped at %d iterations, got %d; start a run instead",
			engine.MaxSyncIterations, params.Iterations)
	}

	var sim *engine.Simulator
	if params.Seed != 0 {
		sim = engine.NewSimulator(params.Seed)
	} else {
		var err error
		sim, err = engine.NewEntropySimulator()
		if err != nil {
			return nil, fmt.Errorf("failed to seed simulator: %v", err)
		}
	}

	return sim.Run(params.StartX, params.StartY, params.Iterations)
}

// ListScenarios returns available scenario presets
func (s *simulationServiceImpl) ListScenarios(ctx context.Context) ([]*ScenarioInfo, error) {
	return s.scenarios.ListScenarios()
}

// LoadScenario loads a specific scenario preset
func (s *simulationServiceImpl) LoadScenario(ctx context.Context, name string) (*engine.Scenario, error) {
	return s.scenarios.LoadScenario(name)
}

// SaveScenario saves a scenario preset to disk
func (s *simulationServiceImpl) SaveScenario(ctx context.Context, name string, scenario *engine.Scenario) error {
	return s.scenarios.SaveScenario(name, scenario)
}
