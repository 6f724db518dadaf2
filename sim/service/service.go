package service

import (
	"context"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/vacancysim/sim/engine"
)

// DefaultProgressInterval is the chunk size used when a scenario does not
// set its own progress interval.
const DefaultProgressInterval = 1_000_000

// SimulationService defines all simulation-related operations
type SimulationService interface {
	// Run Management
	StartRun(ctx context.Context, req StartRunRequest) (*RunInfo, error)
	GetRun(ctx context.Context, runID string) (*RunInfo, error)
	ListRuns(ctx context.Context) ([]*RunInfo, error)
	CancelRun(ctx context.Context, runID string) error
	DeleteRun(ctx context.Context, runID string) error

	// Results
	GetResult(ctx context.Context, runID string) (*engine.Result, error)
	Summary(ctx context.Context) (*RunSummary, error)

	// Synchronous simulation for small workloads
	Simulate(ctx context.Context, params SimulateParams) (*engine.Result, error)

	// Scenarios
	ListScenarios(ctx context.Context) ([]*ScenarioInfo, error)
	LoadScenario(ctx context.Context, name string) (*engine.Scenario, error)
	SaveScenario(ctx context.Context, name string, scenario *engine.Scenario) error
}

// RunManager defines run storage operations
type RunManager interface {
	Create(id, scenarioID string, scenario *engine.Scenario) (*Run, error)
	Get(id string) (*Run, error)
	List() []*Run
	Delete(id string) error
	Save(id string) error
}

// ScenarioManager handles scenario loading
type ScenarioManager interface {
	LoadScenario(name string) (*engine.Scenario, error)
	ListScenarios() ([]*ScenarioInfo, error)
	GetDefault() *engine.Scenario
	SaveScenario(name string, scenario *engine.Scenario) error
}

// RunBroadcaster pushes run lifecycle events to live watchers. The
// service treats a nil broadcaster as headless operation.
type RunBroadcaster interface {
	RunProgress(runID string, progress ProgressInfo)
	RunCompleted(runID string, result *engine.Result)
	RunCancelled(runID string)
	RunFailed(runID string, message string)
}

// RunState names a stage of the run lifecycle
type RunState string

const (
	RunPending   RunState = "pending"
	RunRunning   RunState = "running"
	RunCompleted RunState = "completed"
	RunCancelled RunState = "cancelled"
	RunFailed    RunState = "failed"
)

// Terminal reports whether the state is final.
func (s RunState) Terminal() bool {
	return s == RunCompleted || s == RunCancelled || s == RunFailed
}

// Run represents a single simulation run. The identity fields are fixed
// at creation; everything the worker goroutine mutates sits behind the
// mutex and is read through Snapshot.
type Run struct {
	ID         string
	ScenarioID string
	Scenario   *engine.Scenario
	CreatedAt  time.Time

	mu              sync.Mutex
	state           RunState
	completed       uint64
	startedAt       time.Time
	finishedAt      time.Time
	result          *engine.Result
	errMsg          string
	cancel          context.CancelFunc
	cancelRequested bool
}

// NewRun creates a pending run.
func NewRun(id, scenarioID string, scenario *engine.Scenario) *Run {
	return &Run{
		ID:         id,
		ScenarioID: scenarioID,
		Scenario:   scenario,
		CreatedAt:  time.Now(),
		state:      RunPending,
	}
}

// RestoreRun rebuilds a terminal run from a persisted snapshot.
func RestoreRun(info *RunInfo) *Run {
	r := &Run{
		ID:         info.ID,
		ScenarioID: info.ScenarioID,
		Scenario:   info.Scenario,
		CreatedAt:  info.CreatedAt,
		state:      info.State,
		completed:  info.Progress.Completed,
		result:     info.Result,
		errMsg:     info.Error,
	}
	if info.StartedAt != nil {
		r.startedAt = *info.StartedAt
	}
	if info.FinishedAt != nil {
		r.finishedAt = *info.FinishedAt
	}
	return r
}

// State returns the current lifecycle state.
func (r *Run) State() RunState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// FinishedAt returns the terminal timestamp, zero while the run is live.
func (r *Run) FinishedAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finishedAt
}

// Result returns the final result once the run completed.
func (r *Run) Result() (*engine.Result, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != RunCompleted || r.result == nil {
		return nil, false
	}
	return r.result, true
}

// Snapshot captures the externally visible state of the run.
func (r *Run) Snapshot() *RunInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	info := &RunInfo{
		ID:         r.ID,
		ScenarioID: r.ScenarioID,
		Scenario:   r.Scenario,
		State:      r.state,
		CreatedAt:  r.CreatedAt,
		Progress:   progressInfo(r.completed, r.Scenario.Iterations),
		Result:     r.result,
		Error:      r.errMsg,
	}
	if !r.startedAt.IsZero() {
		t := r.startedAt
		info.StartedAt = &t
	}
	if !r.finishedAt.IsZero() {
		t := r.finishedAt
		info.FinishedAt = &t
	}
	return info
}

// arm installs the cancel function for the worker's context. A cancel
// requested before the worker armed fires immediately.
func (r *Run) arm(cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancel = cancel
	if r.cancelRequested {
		cancel()
	}
}

// requestCancel asks a live run to stop at the next chunk boundary.
func (r *Run) requestCancel() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state.Terminal() {
		return false
	}
	r.cancelRequested = true
	if r.cancel != nil {
		r.cancel()
	}
	return true
}

func (r *Run) markRunning() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = RunRunning
	r.startedAt = time.Now()
}

func (r *Run) setProgress(completed uint64) ProgressInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed = completed
	return progressInfo(r.completed, r.Scenario.Iterations)
}

func (r *Run) complete(result *engine.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = RunCompleted
	r.completed = result.Iterations
	r.result = result
	r.finishedAt = time.Now()
}

func (r *Run) markCancelled() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = RunCancelled
	r.finishedAt = time.Now()
}

func (r *Run) markFailed(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = RunFailed
	r.errMsg = message
	r.finishedAt = time.Now()
}

func progressInfo(completed, total uint64) ProgressInfo {
	p := ProgressInfo{Completed: completed, Total: total}
	if total > 0 {
		p.Percent = float64(completed) / float64(total) * 100
	}
	return p
}
