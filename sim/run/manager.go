package run

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/vacancysim/sim/engine"
	"github.com/wricardo/mcp-training/vacancysim/sim/service"
)

var (
	ErrRunNotFound      = errors.New("run not found")
	ErrRunAlreadyExists = errors.New("run already exists")
	ErrInvalidRunID     = errors.New("invalid run ID")
)

// Manager handles run registration and lifecycle bookkeeping
type Manager struct {
	runs        map[string]*service.Run
	persistence RunPersistence
	mu          sync.RWMutex
}

// NewManager creates a new run manager
func NewManager() *Manager {
	return &Manager{
		runs: make(map[string]*service.Run),
	}
}

// NewManagerWithPersistence creates a new run manager with persistence
func NewManagerWithPersistence(persistence RunPersistence) *Manager {
	return &Manager{
		runs:        make(map[string]*service.Run),
		persistence: persistence,
	}
}

// Create registers a new pending run with the given ID and scenario parameters
func (m *Manager) Create(id, scenarioID string, scenario *engine.Scenario) (*service.Run, error) {
	if id == "" {
		id = m.generateRunID()
	}

	// Run IDs become file names under the runs directory
	if strings.ContainsAny(id, "/\\") || strings.Contains(id, "..") {
		return nil, ErrInvalidRunID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Check if run already exists (case-insensitive)
	if m.runExists(id) {
		return nil, ErrRunAlreadyExists
	}

	if err := engine.ValidateScenario(scenario); err != nil {
		return nil, fmt.Errorf("failed to validate scenario: %w", err)
	}

	run := service.NewRun(id, scenarioID, scenario)
	m.runs[strings.ToLower(id)] = run

	// Pending runs are not persisted; the worker saves the run once it
	// reaches a terminal state.

	return run, nil
}

// Get retrieves a run by ID (case-insensitive)
func (m *Manager) Get(id string) (*service.Run, error) {
	m.mu.RLock()
	run, exists := m.runs[strings.ToLower(id)]
	if !exists {
		// Try exact match for backward compatibility
		run, exists = m.runs[id]
	}
	m.mu.RUnlock()

	if exists {
		return run, nil
	}

	// Try loading from persistence if not in memory
	if m.persistence != nil && m.persistence.Exists(id) {
		run, err := m.persistence.Load(id)
		if err != nil {
			return nil, fmt.Errorf("failed to load persisted run: %w", err)
		}

		// Add to memory cache
		m.mu.Lock()
		m.runs[strings.ToLower(id)] = run
		m.mu.Unlock()

		return run, nil
	}

	return nil, ErrRunNotFound
}

// List returns all known runs
func (m *Manager) List() []*service.Run {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Run, 0, len(m.runs))
	for _, run := range m.runs {
		result = append(result, run)
	}

	return result
}

// Delete removes a run
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lowerID := strings.ToLower(id)
	inMemory := false

	if _, exists := m.runs[lowerID]; exists {
		delete(m.runs, lowerID)
		inMemory = true
	} else if _, exists := m.runs[id]; exists {
		delete(m.runs, id)
		inMemory = true
	}

	// Delete from persistence if it exists
	if m.persistence != nil && m.persistence.Exists(id) {
		if err := m.persistence.Delete(id); err != nil {
			return fmt.Errorf("failed to delete persisted run: %w", err)
		}
		return nil
	}

	// If not in persistence and not in memory, it doesn't exist
	if !inMemory {
		return ErrRunNotFound
	}

	return nil
}

// DeleteFromMemory removes a run from memory only (not from persistence)
func (m *Manager) DeleteFromMemory(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lowerID := strings.ToLower(id)

	if _, exists := m.runs[lowerID]; exists {
		delete(m.runs, lowerID)
		return nil
	}

	if _, exists := m.runs[id]; exists {
		delete(m.runs, id)
		return nil
	}

	return ErrRunNotFound
}

// Save persists a run once it has finished. Runs still in flight are
// skipped: their state is transient and saved later by the worker.
func (m *Manager) Save(id string) error {
	if m.persistence == nil {
		return nil // No persistence configured
	}

	m.mu.RLock()
	run, exists := m.runs[strings.ToLower(id)]
	if !exists {
		// Try exact match for backward compatibility
		run, exists = m.runs[id]
		if !exists {
			m.mu.RUnlock()
			return ErrRunNotFound
		}
	}
	m.mu.RUnlock()

	if !run.State().Terminal() {
		return nil
	}

	return m.persistence.Save(run)
}

// CleanupExpiredRuns evicts finished runs older than the given duration
// from memory. Persisted copies remain on disk and can be reloaded on
// demand.
func (m *Manager) CleanupExpiredRuns(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for id, run := range m.runs {
		if !run.State().Terminal() {
			continue
		}
		if run.FinishedAt().Before(cutoff) {
			delete(m.runs, id)
			removed++
		}
	}

	return removed
}

// Count returns the number of runs held in memory
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.runs)
}

// generateRunID generates a random 4-character run ID
func (m *Manager) generateRunID() string {
	// Generate 2 random bytes (4 hex characters)
	bytes := make([]byte, 2)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// runExists checks if a run exists (case-insensitive)
func (m *Manager) runExists(id string) bool {
	lowerID := strings.ToLower(id)
	if _, exists := m.runs[lowerID]; exists {
		return true
	}
	// Also check exact match for backward compatibility
	_, exists := m.runs[id]
	return exists
}

// LoadPersistedRuns loads all persisted runs into memory
func (m *Manager) LoadPersistedRuns() error {
	if m.persistence == nil {
		return nil // No persistence configured
	}

	runIDs, err := m.persistence.ListAll()
	if err != nil {
		return fmt.Errorf("failed to list persisted runs: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	loadedCount := 0
	for _, id := range runIDs {
		// Skip if already loaded in memory
		if _, exists := m.runs[strings.ToLower(id)]; exists {
			continue
		}

		run, err := m.persistence.Load(id)
		if err != nil {
			fmt.Printf("Warning: Failed to load persisted run %s: %v\n", id, err)
			continue
		}

		m.runs[strings.ToLower(id)] = run
		loadedCount++
	}

	if loadedCount > 0 {
		fmt.Printf("Loaded %d persisted runs from storage\n", loadedCount)
	}

	return nil
}

// SaveAll persists every finished run currently held in memory
func (m *Manager) SaveAll() error {
	if m.persistence == nil {
		return nil // No persistence configured
	}

	m.mu.RLock()
	runs := make([]*service.Run, 0, len(m.runs))
	for _, run := range m.runs {
		runs = append(runs, run)
	}
	m.mu.RUnlock()

	errorCount := 0
	for _, run := range runs {
		if !run.State().Terminal() {
			continue
		}
		if err := m.persistence.Save(run); err != nil {
			fmt.Printf("Warning: Failed to save run %s: %v\n", run.ID, err)
			errorCount++
		}
	}

	if errorCount > 0 {
		return fmt.Errorf("failed to save %d runs", errorCount)
	}

	return nil
}
