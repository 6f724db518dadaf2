package scenario

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/wricardo/mcp-training/vacancysim/sim/engine"
	"github.com/wricardo/mcp-training/vacancysim/sim/service"
)

var (
	ErrScenarioNotFound = errors.New("scenario not found")
	ErrInvalidScenario  = errors.New("invalid scenario")
)

// Manager handles scenario loading and caching
type Manager struct {
	scenarioDir     string
	defaultScenario *engine.Scenario
	scenarios       map[string]*engine.Scenario
	mu              sync.RWMutex
}

// NewManager creates a new scenario manager
func NewManager(scenarioDir string) (*Manager, error) {
	// Ensure scenario directory exists
	if _, err := os.Stat(scenarioDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("scenario directory does not exist: %s", scenarioDir)
	}

	m := &Manager{
		scenarioDir: scenarioDir,
		scenarios:   make(map[string]*engine.Scenario),
	}

	// Load default scenario
	if err := m.loadDefaultScenario(); err != nil {
		return nil, fmt.Errorf("failed to load default scenario: %w", err)
	}

	return m, nil
}

// LoadScenario loads a scenario by name
func (m *Manager) LoadScenario(name string) (*engine.Scenario, error) {
	m.mu.RLock()
	// Check cache first
	if scenario, exists := m.scenarios[name]; exists {
		m.mu.RUnlock()
		return scenario, nil
	}
	m.mu.RUnlock()

	// Load from file
	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if scenario, exists := m.scenarios[name]; exists {
		return scenario, nil
	}

	// Add .json extension if not present
	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}

	scenarioPath := filepath.Join(m.scenarioDir, filename)

	// Read scenario file
	data, err := os.ReadFile(scenarioPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrScenarioNotFound
		}
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse scenario
	var scenario engine.Scenario
	if err := json.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}

	// Validate scenario
	if err := engine.ValidateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}

	// Cache the scenario
	m.scenarios[name] = &scenario
	return &scenario, nil
}

// ListScenarios returns information about all available scenarios
func (m *Manager) ListScenarios() ([]*service.ScenarioInfo, error) {
	entries, err := os.ReadDir(m.scenarioDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	var infos []*service.ScenarioInfo

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		// Remove .json extension for scenario name
		name := strings.TrimSuffix(entry.Name(), ".json")

		// Try to load the scenario to get details
		scenario, err := m.LoadScenario(name)
		if err != nil {
			// Skip invalid scenarios
			continue
		}

		infos = append(infos, &service.ScenarioInfo{
			Filename:    entry.Name(),
			ScenarioID:  name, // This is the identifier to use when starting runs
			Name:        scenario.Name,
			Description: scenario.Description,
			Start:       scenario.Start(),
			Iterations:  scenario.Iterations,
			Seeded:      scenario.Seed != 0,
		})
	}

	return infos, nil
}

// GetDefault returns the default scenario
func (m *Manager) GetDefault() *engine.Scenario {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultScenario
}

// SetDefault sets the default scenario by name
func (m *Manager) SetDefault(name string) error {
	scenario, err := m.LoadScenario(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultScenario = scenario
	return nil
}

// RefreshCache reloads all cached scenarios from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	// Clear cache
	m.scenarios = make(map[string]*engine.Scenario)
	m.mu.Unlock()

	// Reload default scenario (takes its own locks)
	return m.loadDefaultScenario()
}

// loadDefaultScenario loads the default scenario
func (m *Manager) loadDefaultScenario() error {
	// Try to load reference.json as default
	scenario, err := m.LoadScenario("reference")
	if err != nil {
		// Try to load the first available scenario
		infos, listErr := m.ListScenarios()
		if listErr != nil || len(infos) == 0 {
			// Fall back to the built-in scenario
			scenario = engine.DefaultScenario()
		} else {
			scenario, err = m.LoadScenario(strings.TrimSuffix(infos[0].Filename, ".json"))
			if err != nil {
				scenario = engine.DefaultScenario()
			}
		}
	}

	m.mu.Lock()
	m.defaultScenario = scenario
	m.mu.Unlock()
	return nil
}

// SaveScenario saves a scenario to disk
func (m *Manager) SaveScenario(name string, scenario *engine.Scenario) error {
	// Validate scenario before saving
	if err := engine.ValidateScenario(scenario); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}

	// Add .json extension if not present
	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}

	scenarioPath := filepath.Join(m.scenarioDir, filename)

	// Marshal scenario to JSON with indentation
	data, err := json.MarshalIndent(scenario, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal scenario: %w", err)
	}

	// Write to file
	if err := os.WriteFile(scenarioPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write scenario file: %w", err)
	}

	// Update cache
	m.mu.Lock()
	m.scenarios[name] = scenario
	m.mu.Unlock()

	return nil
}
