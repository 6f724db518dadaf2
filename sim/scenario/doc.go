// Package scenario provides scenario preset management for the vacancy
// diffusion simulator.
//
// The scenario package handles:
//   - Loading run scenarios from JSON files
//   - Scenario validation and verification
//   - Default scenario management
//   - Scenario discovery and listing
//
// Scenario Format:
//
// Scenarios are stored as JSON files in the scenarios directory. Each
// scenario defines:
//   - The vacancy's starting cell on the fixed 2x3 grid
//   - The number of walk iterations to record
//   - An optional fixed seed (zero requests entropy seeding)
//   - An optional progress reporting interval
//
// Available Scenarios:
//
// The shipped presets cover the common workloads:
//   - reference: corner start at full reference length
//   - center-start: edge-center start for symmetry comparisons
//   - quick: a short smoke-test walk
//
// Usage:
//
//	manager, err := scenario.NewManager("scenarios")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load a specific scenario
//	sc, err := manager.LoadScenario("reference")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Get the default scenario
//	def := manager.GetDefault()
//
//	// List available scenarios
//	infos, err := manager.ListScenarios()
//
// Validation:
//
// All scenarios are validated for:
//   - In-range start coordinates
//   - Iteration counts within the supported bounds
//   - Progress intervals no larger than the run itself
//   - Required name and description fields
package scenario
