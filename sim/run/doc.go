// Package run provides run registry and lifecycle tracking for the
// vacancy simulator.
//
// The run package implements:
//   - Thread-safe run storage and retrieval
//   - Unique run ID generation
//   - Terminal-run persistence to disk
//   - Concurrent access control
//   - Run cleanup and expiration
//
// Core Types:
//
// Manager is the main run registry that handles all run bookkeeping.
// Each entry is a service.Run carrying its scenario parameters, lifecycle
// state and, once finished, its occupancy result.
//
// Run Identifiers:
//
// Runs use 4-character hexadecimal IDs for easy reference. The manager
// ensures IDs are unique and provides collision-resistant generation using
// cryptographic randomness.
//
// Persistence:
//
// Only finished runs are written to storage. A run still advancing its
// walk has nothing durable to say: its tally changes millions of times a
// second and cannot be resumed from a snapshot. Once a run reaches a
// terminal state its full record (scenario, seed, counts, occupancy) is
// saved as a JSON file and survives restarts.
//
// Usage:
//
//	manager := run.NewManager()
//
//	// Register a new run
//	r, err := manager.Create("", "reference", scenario)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Retrieve an existing run
//	r, err = manager.Get(runID)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// List all known runs
//	runs := manager.List()
package run
