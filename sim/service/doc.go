// Package service provides the business logic layer for the vacancy
// diffusion simulator.
//
// The service package implements:
//   - Long-running simulation management with cancellation
//   - Chunked walk execution with progress reporting
//   - Scenario resolution and validation
//   - Run lifecycle tracking and persistence hooks
//   - Synchronous small-run execution
//
// Core Interfaces:
//
// SimulationService is the main service interface providing high-level
// run operations. RunManager handles run creation, retrieval, and
// lifecycle. ScenarioManager manages scenario loading and validation.
// RunBroadcaster pushes lifecycle events to live watchers.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP)
// and the simulation engine. Each run owns its own simulator, board, and
// tally, executed by a single goroutine; runs never share generator state.
// The worker walks in chunks, reporting progress and honoring cancellation
// between chunks, so the walk inside a chunk stays strictly sequential.
//
// Usage:
//
//	runMgr := run.NewManager()
//	scenarioMgr, _ := scenario.NewManager("scenarios")
//	simService := service.NewSimulationService(runMgr, scenarioMgr, hub)
//
//	// Start a run from a named scenario
//	info, err := simService.StartRun(ctx, service.StartRunRequest{ScenarioID: "reference"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Poll its state
//	info, err = simService.GetRun(ctx, info.ID)
//
// Run States:
//
// A run moves from pending to running, then to exactly one terminal
// state: completed, cancelled, or failed. Only terminal runs carry a
// result, and only completed ones a distribution.
package service
