// Package mcp provides the Model Context Protocol server for the vacancy walk simulator.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Tool definitions for simulation operations
//   - Run-aware command execution against the REST API
//   - Stdio and HTTP transport modes
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - simulate: Run a bounded walk synchronously and return the occupancy estimate
//   - start_run: Start a background run from a scenario or inline parameters
//   - run_status: Get a run's lifecycle state and progress
//   - run_result: Get the occupancy estimate of a completed run
//   - list_runs: List registered runs
//   - cancel_run: Request cancellation of an active run
//   - delete_run: Remove a run from the registry
//   - list_scenarios: List available scenario presets
//   - save_scenario: Save a new scenario preset
//   - describe_position: Inspect a grid cell and its legal moves
//   - sim_instructions: Complete reference for the walk mechanics and tools
//
// Transport Modes:
//
// The server supports two transport modes:
//   - Stdio: Direct stdio communication for local MCP clients
//   - HTTP: HTTP endpoint for remote MCP integration
//
// Run Management:
//
// Long simulations execute as background runs on the API server. Agents
// start a run, poll run_status while it advances, and fetch run_result
// once the state reaches completed. Short workloads can use simulate
// instead, which blocks and answers in a single call.
//
// Usage:
//
//	// Stdio mode
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
//
//	// HTTP mode
//	mcpServer := mcp.NewClient(apiURL).GetMCPServer()
//	http.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) { ... })
//
// AI Integration:
//
// The MCP interface enables AI agents to:
//   - Estimate the long-run occupancy distribution of the vacant cell
//   - Compare estimates across seeds and starting positions
//   - Manage multiple concurrent runs independently
//   - Inspect the board geometry without touching the API
package mcp
