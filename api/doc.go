// Package api provides HTTP REST API handlers for the vacancy simulator.
//
// The api package implements:
//   - RESTful endpoints for run management
//   - Synchronous simulation for small workloads
//   - Scenario preset listing and creation
//   - WebSocket upgrade handling for live run progress
//   - Static file serving
//
// Endpoints:
//
// Run Management:
//   - POST /api/runs - Start a new background run
//   - GET /api/runs - List all runs
//   - GET /api/runs/summary - Aggregate registry counts
//   - GET /api/runs/{id} - Get a specific run
//   - DELETE /api/runs/{id} - Delete a run
//   - POST /api/runs/{id}/cancel - Request cancellation
//   - GET /api/runs/{id}/result - Final occupancy counts
//
// Simulation:
//   - POST /api/simulate - Run a small workload synchronously
//
// Scenarios:
//   - GET /api/scenarios - List available scenario presets
//   - GET /api/scenarios/{name} - Get a specific preset
//   - POST /api/scenarios - Save a new preset
//
// Health:
//   - GET /api/health - Liveness probe
//
// Request/Response Format:
//
// All endpoints accept and return JSON. Runs are started with an optional
// body selecting a preset or carrying explicit parameters:
//
//	{
//	  "scenario_id": "reference",  // preset name, omit for the default
//	  "params": {                  // explicit parameters win over scenario_id
//	    "name": "adhoc",
//	    "start_x": 0,
//	    "start_y": 0,
//	    "iterations": 1000000,
//	    "seed": 42                 // 0 or absent draws an entropy seed
//	  }
//	}
//
// Usage:
//
//	server := api.NewServer(simService, hub)
//	http.ListenAndServe(":8080", server)
//
// Error Handling:
//
// Errors are returned as JSON with appropriate HTTP status codes:
//
//	{
//	  "error": "error message"
//	}
package api

//
// Live Events (GET /ws?run=<id>)
//
// The hub pushes JSON frames to attached watchers while the run advances:
//   - progress:  {"type":"progress","run_id":"ab12","data":{"completed":2000000,"total":100000000,"percent":2.0}}
//   - completed: {"type":"completed","run_id":"ab12","data":{...final result...}}
//   - cancelled: {"type":"cancelled","run_id":"ab12"}
//   - failed:    {"type":"failed","run_id":"ab12","error":"..."}
//
// Frames for a run are only delivered to clients attached to that run.
// A client attaching to an already finished run receives no frames; poll
// GET /api/runs/{id} for terminal state instead.
