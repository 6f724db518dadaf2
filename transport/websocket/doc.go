// Package websocket provides WebSocket transport for live run progress.
//
// The websocket package implements:
//   - Run-aware WebSocket connections
//   - Progress, completion, cancellation, and failure event delivery
//   - Connection lifecycle management
//   - The service.RunBroadcaster contract
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is handled by a dedicated
// goroutine that manages reading, writing, and cleanup.
//
// Message Protocol:
//
// Messages are JSON-encoded envelopes pushed from server to client:
//   - {"type":"progress","run_id":"ab12","data":{"completed":...,"total":...,"percent":...}}
//   - {"type":"completed","run_id":"ab12","data":{...final result...}}
//   - {"type":"cancelled","run_id":"ab12"}
//   - {"type":"failed","run_id":"ab12","error":"..."}
//
// Clients do not send application messages; the read side only services
// control frames and connection teardown.
//
// Run Integration:
//
// WebSocket connections are run-aware. Clients specify the run they want
// to watch via query parameter (?run=ab12) when establishing the
// connection. Events are delivered only to clients attached to that run.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	// The hub satisfies service.RunBroadcaster; simulation workers
//	// publish through it.
//	svc := service.NewSimulationService(runs, scenarios, hub)
//
// Connection Lifecycle:
//
// 1. Client connects with run ID
// 2. Connection registered with hub
// 3. Client receives events as the run advances
// 4. Disconnection triggers cleanup
//
// Concurrency:
//
// The client map is owned by the hub goroutine. Registration,
// unregistration, and every broadcast flow through the hub's channels, so
// no lock is needed and publishers never touch connection state directly.
package websocket
