package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/wricardo/mcp-training/vacancysim/sim/engine"
	"github.com/wricardo/mcp-training/vacancysim/sim/service"
)

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL)

	if client == nil {
		t.Fatal("Expected client to be created")
	}

	if client.baseURL != baseURL {
		t.Errorf("Expected baseURL %s, got %s", baseURL, client.baseURL)
	}

	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}

	if client.mcpServer == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	// Test server that returns a known response
	expectedResponse := map[string]interface{}{
		"status": "healthy",
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(expectedResponse)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]interface{}
	err := client.apiCall("GET", "/api/health", nil, &response)
	if err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}

	if response["status"] != expectedResponse["status"] {
		t.Errorf("Expected status %v, got %v", expectedResponse["status"], response["status"])
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	err := client.apiCall("GET", "/api/runs", nil, nil)
	if err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall("GET", "/api/runs", nil, nil)
	if err == nil {
		t.Error("Expected error for HTTP 500 response")
	}

	if !strings.Contains(err.Error(), "API error") {
		t.Errorf("Expected 'API error' in error message, got: %v", err)
	}
}

func TestClient_apiCall_ErrorBody(t *testing.T) {
	// The API responds with {"error": "..."} on failures; apiCall should
	// surface that message instead of the bare status code.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "run 'zz99' not found"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall("GET", "/api/runs/zz99", nil, nil)
	if err == nil {
		t.Fatal("Expected error for HTTP 404 response")
	}

	if !strings.Contains(err.Error(), "run 'zz99' not found") {
		t.Errorf("Expected API error message to be surfaced, got: %v", err)
	}
}

func TestClient_handleStartRun(t *testing.T) {
	// Mock server that responds to run creation
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/runs" {
			t.Errorf("Expected POST /api/runs, got %s %s", r.Method, r.URL.Path)
		}

		var req service.StartRunRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.ScenarioID != "reference" {
			t.Errorf("Expected scenario_id 'reference', got %q", req.ScenarioID)
		}
		if req.Params != nil {
			t.Errorf("Expected no inline params, got %+v", req.Params)
		}

		resp := service.RunInfo{
			ID:         "ab12",
			ScenarioID: "reference",
			Scenario: &engine.Scenario{
				Name:       "reference",
				StartX:     0,
				StartY:     0,
				Iterations: 100000000,
			},
			State:     service.RunPending,
			CreatedAt: time.Now(),
			Progress:  service.ProgressInfo{Total: 100000000},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "start_run",
			Arguments: map[string]interface{}{
				"scenario_id": "reference",
			},
		},
	}

	result, err := client.handleStartRun(ctx, request)
	if err != nil {
		t.Fatalf("handleStartRun failed: %v", err)
	}

	if result == nil {
		t.Fatal("Expected result, got nil")
	}

	resultStr, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}

	expectedFields := []string{
		"Run ab12 [pending]",
		"Scenario: reference",
		"Start: (0, 0) (zero)",
		"Iterations: 100000000",
		"Poll run_status",
	}
	for _, field := range expectedFields {
		if !strings.Contains(resultStr.Text, field) {
			t.Errorf("Expected field %q in result, got: %s", field, resultStr.Text)
		}
	}
}

func TestClient_handleStartRun_InlineParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req service.StartRunRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Params == nil {
			t.Error("Expected inline params to be attached")
			req.Params = &engine.Scenario{}
		}
		if req.Params.StartX != 2 || req.Params.StartY != 1 {
			t.Errorf("Expected start (2, 1), got (%d, %d)", req.Params.StartX, req.Params.StartY)
		}
		if req.Params.Iterations != 5000000 {
			t.Errorf("Expected 5000000 iterations, got %d", req.Params.Iterations)
		}
		if req.Params.Seed != 42 {
			t.Errorf("Expected seed 42, got %d", req.Params.Seed)
		}

		resp := service.RunInfo{
			ID:        "cd34",
			Scenario:  req.Params,
			State:     service.RunPending,
			CreatedAt: time.Now(),
			Progress:  service.ProgressInfo{Total: req.Params.Iterations},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "start_run",
			Arguments: map[string]interface{}{
				"start_x":    float64(2),
				"start_y":    float64(1),
				"iterations": float64(5000000),
				"seed":       float64(42),
			},
		},
	}

	result, err := client.handleStartRun(context.Background(), request)
	if err != nil {
		t.Fatalf("handleStartRun failed: %v", err)
	}

	resultStr := result.Content[0].(mcp.TextContent)
	if !strings.Contains(resultStr.Text, "Run cd34") {
		t.Errorf("Expected run ID in result, got: %s", resultStr.Text)
	}
	if !strings.Contains(resultStr.Text, "Seed: 42") {
		t.Errorf("Expected seed in result, got: %s", resultStr.Text)
	}
}

func TestClient_handleSimulate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/simulate" {
			t.Errorf("Expected POST /api/simulate, got %s %s", r.Method, r.URL.Path)
		}

		var params service.SimulateParams
		json.NewDecoder(r.Body).Decode(&params)
		if params.Iterations != 10000 {
			t.Errorf("Expected 10000 iterations, got %d", params.Iterations)
		}

		result, err := engine.NewSimulator(params.Seed).Run(params.StartX, params.StartY, params.Iterations)
		if err != nil {
			t.Errorf("simulate: %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "simulate",
			Arguments: map[string]interface{}{
				"iterations": float64(10000),
				"start_x":    float64(1),
				"start_y":    float64(1),
				"seed":       float64(7),
			},
		},
	}

	result, err := client.handleSimulate(context.Background(), request)
	if err != nil {
		t.Fatalf("handleSimulate failed: %v", err)
	}

	resultStr, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}

	expectedFields := []string{
		"Start: (1, 1) (four)",
		"Iterations: 10000",
		"Seed: 7",
		"In zero:",
		"In five:",
		"Sum of fractions",
	}
	for _, field := range expectedFields {
		if !strings.Contains(resultStr.Text, field) {
			t.Errorf("Expected field %q in result, got: %s", field, resultStr.Text)
		}
	}
}

func TestClient_handleDescribePosition(t *testing.T) {
	// No API server: the grid is fixed and described locally.
	client := NewClient("http://localhost:8080")

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "describe_position",
			Arguments: map[string]interface{}{
				"x": float64(0),
				"y": float64(0),
			},
		},
	}

	result, err := client.handleDescribePosition(context.Background(), request)
	if err != nil {
		t.Fatalf("handleDescribePosition failed: %v", err)
	}

	resultStr, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}

	expectedFields := []string{
		"Cell at position (0, 0)",
		"Label: zero",
		"Row-major index: 0",
		"✗ up",
		"✓ down -> three",
		"✗ left",
		"✓ right -> one",
		"accepts 2 of the 4 directions",
	}
	for _, field := range expectedFields {
		if !strings.Contains(resultStr.Text, field) {
			t.Errorf("Expected field %q in description, got: %s", field, resultStr.Text)
		}
	}
}

func TestClient_handleDescribePosition_Middle(t *testing.T) {
	client := NewClient("http://localhost:8080")

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "describe_position",
			Arguments: map[string]interface{}{
				"x": float64(1),
				"y": float64(1),
			},
		},
	}

	result, err := client.handleDescribePosition(context.Background(), request)
	if err != nil {
		t.Fatalf("handleDescribePosition failed: %v", err)
	}

	resultStr := result.Content[0].(mcp.TextContent)

	expectedFields := []string{
		"Label: four",
		"✓ up -> one",
		"✗ down",
		"✓ left -> three",
		"✓ right -> five",
		"accepts 3 of the 4 directions",
	}
	for _, field := range expectedFields {
		if !strings.Contains(resultStr.Text, field) {
			t.Errorf("Expected field %q in description, got: %s", field, resultStr.Text)
		}
	}
}

func TestClient_handleDescribePosition_OutOfBounds(t *testing.T) {
	client := NewClient("http://localhost:8080")

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "describe_position",
			Arguments: map[string]interface{}{
				"x": float64(5),
				"y": float64(5),
			},
		},
	}

	result, err := client.handleDescribePosition(context.Background(), request)
	if err != nil {
		t.Fatalf("handleDescribePosition failed: %v", err)
	}

	if !result.IsError {
		t.Error("Expected error result for out-of-bounds coordinates")
	}

	resultStr := result.Content[0].(mcp.TextContent)
	if !strings.Contains(resultStr.Text, "out of bounds") {
		t.Errorf("Expected bounds message, got: %s", resultStr.Text)
	}
}

func TestFormatRunInfo(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	info := &service.RunInfo{
		ID:         "ef56",
		ScenarioID: "reference",
		Scenario: &engine.Scenario{
			Name:       "reference",
			StartX:     1,
			StartY:     0,
			Iterations: 5000000,
			Seed:       99,
		},
		State:     service.RunRunning,
		CreatedAt: created,
		Progress:  service.ProgressInfo{Completed: 2500000, Total: 5000000, Percent: 50},
	}

	result := formatRunInfo(info)

	expectedFields := []string{
		"Run ef56 [running]",
		"Scenario: reference",
		"Start: (1, 0) (one)",
		"Iterations: 5000000",
		"Seed: 99",
		"Progress: 2500000/5000000 (50.0%)",
		"Created: 2025-06-01 12:00:00",
		"Poll run_status until the state reaches completed.",
	}
	for _, field := range expectedFields {
		if !strings.Contains(result, field) {
			t.Errorf("Expected field %q in formatted output, got: %s", field, result)
		}
	}
}

func TestFormatRunInfo_Completed(t *testing.T) {
	finished := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	info := &service.RunInfo{
		ID: "gh78",
		Scenario: &engine.Scenario{
			StartX:     0,
			StartY:     1,
			Iterations: 1000,
		},
		State:      service.RunCompleted,
		CreatedAt:  finished.Add(-time.Minute),
		FinishedAt: &finished,
		Progress:   service.ProgressInfo{Completed: 1000, Total: 1000, Percent: 100},
	}

	result := formatRunInfo(info)

	if !strings.Contains(result, "Finished: 2025-06-01 12:30:00") {
		t.Errorf("Expected finish time in result, got: %s", result)
	}
	if !strings.Contains(result, "Call run_result to fetch the occupancy estimate.") {
		t.Errorf("Expected run_result hint in result, got: %s", result)
	}
}

func TestFormatRunInfo_Failed(t *testing.T) {
	info := &service.RunInfo{
		ID:        "ij90",
		Scenario:  &engine.Scenario{Iterations: 100},
		State:     service.RunFailed,
		CreatedAt: time.Now(),
		Error:     "scenario validation: iterations must be at least 1",
	}

	result := formatRunInfo(info)

	if !strings.Contains(result, "Error: scenario validation") {
		t.Errorf("Expected error field in result, got: %s", result)
	}
	if strings.Contains(result, "run_result") {
		t.Errorf("Failed run should not suggest run_result, got: %s", result)
	}
}

func TestFormatResult(t *testing.T) {
	result, err := engine.NewSimulator(7).Run(1, 1, 60000)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	formatted := formatResult(result)

	expectedFields := []string{
		"Start: (1, 1) (four)",
		"Iterations: 60000",
		"Seed: 7",
		"Occupancy estimate:",
		"In zero:",
		"In one:",
		"In two:",
		"In three:",
		"In four:",
		"In five:",
		"Sum of fractions:",
	}
	for _, field := range expectedFields {
		if !strings.Contains(formatted, field) {
			t.Errorf("Expected field %q in formatted output, got: %s", field, formatted)
		}
	}
}

func TestFormatScenarios(t *testing.T) {
	scenarios := []*service.ScenarioInfo{
		{
			ScenarioID:  "reference",
			Name:        "reference",
			Description: "Canonical hundred-million iteration estimate",
			Start:       engine.Position{X: 0, Y: 0},
			Iterations:  100000000,
		},
		{
			ScenarioID: "quick",
			Name:       "quick",
			Start:      engine.Position{X: 1, Y: 1},
			Iterations: 100000,
			Seeded:     true,
		},
	}

	result := formatScenarios(scenarios)

	expectedFields := []string{
		"Available scenarios (2):",
		"• reference: start (0, 0), 100000000 iterations",
		"Canonical hundred-million iteration estimate",
		"• quick: start (1, 1), 100000 iterations, seeded",
		"Pass a scenario_id to start_run",
	}
	for _, field := range expectedFields {
		if !strings.Contains(result, field) {
			t.Errorf("Expected field %q in formatted output, got: %s", field, result)
		}
	}
}

func TestFormatScenarios_Empty(t *testing.T) {
	result := formatScenarios(nil)

	if !strings.Contains(result, "No scenarios available") {
		t.Errorf("Expected empty message, got: %s", result)
	}
}

func TestClient_handleSimInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")
	ctx := context.Background()

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "sim_instructions",
			Arguments: map[string]interface{}{},
		},
	}

	result, err := client.handleSimInstructions(ctx, request)
	if err != nil {
		t.Fatalf("handleSimInstructions failed: %v", err)
	}

	if result == nil {
		t.Fatal("Expected result, got nil")
	}

	resultStr, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}

	expectedContent := []string{
		"Vacancy Walk Simulator - Complete Instructions",
		"SIMULATION OBJECTIVE:",
		"WALK MECHANICS:",
		"GRID LEGEND:",
		"READING RESULTS:",
		"RUN LIFECYCLE:",
		"CHOOSING PARAMETERS:",
		"AI AGENTS - RECOMMENDED STRATEGIES:",
		"AVAILABLE TOOLS SUMMARY:",
		"Good luck estimating the vacancy walk!",
	}

	for _, content := range expectedContent {
		if !strings.Contains(resultStr.Text, content) {
			t.Errorf("Expected '%s' in instructions, got: %s", content, resultStr.Text)
		}
	}
}

func TestClient_Integration(t *testing.T) {
	// Verifies the client can be created and initialized without errors
	client := NewClient("http://localhost:8080")

	if client == nil {
		t.Fatal("Failed to create client")
	}

	if client.mcpServer == nil {
		t.Fatal("MCP server not initialized")
	}

	if client.baseURL == "" {
		t.Error("Base URL not set")
	}

	if client.httpClient == nil {
		t.Error("HTTP client not initialized")
	}
}
