package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/wricardo/mcp-training/vacancysim/sim/engine"
	"github.com/wricardo/mcp-training/vacancysim/sim/service"
	"github.com/wricardo/mcp-training/vacancysim/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service   service.SimulationService
	hub       *websocket.Hub
	router    *mux.Router
	staticDir string
}

// NewServer creates a new API server serving static files from ./static/.
func NewServer(simService service.SimulationService, hub *websocket.Hub) *Server {
	return NewServerWithStatic(simService, hub, "./static/")
}

// NewServerWithStatic creates a new API server with an explicit static
// file directory.
func NewServerWithStatic(simService service.SimulationService, hub *websocket.Hub, staticDir string) *Server {
	s := &Server{
		service:   simService,
		hub:       hub,
		router:    mux.NewRouter(),
		staticDir: staticDir,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	// API routes with clean REST patterns
	api := s.router.PathPrefix("/api").Subrouter()

	// Run management
	api.HandleFunc("/runs", s.handleStartRun).Methods("POST")
	api.HandleFunc("/runs", s.handleListRuns).Methods("GET")
	// Registry summary for dashboards (must be before {id} pattern)
	api.HandleFunc("/runs/summary", s.handleRunSummary).Methods("GET")
	api.HandleFunc("/runs/{id}", s.handleGetRun).Methods("GET")
	api.HandleFunc("/runs/{id}", s.handleDeleteRun).Methods("DELETE")
	api.HandleFunc("/runs/{id}/cancel", s.handleCancelRun).Methods("POST")
	api.HandleFunc("/runs/{id}/result", s.handleGetResult).Methods("GET")

	// Synchronous simulation
	api.HandleFunc("/simulate", s.handleSimulate).Methods("POST")

	// Scenarios
	api.HandleFunc("/scenarios", s.handleListScenarios).Methods("GET")
	api.HandleFunc("/scenarios", s.handleCreateScenario).Methods("POST")
	api.HandleFunc("/scenarios/{name}", s.handleGetScenario).Methods("GET")

	// Health
	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	// Static files (if needed)
	s.router.PathPrefix("/").Handler(http.FileServer(http.Dir(s.staticDir)))
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// Run Handlers

func (s *Server) handleStartRun(w http.ResponseWriter, r *http.Request) {
	var req service.StartRunRequest

	// An empty body starts the default scenario
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	info, err := s.service.StartRun(r.Context(), req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Compact server log for observability
	fmt.Printf("[RUN] started id=%s scenario=%s start=%s iterations=%d seed=%d\n",
		info.ID, info.ScenarioID, info.Scenario.Start(), info.Scenario.Iterations, info.Scenario.Seed)

	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.service.ListRuns(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Parse query parameters
	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created" (default), "finished"
	order := query.Get("order")    // "asc", "desc" (default: "desc")
	limitStr := query.Get("limit") // number of runs to return

	// Set defaults
	if sortBy == "" {
		sortBy = "created"
	}
	if order == "" {
		order = "desc"
	}

	// Sort runs
	sort.Slice(runs, func(i, j int) bool {
		ti, tj := runs[i].CreatedAt, runs[j].CreatedAt
		if sortBy == "finished" {
			// Live runs have no finish time and sort as zero
			ti, tj = time.Time{}, time.Time{}
			if runs[i].FinishedAt != nil {
				ti = *runs[i].FinishedAt
			}
			if runs[j].FinishedAt != nil {
				tj = *runs[j].FinishedAt
			}
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj) // desc
	})

	// Apply limit if specified
	total := len(runs)
	limit := total
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < total {
			limit = l
		}
	}
	runs = runs[:limit]

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(runs),
		"total": total,
		"runs":  runs,
		"sort":  sortBy,
		"order": order,
	})
}

func (s *Server) handleRunSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.service.Summary(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	runID := vars["id"]

	run, err := s.service.GetRun(r.Context(), runID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, run)
}

func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	runID := vars["id"]

	err := s.service.DeleteRun(r.Context(), runID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Run %s deleted", runID),
	})
}

func (s *Server) handleCancelRun(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	runID := vars["id"]

	if err := s.service.CancelRun(r.Context(), runID); err != nil {
		status := http.StatusBadRequest
		if strings.Contains(err.Error(), "not found") {
			status = http.StatusNotFound
		}
		respondError(w, status, err.Error())
		return
	}

	// Compact server log for observability
	fmt.Printf("[CANCEL] run=%s cancellation requested\n", runID)

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Run %s cancellation requested", runID),
	})
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	runID := vars["id"]

	result, err := s.service.GetResult(r.Context(), runID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Simulation Handler

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var params service.SimulateParams

	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.Simulate(r.Context(), params)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Compact server log for observability
	fmt.Printf("[SIM] start=%s iterations=%d seed=%d\n",
		result.Start, result.Iterations, result.Seed)

	respondJSON(w, http.StatusOK, result)
}

// Scenario Handlers

func (s *Server) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	scenarios, err := s.service.ListScenarios(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, scenarios)
}

func (s *Server) handleGetScenario(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	scenarioName := vars["name"]

	// Remove .json extension if present
	scenarioName = strings.TrimSuffix(scenarioName, ".json")

	scenario, err := s.service.LoadScenario(r.Context(), scenarioName)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, scenario)
}

func (s *Server) handleCreateScenario(w http.ResponseWriter, r *http.Request) {
	// Decode directly into engine.Scenario which has the correct structure
	var scenario engine.Scenario

	if err := json.NewDecoder(r.Body).Decode(&scenario); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Validate required fields
	if scenario.Name == "" {
		respondError(w, http.StatusBadRequest, "Scenario name is required")
		return
	}

	// Save scenario
	if err := s.service.SaveScenario(r.Context(), scenario.Name, &scenario); err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to save scenario: %v", err))
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":     "Scenario saved successfully",
		"scenario_id": scenario.Name,
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	runID := r.URL.Query().Get("run")
	if runID == "" {
		http.Error(w, "run parameter required", http.StatusBadRequest)
		return
	}

	// Verify run exists
	_, err := s.service.GetRun(context.Background(), runID)
	if err != nil {
		http.Error(w, "Invalid run", http.StatusNotFound)
		return
	}

	// Upgrade to WebSocket
	s.hub.ServeWS(w, r, runID)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
