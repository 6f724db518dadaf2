// Command vacancysim starts the vacancy walk simulator.
//
// It supports three modes:
//  1. "serve" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "run" – executes a one-shot simulation in-process and prints the estimate
//
// Flags and environment variables control host/port, data directories, debug
// logging, and optional ngrok tunneling for easy external access during
// development. A .env file is honored when present.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	cli "github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/mcp-training/vacancysim/api"
	"github.com/wricardo/mcp-training/vacancysim/render"
	"github.com/wricardo/mcp-training/vacancysim/sim/engine"
	"github.com/wricardo/mcp-training/vacancysim/sim/run"
	"github.com/wricardo/mcp-training/vacancysim/sim/scenario"
	"github.com/wricardo/mcp-training/vacancysim/sim/service"
	"github.com/wricardo/mcp-training/vacancysim/transport/mcp"
	"github.com/wricardo/mcp-training/vacancysim/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Vacancy Walk Simulator"
)

// main loads the environment and dispatches to the selected command.
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		// Only log if it's not a "file not found" error
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	root := &cli.Command{
		Name:           "vacancysim",
		Usage:          "estimate the long-run occupancy of a vacancy walking a fixed six-cell grid",
		Version:        Version,
		DefaultCommand: "serve",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run a one-shot simulation in-process and print the occupancy estimate",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "scenario",
						Usage: "Scenario preset to run (loaded from the scenario directory)",
					},
					&cli.IntFlag{
						Name:  "start-x",
						Usage: "Starting column of the vacancy (0-2)",
					},
					&cli.IntFlag{
						Name:  "start-y",
						Usage: "Starting row of the vacancy (0-1)",
					},
					&cli.Int64Flag{
						Name:    "iterations",
						Aliases: []string{"n"},
						Value:   1_000_000,
						Usage:   "Number of iterations to walk",
					},
					&cli.Int64Flag{
						Name:  "seed",
						Usage: "RNG seed for a reproducible walk (0 draws fresh entropy)",
					},
					&cli.BoolFlag{
						Name:  "board",
						Usage: "Render the occupancy grid after the distribution lines",
					},
					&cli.BoolFlag{
						Name:  "bars",
						Usage: "Render the occupancy bar chart after the distribution lines",
					},
				}, dirFlags()...),
				Action: runAction,
			},
			{
				Name:    "serve",
				Aliases: []string{"server", "http"},
				Usage:   "Run the HTTP server with REST API, WebSocket, and MCP endpoint",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "host",
						Usage: "HTTP server host (overrides HOST)",
					},
					&cli.IntFlag{
						Name:  "port",
						Usage: "HTTP server port (overrides PORT)",
					},
					&cli.StringFlag{
						Name:  "static-dir",
						Usage: "Directory serving the dashboard assets (overrides STATIC_DIR)",
					},
					&cli.BoolFlag{
						Name:    "ngrok",
						Usage:   "Enable ngrok tunnel",
						Sources: cli.EnvVars("NGROK_ENABLED"),
					},
					&cli.StringFlag{
						Name:    "ngrok-auth",
						Usage:   "Ngrok auth token",
						Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
					},
					&cli.StringFlag{
						Name:    "ngrok-domain",
						Usage:   "Custom ngrok domain (optional)",
						Sources: cli.EnvVars("NGROK_DOMAIN"),
					},
				}, dirFlags()...),
				Action: serveAction,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "Run an MCP stdio server, reusing an external API server when one is up",
				Flags:   dirFlags(),
				Action:  mcpAction,
			},
		},
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// dirFlags returns the data-directory flags shared by the commands. Each
// command gets its own instances; urfave flags carry parsed state.
func dirFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "scenario-dir",
			Usage: "Directory containing scenario presets (overrides SCENARIO_DIR)",
		},
		&cli.StringFlag{
			Name:  "runs-dir",
			Usage: "Directory holding persisted run results (overrides RUNS_DIR)",
		},
	}
}

// loadConfig reads the environment configuration and lets explicitly set
// flags override it.
func loadConfig(cmd *cli.Command) (*api.Config, error) {
	cfg, err := api.LoadConfig()
	if err != nil {
		return nil, err
	}

	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = cmd.Int("port")
	}
	if cmd.IsSet("scenario-dir") {
		cfg.ScenarioDir = cmd.String("scenario-dir")
	}
	if cmd.IsSet("runs-dir") {
		cfg.RunsDir = cmd.String("runs-dir")
	}
	if cmd.IsSet("static-dir") {
		cfg.StaticDir = cmd.String("static-dir")
	}

	return cfg, nil
}

// runAction executes a simulation directly in-process, without the server
// stack, and prints the canonical distribution lines.
func runAction(ctx context.Context, cmd *cli.Command) error {
	startX := cmd.Int("start-x")
	startY := cmd.Int("start-y")
	rawIterations := cmd.Int64("iterations")
	seed := cmd.Int64("seed")

	if name := cmd.String("scenario"); name != "" {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		scenarios, err := scenario.NewManager(cfg.ScenarioDir)
		if err != nil {
			return fmt.Errorf("failed to create scenario manager: %w", err)
		}
		preset, err := scenarios.LoadScenario(name)
		if err != nil {
			return err
		}

		startX, startY = preset.StartX, preset.StartY
		rawIterations = int64(preset.Iterations)
		seed = preset.Seed

		// Explicit flags override the preset
		if cmd.IsSet("start-x") {
			startX = cmd.Int("start-x")
		}
		if cmd.IsSet("start-y") {
			startY = cmd.Int("start-y")
		}
		if cmd.IsSet("iterations") {
			rawIterations = cmd.Int64("iterations")
		}
		if cmd.IsSet("seed") {
			seed = cmd.Int64("seed")
		}
	}

	if rawIterations < engine.MinIterations {
		return fmt.Errorf("iterations must be at least %d, got %d", engine.MinIterations, rawIterations)
	}
	iterations := uint64(rawIterations)

	started := time.Now()

	var result *engine.Result
	var err error
	if seed != 0 {
		result, err = engine.NewSimulator(seed).Run(startX, startY, iterations)
	} else {
		result, err = engine.Simulate(startX, startY, iterations)
	}
	if err != nil {
		return err
	}

	elapsed := time.Since(started)

	fmt.Println(result.String())

	if cmd.Bool("board") {
		fmt.Println()
		fmt.Println(render.Board(result.Occupancy))
	}
	if cmd.Bool("bars") {
		fmt.Println()
		fmt.Println(render.Bars(result.Occupancy))
	}

	fmt.Printf("Executed in %s\n", elapsed)
	return nil
}

// serveAction starts the HTTP server with REST API, WebSocket hub, and an
// /mcp proxy endpoint. If ngrok is enabled (via flag or environment), it
// also provisions a public tunnel.
func serveAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("debug") {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log.Printf("Starting %s v%s (mode: serve)", AppName, Version)

	// Create WebSocket hub before the service; run workers publish
	// progress through it.
	hub := websocket.NewHub()
	go hub.Run()

	simService, runManager, err := initializeServices(cfg, hub)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	// Create API server
	apiServer := api.NewServerWithStatic(simService, hub, cfg.StaticDir)

	addr := cfg.Addr()

	// Create MCP client for the /mcp endpoint
	baseURL := fmt.Sprintf("http://%s", addr)
	mcpClient := mcp.NewClient(baseURL)

	// Create main router that combines API and MCP
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", mcpHTTPHandler(mcpClient))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Setup graceful shutdown context
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Handle shutdown signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup

	// Start regular HTTP server
	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?run=<run_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Start ngrok tunnel if enabled
	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()

			authToken := cmd.String("ngrok-auth")
			if authToken == "" {
				log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
				return
			}

			log.Println("Starting ngrok tunnel...")

			domain := cmd.String("ngrok-domain")

			// Configure ngrok endpoint
			var tunnel ngrokConfig.Tunnel
			if domain != "" {
				tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
				log.Printf("Using custom ngrok domain: %s", domain)
			} else {
				tunnel = ngrokConfig.HTTPEndpoint()
			}

			// Start ngrok tunnel
			tun, err := ngrok.Listen(ctx,
				tunnel,
				ngrok.WithAuthtoken(authToken),
			)
			if err != nil {
				log.Printf("Failed to start ngrok tunnel: %v", err)
				return
			}
			defer func() {
				if err := tun.Close(); err != nil {
					log.Printf("Failed to close ngrok tunnel: %v", err)
				}
			}()

			ngrokURL := tun.URL()
			log.Printf("🚀 Ngrok tunnel established: %s", ngrokURL)
			log.Printf("  REST API (ngrok): %s/api", ngrokURL)
			log.Printf("  WebSocket (ngrok): %s/ws?run=<run_id>", ngrokURL)
			log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)
			log.Printf("  Dashboard (ngrok): %s/", ngrokURL)

			// Serve HTTP through ngrok tunnel
			if err := http.Serve(tun, mainRouter); err != nil && err != http.ErrServerClosed {
				log.Printf("Ngrok server error: %v", err)
			}
			log.Println("Ngrok tunnel closed")
		}()
	}

	// Wait for shutdown signal
	sig := <-stop
	log.Printf("Received signal: %v. Shutting down...", sig)
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Persist whatever reached a terminal state before exiting
	if err := runManager.SaveAll(); err != nil {
		log.Printf("Warning: Failed to save runs during shutdown: %v", err)
	}

	// Wait for all goroutines to finish
	wg.Wait()
	log.Println("Server stopped")
	return nil
}

// mcpAction runs an MCP stdio server.
// It tries to reuse an external API at http://localhost:8080; if unavailable, it
// starts a minimal internal HTTP API bound to a random loopback port and targets that.
func mcpAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("debug") {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var baseURL string

	// First, try to connect to an external API server at localhost:8080
	externalURL := "http://localhost:8080"
	log.Printf("Checking for external API server at %s...", externalURL)

	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, probeErr := testClient.Get(externalURL + "/api/health")
	if probeErr == nil && resp.StatusCode < 500 {
		resp.Body.Close()
		log.Printf("External API server found at %s, using it for MCP", externalURL)
		baseURL = externalURL
	} else {
		// No external server found, start an internal one
		log.Printf("No external API server found, starting internal HTTP server")

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		// Get the actual port that was assigned
		internalPort := listener.Addr().(*net.TCPAddr).Port
		internalAddr := fmt.Sprintf("127.0.0.1:%d", internalPort)

		log.Printf("Starting internal HTTP server on %s for MCP stdio", internalAddr)

		hub := websocket.NewHub()
		go hub.Run()

		simService, _, err := initializeServices(cfg, hub)
		if err != nil {
			return fmt.Errorf("failed to initialize services: %w", err)
		}

		apiServer := api.NewServerWithStatic(simService, hub, cfg.StaticDir)

		httpServer := &http.Server{
			Handler: apiServer,
		}

		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Printf("Internal HTTP server error: %v", err)
			}
		}()

		// Wait a moment for the server to be ready
		time.Sleep(100 * time.Millisecond)

		baseURL = fmt.Sprintf("http://%s", internalAddr)
	}

	// Create MCP client pointing to the selected server
	mcpClient := mcp.NewClient(baseURL)

	if baseURL == externalURL {
		log.Println("MCP stdio server ready (using external HTTP server)")
	} else {
		log.Println("MCP stdio server ready (using internal HTTP server)")
	}

	// Run MCP stdio server (blocking)
	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}

	return nil
}

// mcpHTTPHandler adapts the MCP message handler to a plain HTTP POST endpoint.
func mcpHTTPHandler(mcpClient *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	}
}

// initializeServices wires scenario/run managers and the simulation service.
// It also starts background routines that prune expired runs, mirror
// filesystem deletions, and refresh the scenario cache.
func initializeServices(cfg *api.Config, hub *websocket.Hub) (service.SimulationService, *run.Manager, error) {
	// Create scenario manager first (runs reference its presets)
	scenarioManager, err := scenario.NewManager(cfg.ScenarioDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create scenario manager: %w", err)
	}

	// Create run persistence
	persistence, err := run.NewFilePersistence(cfg.RunsDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create run persistence: %w", err)
	}

	// Create run manager with persistence
	runManager := run.NewManagerWithPersistence(persistence)

	// Load persisted runs on startup
	if err := runManager.LoadPersistedRuns(); err != nil {
		log.Printf("Warning: Failed to load persisted runs: %v", err)
	}

	// Create simulation service
	simService := service.NewSimulationService(runManager, scenarioManager, hub)

	// Start run cleanup routine
	go runCleanupRoutine(runManager, cfg)

	// Start filesystem sync routine
	go filesystemSyncRoutine(runManager, persistence, cfg)

	// Start scenario refresh routine
	go scenarioRefreshRoutine(scenarioManager, cfg)

	return simService, runManager, nil
}

// runCleanupRoutine periodically removes terminal runs older than the
// retention window.
func runCleanupRoutine(manager *run.Manager, cfg *api.Config) {
	ticker := time.NewTicker(cfg.CleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		removed := manager.CleanupExpiredRuns(cfg.RunRetention)
		if removed > 0 {
			log.Printf("Cleaned up %d expired runs", removed)
		}
	}
}

// filesystemSyncRoutine periodically syncs in-memory runs with filesystem state.
// It removes terminal runs from memory when their result files are deleted.
// Live runs never have files, so only terminal states are compared.
func filesystemSyncRoutine(manager *run.Manager, persistence run.RunPersistence, cfg *api.Config) {
	ticker := time.NewTicker(cfg.SyncInterval)
	defer ticker.Stop()

	for range ticker.C {
		// Skip if no persistence configured
		if persistence == nil {
			continue
		}

		memoryRuns := manager.List()

		pruned := 0
		for _, r := range memoryRuns {
			if !r.State().Terminal() {
				continue
			}
			if !persistence.Exists(r.ID) {
				// File deleted, remove from memory
				if err := manager.DeleteFromMemory(r.ID); err == nil {
					pruned++
					log.Printf("Pruned run %s from memory (file deleted)", r.ID)
				}
			}
		}

		if pruned > 0 {
			log.Printf("Filesystem sync: pruned %d orphaned runs from memory", pruned)
		}
	}
}

// scenarioRefreshRoutine periodically reloads scenario presets from disk so
// files dropped into the directory show up without a restart.
func scenarioRefreshRoutine(manager *scenario.Manager, cfg *api.Config) {
	ticker := time.NewTicker(cfg.RefreshInterval)
	defer ticker.Stop()

	for range ticker.C {
		if err := manager.RefreshCache(); err != nil {
			log.Printf("Warning: Failed to refresh scenario cache: %v", err)
		}
	}
}
