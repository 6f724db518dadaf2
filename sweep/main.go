// Command sweep starts one run from each of the six grid cells against a
// running simulator server, polls them to completion, and prints a
// comparison table of the six occupancy estimates. The long-run shares do
// not depend on where the walk starts, so the per-cell spread across the
// six runs measures how well the estimates have converged.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type RunParams struct {
	StartX     int    `json:"start_x"`
	StartY     int    `json:"start_y"`
	Iterations uint64 `json:"iterations"`
	Seed       int64  `json:"seed,omitempty"`
}

type StartRunRequest struct {
	Params *RunParams `json:"params"`
}

type Result struct {
	Start      Position   `json:"start"`
	Iterations uint64     `json:"iterations"`
	Seed       int64      `json:"seed"`
	Counts     [6]uint64  `json:"counts"`
	Occupancy  [6]float64 `json:"occupancy"`
}

type ProgressInfo struct {
	Completed uint64  `json:"completed"`
	Total     uint64  `json:"total"`
	Percent   float64 `json:"percent"`
}

type RunInfo struct {
	ID         string       `json:"id"`
	ScenarioID string       `json:"scenario_id"`
	State      RunState     `json:"state"`
	Progress   ProgressInfo `json:"progress"`
	Result     *Result      `json:"result,omitempty"`
	Error      string       `json:"error,omitempty"`
}

type RunState string

const (
	RunPending   RunState = "pending"
	RunRunning   RunState = "running"
	RunCompleted RunState = "completed"
	RunCancelled RunState = "cancelled"
	RunFailed    RunState = "failed"
)

var cellLabels = [6]string{"zero", "one", "two", "three", "four", "five"}

type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) StartRun(params RunParams) (*RunInfo, error) {
	body, err := json.Marshal(StartRunRequest{Params: &params})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	resp, err := c.client.Post(c.baseURL+"/api/runs", "application/json", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("start run: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("start run failed: %s - %s", resp.Status, string(data))
	}

	var info RunInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("parse run response: %w", err)
	}

	return &info, nil
}

func (c *Client) GetRun(runID string) (*RunInfo, error) {
	url := fmt.Sprintf("%s/api/runs/%s", c.baseURL, runID)
	resp, err := c.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get run failed: %s - %s", resp.Status, string(data))
	}

	var info RunInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("parse run response: %w", err)
	}

	return &info, nil
}

func (c *Client) GetResult(runID string) (*Result, error) {
	url := fmt.Sprintf("%s/api/runs/%s/result", c.baseURL, runID)
	resp, err := c.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("get result: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get result failed: %s - %s", resp.Status, string(data))
	}

	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("parse result: %w", err)
	}

	return &result, nil
}

func main() {
	serverURL := flag.String("url", "http://localhost:8080", "Simulator server URL")
	iterations := flag.Uint64("iterations", 10_000_000, "Iterations per start cell")
	seed := flag.Int64("seed", 0, "Base seed (0 = entropy; otherwise the cell index is added per run)")
	pollMs := flag.Int("poll", 500, "Poll interval in milliseconds")
	waitMin := flag.Int("wait", 60, "Maximum minutes to wait for all runs")
	tolerance := flag.Float64("tolerance", 0.01, "Maximum allowed per-cell spread across starts")
	resume := flag.Bool("continue", false, "Re-attach to the runs saved in .sweep")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	log.Printf("Connecting to simulator server at %s", *serverURL)
	client := NewClient(*serverURL)

	starts := [6]Position{}
	for i := range starts {
		starts[i] = Position{X: i % 3, Y: i / 3}
	}

	sweepFile := ".sweep"
	var runIDs [6]string

	if *resume {
		data, err := os.ReadFile(sweepFile)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", sweepFile, err)
		}
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != len(runIDs) {
			log.Fatalf("Expected %d run IDs in %s, found %d", len(runIDs), sweepFile, len(lines))
		}
		for i, line := range lines {
			runIDs[i] = strings.TrimSpace(line)
		}
		log.Printf("🔄 Re-attached to runs: %s", strings.Join(runIDs[:], ", "))
	} else {
		for i, start := range starts {
			params := RunParams{
				StartX:     start.X,
				StartY:     start.Y,
				Iterations: *iterations,
			}
			if *seed != 0 {
				params.Seed = *seed + int64(i)
			}

			info, err := client.StartRun(params)
			if err != nil {
				log.Fatalf("Failed to start run from %s: %v", cellLabels[i], err)
			}
			runIDs[i] = info.ID
			log.Printf("✨ Run %s started from %s (%d, %d)", info.ID, cellLabels[i], start.X, start.Y)
		}

		// Save run IDs so an interrupted sweep can re-attach with -continue
		if err := os.WriteFile(sweepFile, []byte(strings.Join(runIDs[:], "\n")+"\n"), 0644); err != nil {
			log.Printf("Warning: Failed to save run IDs: %v", err)
		}
	}

	// Poll all six runs until they reach a terminal state
	var results [6]*Result
	var failed [6]bool
	deadline := time.Now().Add(time.Duration(*waitMin) * time.Minute)

	for {
		pending := 0
		for i, id := range runIDs {
			if results[i] != nil || failed[i] {
				continue
			}

			info, err := client.GetRun(id)
			if err != nil {
				log.Printf("⚠️  Poll failed for run %s: %v", id, err)
				pending++
				continue
			}

			switch info.State {
			case RunCompleted:
				result, err := client.GetResult(id)
				if err != nil {
					log.Printf("⚠️  Run %s completed but the result fetch failed: %v", id, err)
					pending++
					continue
				}
				results[i] = result
				log.Printf("✅ Run %s completed: %d iterations from %s", id, result.Iterations, cellLabels[i])
			case RunFailed:
				failed[i] = true
				log.Printf("❌ Run %s failed: %s", id, info.Error)
			case RunCancelled:
				failed[i] = true
				log.Printf("⚠️  Run %s was cancelled", id)
			default:
				pending++
				if *verbose {
					log.Printf("Run %s: %s %.1f%% (%d/%d)", id, info.State,
						info.Progress.Percent, info.Progress.Completed, info.Progress.Total)
				}
			}
		}

		if pending == 0 {
			break
		}
		if time.Now().After(deadline) {
			log.Fatalf("❌ Timed out after %d minutes with %d runs still pending", *waitMin, pending)
		}
		time.Sleep(time.Duration(*pollMs) * time.Millisecond)
	}

	completed := 0
	for i := range results {
		if results[i] != nil {
			completed++
		}
	}
	if completed < len(results) {
		log.Printf("\n❌ Only %d/%d runs completed; no comparison possible", completed, len(results))
		os.Exit(1)
	}

	// Comparison table: one row per start cell, one column per cell share
	log.Printf("\n📊 Sweep complete: %d iterations per start", *iterations)
	fmt.Printf("\n%-16s", "start")
	for _, label := range cellLabels {
		fmt.Printf(" %10s", label)
	}
	fmt.Println()
	for i, result := range results {
		fmt.Printf("%-16s", fmt.Sprintf("%s (%d,%d)", cellLabels[i], starts[i].X, starts[i].Y))
		for _, v := range result.Occupancy {
			fmt.Printf(" %10.6f", v)
		}
		fmt.Println()
	}

	// Per-cell spread across the six starts
	maxSpread := 0.0
	fmt.Printf("%-16s", "spread")
	for j := 0; j < len(cellLabels); j++ {
		lo, hi := results[0].Occupancy[j], results[0].Occupancy[j]
		for i := 1; i < len(results); i++ {
			v := results[i].Occupancy[j]
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		spread := hi - lo
		if spread > maxSpread {
			maxSpread = spread
		}
		fmt.Printf(" %10.6f", spread)
	}
	fmt.Println()

	if maxSpread > *tolerance {
		log.Printf("\n❌ Start cells disagree: max spread %.6f exceeds tolerance %.6f", maxSpread, *tolerance)
		log.Printf("Raise -iterations or re-run; short walks scatter widely")
		os.Exit(1)
	}

	log.Printf("\n🎉 All six starts agree: max spread %.6f within tolerance %.6f", maxSpread, *tolerance)
	os.Remove(sweepFile)
}
