package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/mcp-training/vacancysim/sim/engine"
	"github.com/wricardo/mcp-training/vacancysim/sim/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Vacancy Walk Simulator",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Vacancy Walk Simulator - MCP Interface

This is a thin client that proxies all requests to the REST API server.

WHAT IT ESTIMATES:
A single vacant cell random-walks on a fixed grid of six cells, three
wide and two tall. Each iteration draws one uniform value in [0,1) and
maps it to up/down/left/right in equal quarters; draws that would leave
the board are rejected and redrawn. The simulator counts where the
vacancy sits after every accepted move and reports the fraction of time
spent in each cell (labels zero through five, row-major).

AVAILABLE TOOLS:
- simulate: Synchronous estimate for small iteration counts
- start_run: Start a background run for large iteration counts
- run_status: Check a run's lifecycle state and progress
- run_result: Fetch a completed run's occupancy estimate
- list_runs: List registered runs
- cancel_run: Stop an active run
- delete_run: Remove a run from the registry
- list_scenarios: List saved scenario presets
- save_scenario: Save a new scenario preset
- describe_position: Inspect a grid cell locally (no API call)
- sim_instructions: Detailed reference for the walk mechanics

WORKFLOW:
1. Call simulate for quick estimates (up to 10,000,000 iterations).
2. For longer workloads call start_run, poll run_status until the state
   is completed, then call run_result.
3. Pass a nonzero seed for reproducible estimates; seed 0 (or omitting
   it) draws fresh entropy for every run.`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools that proxy to the API
func (c *Client) registerTools() {
	// Run management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "start_run",
		Description: "Start a background simulation run from a scenario preset or inline parameters",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"scenario_id": map[string]interface{}{
					"type":        "string",
					"description": "Scenario preset to run (omit to use inline parameters or the default scenario)",
				},
				"start_x": map[string]interface{}{
					"type":        "number",
					"description": "Starting column of the vacancy (0-2)",
				},
				"start_y": map[string]interface{}{
					"type":        "number",
					"description": "Starting row of the vacancy (0-1)",
				},
				"iterations": map[string]interface{}{
					"type":        "number",
					"description": "Number of iterations to walk (1 to 10,000,000,000)",
				},
				"seed": map[string]interface{}{
					"type":        "number",
					"description": "RNG seed for a reproducible run (0 or omitted draws fresh entropy)",
				},
			},
		},
	}, c.handleStartRun)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "run_status",
		Description: "Get the lifecycle state and progress of a run",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"run_id": map[string]interface{}{
					"type":        "string",
					"description": "Run ID to inspect",
				},
			},
			Required: []string{"run_id"},
		},
	}, c.handleRunStatus)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "run_result",
		Description: "Get the occupancy estimate of a completed run",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"run_id": map[string]interface{}{
					"type":        "string",
					"description": "Run ID to fetch the result of",
				},
			},
			Required: []string{"run_id"},
		},
	}, c.handleRunResult)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_runs",
		Description: "List registered simulation runs, newest first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of runs to return",
				},
			},
		},
	}, c.handleListRuns)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "cancel_run",
		Description: "Request cancellation of an active run",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"run_id": map[string]interface{}{
					"type":        "string",
					"description": "Run ID to cancel",
				},
			},
			Required: []string{"run_id"},
		},
	}, c.handleCancelRun)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "delete_run",
		Description: "Remove a run from the registry",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"run_id": map[string]interface{}{
					"type":        "string",
					"description": "Run ID to delete",
				},
			},
			Required: []string{"run_id"},
		},
	}, c.handleDeleteRun)

	// Simulation operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "simulate",
		Description: "Run a walk synchronously and return the occupancy estimate in one call",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"iterations": map[string]interface{}{
					"type":        "number",
					"description": "Number of iterations to walk (1 to 10,000,000; use start_run beyond that)",
				},
				"start_x": map[string]interface{}{
					"type":        "number",
					"description": "Starting column of the vacancy (0-2, default 0)",
				},
				"start_y": map[string]interface{}{
					"type":        "number",
					"description": "Starting row of the vacancy (0-1, default 0)",
				},
				"seed": map[string]interface{}{
					"type":        "number",
					"description": "RNG seed for a reproducible estimate (0 or omitted draws fresh entropy)",
				},
			},
			Required: []string{"iterations"},
		},
	}, c.handleSimulate)

	// Scenario operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_scenarios",
		Description: "List available scenario presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListScenarios)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "save_scenario",
		Description: "Save a new scenario preset on the server",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Scenario name (used as the scenario_id when starting runs)",
				},
				"description": map[string]interface{}{
					"type":        "string",
					"description": "What the scenario is for",
				},
				"start_x": map[string]interface{}{
					"type":        "number",
					"description": "Starting column of the vacancy (0-2)",
				},
				"start_y": map[string]interface{}{
					"type":        "number",
					"description": "Starting row of the vacancy (0-1)",
				},
				"iterations": map[string]interface{}{
					"type":        "number",
					"description": "Number of iterations to walk",
				},
				"seed": map[string]interface{}{
					"type":        "number",
					"description": "RNG seed (0 or omitted means entropy seeding on every run)",
				},
			},
			Required: []string{"name", "description", "iterations"},
		},
	}, c.handleSaveScenario)

	// Board inspection (answered locally, the grid is fixed)
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_position",
		Description: "Describe a cell of the grid: its label, index and which moves the walk accepts there",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"x": map[string]interface{}{
					"type":        "number",
					"description": "Column to inspect (0-2)",
				},
				"y": map[string]interface{}{
					"type":        "number",
					"description": "Row to inspect (0-1)",
				},
			},
			Required: []string{"x", "y"},
		},
	}, c.handleDescribePosition)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "sim_instructions",
		Description: "Get complete instructions for the vacancy walk simulator including mechanics, grid layout and tool usage",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleSimInstructions)
}

// GetMCPServer returns the underlying MCP server (for HTTP mode)
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleStartRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})

	var body service.StartRunRequest
	if scenarioID, _ := args["scenario_id"].(string); scenarioID != "" {
		body.ScenarioID = scenarioID
	}

	// Inline parameters outrank the scenario on the server, so only
	// attach them when the caller actually set one.
	params := &engine.Scenario{}
	hasParams := false
	if v, ok := args["start_x"].(float64); ok {
		params.StartX = int(v)
		hasParams = true
	}
	if v, ok := args["start_y"].(float64); ok {
		params.StartY = int(v)
		hasParams = true
	}
	if v, ok := args["iterations"].(float64); ok {
		params.Iterations = uint64(v)
		hasParams = true
	}
	if v, ok := args["seed"].(float64); ok {
		params.Seed = int64(v)
		hasParams = true
	}
	if hasParams {
		body.Params = params
	}

	var info service.RunInfo
	if err := c.apiCall("POST", "/api/runs", body, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRunInfo(&info)), nil
}

func (c *Client) handleRunStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	runID, _ := args["run_id"].(string)

	var info service.RunInfo
	if err := c.apiCall("GET", "/api/runs/"+runID, nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRunInfo(&info)), nil
}

func (c *Client) handleRunResult(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	runID, _ := args["run_id"].(string)

	var result engine.Result
	if err := c.apiCall("GET", "/api/runs/"+runID+"/result", nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Result of run %s:\n\n%s", runID, formatResult(&result))), nil
}

func (c *Client) handleListRuns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})

	path := "/api/runs"
	if v, ok := args["limit"].(float64); ok {
		path = fmt.Sprintf("%s?limit=%d", path, int(v))
	}

	var resp struct {
		Count int                `json:"count"`
		Total int                `json:"total"`
		Runs  []*service.RunInfo `json:"runs"`
	}
	if err := c.apiCall("GET", path, nil, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if resp.Total == 0 {
		return mcp.NewToolResultText("No runs registered. Call start_run or simulate to produce an estimate."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Runs (%d of %d):\n\n", resp.Count, resp.Total)
	for _, info := range resp.Runs {
		fmt.Fprintf(&b, "• %s [%s] start %s, %d iterations (%.1f%% done)\n",
			info.ID, info.State, info.Scenario.Start(), info.Scenario.Iterations, info.Progress.Percent)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleCancelRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	runID, _ := args["run_id"].(string)

	var resp map[string]string
	if err := c.apiCall("POST", "/api/runs/"+runID+"/cancel", nil, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s\n\nPoll run_status until the state reaches cancelled; progress made so far is kept.", resp["message"])), nil
}

func (c *Client) handleDeleteRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	runID, _ := args["run_id"].(string)

	var resp map[string]string
	if err := c.apiCall("DELETE", "/api/runs/"+runID, nil, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(resp["message"]), nil
}

func (c *Client) handleSimulate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})

	params := service.SimulateParams{}
	if v, ok := args["start_x"].(float64); ok {
		params.StartX = int(v)
	}
	if v, ok := args["start_y"].(float64); ok {
		params.StartY = int(v)
	}
	if v, ok := args["iterations"].(float64); ok {
		params.Iterations = uint64(v)
	}
	if v, ok := args["seed"].(float64); ok {
		params.Seed = int64(v)
	}

	var result engine.Result
	if err := c.apiCall("POST", "/api/simulate", params, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatResult(&result)), nil
}

func (c *Client) handleListScenarios(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var scenarios []*service.ScenarioInfo
	if err := c.apiCall("GET", "/api/scenarios", nil, &scenarios); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatScenarios(scenarios)), nil
}

func (c *Client) handleSaveScenario(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})

	scenario := engine.Scenario{}
	scenario.Name, _ = args["name"].(string)
	scenario.Description, _ = args["description"].(string)
	if v, ok := args["start_x"].(float64); ok {
		scenario.StartX = int(v)
	}
	if v, ok := args["start_y"].(float64); ok {
		scenario.StartY = int(v)
	}
	if v, ok := args["iterations"].(float64); ok {
		scenario.Iterations = uint64(v)
	}
	if v, ok := args["seed"].(float64); ok {
		scenario.Seed = int64(v)
	}

	var resp map[string]string
	if err := c.apiCall("POST", "/api/scenarios", scenario, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s\n\nStart it with start_run and scenario_id %q.", resp["message"], resp["scenario_id"])), nil
}

func (c *Client) handleDescribePosition(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	x := int(args["x"].(float64))
	y := int(args["y"].(float64))

	// The grid never changes, so this tool answers locally instead of
	// proxying to the API.
	board, err := engine.NewBoard(x, y)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Coordinates (%d, %d) are out of bounds. The grid is %dx%d (x 0-%d, y 0-%d)",
			x, y, engine.BoardWidth, engine.BoardHeight, engine.BoardWidth-1, engine.BoardHeight-1)), nil
	}

	pos := board.Position()

	var b strings.Builder
	fmt.Fprintf(&b, "Cell at position %s:\n", pos)
	b.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Fprintf(&b, "Label: %s\n", engine.CellLabel(pos.Index()))
	fmt.Fprintf(&b, "Row-major index: %d\n", pos.Index())
	if pos.Y == 0 {
		b.WriteString("Row: 0 (top)\n")
	} else {
		b.WriteString("Row: 1 (bottom)\n")
	}
	fmt.Fprintf(&b, "Column: %d\n", pos.X)

	b.WriteString("\nMoves from here:\n")
	for _, dir := range engine.Directions {
		if board.CanMove(dir) {
			probe, _ := engine.NewBoard(x, y)
			probe.Move(dir)
			dest := probe.Position()
			fmt.Fprintf(&b, "  ✓ %s -> %s %s\n", dir, engine.CellLabel(dest.Index()), dest)
		} else {
			fmt.Fprintf(&b, "  ✗ %s (off the board, draw is rejected and redrawn)\n", dir)
		}
	}

	fmt.Fprintf(&b, "\nThe walk accepts %d of the 4 directions here. A draw in [0,1) selects up for [0,0.25), down for [0.25,0.5), left for [0.5,0.75) and right for [0.75,1); rejected draws cost an extra draw but never an iteration.",
		len(board.LegalMoves()))

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleSimInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `🎲 Vacancy Walk Simulator - Complete Instructions

SIMULATION OBJECTIVE:
Estimate the long-run occupancy distribution of a single vacant cell
performing a random walk on a fixed six-cell grid. The estimate for each
cell is the fraction of iterations the vacancy spent there.

WALK MECHANICS:
• One iteration = one accepted move of the vacancy
• Each draw takes a uniform value in [0,1) and quarters it:
  [0, 0.25) → up, [0.25, 0.5) → down, [0.5, 0.75) → left, [0.75, 1) → right
• A move that would leave the board is REJECTED: the draw is discarded
  and a fresh value is drawn until a legal direction comes up
• After every accepted move the vacancy's cell count is incremented
• The starting cell is NOT counted; counting begins with the first move

GRID LEGEND:
The grid is three cells wide and two tall, labelled row-major:

  ┌───────┬───────┬───────┐
  │ zero  │ one   │ two   │   y = 0 (top row)
  ├───────┼───────┼───────┤
  │ three │ four  │ five  │   y = 1 (bottom row)
  └───────┴───────┴───────┘
    x = 0   x = 1   x = 2

• up sends the vacancy to the top row, down to the bottom row
• left and right shift the column by one
• Every cell rejects the vertical move into its own row (up is illegal
  on the top row, down on the bottom), and the outer columns also
  reject one horizontal move. Corner cells accept 2 of 4 directions,
  the two middle cells accept 3 of 4. Use describe_position for the
  exact accepted set of any cell.

📊 READING RESULTS:
Results list one line per cell in fixed order:

  In zero: 0.1427311
  In one: 0.2143208
  In two: 0.1429557
  In three: 0.1428992
  In four: 0.2141687
  In five: 0.1429245

The long-run shares are NOT uniform: the two middle-column cells (one
and four) sit on three walk edges while the corners sit on two, so the
walk visits the middles noticeably more often. The four corner cells
settle on one common share and the two middle cells on a higher one.
Short walks scatter widely; 10,000,000+ iterations settle the third
decimal. The six fractions always sum to 1 within floating-point error.

🔁 RUN LIFECYCLE:
Background runs move through these states:
• pending: registered, not yet walking
• running: actively walking, progress updates as it goes
• completed: finished, result available via run_result
• cancelled: stopped early on request, no result
• failed: rejected parameters or internal error, see the error field

⚙️ CHOOSING PARAMETERS:
• simulate answers synchronously up to 10,000,000 iterations
• start_run handles up to 10,000,000,000 iterations in the background
• A nonzero seed reproduces the identical walk every time; seed 0 (or
  omitting it) draws fresh entropy, so repeated runs differ
• start_x/start_y choose the starting cell; the stationary estimate is
  insensitive to it, which makes differing starts a good sanity check

🤖 AI AGENTS - RECOMMENDED STRATEGIES:

1. **Quick estimates first**: simulate with 1,000,000 iterations and a
   seed answers in well under a second and is reproducible.

2. **Long runs in the background**: for serious estimates call
   start_run, then poll run_status. Progress percent tells you how far
   along the walk is; there is no need to poll more than once a second.

3. **Compare seeds, not reruns**: with seed 0 two runs of the same
   parameters legitimately differ. To measure convergence, fix the
   seed and vary iterations, or fix iterations and vary the seed.

4. **Check class symmetry, not uniformity**: by symmetry the four
   corner cells converge to one common share and the two middle cells
   to a higher one. Spreads WITHIN each class shrink roughly with the
   square root of the iteration count; a corner stuck far from the
   other corners after 100,000,000 iterations indicates a misread
   result, not a biased walk. Corners differing from middles is the
   expected bias, not an anomaly.

5. **Use describe_position before reasoning about edges**: corner and
   edge cells reject different direction sets; the tool lists exactly
   which draws are discarded where.

AVAILABLE TOOLS SUMMARY:
• simulate - synchronous estimate (required: iterations)
• start_run - background run (scenario_id or inline parameters)
• run_status - state and progress of one run (required: run_id)
• run_result - occupancy estimate of a completed run (required: run_id)
• list_runs - registry listing, newest first
• cancel_run - stop an active run (required: run_id)
• delete_run - remove a run from the registry (required: run_id)
• list_scenarios - saved presets with their parameters
• save_scenario - persist a preset for reuse
• describe_position - geometry of one cell (required: x, y)
• sim_instructions - this reference

Good luck estimating the vacancy walk! 🎲📈`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

// formatRunInfo renders a run's registry entry as readable text.
func formatRunInfo(info *service.RunInfo) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Run %s [%s]\n", info.ID, info.State)
	if info.ScenarioID != "" {
		fmt.Fprintf(&b, "Scenario: %s\n", info.ScenarioID)
	}
	if info.Scenario != nil {
		fmt.Fprintf(&b, "Start: %s (%s)\n", info.Scenario.Start(), engine.CellLabel(info.Scenario.Start().Index()))
		fmt.Fprintf(&b, "Iterations: %d\n", info.Scenario.Iterations)
		if info.Scenario.Seed != 0 {
			fmt.Fprintf(&b, "Seed: %d\n", info.Scenario.Seed)
		}
	}
	fmt.Fprintf(&b, "Progress: %d/%d (%.1f%%)\n", info.Progress.Completed, info.Progress.Total, info.Progress.Percent)
	fmt.Fprintf(&b, "Created: %s\n", info.CreatedAt.Format("2006-01-02 15:04:05"))
	if info.FinishedAt != nil {
		fmt.Fprintf(&b, "Finished: %s\n", info.FinishedAt.Format("2006-01-02 15:04:05"))
	}
	if info.Error != "" {
		fmt.Fprintf(&b, "Error: %s\n", info.Error)
	}

	switch info.State {
	case service.RunCompleted:
		b.WriteString("\nCall run_result to fetch the occupancy estimate.")
	case service.RunPending, service.RunRunning:
		b.WriteString("\nPoll run_status until the state reaches completed.")
	}

	return b.String()
}

// formatResult renders an occupancy estimate with the parameters that
// produced it.
func formatResult(result *engine.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Start: %s (%s)\n", result.Start, engine.CellLabel(result.Start.Index()))
	fmt.Fprintf(&b, "Iterations: %d\n", result.Iterations)
	fmt.Fprintf(&b, "Seed: %d\n", result.Seed)
	b.WriteString("\nOccupancy estimate:\n")
	b.WriteString(result.String())
	fmt.Fprintf(&b, "\n\nSum of fractions: %v", result.Occupancy.Sum())

	return b.String()
}

// formatScenarios renders the scenario listing.
func formatScenarios(scenarios []*service.ScenarioInfo) string {
	if len(scenarios) == 0 {
		return "No scenarios available. Save one with save_scenario."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Available scenarios (%d):\n\n", len(scenarios))
	for _, sc := range scenarios {
		fmt.Fprintf(&b, "• %s: start %s, %d iterations", sc.ScenarioID, sc.Start, sc.Iterations)
		if sc.Seeded {
			b.WriteString(", seeded")
		}
		b.WriteByte('\n')
		if sc.Description != "" {
			fmt.Fprintf(&b, "  %s\n", sc.Description)
		}
	}
	b.WriteString("\nPass a scenario_id to start_run to use one.")

	return b.String()
}
