// Command watch is a terminal dashboard for live simulation runs. It
// connects to the simulator server's WebSocket feed for each run passed
// on the command line, redrawing a progress bar, the occupancy grid, and
// an event log as updates arrive. Runs whose socket cannot connect fall
// back to HTTP polling. With no arguments it discovers active runs from
// the server and watches those.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/gorilla/websocket"
)

const (
	baseURL     = "http://localhost:8080"
	wsHost      = "localhost:8080"
	redrawEvery = 250 * time.Millisecond
	pollEvery   = 2 * time.Second

	maxEventLines = 8
	barWidth      = 30
)

// Position represents a grid coordinate
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// RunParams describes the parameters a run executes
type RunParams struct {
	Name       string `json:"name"`
	StartX     int    `json:"start_x"`
	StartY     int    `json:"start_y"`
	Iterations uint64 `json:"iterations"`
	Seed       int64  `json:"seed,omitempty"`
}

// ProgressInfo reports how far a run has walked
type ProgressInfo struct {
	Completed uint64  `json:"completed"`
	Total     uint64  `json:"total"`
	Percent   float64 `json:"percent"`
}

// Result summarizes a completed run
type Result struct {
	Start      Position   `json:"start"`
	Iterations uint64     `json:"iterations"`
	Seed       int64      `json:"seed"`
	Counts     [6]uint64  `json:"counts"`
	Occupancy  [6]float64 `json:"occupancy"`
}

// RunState names a stage of the run lifecycle
type RunState string

const (
	RunPending   RunState = "pending"
	RunRunning   RunState = "running"
	RunCompleted RunState = "completed"
	RunCancelled RunState = "cancelled"
	RunFailed    RunState = "failed"
)

// Terminal reports whether the state is final.
func (s RunState) Terminal() bool {
	return s == RunCompleted || s == RunCancelled || s == RunFailed
}

// RunInfo represents the state from the simulator server
type RunInfo struct {
	ID         string       `json:"id"`
	ScenarioID string       `json:"scenario_id"`
	Scenario   *RunParams   `json:"scenario"`
	State      RunState     `json:"state"`
	Progress   ProgressInfo `json:"progress"`
	Result     *Result      `json:"result,omitempty"`
	Error      string       `json:"error,omitempty"`
}

// RunListResponse represents the run listing from the server
type RunListResponse struct {
	Count int        `json:"count"`
	Total int        `json:"total"`
	Runs  []*RunInfo `json:"runs"`
}

// WSMessage represents the WebSocket event envelope. Data is raw because
// its shape depends on the event type: progress counts for "progress",
// the full result for "completed".
type WSMessage struct {
	Type  string          `json:"type"`
	RunID string          `json:"run_id"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

var cellLabels = [6]string{"zero", "one", "two", "three", "four", "five"}

// Styles
var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("228"))
	metaStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))

	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	runningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("228"))
	completedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	cancelledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("202"))
	failedStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))

	barFillStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	barEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))

	hotStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("202"))
	coldStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	evenStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))

	cellStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Width(9).
			Align(lipgloss.Center)
)

// RunWatch holds the live view of a single run
type RunWatch struct {
	runID      string
	conn       *websocket.Conn
	info       *RunInfo
	progress   ProgressInfo
	result     *Result
	state      RunState
	errMsg     string
	events     []string
	lastUpdate time.Time
}

// Dashboard watches a set of runs and renders them together
type Dashboard struct {
	watches    []*RunWatch
	stateMutex sync.RWMutex
}

// NewDashboard creates a dashboard watching the given runs. With no run
// IDs it asks the server for runs worth watching.
func NewDashboard(runIDs []string) *Dashboard {
	d := &Dashboard{}

	if len(runIDs) == 0 {
		runIDs = discoverRuns()
	}

	for _, id := range runIDs {
		d.addWatch(id)
	}

	return d
}

// discoverRuns picks runs from the server: live runs first, otherwise the
// most recent finished ones.
func discoverRuns() []string {
	resp, err := http.Get(baseURL + "/api/runs?sort=created&order=desc")
	if err != nil {
		log.Printf("Failed to list runs: %v", err)
		return nil
	}
	defer resp.Body.Close()

	var list RunListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		log.Printf("Failed to parse run listing: %v", err)
		return nil
	}

	var live, finished []string
	for _, run := range list.Runs {
		if run.State.Terminal() {
			finished = append(finished, run.ID)
		} else {
			live = append(live, run.ID)
		}
	}

	if len(live) > 0 {
		log.Printf("Watching %d live runs", len(live))
		return live
	}
	if len(finished) > 3 {
		finished = finished[:3]
	}
	if len(finished) > 0 {
		log.Printf("No live runs; showing %d recent runs", len(finished))
	}
	return finished
}

// addWatch registers a run, connects its WebSocket, and seeds the initial
// state over HTTP.
func (d *Dashboard) addWatch(runID string) {
	w := &RunWatch{
		runID:      runID,
		state:      RunPending,
		lastUpdate: time.Now(),
	}

	d.watches = append(d.watches, w)

	if err := d.connectWebSocket(w); err != nil {
		log.Printf("Failed to connect WebSocket for %s: %v (falling back to polling)", runID, err)
		d.addEvent(w, "live feed unavailable, polling")
	} else {
		d.addEvent(w, "live feed connected")
		go d.listenWebSocket(w)
	}

	// Initial state fetch
	if err := d.fetchRun(w); err != nil {
		log.Printf("Failed to fetch run %s: %v", runID, err)
		d.addEvent(w, fmt.Sprintf("fetch failed: %v", err))
	}
}

// connectWebSocket establishes the run's event feed
func (d *Dashboard) connectWebSocket(w *RunWatch) error {
	wsURL := url.URL{Scheme: "ws", Host: wsHost, Path: "/ws"}
	q := wsURL.Query()
	q.Set("run", w.runID)
	wsURL.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL.String(), nil)
	if err != nil {
		return err
	}

	w.conn = conn
	return nil
}

// listenWebSocket consumes the run's event feed. The server coalesces
// queued events into one frame separated by newlines, so every frame is
// split before decoding.
func (d *Dashboard) listenWebSocket(w *RunWatch) {
	defer func() {
		d.stateMutex.Lock()
		if w.conn != nil {
			w.conn.Close()
			w.conn = nil
		}
		d.stateMutex.Unlock()
	}()

	for {
		_, frame, err := w.conn.ReadMessage()
		if err != nil {
			d.stateMutex.Lock()
			terminal := w.state.Terminal()
			d.stateMutex.Unlock()
			if !terminal {
				log.Printf("WebSocket read error for %s: %v", w.runID, err)
				d.addEvent(w, "live feed lost, polling")
			}
			return
		}

		for _, part := range bytes.Split(frame, []byte{'\n'}) {
			if len(bytes.TrimSpace(part)) == 0 {
				continue
			}

			var msg WSMessage
			if err := json.Unmarshal(part, &msg); err != nil {
				log.Printf("WebSocket JSON parse error: %v", err)
				continue
			}

			d.apply(w, &msg)
		}
	}
}

// apply folds one event into the run's view
func (d *Dashboard) apply(w *RunWatch, msg *WSMessage) {
	d.stateMutex.Lock()
	defer d.stateMutex.Unlock()

	switch msg.Type {
	case "progress":
		var progress ProgressInfo
		if err := json.Unmarshal(msg.Data, &progress); err != nil {
			log.Printf("Bad progress payload for %s: %v", w.runID, err)
			return
		}
		w.progress = progress
		w.state = RunRunning

	case "completed":
		var result Result
		if err := json.Unmarshal(msg.Data, &result); err != nil {
			log.Printf("Bad result payload for %s: %v", w.runID, err)
			return
		}
		w.result = &result
		w.state = RunCompleted
		w.progress = ProgressInfo{Completed: result.Iterations, Total: result.Iterations, Percent: 100}
		d.appendEventLocked(w, "completed")

	case "cancelled":
		w.state = RunCancelled
		d.appendEventLocked(w, "cancelled")

	case "failed":
		w.state = RunFailed
		w.errMsg = msg.Error
		d.appendEventLocked(w, fmt.Sprintf("failed: %s", msg.Error))

	default:
		d.appendEventLocked(w, fmt.Sprintf("unknown event %q", msg.Type))
	}

	w.lastUpdate = time.Now()
}

// fetchRun refreshes a run's view over HTTP. It seeds the initial state
// and keeps polled runs moving when their socket is down.
func (d *Dashboard) fetchRun(w *RunWatch) error {
	resp, err := http.Get(fmt.Sprintf("%s/api/runs/%s", baseURL, w.runID))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s - %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var info RunInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return fmt.Errorf("parse run response: %v", err)
	}

	d.stateMutex.Lock()
	defer d.stateMutex.Unlock()

	w.info = &info
	w.state = info.State
	w.progress = info.Progress
	if info.Result != nil {
		w.result = info.Result
	}
	w.errMsg = info.Error
	w.lastUpdate = time.Now()

	return nil
}

// pollDisconnected refreshes every run whose socket is down
func (d *Dashboard) pollDisconnected() {
	d.stateMutex.RLock()
	var stale []*RunWatch
	for _, w := range d.watches {
		if w.conn == nil && !w.state.Terminal() {
			stale = append(stale, w)
		}
	}
	d.stateMutex.RUnlock()

	for _, w := range stale {
		if err := d.fetchRun(w); err != nil {
			log.Printf("Poll failed for %s: %v", w.runID, err)
		}
	}
}

// addEvent appends a timestamped line to the run's event log
func (d *Dashboard) addEvent(w *RunWatch, text string) {
	d.stateMutex.Lock()
	defer d.stateMutex.Unlock()
	d.appendEventLocked(w, text)
}

func (d *Dashboard) appendEventLocked(w *RunWatch, text string) {
	line := fmt.Sprintf("%s %s", time.Now().Format("15:04:05"), text)
	w.events = append(w.events, line)
	if len(w.events) > maxEventLines {
		w.events = w.events[len(w.events)-maxEventLines:]
	}
}

// allTerminal reports whether every watched run has finished
func (d *Dashboard) allTerminal() bool {
	d.stateMutex.RLock()
	defer d.stateMutex.RUnlock()

	for _, w := range d.watches {
		if !w.state.Terminal() {
			return false
		}
	}
	return len(d.watches) > 0
}

func stateStyle(state RunState) lipgloss.Style {
	switch state {
	case RunRunning:
		return runningStyle
	case RunCompleted:
		return completedStyle
	case RunCancelled:
		return cancelledStyle
	case RunFailed:
		return failedStyle
	default:
		return pendingStyle
	}
}

// heat picks a style for a share by comparing it against the uniform
// share: cells visited noticeably more run hot, noticeably less run cold.
func heat(share float64) lipgloss.Style {
	uniform := 1.0 / float64(len(cellLabels))
	switch {
	case share > uniform*1.05:
		return hotStyle
	case share < uniform*0.95:
		return coldStyle
	default:
		return evenStyle
	}
}

// progressBar renders a fixed-width bar for the given percentage
func progressBar(percent float64) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := int(percent / 100 * barWidth)
	bar := barFillStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", barWidth-filled))
	return fmt.Sprintf("[%s] %.1f%%", bar, percent)
}

// board renders the occupancy grid of a finished run
func board(occupancy [6]float64) string {
	rows := make([]string, 0, 2)
	for y := 0; y < 2; y++ {
		cells := make([]string, 0, 3)
		for x := 0; x < 3; x++ {
			i := y*3 + x
			share := occupancy[i]
			content := lipgloss.JoinVertical(
				lipgloss.Center,
				labelStyle.Render(cellLabels[i]),
				heat(share).Render(fmt.Sprintf("%.2f%%", share*100)),
			)
			cells = append(cells, cellStyle.Render(content))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// render draws the whole dashboard
func (d *Dashboard) render() string {
	d.stateMutex.RLock()
	defer d.stateMutex.RUnlock()

	sections := []string{
		titleStyle.Render("Vacancy walk dashboard"),
		metaStyle.Render(fmt.Sprintf("watching %d runs · %s", len(d.watches), time.Now().Format("15:04:05"))),
		"",
	}

	for _, w := range d.watches {
		conn := "POLL"
		if w.conn != nil {
			conn = "WS"
		}

		header := fmt.Sprintf("%s  %s  %s",
			titleStyle.Render("Run "+w.runID),
			stateStyle(w.state).Render(string(w.state)),
			metaStyle.Render("["+conn+"]"))
		sections = append(sections, header)

		if w.info != nil && w.info.Scenario != nil {
			s := w.info.Scenario
			sections = append(sections, metaStyle.Render(fmt.Sprintf(
				"scenario %s · start (%d, %d) · %d iterations · seed %d",
				w.info.ScenarioID, s.StartX, s.StartY, s.Iterations, s.Seed)))
		}

		sections = append(sections, progressBar(w.progress.Percent)+
			metaStyle.Render(fmt.Sprintf("  %d/%d", w.progress.Completed, w.progress.Total)))

		if w.result != nil {
			sections = append(sections, "", board(w.result.Occupancy))
		}

		if w.errMsg != "" {
			sections = append(sections, failedStyle.Render("error: "+w.errMsg))
		}

		for _, event := range w.events {
			sections = append(sections, metaStyle.Render("  "+event))
		}

		sections = append(sections, "")
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func main() {
	// Accept run IDs as arguments; discover from the server otherwise
	runIDs := []string{}
	if len(os.Args) > 1 {
		runIDs = os.Args[1:]
	}

	dashboard := NewDashboard(runIDs)
	if len(dashboard.watches) == 0 {
		log.Fatal("No runs to watch. Pass run IDs as arguments or start a run first.")
	}

	// Hide the cursor while redrawing; restore it on the way out
	fmt.Print("\033[?25l")
	restore := func() { fmt.Print("\033[?25h") }
	defer restore()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	redraw := time.NewTicker(redrawEvery)
	defer redraw.Stop()
	poll := time.NewTicker(pollEvery)
	defer poll.Stop()

	for {
		select {
		case <-redraw.C:
			fmt.Print("\033[2J\033[H")
			fmt.Println(dashboard.render())
			if dashboard.allTerminal() {
				fmt.Println(metaStyle.Render("All runs finished."))
				return
			}

		case <-poll.C:
			dashboard.pollDisconnected()

		case <-interrupt:
			restore()
			os.Exit(0)
		}
	}
}
