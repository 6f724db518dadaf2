package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wricardo/mcp-training/vacancysim/sim/engine"
)

var (
	title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("228")) // Bright yellow
	meta  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))            // Grey
	label = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))            // Bright white

	// Heat scale relative to the uniform share 1/6
	cold = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))  // Blue
	even = lipgloss.NewStyle().Foreground(lipgloss.Color("255")) // Bright white
	hot  = lipgloss.NewStyle().Foreground(lipgloss.Color("202")) // Orange

	cell = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Width(9).
		Align(lipgloss.Center)
)

const barWidth = 24

// heat picks a style for a share by comparing it against the uniform
// share: cells visited noticeably more run hot, noticeably less run cold.
func heat(share float64) lipgloss.Style {
	uniform := 1.0 / float64(engine.CellCount)
	switch {
	case share > uniform*1.05:
		return hot
	case share < uniform*0.95:
		return cold
	default:
		return even
	}
}

// Board renders the grid with each cell's label and occupancy share.
func Board(d engine.Distribution) string {
	rows := make([]string, 0, engine.BoardHeight)
	for y := 0; y < engine.BoardHeight; y++ {
		cells := make([]string, 0, engine.BoardWidth)
		for x := 0; x < engine.BoardWidth; x++ {
			i := y*engine.BoardWidth + x
			share := d[i]
			content := lipgloss.JoinVertical(
				lipgloss.Center,
				label.Render(engine.CellLabel(i)),
				heat(share).Render(formatPercent(share)),
			)
			cells = append(cells, cell.Render(content))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// Bars renders one horizontal bar per cell, scaled to the largest share.
func Bars(d engine.Distribution) string {
	max := 0.0
	for _, share := range d {
		if share > max {
			max = share
		}
	}

	lines := make([]string, 0, engine.CellCount)
	for i, share := range d {
		width := 0
		if max > 0 {
			width = int(share / max * barWidth)
		}
		bar := heat(share).Render(strings.Repeat("█", width))
		lines = append(lines, fmt.Sprintf("%-5s %s %s",
			engine.CellLabel(i), bar, formatPercent(share)))
	}
	return strings.Join(lines, "\n")
}

// Summary renders a full result block: run parameters, the occupancy
// grid, and the bar chart.
func Summary(r *engine.Result) string {
	header := title.Render("Occupancy distribution")
	params := meta.Render(fmt.Sprintf("start %s · seed %d · %d iterations",
		r.Start, r.Seed, r.Iterations))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		params,
		"",
		Board(r.Occupancy),
		"",
		Bars(r.Occupancy),
	)
}

func formatPercent(share float64) string {
	return fmt.Sprintf("%.2f%%", share*100)
}
