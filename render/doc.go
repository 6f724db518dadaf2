// Package render draws occupancy results for terminals.
//
// The render package turns a finished walk into three views: the grid
// itself with per-cell occupancy, a horizontal bar chart, and a full
// summary block combining both with the run's parameters. Cells are
// colored against the uniform share so crowded and starved cells stand
// out at a glance.
package render
