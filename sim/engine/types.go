package engine

import "fmt"

// Direction represents one of the four vacancy moves
type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"

	// Board dimensions. The grid is fixed; these are not configuration.
	BoardWidth  = 3
	BoardHeight = 2
	CellCount   = BoardWidth * BoardHeight

	// Validation constants
	MinIterations     = 1
	MaxIterations     = 10_000_000_000
	MaxSyncIterations = 10_000_000
)

// Directions lists the four moves in draw order: the acceptance loop
// quarters a uniform [0,1) value into up, down, left, right.
var Directions = []Direction{Up, Down, Left, Right}

// Position represents x,y coordinates of the vacancy
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// InBounds reports whether the position lies on the board.
func (p Position) InBounds() bool {
	return p.X >= 0 && p.X < BoardWidth && p.Y >= 0 && p.Y < BoardHeight
}

// Index returns the row-major cell index (y*3 + x).
func (p Position) Index() int {
	return p.Y*BoardWidth + p.X
}

// String formats the position as "(x, y)".
func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// cellLabels names the six cells in row-major order.
var cellLabels = [CellCount]string{"zero", "one", "two", "three", "four", "five"}

// CellLabel returns the word label of a row-major cell index.
// Indexes outside [0, CellCount) yield "unknown".
func CellLabel(index int) string {
	if index < 0 || index >= CellCount {
		return "unknown"
	}
	return cellLabels[index]
}

// CellAt returns the position of a row-major cell index.
func CellAt(index int) Position {
	return Position{X: index % BoardWidth, Y: index / BoardWidth}
}

// MoveError reports a rejected move. It carries the vacancy position the
// move started from and the out-of-range destination it attempted. The
// rejection loop absorbs these; they never escape a run.
type MoveError struct {
	From Position
	To   Position
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("move not possible: %s -> %s", e.From, e.To)
}
