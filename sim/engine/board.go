package engine

import "fmt"

// Board holds the vacancy position on the fixed 2x3 grid. Every other
// cell is occupied by an indistinguishable particle, so the vacancy
// coordinates are the whole state.
type Board struct {
	vacancy Position
}

// NewBoard creates a board with the vacancy at (x, y). Out-of-range
// coordinates are a configuration error.
func NewBoard(x, y int) (*Board, error) {
	p := Position{X: x, Y: y}
	if !p.InBounds() {
		return nil, fmt.Errorf("board: start position %s outside the %dx%d grid", p, BoardWidth, BoardHeight)
	}
	return &Board{vacancy: p}, nil
}

// Position returns the current vacancy position.
func (b *Board) Position() Position {
	return b.vacancy
}

// MoveUp moves the vacancy to the top row. Illegal when it is already
// there. The row is set, not decremented.
func (b *Board) MoveUp() error {
	if b.vacancy.Y == 0 {
		return &MoveError{From: b.vacancy, To: Position{X: b.vacancy.X, Y: b.vacancy.Y - 1}}
	}
	b.vacancy.Y = 0
	return nil
}

// MoveDown moves the vacancy to the bottom row. Illegal when it is
// already there.
func (b *Board) MoveDown() error {
	if b.vacancy.Y == BoardHeight-1 {
		return &MoveError{From: b.vacancy, To: Position{X: b.vacancy.X, Y: b.vacancy.Y + 1}}
	}
	b.vacancy.Y = BoardHeight - 1
	return nil
}

// MoveLeft moves the vacancy one column left. Illegal in the leftmost
// column.
func (b *Board) MoveLeft() error {
	if b.vacancy.X == 0 {
		return &MoveError{From: b.vacancy, To: Position{X: b.vacancy.X - 1, Y: b.vacancy.Y}}
	}
	b.vacancy.X--
	return nil
}

// MoveRight moves the vacancy one column right. Illegal in the rightmost
// column.
func (b *Board) MoveRight() error {
	if b.vacancy.X == BoardWidth-1 {
		return &MoveError{From: b.vacancy, To: Position{X: b.vacancy.X + 1, Y: b.vacancy.Y}}
	}
	b.vacancy.X++
	return nil
}

// Move attempts to move the vacancy in the specified direction.
func (b *Board) Move(direction Direction) error {
	switch direction {
	case Up:
		return b.MoveUp()
	case Down:
		return b.MoveDown()
	case Left:
		return b.MoveLeft()
	case Right:
		return b.MoveRight()
	default:
		return fmt.Errorf("unknown direction %q", direction)
	}
}

// CanMove checks whether the vacancy can move in the specified direction.
func (b *Board) CanMove(direction Direction) bool {
	switch direction {
	case Up:
		return b.vacancy.Y != 0
	case Down:
		return b.vacancy.Y != BoardHeight-1
	case Left:
		return b.vacancy.X != 0
	case Right:
		return b.vacancy.X != BoardWidth-1
	default:
		return false
	}
}

// LegalMoves returns all directions the vacancy can move in. On this
// board every cell allows at least two of the four.
func (b *Board) LegalMoves() []Direction {
	var legal []Direction
	for _, d := range Directions {
		if b.CanMove(d) {
			legal = append(legal, d)
		}
	}
	return legal
}
