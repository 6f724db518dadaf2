package engine

import (
	"errors"
	"testing"
)

func mustBoard(t *testing.T, x, y int) *Board {
	t.Helper()
	board, err := NewBoard(x, y)
	if err != nil {
		t.Fatalf("NewBoard(%d, %d) failed: %v", x, y, err)
	}
	return board
}

func TestNewBoard_Validation(t *testing.T) {
	tests := []struct {
		name    string
		x, y    int
		wantErr bool
	}{
		{"top-left corner", 0, 0, false},
		{"top-right corner", 2, 0, false},
		{"bottom-left corner", 0, 1, false},
		{"bottom-right corner", 2, 1, false},
		{"top edge center", 1, 0, false},
		{"bottom edge center", 1, 1, false},
		{"x negative", -1, 0, true},
		{"x too large", 3, 0, true},
		{"y negative", 0, -1, true},
		{"y too large", 0, 2, true},
		{"both out of range", 5, 5, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			board, err := NewBoard(test.x, test.y)
			if test.wantErr {
				if err == nil {
					t.Errorf("NewBoard(%d, %d): expected error, got none", test.x, test.y)
				}
				return
			}
			if err != nil {
				t.Errorf("NewBoard(%d, %d): unexpected error: %v", test.x, test.y, err)
				return
			}
			if got := board.Position(); got.X != test.x || got.Y != test.y {
				t.Errorf("Position(): expected (%d, %d), got %s", test.x, test.y, got)
			}
		})
	}
}

func TestMoveUp_SetsTopRow(t *testing.T) {
	// Moving up from the bottom row lands on the top row regardless of
	// where the walk came from; x never changes.
	for x := 0; x < BoardWidth; x++ {
		board := mustBoard(t, x, 1)
		if err := board.MoveUp(); err != nil {
			t.Fatalf("MoveUp from (%d, 1) failed: %v", x, err)
		}
		if got := board.Position(); got.X != x || got.Y != 0 {
			t.Errorf("MoveUp from (%d, 1): expected (%d, 0), got %s", x, x, got)
		}
	}
}

func TestMoveDown_SetsBottomRow(t *testing.T) {
	for x := 0; x < BoardWidth; x++ {
		board := mustBoard(t, x, 0)
		if err := board.MoveDown(); err != nil {
			t.Fatalf("MoveDown from (%d, 0) failed: %v", x, err)
		}
		if got := board.Position(); got.X != x || got.Y != 1 {
			t.Errorf("MoveDown from (%d, 0): expected (%d, 1), got %s", x, x, got)
		}
	}
}

func TestMove_DirectionMapping(t *testing.T) {
	tests := []struct {
		direction      Direction
		startX, startY int
		wantX, wantY   int
	}{
		{Up, 1, 1, 1, 0},
		{Down, 1, 0, 1, 1},
		{Left, 1, 0, 0, 0},
		{Right, 1, 0, 2, 0},
	}

	for _, test := range tests {
		t.Run(string(test.direction), func(t *testing.T) {
			board := mustBoard(t, test.startX, test.startY)
			if err := board.Move(test.direction); err != nil {
				t.Fatalf("Move(%s) from (%d, %d) failed: %v", test.direction, test.startX, test.startY, err)
			}
			if got := board.Position(); got.X != test.wantX || got.Y != test.wantY {
				t.Errorf("Move(%s): expected (%d, %d), got %s", test.direction, test.wantX, test.wantY, got)
			}
		})
	}
}

func TestMove_UnknownDirection(t *testing.T) {
	board := mustBoard(t, 1, 0)
	if err := board.Move("sideways"); err == nil {
		t.Error("Move(sideways): expected error, got none")
	}
	if board.CanMove("sideways") {
		t.Error("CanMove(sideways): expected false")
	}
}

func TestCornerStart_BlockedMoves(t *testing.T) {
	// From the top-left corner, up and left are the blocked directions
	// and down and right succeed.
	board := mustBoard(t, 0, 0)
	if err := board.MoveUp(); err == nil {
		t.Error("MoveUp from (0, 0): expected error, got none")
	}
	if err := board.MoveLeft(); err == nil {
		t.Error("MoveLeft from (0, 0): expected error, got none")
	}
	if got := board.Position(); got.X != 0 || got.Y != 0 {
		t.Errorf("failed moves must not change state, got %s", got)
	}

	if err := board.MoveDown(); err != nil {
		t.Errorf("MoveDown from (0, 0) failed: %v", err)
	}
	if got := board.Position(); got.X != 0 || got.Y != 1 {
		t.Errorf("MoveDown from (0, 0): expected (0, 1), got %s", got)
	}

	board = mustBoard(t, 0, 0)
	if err := board.MoveRight(); err != nil {
		t.Errorf("MoveRight from (0, 0) failed: %v", err)
	}
	if got := board.Position(); got.X != 1 || got.Y != 0 {
		t.Errorf("MoveRight from (0, 0): expected (1, 0), got %s", got)
	}
}

func TestMoveError_CarriesCoordinates(t *testing.T) {
	tests := []struct {
		name           string
		startX, startY int
		direction      Direction
		wantTo         Position
	}{
		{"up from top row", 1, 0, Up, Position{X: 1, Y: -1}},
		{"down from bottom row", 1, 1, Down, Position{X: 1, Y: 2}},
		{"left from first column", 0, 1, Left, Position{X: -1, Y: 1}},
		{"right from last column", 2, 0, Right, Position{X: 3, Y: 0}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			board := mustBoard(t, test.startX, test.startY)
			err := board.Move(test.direction)
			if err == nil {
				t.Fatalf("Move(%s) from (%d, %d): expected error", test.direction, test.startX, test.startY)
			}

			var moveErr *MoveError
			if !errors.As(err, &moveErr) {
				t.Fatalf("expected *MoveError, got %T", err)
			}
			if moveErr.From.X != test.startX || moveErr.From.Y != test.startY {
				t.Errorf("From: expected (%d, %d), got %s", test.startX, test.startY, moveErr.From)
			}
			if moveErr.To != test.wantTo {
				t.Errorf("To: expected %s, got %s", test.wantTo, moveErr.To)
			}
			if got := board.Position(); got.X != test.startX || got.Y != test.startY {
				t.Errorf("failed move must not change state, got %s", got)
			}
		})
	}
}

func TestMoveError_Message(t *testing.T) {
	board := mustBoard(t, 0, 0)
	err := board.MoveLeft()
	if err == nil {
		t.Fatal("MoveLeft from (0, 0): expected error")
	}
	want := "move not possible: (0, 0) -> (-1, 0)"
	if err.Error() != want {
		t.Errorf("error message: expected %q, got %q", want, err.Error())
	}
}

func TestInverseMoves_RestoreStart(t *testing.T) {
	tests := []struct {
		name           string
		startX, startY int
		first, second  Direction
	}{
		{"down then up", 1, 0, Down, Up},
		{"up then down", 1, 1, Up, Down},
		{"right then left", 0, 0, Right, Left},
		{"left then right", 2, 1, Left, Right},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			board := mustBoard(t, test.startX, test.startY)
			if err := board.Move(test.first); err != nil {
				t.Fatalf("Move(%s) failed: %v", test.first, err)
			}
			if err := board.Move(test.second); err != nil {
				t.Fatalf("Move(%s) failed: %v", test.second, err)
			}
			if got := board.Position(); got.X != test.startX || got.Y != test.startY {
				t.Errorf("expected to return to (%d, %d), got %s", test.startX, test.startY, got)
			}
		})
	}
}

func TestLegalMoves_EveryCell(t *testing.T) {
	// Corners allow exactly two directions, edge centers exactly three;
	// the grid has no interior cells, so two legal moves is the minimum
	// everywhere.
	for index := 0; index < CellCount; index++ {
		p := CellAt(index)
		board := mustBoard(t, p.X, p.Y)
		legal := board.LegalMoves()

		isCorner := p.X == 0 || p.X == BoardWidth-1
		want := 3
		if isCorner {
			want = 2
		}
		if len(legal) != want {
			t.Errorf("cell %s: expected %d legal moves, got %d (%v)", p, want, len(legal), legal)
		}

		for _, d := range legal {
			if !board.CanMove(d) {
				t.Errorf("cell %s: LegalMoves reported %s but CanMove disagrees", p, d)
			}
		}
	}
}

func TestCanMove_MatchesMoveOutcome(t *testing.T) {
	for index := 0; index < CellCount; index++ {
		p := CellAt(index)
		for _, d := range Directions {
			board := mustBoard(t, p.X, p.Y)
			can := board.CanMove(d)
			err := board.Move(d)
			if can && err != nil {
				t.Errorf("cell %s direction %s: CanMove true but Move failed: %v", p, d, err)
			}
			if !can && err == nil {
				t.Errorf("cell %s direction %s: CanMove false but Move succeeded", p, d)
			}
		}
	}
}
