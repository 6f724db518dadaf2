package engine

import (
	"errors"
	"strings"
	"testing"
)

func TestTally_RecordKeepsSumInvariant(t *testing.T) {
	tally := NewTally()

	positions := []Position{
		{X: 0, Y: 0},
		{X: 1, Y: 0},
		{X: 1, Y: 0},
		{X: 2, Y: 1},
		{X: 0, Y: 1},
	}
	for _, p := range positions {
		tally.Record(p)
	}

	if tally.Iterations() != uint64(len(positions)) {
		t.Errorf("Iterations(): expected %d, got %d", len(positions), tally.Iterations())
	}

	var sum uint64
	for _, c := range tally.Counts() {
		sum += c
	}
	if sum != tally.Iterations() {
		t.Errorf("counter sum %d does not match iterations %d", sum, tally.Iterations())
	}

	if got := tally.Count(1); got != 2 {
		t.Errorf("Count(1): expected 2, got %d", got)
	}
	if got := tally.Count(5); got != 1 {
		t.Errorf("Count(5): expected 1, got %d", got)
	}
}

func TestTally_RecordOutOfRangePanics(t *testing.T) {
	tests := []struct {
		name string
		pos  Position
	}{
		{"negative x", Position{X: -1, Y: 0}},
		{"x past edge", Position{X: 3, Y: 0}},
		{"negative y", Position{X: 0, Y: -1}},
		{"y past edge", Position{X: 0, Y: 2}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			defer func() {
				if r := recover(); r == nil {
					t.Errorf("Record(%s): expected panic, got none", test.pos)
				}
			}()
			NewTally().Record(test.pos)
		})
	}
}

func TestTally_Merge(t *testing.T) {
	a := NewTally()
	a.Record(Position{X: 0, Y: 0})
	a.Record(Position{X: 1, Y: 0})

	b := NewTally()
	b.Record(Position{X: 0, Y: 0})
	b.Record(Position{X: 2, Y: 1})
	b.Record(Position{X: 2, Y: 1})

	a.Merge(b)

	if a.Iterations() != 5 {
		t.Errorf("Iterations(): expected 5, got %d", a.Iterations())
	}
	if got := a.Count(0); got != 2 {
		t.Errorf("Count(0): expected 2, got %d", got)
	}
	if got := a.Count(1); got != 1 {
		t.Errorf("Count(1): expected 1, got %d", got)
	}
	if got := a.Count(5); got != 2 {
		t.Errorf("Count(5): expected 2, got %d", got)
	}

	// Merging nil is a no-op
	a.Merge(nil)
	if a.Iterations() != 5 {
		t.Errorf("Iterations() after nil merge: expected 5, got %d", a.Iterations())
	}
}

func TestTally_EmptyDistribution(t *testing.T) {
	_, err := NewTally().Distribution()
	if !errors.Is(err, ErrEmptyTally) {
		t.Errorf("expected ErrEmptyTally, got %v", err)
	}
}

func TestTally_DistributionValues(t *testing.T) {
	tally := NewTally()
	tally.Record(Position{X: 0, Y: 0})
	tally.Record(Position{X: 0, Y: 0})
	tally.Record(Position{X: 1, Y: 0})
	tally.Record(Position{X: 2, Y: 1})

	d, err := tally.Distribution()
	if err != nil {
		t.Fatalf("Distribution() failed: %v", err)
	}

	expected := Distribution{0.5, 0.25, 0, 0, 0, 0.25}
	if d != expected {
		t.Errorf("Distribution(): expected %v, got %v", expected, d)
	}
	if d.Sum() != 1 {
		t.Errorf("Sum(): expected 1, got %v", d.Sum())
	}
}

func TestDistribution_String(t *testing.T) {
	d := Distribution{0.5, 0.25, 0, 0, 0, 0.25}
	got := d.String()

	want := "In zero: 0.5\nIn one: 0.25\nIn two: 0\nIn three: 0\nIn four: 0\nIn five: 0.25"
	if got != want {
		t.Errorf("String():\nexpected %q\ngot      %q", want, got)
	}

	lines := strings.Split(got, "\n")
	if len(lines) != CellCount {
		t.Errorf("expected %d lines, got %d", CellCount, len(lines))
	}
	for i, line := range lines {
		prefix := "In " + CellLabel(i) + ": "
		if !strings.HasPrefix(line, prefix) {
			t.Errorf("line %d: expected prefix %q, got %q", i, prefix, line)
		}
	}
}

func TestCellLabel_RowMajorOrder(t *testing.T) {
	tests := []struct {
		x, y  int
		label string
	}{
		{0, 0, "zero"},
		{1, 0, "one"},
		{2, 0, "two"},
		{0, 1, "three"},
		{1, 1, "four"},
		{2, 1, "five"},
	}

	for _, test := range tests {
		p := Position{X: test.x, Y: test.y}
		if got := CellLabel(p.Index()); got != test.label {
			t.Errorf("CellLabel(%s): expected %q, got %q", p, test.label, got)
		}
		if back := CellAt(p.Index()); back != p {
			t.Errorf("CellAt(%d): expected %s, got %s", p.Index(), p, back)
		}
	}

	if got := CellLabel(-1); got != "unknown" {
		t.Errorf("CellLabel(-1): expected unknown, got %q", got)
	}
	if got := CellLabel(CellCount); got != "unknown" {
		t.Errorf("CellLabel(%d): expected unknown, got %q", CellCount, got)
	}
}
