package board

import "testing"

// stack drops chips bottom-up into column in the given order.
func stack(t *testing.T, b *Board, column int, players ...Player) {
	t.Helper()
	for _, p := range players {
		mustDrop(t, b, column, p)
	}
}

func TestConnectsAt_Vertical(t *testing.T) {
	var b Board
	stack(t, &b, 3, Red, Red, Red)
	if b.ConnectsAt(Rows-3, 3) {
		t.Error("three chips must not connect")
	}
	row := mustDrop(t, &b, 3, Red)
	if !b.ConnectsAt(row, 3) {
		t.Error("four stacked chips should connect")
	}
}

func TestConnectsAt_HorizontalFromEitherEnd(t *testing.T) {
	const row = 3
	for start := 0; start+3 < Columns; start++ {
		for _, lastLeft := range []bool{true, false} {
			var b Board
			// two filler chips under every column of the run lift it to row 3
			for c := start; c < start+4; c++ {
				stack(t, &b, c, Yellow, Red)
			}

			last := start + 3
			if lastLeft {
				last = start
			}
			for c := start; c < start+4; c++ {
				if c == last {
					continue
				}
				if got := mustDrop(t, &b, c, Yellow); got != row {
					t.Fatalf("chip landed on row %d, expected %d", got, row)
				}
				if b.ConnectsAt(row, c) {
					t.Fatalf("start %d: premature connection at column %d", start, c)
				}
			}

			mustDrop(t, &b, last, Yellow)
			if !b.ConnectsAt(row, last) {
				t.Errorf("start %d, last %d: horizontal run not detected\n%s", start, last, b)
			}
		}
	}
}

func TestConnectsAt_Diagonals(t *testing.T) {
	// rising to the right: columns 0..3 with heights 1..4
	var b Board
	stack(t, &b, 0, Red)
	stack(t, &b, 1, Yellow, Red)
	stack(t, &b, 2, Yellow, Yellow, Red)
	stack(t, &b, 3, Yellow, Red, Yellow)
	row := mustDrop(t, &b, 3, Red)
	if !b.ConnectsAt(row, 3) {
		t.Errorf("rising diagonal not detected\n%s", b)
	}
	// the middle of the line also sees it
	if !b.ConnectsAt(Rows-2, 1) {
		t.Error("diagonal should connect through an inner chip")
	}

	// falling to the right, completed in the middle
	b = Board{}
	stack(t, &b, 6, Red)
	stack(t, &b, 5, Yellow, Red)
	stack(t, &b, 4, Yellow, Yellow)
	stack(t, &b, 3, Yellow, Red, Yellow, Red)
	row = mustDrop(t, &b, 4, Red)
	if !b.ConnectsAt(row, 4) {
		t.Errorf("falling diagonal not detected\n%s", b)
	}
}

func TestConnectsAt_BrokenLine(t *testing.T) {
	var b Board
	stack(t, &b, 0, Red)
	stack(t, &b, 1, Red)
	stack(t, &b, 2, Yellow)
	stack(t, &b, 3, Red)
	row := mustDrop(t, &b, 4, Red)
	if b.ConnectsAt(row, 4) {
		t.Error("line broken by an opponent chip must not connect")
	}
	if b.ConnectsAt(0, 0) {
		t.Error("empty cell must not connect")
	}
}
