package board

import (
	"errors"
	"fmt"
	"strings"
)

const (
	Rows    = 6
	Columns = 7

	// Cells is the number of cells on the grid, and the longest possible game.
	Cells = Rows * Columns
)

var (
	ErrInvalidColumn = errors.New("invalid column")
	ErrColumnFull    = errors.New("column is full")
	ErrColumnEmpty   = errors.New("column is empty")
	ErrInvalidPlayer = errors.New("invalid player")
)

// Player is the owner of a chip. None marks an empty cell.
type Player uint8

const (
	None Player = iota
	Red
	Yellow
)

func (p Player) Opponent() Player {
	switch p {
	case Red:
		return Yellow
	case Yellow:
		return Red
	}
	return None
}

func (p Player) Valid() bool {
	return p == Red || p == Yellow
}

func (p Player) String() string {
	switch p {
	case Red:
		return "Red"
	case Yellow:
		return "Yellow"
	}
	return "None"
}

func (p Player) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("cannot encode player %d", uint8(p))
	}
	return []byte(p.String()), nil
}

func (p *Player) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "red":
		*p = Red
	case "yellow":
		*p = Yellow
	default:
		return fmt.Errorf("unknown player %q", string(text))
	}
	return nil
}

// Board is the 6x7 grid. Row 0 is the top row, so chips fall towards Rows-1.
// It is a plain value: copying a Board copies every cell, and two boards are
// equal with == exactly when they hold the same chips.
type Board struct {
	cells [Rows][Columns]Player
}

// At returns the owner of the cell, or None when it is empty or off the grid.
func (b *Board) At(row, column int) Player {
	if row < 0 || row >= Rows || column < 0 || column >= Columns {
		return None
	}
	return b.cells[row][column]
}

// Drop puts a chip for player into the lowest empty cell of column and
// returns the row it landed on.
func (b *Board) Drop(column int, player Player) (int, error) {
	if column < 0 || column >= Columns {
		return -1, fmt.Errorf("drop in column %d: %w", column, ErrInvalidColumn)
	}
	if !player.Valid() {
		return -1, fmt.Errorf("drop by %v: %w", player, ErrInvalidPlayer)
	}
	for row := Rows - 1; row >= 0; row-- {
		if b.cells[row][column] == None {
			b.cells[row][column] = player
			return row, nil
		}
	}
	return -1, fmt.Errorf("drop in column %d: %w", column, ErrColumnFull)
}

// Retract clears the topmost chip of column. It only undoes history correctly
// when called for the most recent drop into that column, in reverse order of
// the drops; the replay cursor is the only caller that guarantees this.
func (b *Board) Retract(column int) error {
	if column < 0 || column >= Columns {
		return fmt.Errorf("retract from column %d: %w", column, ErrInvalidColumn)
	}
	for row := 0; row < Rows; row++ {
		if b.cells[row][column] != None {
			b.cells[row][column] = None
			return nil
		}
	}
	return fmt.Errorf("retract from column %d: %w", column, ErrColumnEmpty)
}

// CanDrop reports why a drop into column would be rejected, or nil.
func (b *Board) CanDrop(column int) error {
	if column < 0 || column >= Columns {
		return fmt.Errorf("drop in column %d: %w", column, ErrInvalidColumn)
	}
	if b.IsColumnFull(column) {
		return fmt.Errorf("drop in column %d: %w", column, ErrColumnFull)
	}
	return nil
}

func (b *Board) IsColumnFull(column int) bool {
	if column < 0 || column >= Columns {
		return false
	}
	return b.cells[0][column] != None
}

// IsFull reports whether every cell is occupied. With gravity a full top row
// means a full board.
func (b *Board) IsFull() bool {
	for column := 0; column < Columns; column++ {
		if !b.IsColumnFull(column) {
			return false
		}
	}
	return true
}

// Height returns how many chips are stacked in column.
func (b *Board) Height(column int) int {
	if column < 0 || column >= Columns {
		return 0
	}
	h := 0
	for row := Rows - 1; row >= 0 && b.cells[row][column] != None; row-- {
		h++
	}
	return h
}

// Count returns the number of chips on the board.
func (b *Board) Count() int {
	n := 0
	for row := 0; row < Rows; row++ {
		for column := 0; column < Columns; column++ {
			if b.cells[row][column] != None {
				n++
			}
		}
	}
	return n
}

// String renders the board top row first: '.' empty, 'R' red, 'Y' yellow.
func (b Board) String() string {
	var sb strings.Builder
	for row := 0; row < Rows; row++ {
		for column := 0; column < Columns; column++ {
			switch b.cells[row][column] {
			case Red:
				sb.WriteByte('R')
			case Yellow:
				sb.WriteByte('Y')
			default:
				sb.WriteByte('.')
			}
		}
		if row < Rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
