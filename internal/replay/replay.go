// Package replay steps through a stored game one move at a time.
package replay

import (
	"errors"
	"fmt"

	"connect4/internal/board"
	"connect4/internal/history"
)

var (
	ErrAtEnd   = errors.New("already at the last move")
	ErrAtStart = errors.New("already at the start")
)

// Engine rebuilds the board of a record at a cursor position. Cursor i means
// the first i moves are on the board. Moves are applied and retracted one at
// a time, so the board at any cursor equals the live board after that many
// moves.
type Engine struct {
	record history.Record
	board  board.Board
	cursor int
}

func New(record history.Record) *Engine {
	return &Engine{record: record}
}

// BoardAt returns the board of record after index moves.
func BoardAt(record history.Record, index int) (board.Board, error) {
	e := New(record)
	if err := e.Seek(index); err != nil {
		return board.Board{}, err
	}
	return e.Board(), nil
}

func (e *Engine) Record() history.Record {
	return e.record
}

// StepForward applies the move at the cursor. Even-numbered moves belong to
// the starting player.
func (e *Engine) StepForward() error {
	if e.cursor >= e.Total() {
		return ErrAtEnd
	}
	player := e.record.Settings.StartingPlayer
	if e.cursor%2 == 1 {
		player = player.Opponent()
	}
	if _, err := e.board.Drop(e.record.Moves[e.cursor], player); err != nil {
		return fmt.Errorf("move %d: %w", e.cursor+1, err)
	}
	e.cursor++
	return nil
}

// StepBackward takes back the move before the cursor.
func (e *Engine) StepBackward() error {
	if e.cursor == 0 {
		return ErrAtStart
	}
	if err := e.board.Retract(e.record.Moves[e.cursor-1]); err != nil {
		return fmt.Errorf("move %d: %w", e.cursor, err)
	}
	e.cursor--
	return nil
}

// Seek steps to index, clamped to the record. When a move cannot be applied
// the engine is stepped back to where it started and the error is returned.
func (e *Engine) Seek(index int) error {
	start := e.cursor
	if err := e.stepTo(max(0, min(index, e.Total()))); err != nil {
		// Every move between start and the failure was applied, so the way
		// back is clear.
		_ = e.stepTo(start)
		return err
	}
	return nil
}

func (e *Engine) stepTo(index int) error {
	for e.cursor < index {
		if err := e.StepForward(); err != nil {
			return err
		}
	}
	for e.cursor > index {
		if err := e.StepBackward(); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) Rewind() error {
	return e.Seek(0)
}

func (e *Engine) FastForward() error {
	return e.Seek(e.Total())
}

func (e *Engine) Cursor() int {
	return e.cursor
}

func (e *Engine) Total() int {
	return len(e.record.Moves)
}

func (e *Engine) AtStart() bool {
	return e.cursor == 0
}

func (e *Engine) AtEnd() bool {
	return e.cursor == e.Total()
}

func (e *Engine) Board() board.Board {
	return e.board
}

// LastMove returns the cell filled by the move before the cursor.
func (e *Engine) LastMove() (row, column int, ok bool) {
	if e.cursor == 0 {
		return -1, -1, false
	}
	column = e.record.Moves[e.cursor-1]
	return board.Rows - e.board.Height(column), column, true
}

// CounterText reads e.g. "Move 3 / 17".
func (e *Engine) CounterText() string {
	return fmt.Sprintf("Move %d / %d", e.cursor, e.Total())
}
