package state

import (
	"context"
	"errors"
	"fmt"

	"connect4/internal/board"

	"github.com/looplab/fsm"
)

var (
	// ErrGameOver rejects any move once the result is set.
	ErrGameOver      = errors.New("illegal move after game end")
	ErrInvalidPlayer = board.ErrInvalidPlayer
)

// Phases of the game machine.
const (
	PhaseStart   = "start"
	PhaseIdle    = "idle"
	PhasePlacing = "placing"
	PhaseEnded   = "ended"
)

// State is the live game: board, turn, move log and result. It is driven by
// a finite state machine and is not safe for concurrent use.
type State struct {
	Settings Settings

	board     board.Board
	current   board.Player
	moves     []int
	result    Result
	lastRow   int
	lastCol   int
	fsm       *fsm.FSM
	observers []Observer
}

func NewState(settings Settings) *State {
	s := &State{
		Settings: settings,
		current:  settings.StartingPlayer,
		result:   InProgress,
		lastRow:  -1,
		lastCol:  -1,
	}

	s.fsm = fsm.NewFSM(
		PhaseStart,
		getStateTransitions(),
		getStateCallbacks(s),
	)
	_ = s.fsm.Event(context.Background(), "initGame")

	return s
}

func getStateTransitions() []fsm.EventDesc {
	return fsm.Events{
		{Name: "initGame", Src: []string{PhaseStart}, Dst: PhaseIdle},

		{Name: "drop", Src: []string{PhaseIdle}, Dst: PhasePlacing},
		{Name: "connected", Src: []string{PhasePlacing}, Dst: PhaseEnded},
		{Name: "filled", Src: []string{PhasePlacing}, Dst: PhaseEnded},
		{Name: "switchTurn", Src: []string{PhasePlacing}, Dst: PhaseIdle},
		{Name: "reject", Src: []string{PhasePlacing}, Dst: PhaseIdle},

		{Name: "forfeit", Src: []string{PhaseIdle}, Dst: PhaseEnded},
		{Name: "timeExpired", Src: []string{PhaseIdle}, Dst: PhaseEnded},
	}
}

func getStateCallbacks(s *State) map[string]fsm.Callback {
	return fsm.Callbacks{
		"enter_placing": func(ctx context.Context, e *fsm.Event) {
			column := e.Args[0].(int)
			row, err := s.board.Drop(column, s.current)
			if err != nil {
				// DropChip validates first; this only guards direct misuse.
				e.FSM.Event(ctx, "reject")
				return
			}

			s.moves = append(s.moves, column)
			s.lastRow, s.lastCol = row, column
			s.notify(FieldBoard, s.board)

			// A connection wins even when it fills the last cell.
			if s.board.ConnectsAt(row, column) {
				s.result = wonByConnection(s.current)
				e.FSM.Event(ctx, "connected")
				return
			}
			if s.board.IsFull() {
				s.result = Draw
				e.FSM.Event(ctx, "filled")
				return
			}

			s.current = s.current.Opponent()
			s.notify(FieldCurrentPlayer, s.current)
			e.FSM.Event(ctx, "switchTurn")
		},
		"enter_ended": func(ctx context.Context, e *fsm.Event) {
			s.notify(FieldResult, s.result)
		},
	}
}

// DropChip drops a chip for the current player into column. Illegal drops
// leave the game untouched.
func (s *State) DropChip(column int) error {
	if s.IsOver() {
		return ErrGameOver
	}
	// Settings are validated by callers; a State built from bad ones never moves.
	if !s.current.Valid() {
		return fmt.Errorf("drop by %v: %w", s.current, ErrInvalidPlayer)
	}
	if err := s.board.CanDrop(column); err != nil {
		return err
	}
	if err := s.fsm.Event(context.Background(), "drop", column); err != nil {
		return fmt.Errorf("drop in column %d: %w", column, err)
	}
	return nil
}

// Forfeit ends the game with the opponent of player winning by forfeit.
func (s *State) Forfeit(player board.Player) error {
	if s.IsOver() {
		return ErrGameOver
	}
	if !player.Valid() {
		return fmt.Errorf("forfeit by %v: %w", player, ErrInvalidPlayer)
	}
	s.result = wonByForfeit(player.Opponent())
	return s.fsm.Event(context.Background(), "forfeit")
}

// ExpireClock ends the game with the opponent of player winning on time.
func (s *State) ExpireClock(player board.Player) error {
	if s.IsOver() {
		return ErrGameOver
	}
	if !player.Valid() {
		return fmt.Errorf("clock of %v: %w", player, ErrInvalidPlayer)
	}
	s.result = wonOnTime(player.Opponent())
	return s.fsm.Event(context.Background(), "timeExpired")
}

func (s *State) Board() board.Board {
	return s.board
}

func (s *State) CurrentPlayer() board.Player {
	return s.current
}

// Moves returns a copy of the columns played so far.
func (s *State) Moves() []int {
	out := make([]int, len(s.moves))
	copy(out, s.moves)
	return out
}

func (s *State) MoveCount() int {
	return len(s.moves)
}

func (s *State) Result() Result {
	return s.result
}

func (s *State) IsOver() bool {
	return s.result.IsTerminal()
}

// LastMove returns the cell of the most recent chip.
func (s *State) LastMove() (row, column int, ok bool) {
	return s.lastRow, s.lastCol, s.lastRow >= 0
}

// Phase is the current state machine phase.
func (s *State) Phase() string {
	return s.fsm.Current()
}
