package game

import (
	"sync"
	"time"

	"connect4/internal/board"
	"connect4/internal/history"
	"connect4/internal/state"
	"connect4/internal/timer"

	"go.uber.org/zap"
)

// Saver keeps finished games. *history.Archive implements it.
type Saver interface {
	Save(r history.Record) error
}

// Game wires one match together, independent of the UI: the engine, its
// clock, and persistence of the record once a result is reached. Drops, ticks
// and forfeits are serialized, so a tick never lands in the middle of a move.
type Game struct {
	mu sync.Mutex

	State *state.State
	Clock *timer.Controller

	// Record is set when the game ends. SaveErr holds the failure, if any,
	// of the one attempt to store it.
	Record  *history.Record
	SaveErr error

	saver Saver
	log   *zap.Logger
	now   func() time.Time
}

// NewGame starts a match. saver may be nil, in which case nothing is stored.
func NewGame(settings state.Settings, saver Saver, log *zap.Logger) (*Game, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	g := &Game{
		State: state.NewState(settings),
		saver: saver,
		log:   log,
		now:   time.Now,
	}
	g.Clock = timer.New(settings, g.State)

	// The clock must stop before the record is taken.
	g.State.Subscribe(g.Clock)
	g.State.Subscribe(state.ObserverFunc(g.onChange))

	g.log.Debug("game started",
		zap.String("red", settings.RedPlayerName),
		zap.String("yellow", settings.YellowPlayerName),
		zap.Bool("timed", settings.Timed()),
	)
	return g, nil
}

// HandleTick processes a timer tick.
func (g *Game) HandleTick() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.State.IsOver() {
		return nil
	}
	return g.Clock.Tick()
}

// HandleDrop plays column for the current player.
func (g *Game) HandleDrop(column int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.State.DropChip(column); err != nil {
		g.log.Debug("drop rejected", zap.Int("column", column), zap.Error(err))
		return err
	}
	return nil
}

// Forfeit gives up the game on behalf of the player to move.
func (g *Game) Forfeit() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.State.Forfeit(g.State.CurrentPlayer())
}

// Snapshot is a consistent copy of what a view needs.
type Snapshot struct {
	Board   board.Board
	Current board.Player
	Result  state.Result
	Moves   int

	LastRow, LastColumn int
	HasLast             bool

	Timed     bool
	Active    board.Player
	Remaining map[board.Player]time.Duration
	ClockText map[board.Player]string
}

func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	row, col, ok := g.State.LastMove()
	return Snapshot{
		Board:      g.State.Board(),
		Current:    g.State.CurrentPlayer(),
		Result:     g.State.Result(),
		Moves:      g.State.MoveCount(),
		LastRow:    row,
		LastColumn: col,
		HasLast:    ok,
		Timed:      g.Clock.Enabled(),
		Active:     g.Clock.Active(),
		Remaining: map[board.Player]time.Duration{
			board.Red:    g.Clock.Remaining(board.Red),
			board.Yellow: g.Clock.Remaining(board.Yellow),
		},
		ClockText: map[board.Player]string{
			board.Red:    g.Clock.Format(board.Red),
			board.Yellow: g.Clock.Format(board.Yellow),
		},
	}
}

func (g *Game) IsOver() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.State.IsOver()
}

// onChange runs inside a locked HandleDrop, HandleTick or Forfeit and must
// not take the lock itself.
func (g *Game) onChange(c state.Change) {
	if c.Field != state.FieldResult {
		return
	}

	r := history.NewRecord(g.State.Settings, g.State.Moves(), g.State.Result(), g.now())
	g.Record = &r
	g.log.Info("game finished",
		zap.String("game_id", r.ID),
		zap.String("result", r.Result.String()),
		zap.Int("moves", len(r.Moves)),
	)

	if g.saver == nil {
		return
	}
	if err := g.saver.Save(r); err != nil {
		g.SaveErr = err
		g.log.Error("failed to save game", zap.String("game_id", r.ID), zap.Error(err))
	}
}
