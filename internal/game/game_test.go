package game

import (
	"errors"
	"testing"
	"time"

	"connect4/internal/board"
	"connect4/internal/history"
	"connect4/internal/state"
)

// MockSaver implements Saver for testing
type MockSaver struct {
	Saved []history.Record
	Err   error
}

func (m *MockSaver) Save(r history.Record) error {
	if m.Err != nil {
		return m.Err
	}
	m.Saved = append(m.Saved, r)
	return nil
}

func timedSettings(base, inc int) state.Settings {
	s := state.DefaultSettings()
	s.BaseTimeMinutes = base
	s.IncrementSeconds = inc
	return s
}

func newTestGame(t *testing.T, settings state.Settings, saver Saver) *Game {
	t.Helper()
	g, err := NewGame(settings, saver, nil)
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	g.now = func() time.Time { return time.Date(2025, 5, 6, 7, 8, 0, 0, time.UTC) }
	return g
}

func drops(t *testing.T, g *Game, columns ...int) {
	t.Helper()
	for _, c := range columns {
		if err := g.HandleDrop(c); err != nil {
			t.Fatalf("HandleDrop(%d) failed: %v", c, err)
		}
	}
}

func TestGame_RejectsInvalidSettings(t *testing.T) {
	s := state.DefaultSettings()
	s.BaseTimeMinutes = 0

	if _, err := NewGame(s, nil, nil); !errors.Is(err, state.ErrInvalidSettings) {
		t.Errorf("expected ErrInvalidSettings, got %v", err)
	}
}

func TestGame_WinIsSavedOnce(t *testing.T) {
	saver := &MockSaver{}
	g := newTestGame(t, state.DefaultSettings(), saver)

	drops(t, g, 0, 0, 1, 1, 2, 2, 3)

	if len(saver.Saved) != 1 {
		t.Fatalf("expected 1 saved record, got %d", len(saver.Saved))
	}
	r := saver.Saved[0]
	if r.Result != state.RedWonByConnection {
		t.Errorf("Result = %v, want RedWonByConnection", r.Result)
	}
	if len(r.Moves) != 7 || r.Moves[6] != 3 {
		t.Errorf("Moves = %v", r.Moves)
	}
	if !r.PlayedAt.Equal(time.Date(2025, 5, 6, 7, 8, 0, 0, time.UTC)) {
		t.Errorf("PlayedAt = %v", r.PlayedAt)
	}
	if g.Record == nil || g.Record.ID != r.ID {
		t.Error("game should keep the saved record")
	}

	// Nothing after the end changes or saves anything.
	if err := g.HandleDrop(4); !errors.Is(err, state.ErrGameOver) {
		t.Errorf("drop after end = %v, want ErrGameOver", err)
	}
	if err := g.Forfeit(); !errors.Is(err, state.ErrGameOver) {
		t.Errorf("forfeit after end = %v, want ErrGameOver", err)
	}
	if len(saver.Saved) != 1 {
		t.Errorf("record saved %d times", len(saver.Saved))
	}
}

func TestGame_IllegalDropKeepsTurn(t *testing.T) {
	g := newTestGame(t, state.DefaultSettings(), nil)

	if err := g.HandleDrop(7); !errors.Is(err, board.ErrInvalidColumn) {
		t.Errorf("HandleDrop(7) = %v, want ErrInvalidColumn", err)
	}
	snap := g.Snapshot()
	if snap.Current != board.Red || snap.Moves != 0 || snap.HasLast {
		t.Errorf("illegal drop changed the game: %+v", snap)
	}
}

func TestGame_ForfeitByCurrentPlayer(t *testing.T) {
	saver := &MockSaver{}
	g := newTestGame(t, state.DefaultSettings(), saver)
	drops(t, g, 3)

	if err := g.Forfeit(); err != nil {
		t.Fatalf("Forfeit failed: %v", err)
	}
	if got := g.State.Result(); got != state.RedWonByForfeit {
		t.Errorf("Result = %v, want RedWonByForfeit", got)
	}
	if len(saver.Saved) != 1 || len(saver.Saved[0].Moves) != 1 {
		t.Errorf("unexpected saves: %+v", saver.Saved)
	}
}

func TestGame_UntimedTicksDoNothing(t *testing.T) {
	g := newTestGame(t, state.DefaultSettings(), nil)

	for i := 0; i < 10000; i++ {
		if err := g.HandleTick(); err != nil {
			t.Fatalf("HandleTick failed: %v", err)
		}
	}
	if g.IsOver() {
		t.Error("untimed game must never end on time")
	}
	if g.Snapshot().Timed {
		t.Error("snapshot should report an untimed game")
	}
}

func TestGame_IncrementAfterMove(t *testing.T) {
	g := newTestGame(t, timedSettings(1, 5), nil)
	drops(t, g, 3)

	snap := g.Snapshot()
	if snap.Remaining[board.Red] != 65*time.Second {
		t.Errorf("Red = %v, want 1m5s", snap.Remaining[board.Red])
	}
	if snap.Remaining[board.Yellow] != 60*time.Second {
		t.Errorf("Yellow = %v, want 1m0s", snap.Remaining[board.Yellow])
	}
	if snap.ClockText[board.Red] != "01:05" {
		t.Errorf("Red clock text = %q, want 01:05", snap.ClockText[board.Red])
	}
	if snap.Active != board.Yellow {
		t.Errorf("Active = %v, want Yellow", snap.Active)
	}
}

func TestGame_TimeoutIsSaved(t *testing.T) {
	saver := &MockSaver{}
	g := newTestGame(t, timedSettings(1, 0), saver)
	drops(t, g, 3)

	for i := 0; i < 60; i++ {
		if err := g.HandleTick(); err != nil {
			t.Fatalf("tick %d failed: %v", i+1, err)
		}
	}
	if got := g.State.Result(); got != state.RedWonOnTime {
		t.Fatalf("Result = %v, want RedWonOnTime", got)
	}
	if len(saver.Saved) != 1 {
		t.Fatalf("expected 1 saved record, got %d", len(saver.Saved))
	}

	// The clock is stopped; further ticks are ignored.
	if err := g.HandleTick(); err != nil {
		t.Errorf("tick after end = %v", err)
	}
	if g.Snapshot().Remaining[board.Yellow] != 0 {
		t.Error("Yellow clock should stay at zero")
	}
}

func TestGame_SaveErrorIsKept(t *testing.T) {
	boom := errors.New("disk full")
	g := newTestGame(t, state.DefaultSettings(), &MockSaver{Err: boom})

	if err := g.Forfeit(); err != nil {
		t.Fatalf("Forfeit should succeed even when saving fails: %v", err)
	}
	if !errors.Is(g.SaveErr, boom) {
		t.Errorf("SaveErr = %v, want %v", g.SaveErr, boom)
	}
	if g.Record == nil {
		t.Error("Record should be set even when saving fails")
	}
}
