package timer

import (
	"testing"
	"time"

	"connect4/internal/board"
	"connect4/internal/state"
)

func timedGame(base, inc int) (*state.State, *Controller) {
	settings := state.DefaultSettings()
	settings.BaseTimeMinutes = base
	settings.IncrementSeconds = inc
	s := state.NewState(settings)
	c := New(settings, s)
	s.Subscribe(c)
	return s, c
}

func TestController_Untimed(t *testing.T) {
	s := state.NewState(state.DefaultSettings())
	c := New(s.Settings, s)
	s.Subscribe(c)

	if c.Enabled() || c.Running() {
		t.Fatal("untimed game should have no running clock")
	}

	// an hour of ticks with moves in between
	for i := 0; i < 3600; i++ {
		if err := c.Tick(); err != nil {
			t.Fatalf("Tick failed: %v", err)
		}
		if i%600 == 0 {
			_ = s.DropChip(i / 600)
		}
	}
	if s.IsOver() {
		t.Errorf("untimed game ended with %v", s.Result())
	}
	if c.Remaining(board.Red) != 0 || c.Remaining(board.Yellow) != 0 {
		t.Error("untimed clocks should stay empty")
	}
}

func TestController_IncrementGoesToMover(t *testing.T) {
	s, c := timedGame(1, 5)

	if c.Remaining(board.Red) != 60*time.Second {
		t.Fatalf("Expected 60s, got %v", c.Remaining(board.Red))
	}

	if err := s.DropChip(3); err != nil {
		t.Fatal(err)
	}

	if c.Remaining(board.Red) != 65*time.Second {
		t.Errorf("Expected Red at 65s after moving, got %v", c.Remaining(board.Red))
	}
	if c.Remaining(board.Yellow) != 60*time.Second {
		t.Errorf("Expected Yellow untouched at 60s, got %v", c.Remaining(board.Yellow))
	}
	if c.Active() != board.Yellow {
		t.Errorf("Expected Yellow's clock to run, got %v", c.Active())
	}

	_ = c.Tick()
	if c.Remaining(board.Yellow) != 59*time.Second || c.Remaining(board.Red) != 65*time.Second {
		t.Errorf("tick hit the wrong clock: red %v yellow %v", c.Remaining(board.Red), c.Remaining(board.Yellow))
	}
}

func TestController_ExpiryEndsGame(t *testing.T) {
	s, c := timedGame(1, 0)
	if err := s.DropChip(0); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 59; i++ {
		if err := c.Tick(); err != nil {
			t.Fatalf("Tick %d failed: %v", i, err)
		}
	}
	if s.IsOver() {
		t.Fatal("game ended one second early")
	}

	if err := c.Tick(); err != nil {
		t.Fatalf("final tick failed: %v", err)
	}
	if s.Result() != state.RedWonOnTime {
		t.Errorf("Expected RedWonOnTime, got %v", s.Result())
	}
	if c.Running() {
		t.Error("clock should stop after expiry")
	}
	if c.Format(board.Yellow) != "00:00" {
		t.Errorf("Expected 00:00, got %s", c.Format(board.Yellow))
	}

	// further ticks are ignored
	if err := c.Tick(); err != nil {
		t.Errorf("tick after stop returned %v", err)
	}
}

func TestController_StopsOnResult(t *testing.T) {
	s, c := timedGame(2, 3)
	if err := s.Forfeit(board.Red); err != nil {
		t.Fatal(err)
	}
	if c.Running() {
		t.Error("clock should stop when the game ends")
	}

	before := c.Remaining(board.Red)
	_ = c.Tick()
	if c.Remaining(board.Red) != before {
		t.Error("stopped clock kept ticking")
	}

	c.Stop()
	c.Stop()
}

func TestController_NoIncrementOnWinningMove(t *testing.T) {
	s, c := timedGame(1, 10)
	for _, column := range []int{0, 0, 1, 1, 2, 2} {
		if err := s.DropChip(column); err != nil {
			t.Fatal(err)
		}
	}
	redBefore := c.Remaining(board.Red)
	if err := s.DropChip(3); err != nil {
		t.Fatal(err)
	}
	if c.Remaining(board.Red) != redBefore {
		t.Errorf("winning move credited increment: %v -> %v", redBefore, c.Remaining(board.Red))
	}
}

func TestController_Format(t *testing.T) {
	_, c := timedGame(10, 0)
	if got := c.Format(board.Red); got != "10:00" {
		t.Errorf("Expected 10:00, got %s", got)
	}
	_ = c.Tick()
	if got := c.Format(board.Red); got != "09:59" {
		t.Errorf("Expected 09:59, got %s", got)
	}
}
