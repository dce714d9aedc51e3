package timer

import (
	"fmt"
	"time"

	"connect4/internal/board"
	"connect4/internal/state"
)

// Expirer is told when a player's clock runs out.
type Expirer interface {
	ExpireClock(player board.Player) error
}

// Controller keeps one countdown per player. It is advanced by Tick, once per
// second, and follows the engine as an observer: a turn switch credits the
// increment to the player who just moved, a result stops it.
type Controller struct {
	enabled   bool
	running   bool
	active    board.Player
	remaining map[board.Player]int // seconds
	increment int
	expirer   Expirer
}

// New builds the clock for settings. Untimed settings give a controller that
// never runs and never expires anyone.
func New(settings state.Settings, expirer Expirer) *Controller {
	c := &Controller{
		enabled:   settings.Timed(),
		expirer:   expirer,
		remaining: map[board.Player]int{},
	}
	if !c.enabled {
		return c
	}

	base := settings.BaseTimeMinutes * 60
	c.remaining[board.Red] = base
	c.remaining[board.Yellow] = base
	c.increment = settings.IncrementSeconds
	c.active = settings.StartingPlayer
	c.running = true
	return c
}

// Tick takes one second from the active player. When that empties the clock
// the controller stops and reports the expiry.
func (c *Controller) Tick() error {
	if !c.running {
		return nil
	}
	c.remaining[c.active]--
	if c.remaining[c.active] > 0 {
		return nil
	}

	c.remaining[c.active] = 0
	c.Stop()
	return c.expirer.ExpireClock(c.active)
}

// OnChange implements state.Observer.
func (c *Controller) OnChange(ch state.Change) {
	switch ch.Field {
	case state.FieldCurrentPlayer:
		c.switchTo(ch.Value.(board.Player))
	case state.FieldResult:
		c.Stop()
	}
}

func (c *Controller) switchTo(next board.Player) {
	if !c.running || next == c.active {
		return
	}
	c.remaining[c.active] += c.increment
	c.active = next
}

// Stop halts the countdown. Stopping twice is fine.
func (c *Controller) Stop() {
	c.running = false
}

func (c *Controller) Enabled() bool {
	return c.enabled
}

func (c *Controller) Running() bool {
	return c.running
}

// Active is the player whose clock is counting down.
func (c *Controller) Active() board.Player {
	return c.active
}

func (c *Controller) Remaining(p board.Player) time.Duration {
	return time.Duration(c.remaining[p]) * time.Second
}

// Format renders the remaining time of p as MM:SS.
func (c *Controller) Format(p board.Player) string {
	secs := c.remaining[p]
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
