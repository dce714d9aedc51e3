package state

import (
	"errors"
	"fmt"

	"connect4/internal/board"
)

// Result is the outcome of a game. InProgress is the only non-terminal value.
type Result uint8

const (
	InProgress Result = iota
	RedWonByConnection
	YellowWonByConnection
	RedWonOnTime
	YellowWonOnTime
	RedWonByForfeit
	YellowWonByForfeit
	Draw
)

var resultNames = map[Result]string{
	InProgress:            "InProgress",
	RedWonByConnection:    "RedWonByConnection",
	YellowWonByConnection: "YellowWonByConnection",
	RedWonOnTime:          "RedWonOnTime",
	YellowWonOnTime:       "YellowWonOnTime",
	RedWonByForfeit:       "RedWonByForfeit",
	YellowWonByForfeit:    "YellowWonByForfeit",
	Draw:                  "Draw",
}

func (r Result) String() string {
	if name, ok := resultNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Result(%d)", uint8(r))
}

func (r Result) MarshalText() ([]byte, error) {
	if _, ok := resultNames[r]; !ok {
		return nil, fmt.Errorf("cannot encode result %d", uint8(r))
	}
	return []byte(r.String()), nil
}

func (r *Result) UnmarshalText(text []byte) error {
	parsed, err := ParseResult(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseResult maps an enumerator name back to its Result.
func ParseResult(name string) (Result, error) {
	for r, n := range resultNames {
		if n == name {
			return r, nil
		}
	}
	return InProgress, fmt.Errorf("unknown game result %q", name)
}

func (r Result) IsTerminal() bool {
	return r != InProgress
}

// Winner returns the winning player, or false for a draw or a running game.
func (r Result) Winner() (board.Player, bool) {
	switch r {
	case RedWonByConnection, RedWonOnTime, RedWonByForfeit:
		return board.Red, true
	case YellowWonByConnection, YellowWonOnTime, YellowWonByForfeit:
		return board.Yellow, true
	}
	return board.None, false
}

// Headline is the game-over banner shown to the players.
func (r Result) Headline(s Settings) string {
	switch r {
	case RedWonByConnection, YellowWonByConnection:
		return s.Name(mustWinner(r)) + " Won!"
	case RedWonOnTime, YellowWonOnTime:
		return s.Name(mustWinner(r)) + " Won on time!"
	case RedWonByForfeit, YellowWonByForfeit:
		return s.Name(mustWinner(r)) + " Won by forfeit!"
	case Draw:
		return "Game ended in a draw!"
	}
	return ""
}

func mustWinner(r Result) board.Player {
	p, _ := r.Winner()
	return p
}

func wonByConnection(p board.Player) Result {
	if p == board.Red {
		return RedWonByConnection
	}
	return YellowWonByConnection
}

func wonOnTime(p board.Player) Result {
	if p == board.Red {
		return RedWonOnTime
	}
	return YellowWonOnTime
}

func wonByForfeit(p board.Player) Result {
	if p == board.Red {
		return RedWonByForfeit
	}
	return YellowWonByForfeit
}

// Untimed is the BaseTimeMinutes sentinel for games without a clock.
const Untimed = -1

var ErrInvalidSettings = errors.New("invalid game settings")

// Settings are chosen before a game starts and stored with its record.
type Settings struct {
	RedPlayerName    string       `json:"redPlayerName"`
	YellowPlayerName string       `json:"yellowPlayerName"`
	StartingPlayer   board.Player `json:"startingPlayer"`
	BaseTimeMinutes  int          `json:"baseTimeMinutes"`
	IncrementSeconds int          `json:"incrementSeconds"`
}

func DefaultSettings() Settings {
	return Settings{
		RedPlayerName:    "Red",
		YellowPlayerName: "Yellow",
		StartingPlayer:   board.Red,
		BaseTimeMinutes:  Untimed,
		IncrementSeconds: 0,
	}
}

// Timed reports whether the game runs with a clock.
func (s Settings) Timed() bool {
	return s.BaseTimeMinutes > 0
}

// Name returns the display name of player.
func (s Settings) Name(p board.Player) string {
	if p == board.Yellow {
		return s.YellowPlayerName
	}
	return s.RedPlayerName
}

func (s Settings) Validate() error {
	if s.RedPlayerName == "" || s.YellowPlayerName == "" {
		return fmt.Errorf("%w: player names must not be empty", ErrInvalidSettings)
	}
	if !s.StartingPlayer.Valid() {
		return fmt.Errorf("%w: starting player must be Red or Yellow", ErrInvalidSettings)
	}
	if s.BaseTimeMinutes != Untimed && s.BaseTimeMinutes < 1 {
		return fmt.Errorf("%w: base time must be %d or at least 1 minute, got %d", ErrInvalidSettings, Untimed, s.BaseTimeMinutes)
	}
	if s.IncrementSeconds < 0 {
		return fmt.Errorf("%w: increment must not be negative, got %d", ErrInvalidSettings, s.IncrementSeconds)
	}
	return nil
}
