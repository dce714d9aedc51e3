package history

import (
	"encoding/json"
	"fmt"
	"time"

	"connect4/internal/board"
	"connect4/internal/state"

	"github.com/google/uuid"
)

// Record is the finished game as it is kept: settings, the columns played in
// order, the result and when it was played. It is created once, when the game
// ends, and never modified.
type Record struct {
	ID       string         `json:"id"`
	Settings state.Settings `json:"settings"`
	Moves    []int          `json:"moves"`
	Result   state.Result   `json:"result"`
	PlayedAt time.Time      `json:"playedAt"`
}

// NewRecord snapshots a finished game under a fresh id.
func NewRecord(settings state.Settings, moves []int, result state.Result, playedAt time.Time) Record {
	m := make([]int, len(moves))
	copy(m, moves)
	return Record{
		ID:       uuid.NewString(),
		Settings: settings,
		Moves:    m,
		Result:   result,
		PlayedAt: playedAt,
	}
}

func (r Record) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("record has no id")
	}
	if err := r.Settings.Validate(); err != nil {
		return fmt.Errorf("record %s: %w", r.ID, err)
	}
	if !r.Result.IsTerminal() {
		return fmt.Errorf("record %s: game is not finished", r.ID)
	}
	if len(r.Moves) > board.Cells {
		return fmt.Errorf("record %s: %d moves do not fit the board", r.ID, len(r.Moves))
	}
	for i, column := range r.Moves {
		if column < 0 || column >= board.Columns {
			return fmt.Errorf("record %s: move %d: %w", r.ID, i+1, board.ErrInvalidColumn)
		}
	}
	return nil
}

// PlayersText labels the pairing, e.g. "Ann vs Bob".
func (r Record) PlayersText() string {
	return fmt.Sprintf("%s vs %s", r.Settings.RedPlayerName, r.Settings.YellowPlayerName)
}

func (r Record) ResultText() string {
	switch r.Result {
	case state.RedWonByConnection:
		return r.Settings.RedPlayerName + " won"
	case state.YellowWonByConnection:
		return r.Settings.YellowPlayerName + " won"
	case state.RedWonOnTime:
		return r.Settings.RedPlayerName + " won on time"
	case state.YellowWonOnTime:
		return r.Settings.YellowPlayerName + " won on time"
	case state.RedWonByForfeit:
		return r.Settings.RedPlayerName + " won by forfeit"
	case state.YellowWonByForfeit:
		return r.Settings.YellowPlayerName + " won by forfeit"
	case state.Draw:
		return "Draw"
	}
	return "Unknown result"
}

func (r Record) PlayedAtText() string {
	return r.PlayedAt.Local().Format("2006-01-02 15:04")
}

// Entry is the stored form of a Record. Settings and moves are kept as JSON
// text next to the scalar columns; display text is never stored.
type Entry struct {
	ID       string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Settings string    `json:"settings" gorm:"not null"`
	Moves    string    `json:"moves" gorm:"not null"`
	Result   string    `json:"result" gorm:"type:varchar(32);not null"`
	PlayedAt time.Time `json:"playedAt" gorm:"index;not null"`
}

func (Entry) TableName() string {
	return "games"
}

// Entry encodes the record for storage.
func (r Record) Entry() (Entry, error) {
	settings, err := json.Marshal(r.Settings)
	if err != nil {
		return Entry{}, fmt.Errorf("error encoding settings: %w", err)
	}
	moves := r.Moves
	if moves == nil {
		moves = []int{}
	}
	movesJSON, err := json.Marshal(moves)
	if err != nil {
		return Entry{}, fmt.Errorf("error encoding moves: %w", err)
	}
	result, err := r.Result.MarshalText()
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		ID:       r.ID,
		Settings: string(settings),
		Moves:    string(movesJSON),
		Result:   string(result),
		PlayedAt: r.PlayedAt,
	}, nil
}

// Record decodes a stored entry.
func (e Entry) Record() (Record, error) {
	r := Record{ID: e.ID, PlayedAt: e.PlayedAt}
	if err := json.Unmarshal([]byte(e.Settings), &r.Settings); err != nil {
		return Record{}, fmt.Errorf("error decoding settings of %s: %w", e.ID, err)
	}
	if err := json.Unmarshal([]byte(e.Moves), &r.Moves); err != nil {
		return Record{}, fmt.Errorf("error decoding moves of %s: %w", e.ID, err)
	}
	result, err := state.ParseResult(e.Result)
	if err != nil {
		return Record{}, fmt.Errorf("error decoding result of %s: %w", e.ID, err)
	}
	r.Result = result
	if err := r.Validate(); err != nil {
		return Record{}, err
	}
	return r, nil
}
