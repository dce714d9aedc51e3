package game

import (
	"errors"

	"connect4/internal/board"
	"connect4/internal/state"

	"go.uber.org/zap"
)

var ErrGameInProgress = errors.New("current game is still in progress")

// Tally counts finished games of a session by color.
type Tally struct {
	RedWins    int
	YellowWins int
	Draws      int
}

func (t Tally) Games() int {
	return t.RedWins + t.YellowWins + t.Draws
}

// Session is a run of rematches between the same two players.
type Session struct {
	Settings state.Settings
	// Alternate hands the first move to the other color on every rematch.
	Alternate   bool
	CurrentGame *Game

	results []state.Result
	saver   Saver
	log     *zap.Logger
}

func NewSession(settings state.Settings, saver Saver, log *zap.Logger, alternate bool) (*Session, error) {
	s := &Session{
		Settings:  settings,
		Alternate: alternate,
		saver:     saver,
		log:       log,
	}

	g, err := NewGame(settings, saver, log)
	if err != nil {
		return nil, err
	}
	s.CurrentGame = g
	return s, nil
}

// Rematch starts the next game once the current one has ended.
func (s *Session) Rematch() error {
	if s.CurrentGame == nil || !s.CurrentGame.IsOver() {
		return ErrGameInProgress
	}

	next := s.CurrentGame.State.Settings
	if s.Alternate {
		next.StartingPlayer = next.StartingPlayer.Opponent()
	}

	g, err := NewGame(next, s.saver, s.log)
	if err != nil {
		return err
	}
	s.results = append(s.results, s.CurrentGame.State.Result())
	s.CurrentGame = g
	return nil
}

// Tally includes the current game once it has ended.
func (s *Session) Tally() Tally {
	results := s.results
	if s.CurrentGame != nil && s.CurrentGame.IsOver() {
		results = append(results[:len(results):len(results)], s.CurrentGame.State.Result())
	}

	var t Tally
	for _, r := range results {
		winner, ok := r.Winner()
		switch {
		case !ok:
			t.Draws++
		case winner == board.Red:
			t.RedWins++
		default:
			t.YellowWins++
		}
	}
	return t
}
