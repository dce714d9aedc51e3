package history

import (
	"testing"

	"connect4/internal/board"
	"connect4/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecord(t *testing.T) {
	moves := []int{3, 3}
	r := NewRecord(state.DefaultSettings(), moves, state.RedWonByForfeit, baseTime)
	moves[0] = 6

	assert.Len(t, r.ID, 36)
	assert.Equal(t, []int{3, 3}, r.Moves, "record must not share the caller's slice")
	assert.NoError(t, r.Validate())

	other := NewRecord(state.DefaultSettings(), nil, state.Draw, baseTime)
	assert.NotEqual(t, r.ID, other.ID)
}

func TestRecord_Validate(t *testing.T) {
	valid := sampleRecord("a", "Ann", "Bob", state.RedWonByConnection, 0)
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Record)
	}{
		{"no id", func(r *Record) { r.ID = "" }},
		{"in progress", func(r *Record) { r.Result = state.InProgress }},
		{"bad settings", func(r *Record) { r.Settings.RedPlayerName = "" }},
		{"column out of range", func(r *Record) { r.Moves = []int{0, 7} }},
		{"negative column", func(r *Record) { r.Moves = []int{-1} }},
		{"too many moves", func(r *Record) { r.Moves = make([]int, board.Cells+1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			r.Moves = append([]int(nil), valid.Moves...)
			tt.mutate(&r)
			assert.Error(t, r.Validate())
		})
	}
}

func TestRecord_Texts(t *testing.T) {
	tests := []struct {
		result state.Result
		want   string
	}{
		{state.RedWonByConnection, "Ann won"},
		{state.YellowWonByConnection, "Bob won"},
		{state.RedWonOnTime, "Ann won on time"},
		{state.YellowWonOnTime, "Bob won on time"},
		{state.RedWonByForfeit, "Ann won by forfeit"},
		{state.YellowWonByForfeit, "Bob won by forfeit"},
		{state.Draw, "Draw"},
		{state.InProgress, "Unknown result"},
	}
	for _, tt := range tests {
		r := sampleRecord("a", "Ann", "Bob", tt.result, 0)
		assert.Equal(t, tt.want, r.ResultText(), tt.result.String())
	}

	r := sampleRecord("a", "Ann", "Bob", state.Draw, 0)
	assert.Equal(t, "Ann vs Bob", r.PlayersText())
	assert.Equal(t, r.PlayedAt.Local().Format("2006-01-02 15:04"), r.PlayedAtText())
}

func TestRecord_EntryRoundTrip(t *testing.T) {
	r := sampleRecord("a", "Ann", "Bob", state.YellowWonByForfeit, 0)
	r.Settings.BaseTimeMinutes = 3
	r.Settings.IncrementSeconds = 2
	r.Settings.StartingPlayer = board.Yellow

	e, err := r.Entry()
	require.NoError(t, err)
	assert.Equal(t, "[0,0,1,1,2,2,3]", e.Moves)
	assert.Equal(t, "YellowWonByForfeit", e.Result)

	back, err := e.Record()
	require.NoError(t, err)
	assert.Equal(t, r, back)
}

func TestRecord_EntryEmptyMoves(t *testing.T) {
	r := sampleRecord("a", "Ann", "Bob", state.RedWonByForfeit, 0)
	r.Moves = nil

	e, err := r.Entry()
	require.NoError(t, err)
	assert.Equal(t, "[]", e.Moves)
}

func TestEntry_RecordRejectsGarbage(t *testing.T) {
	good := mustEntry(t, sampleRecord("a", "Ann", "Bob", state.Draw, 0))

	bad := good
	bad.Moves = "not json"
	_, err := bad.Record()
	assert.Error(t, err)

	bad = good
	bad.Result = "Stalemate"
	_, err = bad.Record()
	assert.Error(t, err)
}
