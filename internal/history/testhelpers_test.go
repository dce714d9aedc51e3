package history

import (
	"time"

	"connect4/internal/board"
	"connect4/internal/state"
)

var baseTime = time.Date(2025, 3, 14, 15, 9, 0, 0, time.UTC)

// redWinMoves is a bottom-row win for Red.
var redWinMoves = []int{0, 0, 1, 1, 2, 2, 3}

func sampleRecord(id, red, yellow string, result state.Result, minutes int) Record {
	return Record{
		ID: id,
		Settings: state.Settings{
			RedPlayerName:    red,
			YellowPlayerName: yellow,
			StartingPlayer:   board.Red,
			BaseTimeMinutes:  state.Untimed,
		},
		Moves:    append([]int(nil), redWinMoves...),
		Result:   result,
		PlayedAt: baseTime.Add(time.Duration(minutes) * time.Minute),
	}
}
