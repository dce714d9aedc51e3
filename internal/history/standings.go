package history

import (
	"sort"

	"connect4/internal/board"
)

// Standing is one player's tally across stored games, keyed by display name.
type Standing struct {
	Name   string `json:"name"`
	Games  int    `json:"games"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	Draws  int    `json:"draws"`
}

// Standings sorts players by wins, then by fewest losses, then by name.
// Games where both sides carry the same name are not counted.
func Standings(records []Record) []Standing {
	byName := map[string]*Standing{}
	get := func(name string) *Standing {
		s, ok := byName[name]
		if !ok {
			s = &Standing{Name: name}
			byName[name] = s
		}
		return s
	}

	for _, r := range records {
		// A game against oneself says nothing about a player's standing.
		if r.Settings.RedPlayerName == r.Settings.YellowPlayerName {
			continue
		}
		red := get(r.Settings.RedPlayerName)
		yellow := get(r.Settings.YellowPlayerName)
		red.Games++
		yellow.Games++

		winner, ok := r.Result.Winner()
		switch {
		case !ok:
			red.Draws++
			yellow.Draws++
		case winner == board.Red:
			red.Wins++
			yellow.Losses++
		default:
			yellow.Wins++
			red.Losses++
		}
	}

	out := make([]Standing, 0, len(byName))
	for _, s := range byName {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Wins != out[j].Wins {
			return out[i].Wins > out[j].Wins
		}
		if out[i].Losses != out[j].Losses {
			return out[i].Losses < out[j].Losses
		}
		return out[i].Name < out[j].Name
	})
	return out
}
