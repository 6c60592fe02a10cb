package store

import "strconv"

type Record struct {
	Player    string             `json:"player"`
	Minigame  string             `json:"minigame"`
	Scores    map[string]float64 `json:"scores"`
	BestScore float64            `json:"best_score"`
}

type MinigameSummary struct {
	Name    string `json:"name"`
	Players int    `json:"players"`
}

type LeaderboardEntry struct {
	Rank   int     `json:"rank"`
	Player string  `json:"player"`
	Value  float64 `json:"value"`
}

// DefaultLeaderboardLimit applies when a caller passes no positive limit.
const DefaultLeaderboardLimit = 10

// AssignRanks numbers sorted entries with competition ranking: equal values
// share a rank and the next distinct value skips ahead.
func AssignRanks(entries []LeaderboardEntry) {
	for i := range entries {
		if i > 0 && entries[i].Value == entries[i-1].Value {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = i + 1
	}
}

// OrderedArgs turns {"1": a, "2": b} style parameters into positional
// arguments. Numbering stops at the first gap.
func OrderedArgs(params map[string]any) []any {
	args := make([]any, 0, len(params))
	for i := 1; i <= len(params); i++ {
		val, ok := params[strconv.Itoa(i)]
		if !ok {
			break
		}
		args = append(args, val)
	}
	return args
}
