package export

import (
	"io"
	"sort"

	"partyrecords/internal/ingest"
	"partyrecords/internal/record"
)

// Record is one player's records in one minigame.
type Record struct {
	Name      string             `json:"name"`
	Minigame  string             `json:"minigame"`
	Scores    map[string]float64 `json:"scores"`
	BestScore float64            `json:"best_score"`
}

// Flat turns built tables into per-player records. Minigames are sorted by
// name and players keep table order. Pairs without any recorded score are
// left out, and the derived Sum column is not a score.
func Flat(results []*ingest.Result) []Record {
	sorted := make([]*ingest.Result, 0, len(results))
	for _, r := range results {
		if r == nil || r.Inactive || r.Table == nil {
			continue
		}
		sorted = append(sorted, r)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Minigame < sorted[j].Minigame
	})

	var records []Record
	for _, r := range sorted {
		cols := r.Table.Columns()
		for _, player := range r.Table.Players() {
			scores := make(map[string]float64)
			best, found := 0.0, false
			for _, col := range cols {
				if col == record.SumColumn {
					continue
				}
				v := r.Table.Get(player, col)
				if !v.Valid {
					continue
				}
				scores[col] = v.V
				if !found || v.V > best {
					best, found = v.V, true
				}
			}
			if !found {
				continue
			}
			records = append(records, Record{
				Name:      player,
				Minigame:  r.Minigame,
				Scores:    scores,
				BestScore: best,
			})
		}
	}
	return records
}

func WriteFlat(w io.Writer, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	enc := indented.NewEncoder(w)
	return enc.Encode(records)
}
