package analysis

import (
	"sort"

	"github.com/lemon6243/customer-center-dashboard/internal/scoring"
	"github.com/lemon6243/customer-center-dashboard/internal/types"
)

// Ranking is one center's position within an evaluation month.
type Ranking struct {
	Center       string  `json:"center" yaml:"center"`
	Month        string  `json:"month" yaml:"month"`
	Rank         int     `json:"rank" yaml:"rank"`
	Total        float64 `json:"total" yaml:"total"`
	PreviousRank int     `json:"previous_rank,omitempty" yaml:"previous_rank,omitempty"`
	// Change is previous rank minus current rank; positive means improved.
	Change    int  `json:"change" yaml:"change"`
	HasChange bool `json:"has_change" yaml:"has_change"`
}

// RankMonth ranks the records of a single month by total descending.
// Ties keep input order, so every center gets a distinct rank.
func RankMonth(records []scoring.ScoredRecord, month types.Month) []Ranking {
	var rows []scoring.ScoredRecord
	for _, r := range records {
		if r.Month == month {
			rows = append(rows, r)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Total > rows[j].Total
	})

	out := make([]Ranking, len(rows))
	for i, r := range rows {
		out[i] = Ranking{
			Center: r.CenterID,
			Month:  month.String(),
			Rank:   i + 1,
			Total:  r.Total,
		}
	}
	return out
}

// RankChanges ranks the given month and compares each center with its rank in the
// closest earlier month present in the data.
func RankChanges(records []scoring.ScoredRecord, month types.Month) []Ranking {
	current := RankMonth(records, month)

	var prev types.Month
	found := false
	for _, r := range records {
		if r.Month.Before(month) && (!found || prev.Before(r.Month)) {
			prev = r.Month
			found = true
		}
	}
	if !found {
		return current
	}

	prevRank := make(map[string]int)
	for _, r := range RankMonth(records, prev) {
		prevRank[r.Center] = r.Rank
	}
	for i := range current {
		if p, ok := prevRank[current[i].Center]; ok {
			current[i].PreviousRank = p
			current[i].Change = p - current[i].Rank
			current[i].HasChange = true
		}
	}
	return current
}
