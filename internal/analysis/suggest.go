package analysis

import (
	"sort"

	"github.com/lemon6243/customer-center-dashboard/internal/scoring"
	"github.com/lemon6243/customer-center-dashboard/internal/types"
)

// MaxSuggestions is how many indicators a suggestion set proposes.
const MaxSuggestions = 3

// Suggestion proposes raising one indicator.
type Suggestion struct {
	Indicator   string  `json:"indicator" yaml:"indicator"`
	Name        string  `json:"name" yaml:"name"`
	Current     float64 `json:"current" yaml:"current"`
	Target      float64 `json:"target" yaml:"target"`
	Improvement float64 `json:"improvement" yaml:"improvement"`
	MaxPoints   float64 `json:"max_points" yaml:"max_points"`
	TargetRate  float64 `json:"target_rate" yaml:"target_rate"`
}

// Improvement is the remediation plan for one record.
type Improvement struct {
	Center      string                   `json:"center" yaml:"center"`
	Month       string                   `json:"month" yaml:"month"`
	Total       float64                  `json:"total" yaml:"total"`
	Shortfall   float64                  `json:"shortfall" yaml:"shortfall"`
	Achieved    bool                     `json:"achieved" yaml:"achieved"`
	Suggestions []Suggestion             `json:"suggestions" yaml:"suggestions"`
	Weak        []scoring.IndicatorScore `json:"weak,omitempty" yaml:"weak,omitempty"`
}

// Suggest ranks indicators by headroom (max - current) and proposes raising the top three,
// each by the full shortfall capped at its own headroom. The allocation is greedy and
// approximate: it ignores that the usage contract only moves in 5-point grade steps.
func Suggest(s scoring.ScoredRecord) Improvement {
	imp := Improvement{
		Center: s.CenterID,
		Month:  s.Month.String(),
		Total:  s.Total,
	}
	shortfall := types.TargetScore - s.Total
	if shortfall <= 0 {
		imp.Achieved = true
		return imp
	}
	imp.Shortfall = scoring.Round(shortfall, 1)

	rows := s.Breakdown()
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].MaxPoints-rows[i].Points > rows[j].MaxPoints-rows[j].Points
	})

	for _, row := range rows[:MaxSuggestions] {
		headroom := row.MaxPoints - row.Points
		if headroom <= 0 {
			continue
		}
		need := shortfall
		if headroom < need {
			need = headroom
		}
		target := row.Points + need
		imp.Suggestions = append(imp.Suggestions, Suggestion{
			Indicator:   row.Key,
			Name:        row.Name,
			Current:     scoring.Round(row.Points, 1),
			Target:      scoring.Round(target, 1),
			Improvement: scoring.Round(need, 1),
			MaxPoints:   row.MaxPoints,
			TargetRate:  scoring.Round(target/row.MaxPoints*100, 1),
		})
	}
	return imp
}

// SuggestBelowTarget builds improvement plans for the latest record of every center
// that has not reached the target, worst first.
func SuggestBelowTarget(records []scoring.ScoredRecord, weakThreshold float64) []Improvement {
	latest := LatestPerCenter(records)
	sort.SliceStable(latest, func(i, j int) bool {
		return latest[i].Total < latest[j].Total
	})
	var out []Improvement
	for _, r := range latest {
		if r.Passed {
			continue
		}
		imp := Suggest(r)
		imp.Weak = scoring.WeakIndicators(r, weakThreshold)
		out = append(out, imp)
	}
	return out
}
