package scoring

import "github.com/lemon6243/customer-center-dashboard/internal/types"

// ScoredRecord is a record augmented with its derived scores.
// The embedded Record is never modified by scoring.
type ScoredRecord struct {
	types.Record
	Points        types.IndicatorScores // point score per indicator
	Achievement   types.IndicatorScores // point score / max * 100, 1 decimal
	Total         float64               // sum of points plus adjustments
	Passed        bool                  // Total >= TargetScore
	Gap           float64               // Total - TargetScore
	ContractGrade string                // A, B, C, D
}

// IndicatorScore is a single row of a score breakdown.
type IndicatorScore struct {
	Indicator   types.Indicator `json:"-" yaml:"-"`
	Key         string          `json:"key" yaml:"key"`
	Name        string          `json:"name" yaml:"name"`
	Points      float64         `json:"points" yaml:"points"`
	MaxPoints   float64         `json:"max_points" yaml:"max_points"`
	Achievement float64         `json:"achievement" yaml:"achievement"`
}

// Breakdown lists the per-indicator scores in rubric order.
func (s ScoredRecord) Breakdown() []IndicatorScore {
	out := make([]IndicatorScore, 0, len(types.Indicators))
	for _, ind := range types.Indicators {
		out = append(out, IndicatorScore{
			Indicator:   ind,
			Key:         ind.Key(),
			Name:        ind.String(),
			Points:      s.Points.Get(ind),
			MaxPoints:   ind.MaxPoints(),
			Achievement: s.Achievement.Get(ind),
		})
	}
	return out
}

// Scorer maps a record to its scores.
type Scorer interface {
	Score(rec types.Record) ScoredRecord
}
