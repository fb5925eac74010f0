package analysis

import (
	"github.com/lemon6243/customer-center-dashboard/internal/scoring"
	"github.com/lemon6243/customer-center-dashboard/internal/types"
)

// Direction of a month-over-month change.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
	Flat Direction = "flat"
	None Direction = "-"
)

// Trend is the change of one record versus the same center's previous record.
type Trend struct {
	Center      string                `json:"center" yaml:"center"`
	Month       string                `json:"month" yaml:"month"`
	Total       float64               `json:"total" yaml:"total"`
	TotalDelta  *float64              `json:"total_delta" yaml:"total_delta"`
	PointDeltas types.IndicatorScores `json:"point_deltas" yaml:"point_deltas"`
	Direction   Direction             `json:"direction" yaml:"direction"`
}

// MonthlyTrends computes per-center deltas ordered by center then month.
// The first record of each center has no delta.
func MonthlyTrends(records []scoring.ScoredRecord) []Trend {
	centers, groups := ByCenter(records)
	var out []Trend
	for _, c := range centers {
		var prev *scoring.ScoredRecord
		for i := range groups[c] {
			r := groups[c][i]
			t := Trend{
				Center:    r.CenterID,
				Month:     r.Month.String(),
				Total:     r.Total,
				Direction: None,
			}
			if prev != nil {
				delta := scoring.Round(r.Total-prev.Total, 2)
				t.TotalDelta = &delta
				for _, ind := range types.Indicators {
					t.PointDeltas[ind] = scoring.Round(r.Points[ind]-prev.Points[ind], 2)
				}
				switch {
				case delta > 0:
					t.Direction = Up
				case delta < 0:
					t.Direction = Down
				default:
					t.Direction = Flat
				}
			}
			out = append(out, t)
			prev = &groups[c][i]
		}
	}
	return out
}
