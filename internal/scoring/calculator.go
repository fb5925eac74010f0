package scoring

import (
	"github.com/lemon6243/customer-center-dashboard/internal/types"
)

// Calculator applies the fixed 1000-point rubric.
type Calculator struct{}

// NewCalculator creates a new Calculator
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Score computes point scores, total, pass flag, gap and achievement for one record.
func (c *Calculator) Score(rec types.Record) ScoredRecord {
	var points types.IndicatorScores
	for _, ind := range types.Indicators {
		points[ind] = IndicatorPoints(ind, rec.Ratios.Get(ind))
	}

	total := Round(points.Sum()+rec.Adjustments.Sum(), 2)

	var achievement types.IndicatorScores
	for _, ind := range types.Indicators {
		achievement[ind] = Achievement(points[ind], ind.MaxPoints())
	}

	return ScoredRecord{
		Record:        rec,
		Points:        points,
		Achievement:   achievement,
		Total:         total,
		Passed:        total >= types.TargetScore,
		Gap:           Round(total-types.TargetScore, 2),
		ContractGrade: ContractGrade(rec.Ratios.UsageContract),
	}
}

// IndicatorPoints scores a single indicator input.
func IndicatorPoints(ind types.Indicator, v types.Metric) float64 {
	switch ind {
	case types.UsageContract:
		return ContractScore(v)
	case types.Satisfaction:
		// already on the 0-100 point scale
		return Round(v.OrZero(), 2)
	default:
		return LinearScore(v, ind.MaxPoints())
	}
}

// ComputeScores scores every record and returns a new slice in input order.
func ComputeScores(records []types.Record) []ScoredRecord {
	c := NewCalculator()
	out := make([]ScoredRecord, len(records))
	for i, rec := range records {
		out[i] = c.Score(rec)
	}
	return out
}

// Rescore recomputes derived fields from the embedded records, discarding old values.
func Rescore(scored []ScoredRecord) []ScoredRecord {
	c := NewCalculator()
	out := make([]ScoredRecord, len(scored))
	for i, s := range scored {
		out[i] = c.Score(s.Record)
	}
	return out
}

// WeakIndicators returns the indicators whose achievement is below threshold percent.
func WeakIndicators(s ScoredRecord, threshold float64) []IndicatorScore {
	var weak []IndicatorScore
	for _, row := range s.Breakdown() {
		if row.Achievement < threshold {
			weak = append(weak, row)
		}
	}
	return weak
}
