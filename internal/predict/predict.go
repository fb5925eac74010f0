// Package predict estimates period-end scores from partial-period data.
package predict

import (
	"errors"
	"fmt"
	"math"

	"github.com/lemon6243/customer-center-dashboard/internal/scoring"
	"github.com/lemon6243/customer-center-dashboard/internal/types"
)

// ErrElapsedMonth is returned for an elapsed month outside 1..6.
var ErrElapsedMonth = errors.New("elapsed month must be within 1..6")

// ContractGrowth is the multiplicative extrapolation applied to the graded contract score.
const ContractGrowth = 1.1

// Prediction holds the estimated period-end scores.
type Prediction struct {
	ElapsedMonth int                   `json:"elapsed_month" yaml:"elapsed_month"`
	Closed       bool                  `json:"closed" yaml:"closed"`
	Points       types.IndicatorScores `json:"points" yaml:"points"`
	Adjustments  float64               `json:"adjustments" yaml:"adjustments"`
	Total        float64               `json:"total" yaml:"total"`
	// Unclamped is the component sum before the 1000-point ceiling.
	Unclamped float64 `json:"unclamped" yaml:"unclamped"`
}

// Gap returns the predicted total minus the target.
func (p Prediction) Gap() float64 {
	return p.Total - types.TargetScore
}

// ValidateElapsed checks that elapsed is a valid month index within a period.
func ValidateElapsed(elapsed int) error {
	if elapsed < 1 || elapsed > types.PeriodMonths {
		return fmt.Errorf("%w: got %d", ErrElapsedMonth, elapsed)
	}
	return nil
}

// PeriodEnd predicts the period-end scores of a scored record at the given elapsed month.
//
// Cumulative indicators (safety inspection, priority customer) are divided by the elapsed
// fraction of the period. The usage contract is graded, so it is multiplied by 1.1 instead.
// Both are capped at the indicator maximum. Non-cumulative indicators and adjustments carry
// over unchanged. Once the period is closed the prediction equals the actual scores,
// so Total is not clamped and may exceed 1000 when a bonus pushes the actual total over.
func PeriodEnd(s scoring.ScoredRecord, elapsed int) (Prediction, error) {
	if err := ValidateElapsed(elapsed); err != nil {
		return Prediction{}, err
	}

	adj := s.Adjustments.Sum()
	if elapsed >= types.PeriodMonths {
		return Prediction{
			ElapsedMonth: elapsed,
			Closed:       true,
			Points:       s.Points,
			Adjustments:  adj,
			Total:        s.Total,
			Unclamped:    s.Total,
		}, nil
	}

	progress := float64(elapsed) / types.PeriodMonths
	var points types.IndicatorScores
	for _, ind := range types.Indicators {
		current := s.Points.Get(ind)
		switch {
		case ind == types.UsageContract:
			points[ind] = math.Min(current*ContractGrowth, ind.MaxPoints())
		case ind.Cumulative():
			points[ind] = math.Min(current/progress, ind.MaxPoints())
		default:
			points[ind] = current
		}
	}

	sum := points.Sum() + adj
	return Prediction{
		ElapsedMonth: elapsed,
		Points:       points,
		Adjustments:  adj,
		Total:        math.Min(sum, types.MaxTotal),
		Unclamped:    sum,
	}, nil
}

// ForRecord predicts using the record's own position within its period.
func ForRecord(s scoring.ScoredRecord) (Prediction, error) {
	return PeriodEnd(s, s.Month.PeriodMonth())
}
