// Package risk classifies predicted scores by their gap to the target.
package risk

import (
	"github.com/lemon6243/customer-center-dashboard/internal/predict"
	"github.com/lemon6243/customer-center-dashboard/internal/types"
)

// Tier is a discrete risk level.
type Tier string

const (
	Safe     Tier = "safe"
	Good     Tier = "good"
	Caution  Tier = "caution"
	Warning  Tier = "warning"
	AtRisk   Tier = "at-risk"
	Critical Tier = "critical"
)

// Severity orders tiers for sorting and aggregation; higher is worse.
func (t Tier) Severity() int {
	switch t {
	case Safe:
		return 0
	case Good:
		return 1
	case Caution:
		return 2
	case Warning:
		return 3
	case AtRisk:
		return 4
	case Critical:
		return 5
	default:
		return -1
	}
}

// Band maps a minimum gap to a tier. Bands are checked in order; first match wins.
type Band struct {
	MinGap float64
	Tier   Tier
}

// ClosedBands apply once the period is over and the score is final.
var ClosedBands = []Band{
	{MinGap: 0, Tier: Safe},
	{MinGap: -30, Tier: Caution},
	{MinGap: -60, Tier: Warning},
}

// ClosedFloor applies below the last closed band.
const ClosedFloor = Critical

// InProgressBands apply to predictions made before the period closes.
var InProgressBands = []Band{
	{MinGap: 50, Tier: Safe},
	{MinGap: 0, Tier: Good},
	{MinGap: -30, Tier: Caution},
	{MinGap: -60, Tier: Warning},
}

// InProgressFloor applies below the last in-progress band.
const InProgressFloor = AtRisk

// Assessment is the result of classifying one predicted score.
type Assessment struct {
	Tier     Tier    `json:"tier" yaml:"tier"`
	Severity int     `json:"severity" yaml:"severity"`
	Gap      float64 `json:"gap" yaml:"gap"`
	Closed   bool    `json:"closed" yaml:"closed"`
}

// Classify returns the tier for a predicted score.
func Classify(predicted float64, closed bool) Tier {
	gap := predicted - types.TargetScore
	bands, floor := InProgressBands, InProgressFloor
	if closed {
		bands, floor = ClosedBands, ClosedFloor
	}
	for _, b := range bands {
		if gap >= b.MinGap {
			return b.Tier
		}
	}
	return floor
}

// ClassifyAt classifies a predicted score at an elapsed month (1..6; 6 means closed).
func ClassifyAt(predicted float64, elapsed int) (Assessment, error) {
	if err := predict.ValidateElapsed(elapsed); err != nil {
		return Assessment{}, err
	}
	closed := elapsed >= types.PeriodMonths
	tier := Classify(predicted, closed)
	return Assessment{
		Tier:     tier,
		Severity: tier.Severity(),
		Gap:      predicted - types.TargetScore,
		Closed:   closed,
	}, nil
}

// Assess classifies a prediction.
func Assess(p predict.Prediction) Assessment {
	tier := Classify(p.Total, p.Closed)
	return Assessment{
		Tier:     tier,
		Severity: tier.Severity(),
		Gap:      p.Gap(),
		Closed:   p.Closed,
	}
}
