package scoring

import (
	"math"

	"github.com/lemon6243/customer-center-dashboard/internal/types"
)

// ContractTier is one step of the usage-contract grading.
type ContractTier struct {
	MinRate float64
	Points  float64
	Grade   string
}

// ContractTiers are checked in order; first match wins.
var ContractTiers = []ContractTier{
	{MinRate: 0.90, Points: 50, Grade: "A"},
	{MinRate: 0.80, Points: 45, Grade: "B"},
	{MinRate: 0.70, Points: 40, Grade: "C"},
}

// ContractFloor applies to rates under 0.70 and to missing rates.
var ContractFloor = ContractTier{MinRate: 0, Points: 35, Grade: "D"}

// ContractTierFor returns the tier for a usage-contract rate.
func ContractTierFor(rate types.Metric) ContractTier {
	if !rate.Valid {
		return ContractFloor
	}
	for _, tier := range ContractTiers {
		if rate.Value >= tier.MinRate {
			return tier
		}
	}
	return ContractFloor
}

// ContractScore returns the graded usage-contract points.
func ContractScore(rate types.Metric) float64 {
	return ContractTierFor(rate).Points
}

// ContractGrade returns the usage-contract grade letter.
func ContractGrade(rate types.Metric) string {
	return ContractTierFor(rate).Grade
}

// LinearScore scales a ratio by the indicator maximum, rounded to 2 decimals.
// A missing ratio contributes 0.
func LinearScore(ratio types.Metric, max float64) float64 {
	return Round(ratio.OrZero()*max, 2)
}

// Achievement returns points as a percentage of max, rounded to 1 decimal.
func Achievement(points, max float64) float64 {
	if max == 0 {
		return 0
	}
	return Round(points/max*100, 1)
}

// Round rounds to the given number of decimals. Exact halves go to the even digit.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.RoundToEven(v*p) / p
}
