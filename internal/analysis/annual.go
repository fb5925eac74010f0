package analysis

import (
	"sort"

	"github.com/lemon6243/customer-center-dashboard/internal/scoring"
	"github.com/lemon6243/customer-center-dashboard/internal/types"
)

// AnnualEvaluation pairs the two half-year finals of a center for one year.
type AnnualEvaluation struct {
	Center          string   `json:"center" yaml:"center"`
	Year            int      `json:"year" yaml:"year"`
	FirstHalf       *float64 `json:"first_half" yaml:"first_half"`
	SecondHalf      *float64 `json:"second_half" yaml:"second_half"`
	Average         float64  `json:"average" yaml:"average"`
	RenewalEligible bool     `json:"renewal_eligible" yaml:"renewal_eligible"`
	Gap             float64  `json:"gap" yaml:"gap"`
}

// Annual averages each center's first- and second-half finals per year. When only one
// half has data, that half's final is the annual figure. Sorted by average descending.
func Annual(records []scoring.ScoredRecord) []AnnualEvaluation {
	type key struct {
		center string
		year   int
	}
	evals := make(map[key]*AnnualEvaluation)
	var order []key
	for _, f := range PeriodFinals(records) {
		k := key{center: f.Center, year: f.Year}
		e, ok := evals[k]
		if !ok {
			e = &AnnualEvaluation{Center: f.Center, Year: f.Year}
			evals[k] = e
			order = append(order, k)
		}
		total := f.Record.Total
		if f.Period == types.FirstHalf {
			e.FirstHalf = &total
		} else {
			e.SecondHalf = &total
		}
	}

	out := make([]AnnualEvaluation, 0, len(order))
	for _, k := range order {
		e := evals[k]
		switch {
		case e.FirstHalf != nil && e.SecondHalf != nil:
			e.Average = scoring.Round((*e.FirstHalf+*e.SecondHalf)/2, 2)
		case e.FirstHalf != nil:
			e.Average = scoring.Round(*e.FirstHalf, 2)
		case e.SecondHalf != nil:
			e.Average = scoring.Round(*e.SecondHalf, 2)
		}
		e.RenewalEligible = e.Average >= types.TargetScore
		e.Gap = scoring.Round(e.Average-types.TargetScore, 2)
		out = append(out, *e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Average > out[j].Average
	})
	return out
}
