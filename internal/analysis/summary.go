package analysis

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/lemon6243/customer-center-dashboard/internal/scoring"
	"github.com/lemon6243/customer-center-dashboard/internal/types"
)

// CenterScore is a (center, total) pair for top/bottom lists.
type CenterScore struct {
	Center string  `json:"center" yaml:"center"`
	Total  float64 `json:"total" yaml:"total"`
}

// Summary describes the latest month of every center.
type Summary struct {
	TotalCenters  int           `json:"total_centers" yaml:"total_centers"`
	AverageScore  float64       `json:"average_score" yaml:"average_score"`
	MaxScore      float64       `json:"max_score" yaml:"max_score"`
	MinScore      float64       `json:"min_score" yaml:"min_score"`
	StdDev        float64       `json:"std_dev" yaml:"std_dev"`
	PassedCenters int           `json:"passed_centers" yaml:"passed_centers"`
	FailedCenters int           `json:"failed_centers" yaml:"failed_centers"`
	PassRate      float64       `json:"pass_rate" yaml:"pass_rate"`
	AtRiskCenters []string      `json:"at_risk_centers" yaml:"at_risk_centers"`
	TopCenters    []CenterScore `json:"top_centers" yaml:"top_centers"`
	BottomCenters []CenterScore `json:"bottom_centers" yaml:"bottom_centers"`
}

// Summarize computes summary statistics over each center's latest record.
func Summarize(records []scoring.ScoredRecord) Summary {
	latest := LatestPerCenter(records)
	if len(latest) == 0 {
		return Summary{}
	}

	totals := make([]float64, len(latest))
	s := Summary{TotalCenters: len(latest), MaxScore: latest[0].Total, MinScore: latest[0].Total}
	for i, r := range latest {
		totals[i] = r.Total
		if r.Total > s.MaxScore {
			s.MaxScore = r.Total
		}
		if r.Total < s.MinScore {
			s.MinScore = r.Total
		}
		if r.Passed {
			s.PassedCenters++
		} else {
			s.FailedCenters++
			s.AtRiskCenters = append(s.AtRiskCenters, r.CenterID)
		}
	}
	s.AverageScore = scoring.Round(stat.Mean(totals, nil), 2)
	if len(totals) > 1 {
		s.StdDev = scoring.Round(stat.StdDev(totals, nil), 2)
	}
	s.MaxScore = scoring.Round(s.MaxScore, 2)
	s.MinScore = scoring.Round(s.MinScore, 2)
	s.PassRate = scoring.Round(float64(s.PassedCenters)/float64(s.TotalCenters)*100, 1)

	ranked := make([]CenterScore, len(latest))
	for i, r := range latest {
		ranked[i] = CenterScore{Center: r.CenterID, Total: r.Total}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Total > ranked[j].Total
	})
	n := 3
	if len(ranked) < n {
		n = len(ranked)
	}
	s.TopCenters = append([]CenterScore(nil), ranked[:n]...)
	for i := len(ranked) - 1; i >= len(ranked)-n; i-- {
		s.BottomCenters = append(s.BottomCenters, ranked[i])
	}
	return s
}

// DataSummary describes the shape of a record set.
type DataSummary struct {
	TotalCenters     int      `json:"total_centers" yaml:"total_centers"`
	Centers          []string `json:"centers" yaml:"centers"`
	FirstMonth       string   `json:"first_month" yaml:"first_month"`
	LatestMonth      string   `json:"latest_month" yaml:"latest_month"`
	TotalMonths      int      `json:"total_months" yaml:"total_months"`
	FirstHalfMonths  int      `json:"first_half_months" yaml:"first_half_months"`
	SecondHalfMonths int      `json:"second_half_months" yaml:"second_half_months"`
}

// Describe summarizes which centers and months a record set covers.
func Describe(records []types.Record) DataSummary {
	var d DataSummary
	if len(records) == 0 {
		return d
	}
	centers := make(map[string]bool)
	months := make(map[types.Month]bool)
	first, last := records[0].Month, records[0].Month
	halfMonths := map[types.Period]map[int]bool{
		types.FirstHalf:  {},
		types.SecondHalf: {},
	}
	for _, r := range records {
		centers[r.CenterID] = true
		months[r.Month] = true
		halfMonths[r.Period()][r.Month.Month] = true
		if r.Month.Before(first) {
			first = r.Month
		}
		if last.Before(r.Month) {
			last = r.Month
		}
	}
	for c := range centers {
		d.Centers = append(d.Centers, c)
	}
	sort.Strings(d.Centers)
	d.TotalCenters = len(d.Centers)
	d.FirstMonth = first.String()
	d.LatestMonth = last.String()
	d.TotalMonths = len(months)
	d.FirstHalfMonths = len(halfMonths[types.FirstHalf])
	d.SecondHalfMonths = len(halfMonths[types.SecondHalf])
	return d
}
