package pipeline

import (
	"github.com/lemon6243/customer-center-dashboard/internal/analysis"
	"github.com/lemon6243/customer-center-dashboard/internal/predict"
	"github.com/lemon6243/customer-center-dashboard/internal/risk"
	"github.com/lemon6243/customer-center-dashboard/internal/scoring"
	"github.com/lemon6243/customer-center-dashboard/internal/types"
)

// Sections selects which parts of a report are produced.
type Sections struct {
	Scores      bool
	Risk        bool
	Annual      bool
	Ranking     bool
	Trends      bool
	Suggestions bool
	Summary     bool
}

// AllSections enables every section.
func AllSections() Sections {
	return Sections{
		Scores:      true,
		Risk:        true,
		Annual:      true,
		Ranking:     true,
		Trends:      true,
		Suggestions: true,
		Summary:     true,
	}
}

// ScoreRow is the scored view of one record.
type ScoreRow struct {
	Center        string                   `json:"center" yaml:"center"`
	Month         string                   `json:"month" yaml:"month"`
	Period        types.Period             `json:"period" yaml:"period"`
	Scores        []scoring.IndicatorScore `json:"scores" yaml:"scores"`
	Adjustments   types.Adjustments        `json:"adjustments" yaml:"adjustments"`
	Total         float64                  `json:"total" yaml:"total"`
	Passed        bool                     `json:"passed" yaml:"passed"`
	Gap           float64                  `json:"gap" yaml:"gap"`
	ContractGrade string                   `json:"contract_grade" yaml:"contract_grade"`
}

// NewScoreRow flattens a scored record.
func NewScoreRow(s scoring.ScoredRecord) ScoreRow {
	return ScoreRow{
		Center:        s.CenterID,
		Month:         s.Month.String(),
		Period:        s.Period(),
		Scores:        s.Breakdown(),
		Adjustments:   s.Adjustments,
		Total:         s.Total,
		Passed:        s.Passed,
		Gap:           s.Gap,
		ContractGrade: s.ContractGrade,
	}
}

// RiskRow is the period-end outlook of a center from its latest record.
type RiskRow struct {
	Center          string       `json:"center" yaml:"center"`
	Month           string       `json:"month" yaml:"month"`
	ElapsedMonth    int          `json:"elapsed_month" yaml:"elapsed_month"`
	Current         float64      `json:"current" yaml:"current"`
	Predicted       float64      `json:"predicted" yaml:"predicted"`
	PredictedPoints []PointValue `json:"predicted_points" yaml:"predicted_points"`
	Gap             float64      `json:"gap" yaml:"gap"`
	Tier            risk.Tier    `json:"tier" yaml:"tier"`
	Severity        int          `json:"severity" yaml:"severity"`
	Closed          bool         `json:"closed" yaml:"closed"`
}

// PointValue labels one indicator value.
type PointValue struct {
	Key    string  `json:"key" yaml:"key"`
	Points float64 `json:"points" yaml:"points"`
}

func labelled(scores types.IndicatorScores) []PointValue {
	out := make([]PointValue, 0, len(types.Indicators))
	for _, ind := range types.Indicators {
		out = append(out, PointValue{Key: ind.Key(), Points: scores.Get(ind)})
	}
	return out
}

// NewRiskRow combines a record, its prediction and its assessment.
func NewRiskRow(s scoring.ScoredRecord, p predict.Prediction, a risk.Assessment) RiskRow {
	return RiskRow{
		Center:          s.CenterID,
		Month:           s.Month.String(),
		ElapsedMonth:    p.ElapsedMonth,
		Current:         s.Total,
		Predicted:       scoring.Round(p.Total, 2),
		PredictedPoints: labelled(p.Points),
		Gap:             scoring.Round(a.Gap, 2),
		Tier:            a.Tier,
		Severity:        a.Severity,
		Closed:          a.Closed,
	}
}

// FinalRow is one period-final score.
type FinalRow struct {
	Center string       `json:"center" yaml:"center"`
	Year   int          `json:"year" yaml:"year"`
	Period types.Period `json:"period" yaml:"period"`
	Month  string       `json:"month" yaml:"month"`
	Total  float64      `json:"total" yaml:"total"`
	Passed bool         `json:"passed" yaml:"passed"`
}

// RankingReport ranks every center for one month.
type RankingReport struct {
	Month    string             `json:"month" yaml:"month"`
	Rankings []analysis.Ranking `json:"rankings" yaml:"rankings"`
}

// Report is everything a command can render. Unselected sections are nil.
type Report struct {
	Data            analysis.DataSummary        `json:"data" yaml:"data"`
	Issues          []types.Issue               `json:"issues,omitempty" yaml:"issues,omitempty"`
	BaselineIgnored int                         `json:"baseline_ignored,omitempty" yaml:"baseline_ignored,omitempty"`
	Scores          []ScoreRow                  `json:"scores,omitempty" yaml:"scores,omitempty"`
	Risk            []RiskRow                   `json:"risk,omitempty" yaml:"risk,omitempty"`
	Finals          []FinalRow                  `json:"finals,omitempty" yaml:"finals,omitempty"`
	Annual          []analysis.AnnualEvaluation `json:"annual,omitempty" yaml:"annual,omitempty"`
	Ranking         *RankingReport              `json:"ranking,omitempty" yaml:"ranking,omitempty"`
	Trends          []analysis.Trend            `json:"trends,omitempty" yaml:"trends,omitempty"`
	Suggestions     []analysis.Improvement      `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
	Summary         *analysis.Summary           `json:"summary,omitempty" yaml:"summary,omitempty"`
	Correlation     *analysis.CorrelationMatrix `json:"correlation,omitempty" yaml:"correlation,omitempty"`
}

// Warnings returns the non-error issues.
func (r *Report) Warnings() []types.Issue {
	var out []types.Issue
	for _, is := range r.Issues {
		if is.Severity != types.SeverityError {
			out = append(out, is)
		}
	}
	return out
}
