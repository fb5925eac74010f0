package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lemon6243/customer-center-dashboard/internal/pipeline"
	"github.com/lemon6243/customer-center-dashboard/internal/types"
)

// Table is a rendered-agnostic report section. Cells hold string, int,
// float64, bool or nil values so spreadsheets keep numbers numeric.
type Table struct {
	Name    string
	Title   string
	Headers []string
	Rows    [][]any
}

// Column returns the index of a header, or -1.
func (t Table) Column(header string) int {
	for i, h := range t.Headers {
		if h == header {
			return i
		}
	}
	return -1
}

// Tables converts the populated sections of a report into tables, in display order.
func Tables(r *pipeline.Report) []Table {
	var out []Table
	if len(r.Issues) > 0 {
		out = append(out, issuesTable(r.Issues))
	}
	if r.Scores != nil {
		out = append(out, scoresTable(r.Scores))
	}
	if r.Risk != nil {
		out = append(out, riskTable(r.Risk))
	}
	if r.Finals != nil {
		out = append(out, finalsTable(r.Finals))
	}
	if r.Annual != nil {
		out = append(out, annualTable(r))
	}
	if r.Ranking != nil {
		out = append(out, rankingTable(r.Ranking))
	}
	if r.Trends != nil {
		out = append(out, trendsTable(r))
	}
	if r.Suggestions != nil {
		out = append(out, suggestionsTable(r), weakTable(r))
	}
	if r.Summary != nil {
		out = append(out, summaryTable(r))
	}
	if r.Correlation != nil {
		out = append(out, correlationTable(r))
	}
	return out
}

// DataTable describes the input coverage.
func DataTable(r *pipeline.Report) Table {
	d := r.Data
	return Table{
		Name:    "Data",
		Title:   "Data",
		Headers: []string{"Metric", "Value"},
		Rows: [][]any{
			{"Centers", d.TotalCenters},
			{"First month", d.FirstMonth},
			{"Latest month", d.LatestMonth},
			{"Months", d.TotalMonths},
			{"First-half months", d.FirstHalfMonths},
			{"Second-half months", d.SecondHalfMonths},
		},
	}
}

func issuesTable(issues []types.Issue) Table {
	t := Table{
		Name:    "Issues",
		Title:   "Validation issues",
		Headers: []string{"Severity", "Center", "Month", "Field", "Message", "Location"},
	}
	for _, is := range issues {
		t.Rows = append(t.Rows, []any{is.Severity, is.Center, is.Month, is.Field, is.Message, is.Location})
	}
	return t
}

func indicatorHeaders() []string {
	h := make([]string, 0, len(types.Indicators))
	for _, ind := range types.Indicators {
		h = append(h, ind.String())
	}
	return h
}

func scoresTable(rows []pipeline.ScoreRow) Table {
	headers := append([]string{"Center", "Month", "Period"}, indicatorHeaders()...)
	headers = append(headers, "Adjustments", "Total", "Pass", "Gap", "Contract grade")
	t := Table{Name: "Scores", Title: "Scores", Headers: headers}
	for _, s := range rows {
		row := []any{s.Center, s.Month, string(s.Period)}
		for _, sc := range s.Scores {
			row = append(row, sc.Points)
		}
		row = append(row, s.Adjustments.Sum(), s.Total, s.Passed, s.Gap, s.ContractGrade)
		t.Rows = append(t.Rows, row)
	}
	return t
}

func riskTable(rows []pipeline.RiskRow) Table {
	t := Table{
		Name:    "Risk",
		Title:   "Period-end risk",
		Headers: []string{"Center", "Month", "Elapsed", "Current", "Predicted", "Gap", "Tier", "Closed"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.Center, r.Month, r.ElapsedMonth, r.Current, r.Predicted, r.Gap, string(r.Tier), r.Closed})
	}
	return t
}

func finalsTable(rows []pipeline.FinalRow) Table {
	t := Table{
		Name:    "Finals",
		Title:   "Period finals",
		Headers: []string{"Center", "Year", "Period", "Month", "Total", "Pass"},
	}
	for _, f := range rows {
		t.Rows = append(t.Rows, []any{f.Center, f.Year, string(f.Period), f.Month, f.Total, f.Passed})
	}
	return t
}

func annualTable(r *pipeline.Report) Table {
	t := Table{
		Name:    "Annual",
		Title:   "Annual evaluation",
		Headers: []string{"Center", "Year", "First half", "Second half", "Average", "Renewal", "Gap"},
	}
	for _, a := range r.Annual {
		t.Rows = append(t.Rows, []any{a.Center, a.Year, optional(a.FirstHalf), optional(a.SecondHalf), a.Average, a.RenewalEligible, a.Gap})
	}
	return t
}

func rankingTable(rr *pipeline.RankingReport) Table {
	t := Table{
		Name:    "Ranking",
		Title:   "Ranking " + rr.Month,
		Headers: []string{"Rank", "Center", "Total", "Previous", "Change"},
	}
	for _, r := range rr.Rankings {
		var prev, change any
		if r.HasChange {
			prev, change = r.PreviousRank, r.Change
		}
		t.Rows = append(t.Rows, []any{r.Rank, r.Center, r.Total, prev, change})
	}
	return t
}

func trendsTable(r *pipeline.Report) Table {
	headers := []string{"Center", "Month", "Total", "Change"}
	for _, h := range indicatorHeaders() {
		headers = append(headers, h+" change")
	}
	headers = append(headers, "Direction")
	t := Table{Name: "Trends", Title: "Monthly trends", Headers: headers}
	for _, tr := range r.Trends {
		row := []any{tr.Center, tr.Month, tr.Total, optional(tr.TotalDelta)}
		for _, ind := range types.Indicators {
			if tr.TotalDelta == nil {
				row = append(row, nil)
			} else {
				row = append(row, tr.PointDeltas.Get(ind))
			}
		}
		row = append(row, string(tr.Direction))
		t.Rows = append(t.Rows, row)
	}
	return t
}

func suggestionsTable(r *pipeline.Report) Table {
	t := Table{
		Name:    "Suggestions",
		Title:   "Improvement suggestions",
		Headers: []string{"Center", "Month", "Total", "Shortfall", "Indicator", "Current", "Target", "Improvement", "Target rate"},
	}
	for _, imp := range r.Suggestions {
		for _, s := range imp.Suggestions {
			t.Rows = append(t.Rows, []any{imp.Center, imp.Month, imp.Total, imp.Shortfall, s.Name, s.Current, s.Target, s.Improvement, s.TargetRate})
		}
	}
	return t
}

func weakTable(r *pipeline.Report) Table {
	t := Table{
		Name:    "Weak",
		Title:   "Weak indicators",
		Headers: []string{"Center", "Month", "Indicator", "Points", "Max", "Achievement %"},
	}
	for _, imp := range r.Suggestions {
		for _, w := range imp.Weak {
			t.Rows = append(t.Rows, []any{imp.Center, imp.Month, w.Name, w.Points, w.MaxPoints, w.Achievement})
		}
	}
	return t
}

func summaryTable(r *pipeline.Report) Table {
	s := r.Summary
	t := Table{
		Name:    "Summary",
		Title:   "Summary",
		Headers: []string{"Metric", "Value"},
		Rows: [][]any{
			{"Centers", s.TotalCenters},
			{"Average", s.AverageScore},
			{"Max", s.MaxScore},
			{"Min", s.MinScore},
			{"Std dev", s.StdDev},
			{"Passed", s.PassedCenters},
			{"Failed", s.FailedCenters},
			{"Pass rate %", s.PassRate},
			{"At risk", strings.Join(s.AtRiskCenters, ", ")},
		},
	}
	for i, c := range s.TopCenters {
		t.Rows = append(t.Rows, []any{fmt.Sprintf("Top %d", i+1), c.Center + " " + formatFloat(c.Total)})
	}
	for i, c := range s.BottomCenters {
		t.Rows = append(t.Rows, []any{fmt.Sprintf("Bottom %d", i+1), c.Center + " " + formatFloat(c.Total)})
	}
	return t
}

func correlationTable(r *pipeline.Report) Table {
	m := r.Correlation
	t := Table{
		Name:    "Correlation",
		Title:   "Indicator correlation",
		Headers: append([]string{""}, m.Labels...),
	}
	for i, label := range m.Labels {
		row := []any{label}
		for _, v := range m.Values[i] {
			row = append(row, v)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func optional(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// formatCell renders a cell for text formats.
func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case string:
		return x
	case float64:
		return formatFloat(x)
	case int:
		return strconv.Itoa(x)
	case bool:
		if x {
			return "yes"
		}
		return "no"
	default:
		return fmt.Sprint(x)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func stringRows(t Table) [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = make([]string, len(row))
		for j, c := range row {
			out[i][j] = formatCell(c)
		}
	}
	return out
}
