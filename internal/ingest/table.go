package ingest

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lemon6243/customer-center-dashboard/internal/types"
)

// MissingColumnsError reports required columns absent from an input table.
type MissingColumnsError struct {
	File    string
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("missing required columns: %s", strings.Join(e.Columns, ", "))
	}
	return fmt.Sprintf("%s: missing required columns: %s", e.File, strings.Join(e.Columns, ", "))
}

// ParseTable converts a header row plus data rows into records. The first
// non-blank row is the header. Rows with a blank center or an unreadable
// month are reported as errors and skipped; other cell problems are warnings.
func ParseTable(rows [][]string, source string) ([]types.Record, []types.Issue, error) {
	start := 0
	for start < len(rows) && blankRow(rows[start]) {
		start++
	}
	if start == len(rows) {
		return nil, nil, &MissingColumnsError{File: source, Columns: RequiredColumns}
	}

	idx := indexHeader(rows[start])
	if missing := idx.missing(); len(missing) > 0 {
		return nil, nil, &MissingColumnsError{File: source, Columns: missing}
	}

	var (
		records []types.Record
		issues  []types.Issue
	)
	for i := start + 1; i < len(rows); i++ {
		row := rows[i]
		if blankRow(row) {
			continue
		}
		loc := fmt.Sprintf("%s:%d", source, i+1)
		rec, rowIssues, ok := parseRow(idx, row, loc)
		issues = append(issues, rowIssues...)
		if ok {
			records = append(records, rec)
		}
	}
	return records, issues, nil
}

func parseRow(idx columnIndex, row []string, loc string) (types.Record, []types.Issue, bool) {
	var issues []types.Issue

	center, _ := idx.cell(row, ColCenter)
	rawMonth, _ := idx.cell(row, ColMonth)

	month, monthErr := types.ParseMonth(rawMonth)
	monthLabel := rawMonth
	if monthErr == nil {
		monthLabel = month.String()
	}

	issue := func(field, severity, format string, args ...any) types.Issue {
		return types.Issue{
			Center:   center,
			Month:    monthLabel,
			Field:    field,
			Message:  fmt.Sprintf(format, args...),
			Severity: severity,
			Source:   types.SourceIngest,
			Location: loc,
		}
	}

	ok := true
	if center == "" {
		issues = append(issues, issue(ColCenter, types.SeverityError, "center id is blank"))
		ok = false
	}
	if monthErr != nil {
		if rawMonth == "" {
			issues = append(issues, issue(ColMonth, types.SeverityError, "evaluation month is blank"))
		} else {
			issues = append(issues, issue(ColMonth, types.SeverityError, "unreadable evaluation month %q", rawMonth))
		}
		ok = false
	}
	if !ok {
		return types.Record{}, issues, false
	}

	rec := types.Record{CenterID: center, Month: month, Source: loc}

	ratios := map[types.Indicator]*types.Metric{
		types.SafetyInspection:         &rec.Ratios.SafetyInspection,
		types.PriorityCustomer:         &rec.Ratios.PriorityCustomer,
		types.UsageContract:            &rec.Ratios.UsageContract,
		types.ConsultationResponse:     &rec.Ratios.ConsultationResponse,
		types.ConsultationContribution: &rec.Ratios.ConsultationContribution,
		types.Satisfaction:             &rec.Ratios.Satisfaction,
	}
	for _, ind := range types.Indicators {
		raw, _ := idx.cell(row, ind.Key())
		m, err := parseMetric(raw)
		switch {
		case err != nil:
			issues = append(issues, issue(ind.Key(), types.SeverityWarning, "invalid number %q; scored as missing", raw))
		case !m.Valid:
			issues = append(issues, issue(ind.Key(), types.SeverityWarning, "value is missing; scored as 0"))
		}
		*ratios[ind] = m
	}

	adjustments := []struct {
		col string
		dst *float64
	}{
		{ColComplaint, &rec.Adjustments.Complaint},
		{ColWarning, &rec.Adjustments.Warning},
		{ColBonus, &rec.Adjustments.Bonus},
	}
	for _, adj := range adjustments {
		raw, present := idx.cell(row, adj.col)
		if !present {
			continue
		}
		m, err := parseMetric(raw)
		if err != nil {
			issues = append(issues, issue(adj.col, types.SeverityWarning, "invalid number %q; treated as 0", raw))
		}
		*adj.dst = m.OrZero()
	}

	return rec, issues, true
}

// parseMetric reads a numeric cell. Blank and NaN-like cells are missing
// without error; anything else that is not a number is an error.
func parseMetric(raw string) (types.Metric, error) {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "", "nan", "na", "n/a", "null", "none", "-":
		return types.Metric{}, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return types.Metric{}, err
	}
	if math.IsInf(v, 0) {
		return types.Metric{}, fmt.Errorf("infinite value %q", raw)
	}
	return types.Some(v), nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
