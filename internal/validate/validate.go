// Package validate checks evaluation records before they are scored.
package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lemon6243/customer-center-dashboard/internal/cue"
	"github.com/lemon6243/customer-center-dashboard/internal/types"
)

// Options tunes the data-quality checks.
type Options struct {
	// ExpectedCenters is the roster size; 0 disables the check.
	ExpectedCenters int
}

// Validator runs the schema and the cross-record checks.
type Validator struct {
	schema *cue.Validator
	opts   Options
}

// New loads the embedded schemas.
func New(opts Options) (*Validator, error) {
	schema := cue.NewValidator()
	if err := schema.LoadSchemas(); err != nil {
		return nil, fmt.Errorf("loading schemas: %w", err)
	}
	return &Validator{schema: schema, opts: opts}, nil
}

// Validate returns every issue found in records, sorted by center, month and field.
func (v *Validator) Validate(records []types.Record) ([]types.Issue, error) {
	var issues []types.Issue
	for _, rec := range records {
		found, err := v.schema.ValidateRecord(rec)
		if err != nil {
			return nil, err
		}
		issues = append(issues, found...)
	}

	issues = append(issues, checkDuplicates(records)...)
	issues = append(issues, checkSatisfaction(records)...)
	issues = append(issues, checkContiguity(records)...)
	issues = append(issues, checkRoster(records, v.opts.ExpectedCenters)...)

	Sort(issues)
	return issues, nil
}

// Sort orders issues by center, month and field. Ties keep their order.
func Sort(issues []types.Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.Center != b.Center {
			return a.Center < b.Center
		}
		if a.Month != b.Month {
			return a.Month < b.Month
		}
		return a.Field < b.Field
	})
}

// Split separates error issues from the rest.
func Split(issues []types.Issue) (errs, warnings []types.Issue) {
	for _, is := range issues {
		if is.Severity == types.SeverityError {
			errs = append(errs, is)
		} else {
			warnings = append(warnings, is)
		}
	}
	return errs, warnings
}

func checkDuplicates(records []types.Record) []types.Issue {
	first := make(map[string]types.Record)
	var issues []types.Issue
	for _, rec := range records {
		key := rec.Key()
		prev, dup := first[key]
		if !dup {
			first[key] = rec
			continue
		}
		msg := "duplicate record for center and month"
		if prev.Source != "" {
			msg += fmt.Sprintf(" (first seen at %s)", prev.Source)
		}
		issues = append(issues, types.Issue{
			Center:   rec.CenterID,
			Month:    rec.Month.String(),
			Field:    "evaluation_month",
			Message:  msg,
			Severity: types.SeverityError,
			Source:   types.SourceCheck,
			Location: rec.Source,
		})
	}
	return issues
}

func checkSatisfaction(records []types.Record) []types.Issue {
	var issues []types.Issue
	for _, rec := range records {
		s := rec.Ratios.Satisfaction
		if !s.Valid || (s.Value >= 0 && s.Value <= 100) {
			continue
		}
		issues = append(issues, types.Issue{
			Center:   rec.CenterID,
			Month:    rec.Month.String(),
			Field:    types.Satisfaction.Key(),
			Message:  fmt.Sprintf("satisfaction %g is outside 0-100", s.Value),
			Severity: types.SeverityWarning,
			Source:   types.SourceCheck,
			Location: rec.Source,
		})
	}
	return issues
}

// checkContiguity warns when a center's months of a period do not run
// contiguously from the period's first month.
func checkContiguity(records []types.Record) []types.Issue {
	type key struct {
		center string
		period types.PeriodKey
	}
	months := make(map[key]map[int]bool)
	var order []key
	for _, rec := range records {
		k := key{rec.CenterID, rec.Month.PeriodKey()}
		if months[k] == nil {
			months[k] = make(map[int]bool)
			order = append(order, k)
		}
		months[k][rec.Month.Month] = true
	}

	var issues []types.Issue
	for _, k := range order {
		hi := 0
		for m := range months[k] {
			hi = max(hi, m)
		}
		var gaps []string
		for m := k.period.Period.FirstMonth(); m <= hi; m++ {
			if !months[k][m] {
				gaps = append(gaps, types.NewMonth(k.period.Year, m).String())
			}
		}
		if len(gaps) == 0 {
			continue
		}
		issues = append(issues, types.Issue{
			Center:   k.center,
			Field:    "evaluation_month",
			Message:  fmt.Sprintf("months missing within %s: %s", k.period, strings.Join(gaps, ", ")),
			Severity: types.SeverityWarning,
			Source:   types.SourceCheck,
		})
	}
	return issues
}

func checkRoster(records []types.Record, expected int) []types.Issue {
	if expected <= 0 || len(records) == 0 {
		return nil
	}
	centers := make(map[string]bool)
	for _, rec := range records {
		centers[rec.CenterID] = true
	}
	if len(centers) == expected {
		return nil
	}
	return []types.Issue{{
		Field:    "center_id",
		Message:  fmt.Sprintf("found %d centers, expected %d", len(centers), expected),
		Severity: types.SeverityWarning,
		Source:   types.SourceCheck,
	}}
}
