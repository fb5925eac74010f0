// Package types provides shared types used across the ccscore codebase.
// This package is at the bottom of the dependency graph and should not import
// any other internal packages to avoid circular dependencies.
package types

import (
	"fmt"
	"math"
)

// Compatibility constants of the evaluation rubric.
const (
	TargetScore  = 911.0
	MaxTotal     = 1000.0
	PeriodMonths = 6
)

// Metric is an optional indicator value. The zero Metric is missing.
type Metric struct {
	Value float64
	Valid bool
}

// Some returns a present Metric. NaN and infinities are treated as missing.
func Some(v float64) Metric {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Metric{}
	}
	return Metric{Value: v, Valid: true}
}

// OrZero returns the value, or 0 when missing.
func (m Metric) OrZero() float64 {
	if !m.Valid {
		return 0
	}
	return m.Value
}

// Ratios holds the six indicator inputs of one record.
// Satisfaction is on a 0-100 scale, every other field is a fraction.
type Ratios struct {
	SafetyInspection         Metric
	PriorityCustomer         Metric
	UsageContract            Metric
	ConsultationResponse     Metric
	ConsultationContribution Metric
	Satisfaction             Metric
}

// Get returns the input for an indicator.
func (r Ratios) Get(ind Indicator) Metric {
	switch ind {
	case SafetyInspection:
		return r.SafetyInspection
	case PriorityCustomer:
		return r.PriorityCustomer
	case UsageContract:
		return r.UsageContract
	case ConsultationResponse:
		return r.ConsultationResponse
	case ConsultationContribution:
		return r.ConsultationContribution
	case Satisfaction:
		return r.Satisfaction
	}
	return Metric{}
}

// Adjustments are signed point deltas added to the total. Missing values are 0.
type Adjustments struct {
	Complaint float64 `json:"complaint" yaml:"complaint"`
	Warning   float64 `json:"warning" yaml:"warning"`
	Bonus     float64 `json:"bonus" yaml:"bonus"`
}

// Sum returns the combined adjustment.
func (a Adjustments) Sum() float64 {
	return a.Complaint + a.Warning + a.Bonus
}

// Record is one row per (center, evaluation month).
type Record struct {
	CenterID    string
	Month       Month
	Ratios      Ratios
	Adjustments Adjustments
	// Source locates the row for diagnostics, e.g. "data.xlsx:12".
	Source string
}

// Period returns the half-year the record belongs to.
func (r Record) Period() Period {
	return r.Month.Period()
}

// Key identifies a record within a set.
func (r Record) Key() string {
	return fmt.Sprintf("%s@%s", r.CenterID, r.Month)
}

// Severity level constants.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Issue source constants.
const (
	SourceSchema = "schema"
	SourceIngest = "ingest"
	SourceCheck  = "check"
)

// Issue is a validation error or warning about the input data.
type Issue struct {
	Center   string `json:"center,omitempty" yaml:"center,omitempty"`
	Month    string `json:"month,omitempty" yaml:"month,omitempty"`
	Field    string `json:"field,omitempty" yaml:"field,omitempty"`
	Message  string `json:"message" yaml:"message"`
	Severity string `json:"severity" yaml:"severity"`
	Source   string `json:"source,omitempty" yaml:"source,omitempty"`
	Location string `json:"location,omitempty" yaml:"location,omitempty"`
}

// String renders the issue with whatever location detail it carries.
func (i Issue) String() string {
	where := i.Center
	if i.Month != "" {
		if where != "" {
			where += " "
		}
		where += i.Month
	}
	if i.Field != "" {
		if where != "" {
			where += " "
		}
		where += i.Field
	}
	if i.Location != "" {
		if where != "" {
			where += " "
		}
		where += "(" + i.Location + ")"
	}
	if where == "" {
		return i.Message
	}
	return where + ": " + i.Message
}

// HasErrors reports whether any issue has error severity.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}
