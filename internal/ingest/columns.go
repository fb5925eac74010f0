package ingest

import (
	"strings"

	"github.com/lemon6243/customer-center-dashboard/internal/types"
)

// Canonical column names.
const (
	ColCenter    = "center_id"
	ColMonth     = "evaluation_month"
	ColComplaint = "complaint"
	ColWarning   = "warning"
	ColBonus     = "bonus"
)

// RequiredColumns must be present in every input table.
var RequiredColumns = []string{
	ColCenter,
	ColMonth,
	types.SafetyInspection.Key(),
	types.PriorityCustomer.Key(),
	types.UsageContract.Key(),
	types.ConsultationResponse.Key(),
	types.ConsultationContribution.Key(),
	types.Satisfaction.Key(),
}

// OptionalColumns default to 0 when absent.
var OptionalColumns = []string{ColComplaint, ColWarning, ColBonus}

// headerAliases maps normalized header text to a canonical column.
var headerAliases = map[string]string{
	"center_id": ColCenter,
	"center":    ColCenter,
	"센터명":       ColCenter,
	"센터":        ColCenter,

	"evaluation_month": ColMonth,
	"month":            ColMonth,
	"평가월":              ColMonth,

	"safety_inspection":      "safety_inspection",
	"safety_inspection_rate": "safety_inspection",
	"안전점검실점검율":               "safety_inspection",

	"priority_customer":      "priority_customer",
	"priority_customer_rate": "priority_customer",
	"중점고객안전점검율":              "priority_customer",

	"usage_contract":      "usage_contract",
	"usage_contract_rate": "usage_contract",
	"사용계약율":               "usage_contract",

	"consultation_response":      "consultation_response",
	"consultation_response_rate": "consultation_response",
	"상담응대율":                      "consultation_response",

	"consultation_contribution": "consultation_contribution",
	"상담기여도":                     "consultation_contribution",

	"satisfaction":          "satisfaction",
	"customer_satisfaction": "satisfaction",
	"고객서비스만족도":              "satisfaction",

	"complaint":            ColComplaint,
	"complaint_adjustment": ColComplaint,
	"민원대응적정성":              ColComplaint,

	"warning":            ColWarning,
	"warning_adjustment": ColWarning,
	"주의경고":               ColWarning,

	"bonus": ColBonus,
	"가점":    ColBonus,
}

// normalizeHeader lowercases and trims a header cell, turning spaces and
// hyphens into underscores. A UTF-8 byte order mark is dropped.
func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.NewReplacer(" ", "_", "-", "_").Replace(h)
	return h
}

// CanonicalColumn resolves a header cell to its canonical name.
func CanonicalColumn(header string) (string, bool) {
	c, ok := headerAliases[normalizeHeader(header)]
	return c, ok
}

// columnIndex maps canonical names to their position in the header row.
type columnIndex map[string]int

func indexHeader(header []string) columnIndex {
	idx := make(columnIndex)
	for i, h := range header {
		c, ok := CanonicalColumn(h)
		if !ok {
			continue
		}
		if _, dup := idx[c]; dup {
			continue
		}
		idx[c] = i
	}
	return idx
}

func (ci columnIndex) missing() []string {
	var out []string
	for _, c := range RequiredColumns {
		if _, ok := ci[c]; !ok {
			out = append(out, c)
		}
	}
	return out
}

// cell returns the trimmed value of a column, or "" when the row is short.
func (ci columnIndex) cell(row []string, col string) (string, bool) {
	i, ok := ci[col]
	if !ok {
		return "", false
	}
	if i >= len(row) {
		return "", true
	}
	return strings.TrimSpace(row[i]), true
}
