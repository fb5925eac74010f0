package types

// Indicator identifies one of the six scored indicators.
type Indicator int

const (
	SafetyInspection Indicator = iota
	PriorityCustomer
	UsageContract
	ConsultationResponse
	ConsultationContribution
	Satisfaction
)

// Indicators lists every indicator in rubric order.
var Indicators = []Indicator{
	SafetyInspection,
	PriorityCustomer,
	UsageContract,
	ConsultationResponse,
	ConsultationContribution,
	Satisfaction,
}

var indicatorInfo = [...]struct {
	key        string
	name       string
	max        float64
	cumulative bool
}{
	SafetyInspection:         {"safety_inspection", "Safety inspection", 550, true},
	PriorityCustomer:         {"priority_customer", "Priority customer", 100, true},
	UsageContract:            {"usage_contract", "Usage contract", 50, true},
	ConsultationResponse:     {"consultation_response", "Consultation response", 100, false},
	ConsultationContribution: {"consultation_contribution", "Consultation contribution", 100, false},
	Satisfaction:             {"satisfaction", "Satisfaction", 100, false},
}

// Key is the canonical column name.
func (i Indicator) Key() string {
	if i < 0 || int(i) >= len(indicatorInfo) {
		return "unknown"
	}
	return indicatorInfo[i].key
}

// String returns the display name.
func (i Indicator) String() string {
	if i < 0 || int(i) >= len(indicatorInfo) {
		return "Unknown"
	}
	return indicatorInfo[i].name
}

// MaxPoints is the indicator's share of the 1000-point rubric.
func (i Indicator) MaxPoints() float64 {
	if i < 0 || int(i) >= len(indicatorInfo) {
		return 0
	}
	return indicatorInfo[i].max
}

// Cumulative reports whether the indicator accrues toward period end.
func (i Indicator) Cumulative() bool {
	if i < 0 || int(i) >= len(indicatorInfo) {
		return false
	}
	return indicatorInfo[i].cumulative
}

// IsRatio reports whether the input is a 0-1 fraction (satisfaction is 0-100).
func (i Indicator) IsRatio() bool {
	return i != Satisfaction
}

// IndicatorScores holds one value per indicator.
type IndicatorScores [6]float64

// Get returns the value for an indicator.
func (s IndicatorScores) Get(i Indicator) float64 {
	return s[i]
}

// Sum adds every indicator value.
func (s IndicatorScores) Sum() float64 {
	var total float64
	for _, v := range s {
		total += v
	}
	return total
}
