package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lemon6243/customer-center-dashboard/internal/types"
)

func rec(center string, year, month int) types.Record {
	return types.Record{
		CenterID: center,
		Month:    types.NewMonth(year, month),
		Ratios: types.Ratios{
			SafetyInspection:         types.Some(0.2),
			PriorityCustomer:         types.Some(0.2),
			UsageContract:            types.Some(0.9),
			ConsultationResponse:     types.Some(0.95),
			ConsultationContribution: types.Some(0.9),
			Satisfaction:             types.Some(90),
		},
	}
}

func newValidator(t *testing.T, expected int) *Validator {
	t.Helper()
	v, err := New(Options{ExpectedCenters: expected})
	require.NoError(t, err)
	return v
}

func TestValidate_Clean(t *testing.T) {
	v := newValidator(t, 2)
	issues, err := v.Validate([]types.Record{
		rec("A", 2024, 1), rec("A", 2024, 2),
		rec("B", 2024, 1), rec("B", 2024, 2),
	})
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestValidate_Empty(t *testing.T) {
	v := newValidator(t, 24)
	issues, err := v.Validate(nil)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestValidate_OutOfRangeRatio(t *testing.T) {
	v := newValidator(t, 0)
	bad := rec("A", 2024, 1)
	bad.Ratios.SafetyInspection = types.Some(1.25)

	issues, err := v.Validate([]types.Record{bad})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, types.SeverityError, issues[0].Severity)
	assert.Equal(t, types.SourceSchema, issues[0].Source)
	assert.Equal(t, "safety_inspection", issues[0].Field)
	assert.Equal(t, "A", issues[0].Center)
	assert.Equal(t, "2024-01", issues[0].Month)
	assert.True(t, types.HasErrors(issues))
}

func TestValidate_Duplicates(t *testing.T) {
	v := newValidator(t, 0)
	first := rec("A", 2024, 1)
	first.Source = "a.csv:2"
	second := rec("A", 2024, 1)
	second.Source = "b.csv:2"

	issues, err := v.Validate([]types.Record{first, second})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, types.SeverityError, issues[0].Severity)
	assert.Contains(t, issues[0].Message, "a.csv:2")
	assert.Equal(t, "b.csv:2", issues[0].Location)
}

func TestValidate_Warnings(t *testing.T) {
	v := newValidator(t, 3)
	high := rec("A", 2024, 1)
	high.Ratios.Satisfaction = types.Some(104)

	issues, err := v.Validate([]types.Record{
		high,
		rec("A", 2024, 3),
		rec("B", 2024, 7),
		rec("B", 2024, 8),
	})
	require.NoError(t, err)
	assert.False(t, types.HasErrors(issues))
	require.Len(t, issues, 3)

	// roster issue has no center so it sorts first
	assert.Equal(t, "", issues[0].Center)
	assert.Equal(t, "found 2 centers, expected 3", issues[0].Message)

	assert.Equal(t, "A", issues[1].Center)
	assert.Equal(t, "", issues[1].Month)
	assert.Equal(t, "months missing within 2024 first-half: 2024-02", issues[1].Message)

	assert.Equal(t, "satisfaction", issues[2].Field)
	assert.Equal(t, "2024-01", issues[2].Month)
}

func TestSortAndSplit(t *testing.T) {
	issues := []types.Issue{
		{Center: "B", Month: "2024-01", Field: "x", Severity: types.SeverityWarning},
		{Center: "A", Month: "2024-02", Field: "a", Severity: types.SeverityError},
		{Center: "A", Month: "2024-01", Field: "b", Severity: types.SeverityWarning},
		{Center: "A", Month: "2024-01", Field: "a", Severity: types.SeverityError},
	}
	Sort(issues)

	var order []string
	for _, is := range issues {
		order = append(order, is.Center+is.Month+is.Field)
	}
	assert.Equal(t, []string{"A2024-01a", "A2024-01b", "A2024-02a", "B2024-01x"}, order)

	errs, warns := Split(issues)
	assert.Len(t, errs, 2)
	assert.Len(t, warns, 2)
}

func TestValidate_ContiguityFromPeriodStart(t *testing.T) {
	tests := []struct {
		name    string
		records []types.Record
		want    string
	}{
		{
			name:    "first half starting in March",
			records: []types.Record{rec("A", 2024, 3), rec("A", 2024, 4), rec("A", 2024, 5)},
			want:    "months missing within 2024 first-half: 2024-01, 2024-02",
		},
		{
			name:    "second half starting in September",
			records: []types.Record{rec("A", 2024, 9), rec("A", 2024, 10)},
			want:    "months missing within 2024 second-half: 2024-07, 2024-08",
		},
		{
			name:    "leading and inner gaps",
			records: []types.Record{rec("A", 2024, 8), rec("A", 2024, 10)},
			want:    "months missing within 2024 second-half: 2024-07, 2024-09",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues, err := newValidator(t, 0).Validate(tt.records)
			require.NoError(t, err)
			require.Len(t, issues, 1)
			assert.Equal(t, "A", issues[0].Center)
			assert.Equal(t, "evaluation_month", issues[0].Field)
			assert.Equal(t, types.SeverityWarning, issues[0].Severity)
			assert.Equal(t, tt.want, issues[0].Message)
		})
	}
}

func TestValidate_ContiguousFromPeriodStart(t *testing.T) {
	issues, err := newValidator(t, 0).Validate([]types.Record{
		rec("A", 2024, 7), rec("A", 2024, 8), rec("A", 2024, 9),
	})
	require.NoError(t, err)
	assert.Empty(t, issues)
}
