package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lemon6243/customer-center-dashboard/internal/risk"
	"github.com/lemon6243/customer-center-dashboard/internal/types"
)

func record(center string, month int, safety, priority, contract, resp, contrib, sat float64) types.Record {
	return types.Record{
		CenterID: center,
		Month:    types.NewMonth(2024, month),
		Ratios: types.Ratios{
			SafetyInspection:         types.Some(safety),
			PriorityCustomer:         types.Some(priority),
			UsageContract:            types.Some(contract),
			ConsultationResponse:     types.Some(resp),
			ConsultationContribution: types.Some(contrib),
			Satisfaction:             types.Some(sat),
		},
	}
}

// fixture: A totals 630 and B totals 460 in March (elapsed month 3).
// Neither center reports January or February, so each gets a month-gap warning.
func fixture() []types.Record {
	return []types.Record{
		record("A", 3, 0.5, 0.5, 0.85, 0.9, 0.9, 80),
		record("B", 3, 0.3, 0.3, 0.6, 0.8, 0.8, 70),
	}
}

func newOrchestrator(opts OrchestratorConfig) *Orchestrator {
	if opts.WeakThreshold == 0 {
		opts.WeakThreshold = 85
	}
	return NewOrchestrator(opts, zerolog.Nop())
}

func TestRun_AllSections(t *testing.T) {
	o := newOrchestrator(OrchestratorConfig{Sections: AllSections(), Concurrency: 4, Parallel: true})

	report, err := o.Run(context.Background(), fixture(), nil)
	require.NoError(t, err)
	require.NotNil(t, report)

	require.Len(t, report.Issues, 2)
	assert.Equal(t, "months missing within 2024 first-half: 2024-01, 2024-02", report.Issues[0].Message)
	assert.Len(t, report.Warnings(), 2)
	assert.Equal(t, 2, report.Data.TotalCenters)

	require.Len(t, report.Scores, 2)
	assert.Equal(t, "A", report.Scores[0].Center)
	assert.Equal(t, 630.0, report.Scores[0].Total)
	assert.Equal(t, -281.0, report.Scores[0].Gap)
	assert.Equal(t, "B", report.Scores[0].ContractGrade)
	assert.Equal(t, 460.0, report.Scores[1].Total)

	require.Len(t, report.Risk, 2)
	assert.Equal(t, "B", report.Risk[0].Center, "most severe first")
	assert.Equal(t, risk.AtRisk, report.Risk[0].Tier)
	assert.Equal(t, 658.5, report.Risk[0].Predicted)
	assert.Equal(t, "A", report.Risk[1].Center)
	assert.Equal(t, risk.Good, report.Risk[1].Tier)
	assert.Equal(t, 959.5, report.Risk[1].Predicted)
	assert.Equal(t, 3, report.Risk[1].ElapsedMonth)
	assert.False(t, report.Risk[1].Closed)

	require.Len(t, report.Finals, 2)
	require.Len(t, report.Annual, 2)
	assert.False(t, report.Annual[0].RenewalEligible)

	require.NotNil(t, report.Ranking)
	assert.Equal(t, "2024-03", report.Ranking.Month)
	require.Len(t, report.Ranking.Rankings, 2)
	assert.Equal(t, "A", report.Ranking.Rankings[0].Center)
	assert.Equal(t, 1, report.Ranking.Rankings[0].Rank)

	assert.Len(t, report.Trends, 2)

	require.Len(t, report.Suggestions, 2)
	assert.Equal(t, "B", report.Suggestions[0].Center, "worst first")

	require.NotNil(t, report.Summary)
	assert.Equal(t, 2, report.Summary.TotalCenters)
	assert.Equal(t, 545.0, report.Summary.AverageScore)
	require.NotNil(t, report.Correlation)
	assert.Len(t, report.Correlation.Labels, 7)
}

func TestRun_SelectedSectionsOnly(t *testing.T) {
	o := newOrchestrator(OrchestratorConfig{Sections: Sections{Risk: true}, Concurrency: 1})

	report, err := o.Run(context.Background(), fixture(), nil)
	require.NoError(t, err)
	assert.Len(t, report.Risk, 2)
	assert.Nil(t, report.Scores)
	assert.Nil(t, report.Ranking)
	assert.Nil(t, report.Summary)
	assert.Nil(t, report.Correlation)
	assert.Nil(t, report.Suggestions)
}

func TestRun_ParallelMatchesSequential(t *testing.T) {
	var records []types.Record
	for m := 1; m <= 6; m++ {
		for _, c := range []string{"A", "B", "C", "D"} {
			records = append(records, record(c, m, 0.1*float64(m), 0.15*float64(m), 0.9, 0.95, 0.9, 88))
		}
	}

	seq, err := newOrchestrator(OrchestratorConfig{Sections: AllSections(), Concurrency: 1, Parallel: false}).
		Run(context.Background(), records, nil)
	require.NoError(t, err)
	par, err := newOrchestrator(OrchestratorConfig{Sections: AllSections(), Concurrency: 8, Parallel: true}).
		Run(context.Background(), records, nil)
	require.NoError(t, err)

	assert.Equal(t, seq.Scores, par.Scores)
	assert.Equal(t, seq.Risk, par.Risk)
}

func TestRun_ValidationFailure(t *testing.T) {
	records := fixture()
	records[0].Ratios.SafetyInspection = types.Some(1.5)

	o := newOrchestrator(OrchestratorConfig{Sections: AllSections(), Concurrency: 2, Parallel: true})
	report, err := o.Run(context.Background(), records, nil)
	require.Error(t, err)
	assert.Nil(t, report)

	var vfe *ValidationFailedError
	require.True(t, errors.As(err, &vfe))
	require.Len(t, vfe.Issues, 1)
	assert.Equal(t, "safety_inspection", vfe.Issues[0].Field)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestRun_IngestErrorsFail(t *testing.T) {
	ingestIssues := []types.Issue{{
		Center: "", Month: "2024-03", Field: "center_id",
		Message: "center id is blank", Severity: types.SeverityError, Source: types.SourceIngest,
	}}

	o := newOrchestrator(OrchestratorConfig{Sections: AllSections(), Concurrency: 1})
	_, err := o.Run(context.Background(), fixture(), ingestIssues)

	var vfe *ValidationFailedError
	require.ErrorAs(t, err, &vfe)
	assert.Equal(t, ingestIssues, vfe.Issues)
}

func TestValidate_ReportsWarnings(t *testing.T) {
	records := fixture()
	records[1].Ratios.Satisfaction = types.Some(120)

	o := newOrchestrator(OrchestratorConfig{ExpectedCenters: 2, Concurrency: 1})
	report, err := o.Validate(records, nil)
	require.NoError(t, err)
	require.Len(t, report.Issues, 3)
	assert.Equal(t, "B", report.Issues[2].Center)
	assert.Equal(t, "satisfaction", report.Issues[2].Field)
	assert.Len(t, report.Warnings(), 3)
}

func TestRun_Baseline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baseline.json")
	opts := OrchestratorConfig{
		Sections:        Sections{Scores: true},
		ExpectedCenters: 3,
		Concurrency:     1,
		BaselinePath:    path,
	}

	// roster warning (2 centers, 3 expected) and one month-gap warning per center
	create := opts
	create.CreateBaseline = true
	report, err := newOrchestrator(create).Run(context.Background(), fixture(), nil)
	require.NoError(t, err)
	require.Len(t, report.Issues, 3)
	_, err = os.Stat(path)
	require.NoError(t, err)

	use := opts
	use.UseBaseline = true
	report, err = newOrchestrator(use).Run(context.Background(), fixture(), nil)
	require.NoError(t, err)
	assert.Empty(t, report.Issues)
	assert.Equal(t, 3, report.BaselineIgnored)

	// without the baseline flag the warning is back
	report, err = newOrchestrator(opts).Run(context.Background(), fixture(), nil)
	require.NoError(t, err)
	assert.Len(t, report.Issues, 3)
}

func TestRun_CenterFilterAndRankMonth(t *testing.T) {
	records := append(fixture(),
		record("A", 2, 0.3, 0.3, 0.85, 0.9, 0.9, 80),
		record("B", 2, 0.4, 0.4, 0.85, 0.9, 0.9, 80),
	)
	o := newOrchestrator(OrchestratorConfig{
		Sections:    Sections{Suggestions: true, Ranking: true},
		Concurrency: 2,
		Parallel:    true,
		Center:      "A",
		RankMonth:   types.NewMonth(2024, 2),
	})

	report, err := o.Run(context.Background(), records, nil)
	require.NoError(t, err)

	require.Len(t, report.Suggestions, 1)
	assert.Equal(t, "A", report.Suggestions[0].Center)
	assert.Equal(t, "2024-03", report.Suggestions[0].Month)

	require.NotNil(t, report.Ranking)
	assert.Equal(t, "2024-02", report.Ranking.Month)
	assert.Equal(t, "B", report.Ranking.Rankings[0].Center)
}

func TestRun_Empty(t *testing.T) {
	o := newOrchestrator(OrchestratorConfig{Sections: AllSections(), ExpectedCenters: 24, Concurrency: 1})
	report, err := o.Run(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, report.Scores)
	assert.Empty(t, report.Risk)
	assert.Equal(t, 0, report.Summary.TotalCenters)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := newOrchestrator(OrchestratorConfig{Sections: AllSections(), Concurrency: 1})
	_, err := o.Run(ctx, fixture(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
