package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lemon6243/customer-center-dashboard/internal/scoring"
	"github.com/lemon6243/customer-center-dashboard/internal/types"
)

// rec builds a scored record whose total is exactly total, carried by the satisfaction
// slot and the bonus so that point scores stay simple.
func rec(center string, year, month int, total float64) scoring.ScoredRecord {
	return scoring.ScoredRecord{
		Record: types.Record{CenterID: center, Month: types.NewMonth(year, month)},
		Points: types.IndicatorScores{0, 0, 0, 0, 0, 0},
		Total:  total,
		Passed: total >= types.TargetScore,
		Gap:    total - types.TargetScore,
	}
}

func TestPeriodFinals(t *testing.T) {
	records := []scoring.ScoredRecord{
		rec("A", 2024, 1, 300),
		rec("A", 2024, 3, 700),
		rec("A", 2024, 2, 500),
		rec("B", 2024, 2, 800),
		rec("A", 2024, 7, 200),
	}

	finals := PeriodFinals(records)
	require.Len(t, finals, 3)

	assert.Equal(t, "B", finals[0].Center)
	assert.Equal(t, types.FirstHalf, finals[0].Period)
	assert.Equal(t, "A", finals[1].Center)
	assert.Equal(t, 3, finals[1].Record.Month.Month)
	assert.Equal(t, 700.0, finals[1].Record.Total)
	assert.Equal(t, types.SecondHalf, finals[2].Period)
	assert.Equal(t, 7, finals[2].Record.Month.Month)
}

func TestAnnual(t *testing.T) {
	records := []scoring.ScoredRecord{
		rec("A", 2024, 6, 900),
		rec("A", 2024, 12, 930),
		rec("B", 2024, 5, 950),
		rec("C", 2024, 6, 880),
		rec("C", 2024, 8, 700),
	}

	got := Annual(records)
	require.Len(t, got, 3)

	byCenter := map[string]AnnualEvaluation{}
	for _, e := range got {
		byCenter[e.Center] = e
	}

	a := byCenter["A"]
	assert.Equal(t, 915.0, a.Average)
	assert.True(t, a.RenewalEligible)
	assert.Equal(t, 4.0, a.Gap)

	b := byCenter["B"]
	require.NotNil(t, b.FirstHalf)
	assert.Nil(t, b.SecondHalf)
	assert.Equal(t, *b.FirstHalf, b.Average, "first-half only center is not penalized")
	assert.True(t, b.RenewalEligible)

	c := byCenter["C"]
	assert.Equal(t, 790.0, c.Average)
	assert.False(t, c.RenewalEligible)

	assert.Equal(t, "B", got[0].Center, "sorted by average descending")
}

func TestRankMonth_StableTies(t *testing.T) {
	m := types.NewMonth(2024, 3)
	records := []scoring.ScoredRecord{
		rec("A", 2024, 3, 800),
		rec("B", 2024, 3, 900),
		rec("C", 2024, 3, 800),
		rec("D", 2024, 2, 999),
	}

	got := RankMonth(records, m)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"B", "A", "C"}, []string{got[0].Center, got[1].Center, got[2].Center})
	assert.Equal(t, []int{1, 2, 3}, []int{got[0].Rank, got[1].Rank, got[2].Rank})
}

func TestRankChanges(t *testing.T) {
	records := []scoring.ScoredRecord{
		rec("A", 2024, 1, 900),
		rec("B", 2024, 1, 800),
		rec("C", 2024, 1, 700),
		rec("A", 2024, 2, 750),
		rec("B", 2024, 2, 850),
		rec("C", 2024, 2, 900),
		rec("D", 2024, 2, 100),
	}

	got := RankChanges(records, types.NewMonth(2024, 2))
	require.Len(t, got, 4)

	changes := map[string]Ranking{}
	for _, r := range got {
		changes[r.Center] = r
	}
	assert.Equal(t, 2, changes["C"].Change)
	assert.Equal(t, 0, changes["B"].Change)
	assert.True(t, changes["B"].HasChange)
	assert.Equal(t, -2, changes["A"].Change)
	assert.False(t, changes["D"].HasChange)
}

func TestRankChanges_NoPreviousMonth(t *testing.T) {
	got := RankChanges([]scoring.ScoredRecord{rec("A", 2024, 1, 900)}, types.NewMonth(2024, 1))
	require.Len(t, got, 1)
	assert.False(t, got[0].HasChange)
}

func TestMonthlyTrends(t *testing.T) {
	records := []scoring.ScoredRecord{
		rec("A", 2024, 2, 650),
		rec("A", 2024, 1, 600),
		rec("A", 2024, 3, 640),
		rec("A", 2024, 4, 640),
	}

	got := MonthlyTrends(records)
	require.Len(t, got, 4)
	assert.Equal(t, None, got[0].Direction)
	assert.Nil(t, got[0].TotalDelta)
	assert.Equal(t, Up, got[1].Direction)
	assert.Equal(t, 50.0, *got[1].TotalDelta)
	assert.Equal(t, Down, got[2].Direction)
	assert.Equal(t, Flat, got[3].Direction)
}

func TestSuggest(t *testing.T) {
	s := scoring.NewCalculator().Score(types.Record{
		CenterID: "A",
		Month:    types.NewMonth(2024, 3),
		Ratios: types.Ratios{
			SafetyInspection:         types.Some(0.5),
			PriorityCustomer:         types.Some(0.5),
			UsageContract:            types.Some(0.85),
			ConsultationResponse:     types.Some(0.9),
			ConsultationContribution: types.Some(0.9),
			Satisfaction:             types.Some(80),
		},
	})

	imp := Suggest(s)
	assert.False(t, imp.Achieved)
	assert.Equal(t, 281.0, imp.Shortfall)
	require.Len(t, imp.Suggestions, 3)

	assert.Equal(t, "safety_inspection", imp.Suggestions[0].Indicator)
	assert.Equal(t, 275.0, imp.Suggestions[0].Improvement, "capped at headroom")
	assert.Equal(t, 550.0, imp.Suggestions[0].Target)
	assert.Equal(t, 100.0, imp.Suggestions[0].TargetRate)

	assert.Equal(t, "priority_customer", imp.Suggestions[1].Indicator)
	assert.Equal(t, 50.0, imp.Suggestions[1].Improvement)
	assert.Equal(t, "satisfaction", imp.Suggestions[2].Indicator)
	assert.Equal(t, 20.0, imp.Suggestions[2].Improvement)
}

func TestSuggest_SmallGapNotCapped(t *testing.T) {
	s := scoring.ScoredRecord{
		Record: types.Record{CenterID: "A", Month: types.NewMonth(2024, 6)},
		Points: types.IndicatorScores{500, 90, 50, 95, 90, 80},
		Total:  905,
	}

	imp := Suggest(s)
	require.Len(t, imp.Suggestions, 3)
	for _, sug := range imp.Suggestions {
		assert.Equal(t, 6.0, sug.Improvement)
	}
	assert.Equal(t, "safety_inspection", imp.Suggestions[0].Indicator)
}

func TestSuggest_Achieved(t *testing.T) {
	imp := Suggest(rec("A", 2024, 6, 950))
	assert.True(t, imp.Achieved)
	assert.Empty(t, imp.Suggestions)
}

func TestSuggestBelowTarget(t *testing.T) {
	records := []scoring.ScoredRecord{
		rec("A", 2024, 1, 500),
		rec("A", 2024, 2, 950),
		rec("B", 2024, 2, 800),
		rec("C", 2024, 2, 700),
	}

	got := SuggestBelowTarget(records, 85)
	require.Len(t, got, 2)
	assert.Equal(t, "C", got[0].Center)
	assert.Equal(t, "B", got[1].Center)
}

func TestSummarize(t *testing.T) {
	records := []scoring.ScoredRecord{
		rec("A", 2024, 1, 100),
		rec("A", 2024, 2, 920),
		rec("B", 2024, 2, 900),
		rec("C", 2024, 2, 800),
		rec("D", 2024, 2, 960),
	}

	s := Summarize(records)
	assert.Equal(t, 4, s.TotalCenters)
	assert.Equal(t, 895.0, s.AverageScore)
	assert.Equal(t, 960.0, s.MaxScore)
	assert.Equal(t, 800.0, s.MinScore)
	assert.Equal(t, 2, s.PassedCenters)
	assert.Equal(t, 2, s.FailedCenters)
	assert.Equal(t, 50.0, s.PassRate)
	assert.Equal(t, []string{"B", "C"}, s.AtRiskCenters)
	assert.Equal(t, "D", s.TopCenters[0].Center)
	assert.Equal(t, "C", s.BottomCenters[0].Center)
	assert.Len(t, s.TopCenters, 3)
	assert.Greater(t, s.StdDev, 0.0)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestDescribe(t *testing.T) {
	records := []types.Record{
		{CenterID: "B", Month: types.NewMonth(2024, 1)},
		{CenterID: "A", Month: types.NewMonth(2024, 2)},
		{CenterID: "A", Month: types.NewMonth(2024, 7)},
	}

	d := Describe(records)
	assert.Equal(t, 2, d.TotalCenters)
	assert.Equal(t, []string{"A", "B"}, d.Centers)
	assert.Equal(t, "2024-01", d.FirstMonth)
	assert.Equal(t, "2024-07", d.LatestMonth)
	assert.Equal(t, 3, d.TotalMonths)
	assert.Equal(t, 2, d.FirstHalfMonths)
	assert.Equal(t, 1, d.SecondHalfMonths)
}

func TestCorrelations(t *testing.T) {
	var records []scoring.ScoredRecord
	for i := 1; i <= 5; i++ {
		r := rec("A", 2024, i, float64(i)*100)
		r.Points[types.SafetyInspection] = float64(i) * 10
		r.Points[types.PriorityCustomer] = float64(10 - i)
		records = append(records, r)
	}

	m := Correlations(records)
	require.Len(t, m.Labels, 7)
	assert.Equal(t, "total", m.Labels[6])
	assert.Equal(t, 1.0, m.Values[0][6])
	assert.Equal(t, -1.0, m.Values[1][6])
	assert.Equal(t, 0.0, m.Values[2][6], "constant column")
	assert.Equal(t, 1.0, m.Values[2][2])
}

func TestCorrelationCache(t *testing.T) {
	records := []scoring.ScoredRecord{rec("A", 2024, 1, 100), rec("A", 2024, 2, 200)}
	cache := NewCorrelationCache()

	_, hit := cache.Get(records)
	assert.False(t, hit)
	_, hit = cache.Get(records)
	assert.True(t, hit)
	assert.Equal(t, 1, cache.Len())

	changed := append([]scoring.ScoredRecord(nil), records...)
	changed[1].Total = 300
	_, hit = cache.Get(changed)
	assert.False(t, hit)
	assert.Equal(t, 2, cache.Len())
}
