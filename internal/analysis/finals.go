// Package analysis provides aggregate views over scored records: period finals,
// annual evaluation, ranking, trends, improvement suggestions and summary statistics.
package analysis

import (
	"sort"

	"github.com/lemon6243/customer-center-dashboard/internal/scoring"
	"github.com/lemon6243/customer-center-dashboard/internal/types"
)

// PeriodFinal is the authoritative score of one center for one half-year.
type PeriodFinal struct {
	Center string
	Year   int
	Period types.Period
	Record scoring.ScoredRecord
}

// PeriodFinals selects, for each (center, year, period), the record with the latest month.
// Results are ordered by year, period, then total descending.
func PeriodFinals(records []scoring.ScoredRecord) []PeriodFinal {
	type key struct {
		center string
		pk     types.PeriodKey
	}
	latest := make(map[key]int)
	var order []key
	for i, r := range records {
		k := key{center: r.CenterID, pk: r.Month.PeriodKey()}
		j, ok := latest[k]
		if !ok {
			order = append(order, k)
			latest[k] = i
			continue
		}
		if records[j].Month.Before(r.Month) {
			latest[k] = i
		}
	}

	finals := make([]PeriodFinal, 0, len(order))
	for _, k := range order {
		finals = append(finals, PeriodFinal{
			Center: k.center,
			Year:   k.pk.Year,
			Period: k.pk.Period,
			Record: records[latest[k]],
		})
	}

	sort.SliceStable(finals, func(i, j int) bool {
		a, b := finals[i], finals[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Period != b.Period {
			return a.Period == types.FirstHalf
		}
		return a.Record.Total > b.Record.Total
	})
	return finals
}

// LatestPerCenter returns each center's most recent record, in first-seen center order.
func LatestPerCenter(records []scoring.ScoredRecord) []scoring.ScoredRecord {
	idx := make(map[string]int)
	var centers []string
	for i, r := range records {
		j, ok := idx[r.CenterID]
		if !ok {
			centers = append(centers, r.CenterID)
			idx[r.CenterID] = i
			continue
		}
		if records[j].Month.Before(r.Month) {
			idx[r.CenterID] = i
		}
	}
	out := make([]scoring.ScoredRecord, 0, len(centers))
	for _, c := range centers {
		out = append(out, records[idx[c]])
	}
	return out
}

// LatestMonth returns the most recent month across all records.
func LatestMonth(records []scoring.ScoredRecord) (types.Month, bool) {
	if len(records) == 0 {
		return types.Month{}, false
	}
	latest := records[0].Month
	for _, r := range records[1:] {
		if latest.Before(r.Month) {
			latest = r.Month
		}
	}
	return latest, true
}

// ByCenter groups records per center, each group ordered by month.
// Centers appear in first-seen order.
func ByCenter(records []scoring.ScoredRecord) ([]string, map[string][]scoring.ScoredRecord) {
	groups := make(map[string][]scoring.ScoredRecord)
	var centers []string
	for _, r := range records {
		if _, ok := groups[r.CenterID]; !ok {
			centers = append(centers, r.CenterID)
		}
		groups[r.CenterID] = append(groups[r.CenterID], r)
	}
	for _, c := range centers {
		g := groups[c]
		sort.SliceStable(g, func(i, j int) bool {
			return g[i].Month.Before(g[j].Month)
		})
	}
	return centers, groups
}
