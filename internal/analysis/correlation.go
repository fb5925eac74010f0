package analysis

import (
	"crypto/sha256"
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/lemon6243/customer-center-dashboard/internal/scoring"
	"github.com/lemon6243/customer-center-dashboard/internal/types"
)

// CorrelationMatrix holds Pearson coefficients between point scores and the total.
type CorrelationMatrix struct {
	Labels []string    `json:"labels" yaml:"labels"`
	Values [][]float64 `json:"values" yaml:"values"`
}

// Correlations computes the correlation matrix of the six point scores and the total
// across all records. Columns with zero variance yield 0 off the diagonal.
func Correlations(records []scoring.ScoredRecord) CorrelationMatrix {
	labels := make([]string, 0, len(types.Indicators)+1)
	for _, ind := range types.Indicators {
		labels = append(labels, ind.Key())
	}
	labels = append(labels, "total")

	cols := make([][]float64, len(labels))
	for i := range cols {
		cols[i] = make([]float64, len(records))
	}
	for r, rec := range records {
		for _, ind := range types.Indicators {
			cols[ind][r] = rec.Points[ind]
		}
		cols[len(labels)-1][r] = rec.Total
	}

	values := make([][]float64, len(labels))
	for i := range values {
		values[i] = make([]float64, len(labels))
		for j := range values[i] {
			if i == j {
				values[i][j] = 1
				continue
			}
			values[i][j] = correlation(cols[i], cols[j])
		}
	}
	return CorrelationMatrix{Labels: labels, Values: values}
}

func correlation(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return 0
	}
	c := stat.Correlation(x, y, nil)
	if math.IsNaN(c) {
		return 0
	}
	return scoring.Round(c, 4)
}

// Fingerprint is a content hash of a scored record set.
func Fingerprint(records []scoring.ScoredRecord) string {
	h := sha256.New()
	for _, r := range records {
		fmt.Fprintf(h, "%s|%s|%v|%.4f\n", r.CenterID, r.Month, r.Points, r.Total)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// CorrelationCache memoizes correlation matrices by record-set fingerprint.
type CorrelationCache struct {
	mu      sync.Mutex
	entries map[string]CorrelationMatrix
}

// NewCorrelationCache creates an empty cache.
func NewCorrelationCache() *CorrelationCache {
	return &CorrelationCache{entries: make(map[string]CorrelationMatrix)}
}

// Get returns the cached matrix for the records, computing it on a miss.
func (c *CorrelationCache) Get(records []scoring.ScoredRecord) (CorrelationMatrix, bool) {
	key := Fingerprint(records)
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.entries[key]; ok {
		return m, true
	}
	m := Correlations(records)
	c.entries[key] = m
	return m, false
}

// Len returns the number of cached matrices.
func (c *CorrelationCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
