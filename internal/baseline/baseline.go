package baseline

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/lemon6243/customer-center-dashboard/internal/types"
)

// DefaultPath is where the baseline is written when no path is configured.
const DefaultPath = ".ccscorebaseline.json"

// Baseline represents a snapshot of acknowledged data-quality warnings
type Baseline struct {
	Version      string   `json:"version"`
	CreatedAt    string   `json:"created_at"`
	Fingerprints []string `json:"fingerprints"`
	index        map[string]bool // For fast lookup
}

// CreateBaseline records every warning in issues. Errors are never recorded.
func CreateBaseline(issues []types.Issue) *Baseline {
	fingerprints := make([]string, 0, len(issues))
	index := make(map[string]bool)

	for _, issue := range issues {
		if issue.Severity == types.SeverityError {
			continue
		}
		fp := fingerprint(issue)
		if !index[fp] {
			fingerprints = append(fingerprints, fp)
			index[fp] = true
		}
	}

	// Sort for deterministic output
	sort.Strings(fingerprints)

	return &Baseline{
		Version:      "1.0",
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
		Fingerprints: fingerprints,
		index:        index,
	}
}

// LoadBaseline loads a baseline from a JSON file
func LoadBaseline(path string) (*Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline file: %w", err)
	}

	var b Baseline
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse baseline file: %w", err)
	}

	b.index = make(map[string]bool, len(b.Fingerprints))
	for _, fp := range b.Fingerprints {
		b.index[fp] = true
	}

	return &b, nil
}

// SaveBaseline saves the baseline to a JSON file
func (b *Baseline) SaveBaseline(path string) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal baseline: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write baseline file: %w", err)
	}

	return nil
}

// IsKnown checks if a warning is in the baseline. Errors are never known.
func (b *Baseline) IsKnown(issue types.Issue) bool {
	if b == nil || b.index == nil || issue.Severity == types.SeverityError {
		return false
	}
	return b.index[fingerprint(issue)]
}

// Filter drops known warnings, returning the remaining issues and the number suppressed.
func (b *Baseline) Filter(issues []types.Issue) ([]types.Issue, int) {
	if b == nil {
		return issues, 0
	}
	kept := make([]types.Issue, 0, len(issues))
	ignored := 0
	for _, issue := range issues {
		if b.IsKnown(issue) {
			ignored++
			continue
		}
		kept = append(kept, issue)
	}
	return kept, ignored
}

// fingerprint creates a stable hash of an issue for comparison
// Uses: center + field + source + normalized message pattern
func fingerprint(issue types.Issue) string {
	msg := normalizeMessage(issue.Message)

	// Month and location are left out; they shift as months are appended.
	data := fmt.Sprintf("%s|%s|%s|%s", issue.Center, issue.Field, issue.Source, msg)

	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

var (
	doubleQuoted = regexp.MustCompile(`"[^"]+"`)
	singleQuoted = regexp.MustCompile(`(^|\s)'([^']+)'(\s|$)`)
	numbers      = regexp.MustCompile(`\d+(\.\d+)?`)
)

// normalizeMessage replaces specific values with placeholders so similar
// messages share a fingerprint
func normalizeMessage(msg string) string {
	msg = doubleQuoted.ReplaceAllString(msg, `"*"`)
	msg = singleQuoted.ReplaceAllString(msg, `$1'*'$3`)
	msg = numbers.ReplaceAllString(msg, `N`)
	msg = strings.Join(strings.Fields(msg), " ")
	return msg
}
