// Package pipeline runs validation, scoring, prediction and aggregation over a record set.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lemon6243/customer-center-dashboard/internal/analysis"
	"github.com/lemon6243/customer-center-dashboard/internal/baseline"
	"github.com/lemon6243/customer-center-dashboard/internal/predict"
	"github.com/lemon6243/customer-center-dashboard/internal/risk"
	"github.com/lemon6243/customer-center-dashboard/internal/scoring"
	"github.com/lemon6243/customer-center-dashboard/internal/types"
	"github.com/lemon6243/customer-center-dashboard/internal/validate"
)

// OrchestratorConfig holds configuration for the pipeline.
type OrchestratorConfig struct {
	Sections        Sections
	ExpectedCenters int
	WeakThreshold   float64
	Concurrency     int
	Parallel        bool

	// RankMonth selects the ranking month; the zero value means the latest month.
	RankMonth types.Month
	// Center restricts suggestions to one center when set.
	Center string

	UseBaseline    bool
	CreateBaseline bool
	BaselinePath   string
}

// Orchestrator coordinates a single report run.
type Orchestrator struct {
	opts   OrchestratorConfig
	log    zerolog.Logger
	scorer scoring.Scorer
	cache  *analysis.CorrelationCache
}

// NewOrchestrator creates a new pipeline orchestrator.
func NewOrchestrator(opts OrchestratorConfig, log zerolog.Logger) *Orchestrator {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Orchestrator{
		opts:   opts,
		log:    log,
		scorer: scoring.NewCalculator(),
		cache:  analysis.NewCorrelationCache(),
	}
}

// Validate checks records and applies the baseline. Ingest issues are merged in.
func (o *Orchestrator) Validate(records []types.Record, ingestIssues []types.Issue) (*Report, error) {
	o.log.Debug().Int("records", len(records)).Msg("validating")

	v, err := validate.New(validate.Options{ExpectedCenters: o.opts.ExpectedCenters})
	if err != nil {
		return nil, err
	}
	found, err := v.Validate(records)
	if err != nil {
		return nil, fmt.Errorf("validating records: %w", err)
	}
	issues := append(append([]types.Issue{}, ingestIssues...), found...)
	validate.Sort(issues)

	report := &Report{Data: analysis.Describe(records)}

	if o.opts.CreateBaseline {
		if err := o.saveBaseline(issues); err != nil {
			return nil, err
		}
	}

	b, err := o.loadBaseline()
	if err != nil {
		o.log.Warn().Err(err).Msg("failed to load baseline")
	}
	issues, report.BaselineIgnored = b.Filter(issues)
	report.Issues = issues

	for _, is := range issues {
		if is.Severity == types.SeverityWarning {
			o.log.Warn().Str("center", is.Center).Str("month", is.Month).Str("field", is.Field).Msg(is.Message)
		}
	}
	if report.BaselineIgnored > 0 {
		o.log.Info().Int("ignored", report.BaselineIgnored).Msg("baseline warnings suppressed")
	}
	return report, nil
}

// Run validates, scores and aggregates records into a report. When any issue
// has error severity, nothing is scored and a *ValidationFailedError is returned.
func (o *Orchestrator) Run(ctx context.Context, records []types.Record, ingestIssues []types.Issue) (*Report, error) {
	report, err := o.Validate(records, ingestIssues)
	if err != nil {
		return nil, err
	}
	if errs, _ := validate.Split(report.Issues); len(errs) > 0 {
		return nil, &ValidationFailedError{Issues: errs}
	}

	scored, err := o.score(ctx, records)
	if err != nil {
		return nil, err
	}
	o.log.Info().Int("records", len(scored)).Int("centers", report.Data.TotalCenters).Msg("scored")

	sec := o.opts.Sections
	if sec.Scores {
		report.Scores = make([]ScoreRow, 0, len(scored))
		for _, s := range scored {
			report.Scores = append(report.Scores, NewScoreRow(s))
		}
	}
	if sec.Risk {
		if report.Risk, err = o.riskRows(ctx, scored); err != nil {
			return nil, err
		}
	}
	if sec.Annual {
		report.Finals = finalRows(scored)
		report.Annual = analysis.Annual(scored)
	}
	if sec.Ranking {
		report.Ranking = o.ranking(scored)
	}
	if sec.Trends {
		report.Trends = analysis.MonthlyTrends(scored)
	}
	if sec.Suggestions {
		report.Suggestions = o.suggestions(scored)
	}
	if sec.Summary {
		summary := analysis.Summarize(scored)
		report.Summary = &summary
		matrix, hit := o.cache.Get(scored)
		o.log.Debug().Bool("cache_hit", hit).Msg("correlation matrix")
		report.Correlation = &matrix
	}
	return report, nil
}

// score scores every record, in parallel when enabled. Output keeps input order.
func (o *Orchestrator) score(ctx context.Context, records []types.Record) ([]scoring.ScoredRecord, error) {
	out := make([]scoring.ScoredRecord, len(records))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.limit())
	for i, rec := range records {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = o.scorer.Score(rec)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scoring: %w", err)
	}
	return out, nil
}

// riskRows predicts and classifies the latest record of every center,
// most severe first.
func (o *Orchestrator) riskRows(ctx context.Context, scored []scoring.ScoredRecord) ([]RiskRow, error) {
	latest := analysis.LatestPerCenter(scored)
	rows := make([]RiskRow, len(latest))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.limit())
	for i, s := range latest {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := predict.ForRecord(s)
			if err != nil {
				return fmt.Errorf("%s: %w", s.Key(), err)
			}
			rows[i] = NewRiskRow(s, p, risk.Assess(p))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("predicting: %w", err)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Severity != rows[j].Severity {
			return rows[i].Severity > rows[j].Severity
		}
		return rows[i].Predicted < rows[j].Predicted
	})
	return rows, nil
}

func (o *Orchestrator) limit() int {
	if !o.opts.Parallel {
		return 1
	}
	return o.opts.Concurrency
}

func (o *Orchestrator) ranking(scored []scoring.ScoredRecord) *RankingReport {
	month := o.opts.RankMonth
	if month == (types.Month{}) {
		latest, ok := analysis.LatestMonth(scored)
		if !ok {
			return &RankingReport{}
		}
		month = latest
	}
	return &RankingReport{
		Month:    month.String(),
		Rankings: analysis.RankChanges(scored, month),
	}
}

func (o *Orchestrator) suggestions(scored []scoring.ScoredRecord) []analysis.Improvement {
	all := analysis.SuggestBelowTarget(scored, o.opts.WeakThreshold)
	if o.opts.Center == "" {
		return all
	}
	out := []analysis.Improvement{}
	for _, imp := range all {
		if imp.Center == o.opts.Center {
			out = append(out, imp)
		}
	}
	return out
}

func finalRows(scored []scoring.ScoredRecord) []FinalRow {
	finals := analysis.PeriodFinals(scored)
	rows := make([]FinalRow, 0, len(finals))
	for _, f := range finals {
		rows = append(rows, FinalRow{
			Center: f.Center,
			Year:   f.Year,
			Period: f.Period,
			Month:  f.Record.Month.String(),
			Total:  f.Record.Total,
			Passed: f.Record.Passed,
		})
	}
	return rows
}

// loadBaseline loads the baseline file if baseline mode is enabled.
func (o *Orchestrator) loadBaseline() (*baseline.Baseline, error) {
	if !o.opts.UseBaseline || o.opts.CreateBaseline {
		return nil, nil
	}
	if _, err := os.Stat(o.baselinePath()); err != nil {
		return nil, nil // File doesn't exist, not an error
	}
	return baseline.LoadBaseline(o.baselinePath())
}

// saveBaseline snapshots the current warnings.
func (o *Orchestrator) saveBaseline(issues []types.Issue) error {
	b := baseline.CreateBaseline(issues)
	if err := b.SaveBaseline(o.baselinePath()); err != nil {
		return fmt.Errorf("failed to save baseline: %w", err)
	}
	o.log.Info().Str("path", o.baselinePath()).Int("fingerprints", len(b.Fingerprints)).Msg("baseline created")
	return nil
}

func (o *Orchestrator) baselinePath() string {
	if o.opts.BaselinePath == "" {
		return baseline.DefaultPath
	}
	return o.opts.BaselinePath
}
