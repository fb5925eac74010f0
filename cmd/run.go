package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/lemon6243/customer-center-dashboard/internal/config"
	"github.com/lemon6243/customer-center-dashboard/internal/ingest"
	"github.com/lemon6243/customer-center-dashboard/internal/logger"
	"github.com/lemon6243/customer-center-dashboard/internal/outputters"
	"github.com/lemon6243/customer-center-dashboard/internal/pipeline"
	"github.com/lemon6243/customer-center-dashboard/internal/types"
	"github.com/lemon6243/customer-center-dashboard/internal/validate"
)

// reportOptions selects what one command produces.
type reportOptions struct {
	sections pipeline.Sections
	// rankMonth is the zero Month for the latest month.
	rankMonth types.Month
	center    string
	// validateOnly stops after validation and reports the issues.
	validateOnly bool
}

// stderr receives validation failures; replaced in tests.
var stderr io.Writer = os.Stderr

// runReport is shared by every command: it loads config, reads the inputs,
// runs the pipeline and formats the resulting report.
func runReport(ctx context.Context, args []string, opts reportOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadConfig(args)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}

	log := newLogger(cfg)
	logger.SetGlobalLogger(log)

	files, err := ingest.Discover(cfg.Inputs)
	if err != nil {
		return fmt.Errorf("error discovering inputs: %w", err)
	}
	log.Debug().Int("files", len(files)).Msg("inputs discovered")

	records, ingestIssues, err := ingest.LoadFiles(files, ingest.Options{Sheet: cfg.Sheet})
	if err != nil {
		return fmt.Errorf("error reading inputs: %w", err)
	}
	log.Info().Int("records", len(records)).Int("issues", len(ingestIssues)).Msg("inputs loaded")

	orch := pipeline.NewOrchestrator(pipeline.OrchestratorConfig{
		Sections:        opts.sections,
		ExpectedCenters: cfg.ExpectedCenters,
		WeakThreshold:   cfg.WeakThreshold,
		Concurrency:     cfg.Concurrency,
		Parallel:        cfg.Parallel,
		RankMonth:       opts.rankMonth,
		Center:          opts.center,
		UseBaseline:     cfg.Baseline.Enabled,
		CreateBaseline:  cfg.Baseline.Create,
		BaselinePath:    cfg.Baseline.Path,
	}, log)

	var report *pipeline.Report
	if opts.validateOnly {
		report, err = orch.Validate(records, ingestIssues)
	} else {
		report, err = orch.Run(ctx, records, ingestIssues)
	}
	if err != nil {
		var vfe *pipeline.ValidationFailedError
		if errors.As(err, &vfe) {
			printIssues(vfe.Issues)
		}
		return err
	}

	outputter := outputters.NewOutputter(cfg)
	if err := outputter.Format(report); err != nil {
		return fmt.Errorf("error formatting output: %w", err)
	}

	if opts.validateOnly {
		if errs, _ := validate.Split(report.Issues); len(errs) > 0 {
			return &pipeline.ValidationFailedError{Issues: errs}
		}
	}
	return nil
}

// newLogger honours --verbose by raising the default level to info.
func newLogger(cfg *config.Config) zerolog.Logger {
	level := cfg.LogLevel
	if cfg.Verbose && level == "warn" {
		level = "info"
	}
	return logger.New(logger.Config{Level: level, Pretty: true, Out: os.Stderr})
}

func printIssues(issues []types.Issue) {
	for _, is := range issues {
		fmt.Fprintf(stderr, "✘ %s\n", is.String())
	}
}
