package outputters

import (
	"fmt"
	"io"
	"os"

	"github.com/lemon6243/customer-center-dashboard/internal/config"
	"github.com/lemon6243/customer-center-dashboard/internal/output"
	"github.com/lemon6243/customer-center-dashboard/internal/pipeline"
)

// Formatter renders a report in one output format.
type Formatter = output.Formatter

// FormatterFactory creates formatters by format name.
type FormatterFactory interface {
	CreateFormatter(format string) (Formatter, error)
}

// DefaultFormatterFactory builds the formatters of the output package from config.
type DefaultFormatterFactory struct {
	config *config.Config
	out    io.Writer
}

// NewDefaultFormatterFactory creates a factory writing text formats to stdout.
func NewDefaultFormatterFactory(cfg *config.Config) *DefaultFormatterFactory {
	return &DefaultFormatterFactory{config: cfg, out: os.Stdout}
}

// CreateFormatter returns the formatter for format.
func (f *DefaultFormatterFactory) CreateFormatter(format string) (Formatter, error) {
	switch format {
	case "console":
		return output.NewConsoleFormatter(f.config.Quiet, f.config.Verbose, f.out), nil
	case "json":
		return output.NewJSONFormatter(true, f.config.Output, f.out), nil
	case "markdown":
		return output.NewMarkdownFormatter(f.config.Verbose, f.config.Output, f.out), nil
	case "yaml":
		return output.NewYAMLFormatter(f.config.Output, f.out), nil
	case "xlsx":
		return output.NewXLSXFormatter(f.config.Output), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// Outputter handles output formatting
type Outputter struct {
	config  *config.Config
	factory FormatterFactory
}

// NewOutputter creates a new Outputter
func NewOutputter(cfg *config.Config) *Outputter {
	return NewOutputterWithFactory(cfg, NewDefaultFormatterFactory(cfg))
}

// NewOutputterWithFactory creates an Outputter with a custom factory.
func NewOutputterWithFactory(cfg *config.Config, factory FormatterFactory) *Outputter {
	return &Outputter{
		config:  cfg,
		factory: factory,
	}
}

// Format renders the report in the configured format.
func (o *Outputter) Format(report *pipeline.Report) error {
	if report == nil {
		report = &pipeline.Report{}
	}
	formatter, err := o.factory.CreateFormatter(o.config.Format)
	if err != nil {
		return err
	}
	return formatter.Format(report)
}
