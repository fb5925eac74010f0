package output

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lemon6243/customer-center-dashboard/internal/pipeline"
)

// YAMLFormatter formats output as YAML
type YAMLFormatter struct {
	outputFile string
	out        io.Writer
	now        func() time.Time
}

// NewYAMLFormatter creates a new YAMLFormatter
func NewYAMLFormatter(outputFile string, w io.Writer) *YAMLFormatter {
	return &YAMLFormatter{
		outputFile: outputFile,
		out:        orStdout(w),
		now:        time.Now,
	}
}

// Format writes the report as a YAML document
func (f *YAMLFormatter) Format(report *pipeline.Report) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(newDocument(report, f.now())); err != nil {
		return fmt.Errorf("error marshaling YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("error marshaling YAML: %w", err)
	}
	return writeOutput(f.out, f.outputFile, buf.Bytes())
}
