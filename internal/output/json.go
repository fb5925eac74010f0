package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/lemon6243/customer-center-dashboard/internal/pipeline"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	indent     bool
	outputFile string
	out        io.Writer
	now        func() time.Time
}

// NewJSONFormatter creates a new JSONFormatter. Output goes to outputFile
// when set, otherwise to w.
func NewJSONFormatter(indent bool, outputFile string, w io.Writer) *JSONFormatter {
	return &JSONFormatter{
		indent:     indent,
		outputFile: outputFile,
		out:        orStdout(w),
		now:        time.Now,
	}
}

// Format writes the report as a JSON document
func (f *JSONFormatter) Format(report *pipeline.Report) error {
	doc := newDocument(report, f.now())

	var data []byte
	var err error
	if f.indent {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}

	return writeOutput(f.out, f.outputFile, append(data, '\n'))
}

func newDocument(report *pipeline.Report, now time.Time) Document {
	return Document{
		Header: Header{
			Tool:      ToolName,
			Version:   ToolVersion,
			Timestamp: now.Format(time.RFC3339),
		},
		Report: report,
	}
}
