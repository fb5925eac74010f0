// Package output renders score reports as console text, JSON, YAML, Markdown or spreadsheets.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/x/term"

	"github.com/lemon6243/customer-center-dashboard/internal/pipeline"
)

const (
	ToolName    = "ccscore"
	ToolVersion = "1.0.0"
)

// Formatter renders a report.
type Formatter interface {
	Format(report *pipeline.Report) error
}

// Header identifies the tool run in structured output.
type Header struct {
	Tool      string `json:"tool" yaml:"tool"`
	Version   string `json:"version" yaml:"version"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
}

// Document is the top-level structure of JSON and YAML output.
type Document struct {
	Header Header           `json:"header" yaml:"header"`
	Report *pipeline.Report `json:"report" yaml:"report"`
}

// writeOutput writes data to outputFile, or to w when no file is set.
func writeOutput(w io.Writer, outputFile string, data []byte) error {
	if outputFile != "" {
		if err := os.WriteFile(outputFile, data, 0644); err != nil {
			return fmt.Errorf("error writing to file %s: %w", outputFile, err)
		}
		return nil
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("error writing output: %w", err)
	}
	return nil
}

func orStdout(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}
