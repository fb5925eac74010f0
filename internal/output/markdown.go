package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/lemon6243/customer-center-dashboard/internal/pipeline"
	"github.com/lemon6243/customer-center-dashboard/internal/types"
)

// MarkdownFormatter formats output as Markdown
type MarkdownFormatter struct {
	verbose    bool
	outputFile string
	out        io.Writer
	now        func() time.Time
}

// NewMarkdownFormatter creates a new MarkdownFormatter
func NewMarkdownFormatter(verbose bool, outputFile string, w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{
		verbose:    verbose,
		outputFile: outputFile,
		out:        orStdout(w),
		now:        time.Now,
	}
}

// Format writes the report as a Markdown document
func (f *MarkdownFormatter) Format(report *pipeline.Report) error {
	var builder strings.Builder

	builder.WriteString("# Customer Center Score Report\n\n")
	builder.WriteString(fmt.Sprintf("**Generated:** %s\n\n", f.now().Format("2006-01-02 15:04:05")))
	builder.WriteString(fmt.Sprintf("**Target:** %g / %g\n\n", types.TargetScore, types.MaxTotal))
	builder.WriteString(strings.Repeat("-", 50) + "\n\n")

	writeMarkdownTable(&builder, DataTable(report))

	tables := Tables(report)
	if f.verbose && len(tables) > 1 {
		builder.WriteString("### Sections\n\n")
		for _, t := range tables {
			builder.WriteString(fmt.Sprintf("- [%s](#%s)\n", t.Title, createAnchor(t.Title)))
		}
		builder.WriteString("\n")
	}

	for _, t := range tables {
		writeMarkdownTable(&builder, t)
	}

	if report.BaselineIgnored > 0 {
		builder.WriteString(fmt.Sprintf("*%d known warnings suppressed by baseline.*\n\n", report.BaselineIgnored))
	}

	if passed, total, noun, ok := onTarget(report); ok && total > 0 {
		builder.WriteString("## Conclusion\n\n")
		if passed == total {
			builder.WriteString(fmt.Sprintf("✅ All %d %s on target\n", total, noun))
		} else {
			builder.WriteString(fmt.Sprintf("❌ %d of %d %s below %g\n", total-passed, total, noun, types.TargetScore))
		}
	}

	return writeOutput(f.out, f.outputFile, []byte(builder.String()))
}

func writeMarkdownTable(b *strings.Builder, t Table) {
	b.WriteString(fmt.Sprintf("## %s\n\n", t.Title))
	if len(t.Rows) == 0 {
		b.WriteString("*None.*\n\n")
		return
	}

	b.WriteString("|")
	for _, h := range t.Headers {
		b.WriteString(" " + escapeCell(h) + " |")
	}
	b.WriteString("\n|")
	for range t.Headers {
		b.WriteString("---|")
	}
	b.WriteString("\n")

	for _, row := range stringRows(t) {
		b.WriteString("|")
		for _, c := range row {
			b.WriteString(" " + escapeCell(c) + " |")
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// createAnchor creates a markdown-safe anchor
func createAnchor(text string) string {
	anchor := strings.ToLower(text)
	anchor = strings.ReplaceAll(anchor, " ", "-")
	anchor = strings.ReplaceAll(anchor, ".", "")
	anchor = strings.ReplaceAll(anchor, "/", "-")
	return anchor
}
