package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lemon6243/customer-center-dashboard/internal/pipeline"
	"github.com/lemon6243/customer-center-dashboard/internal/risk"
	"github.com/lemon6243/customer-center-dashboard/internal/types"
)

// ConsoleFormatter formats output for console display
type ConsoleFormatter struct {
	quiet    bool
	verbose  bool
	out      io.Writer
	renderer *lipgloss.Renderer
}

// NewConsoleFormatter creates a new ConsoleFormatter writing to w.
// Colours are used only when w is a terminal.
func NewConsoleFormatter(quiet, verbose bool, w io.Writer) *ConsoleFormatter {
	w = orStdout(w)
	return &ConsoleFormatter{
		quiet:    quiet,
		verbose:  verbose,
		out:      w,
		renderer: lipgloss.NewRenderer(w),
	}
}

// Format prints the report sections as tables.
// Quiet mode prints the tables alone.
func (f *ConsoleFormatter) Format(report *pipeline.Report) error {
	if !f.quiet {
		f.printHeader(report)
		f.printIssues(report)
	}

	for _, t := range Tables(report) {
		if t.Name == "Issues" {
			continue
		}
		f.printTable(t)
	}

	if !f.quiet {
		f.printConclusion(report)
	}
	return nil
}

func (f *ConsoleFormatter) style() lipgloss.Style {
	return f.renderer.NewStyle()
}

// printHeader prints the data coverage line, or the full data table when verbose
func (f *ConsoleFormatter) printHeader(report *pipeline.Report) {
	if f.verbose {
		f.printTable(DataTable(report))
		return
	}
	d := report.Data
	if d.TotalCenters == 0 {
		fmt.Fprintln(f.out, "No records.")
		return
	}
	fmt.Fprintf(f.out, "%d centers, %s to %s (%d months)\n\n", d.TotalCenters, d.FirstMonth, d.LatestMonth, d.TotalMonths)
}

// printIssues lists validation issues. Warnings suppressed by the baseline are counted only.
func (f *ConsoleFormatter) printIssues(report *pipeline.Report) {
	if len(report.Issues) == 0 && report.BaselineIgnored == 0 {
		return
	}
	for _, is := range report.Issues {
		var style lipgloss.Style
		prefix := "⚠ "
		switch is.Severity {
		case types.SeverityError:
			style = f.style().Foreground(lipgloss.Color("9")) // red
			prefix = "✘ "
		case types.SeverityWarning:
			style = f.style().Foreground(lipgloss.Color("3")) // yellow
		default:
			style = f.style().Foreground(lipgloss.Color("7")) // gray
			prefix = "  "
		}
		fmt.Fprintf(f.out, "%s%s\n", style.Render(prefix), is.String())
	}
	if report.BaselineIgnored > 0 {
		fmt.Fprintf(f.out, "%d known warnings suppressed by baseline\n", report.BaselineIgnored)
	}
	fmt.Fprintln(f.out)
}

func (f *ConsoleFormatter) printTable(t Table) {
	title := f.style().Bold(true)
	fmt.Fprintln(f.out, title.Render(t.Title))

	if len(t.Rows) == 0 {
		fmt.Fprintln(f.out, "(none)")
		fmt.Fprintln(f.out)
		return
	}

	rows := stringRows(t)
	tierCol := t.Column("Tier")
	passCol := t.Column("Pass")
	cell := f.style().Padding(0, 1)
	header := cell.Bold(true)

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(f.style().Foreground(lipgloss.Color("8"))).
		Headers(t.Headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			if row < 0 || row >= len(rows) {
				return cell
			}
			switch col {
			case tierCol:
				return cell.Inherit(f.tierStyle(risk.Tier(rows[row][col])))
			case passCol:
				if rows[row][col] == "yes" {
					return cell.Foreground(lipgloss.Color("10"))
				}
				return cell.Foreground(lipgloss.Color("9"))
			}
			return cell
		})

	fmt.Fprintln(f.out, tbl.Render())
	fmt.Fprintln(f.out)
}

// tierStyle colours a risk tier from green to bold red.
func (f *ConsoleFormatter) tierStyle(tier risk.Tier) lipgloss.Style {
	s := f.style()
	switch tier {
	case risk.Safe:
		return s.Foreground(lipgloss.Color("10"))
	case risk.Good:
		return s.Foreground(lipgloss.Color("14"))
	case risk.Caution:
		return s.Foreground(lipgloss.Color("11"))
	case risk.Warning:
		return s.Foreground(lipgloss.Color("208"))
	case risk.AtRisk:
		return s.Foreground(lipgloss.Color("9"))
	case risk.Critical:
		return s.Foreground(lipgloss.Color("1")).Bold(true)
	default:
		return s
	}
}

// printConclusion prints the one-line outcome
func (f *ConsoleFormatter) printConclusion(report *pipeline.Report) {
	passed, total, noun, ok := onTarget(report)
	if !ok {
		if report.Ranking != nil || report.Trends != nil || report.Suggestions != nil {
			return
		}
		errs, warnings := countIssues(report.Issues)
		if errs == 0 {
			f.printSuccess(fmt.Sprintf("✓ No validation errors (%d warnings)", warnings))
			return
		}
		fmt.Fprintf(f.out, "%s\n", f.style().Foreground(lipgloss.Color("9")).Render(
			fmt.Sprintf("✘ %d validation errors, %d warnings", errs, warnings)))
		return
	}
	if total == 0 {
		return
	}
	if passed == total {
		msg := fmt.Sprintf("✓ All %d %s on target", total, noun)
		if isTTY(f.out) {
			printCelebration(f.out, f.renderer, msg)
			return
		}
		f.printSuccess(msg)
		return
	}
	below := f.style().Bold(true).Foreground(lipgloss.Color("9"))
	fmt.Fprintln(f.out, below.Render(fmt.Sprintf("%d of %d %s below %g", total-passed, total, noun, types.TargetScore)))
}

func (f *ConsoleFormatter) printSuccess(msg string) {
	fmt.Fprintln(f.out, f.style().Bold(true).Foreground(lipgloss.Color("10")).Render(msg))
}

// onTarget counts centers on target from the most specific section available.
// Risk rows use the predicted period-end score and annual rows the yearly average.
func onTarget(report *pipeline.Report) (passed, total int, noun string, ok bool) {
	switch {
	case report.Summary != nil:
		return report.Summary.PassedCenters, report.Summary.TotalCenters, "centers", true
	case report.Risk != nil:
		for _, r := range report.Risk {
			if r.Predicted >= types.TargetScore {
				passed++
			}
		}
		return passed, len(report.Risk), "centers", true
	case report.Scores != nil:
		for _, s := range report.Scores {
			if s.Passed {
				passed++
			}
		}
		return passed, len(report.Scores), "records", true
	case report.Annual != nil:
		for _, a := range report.Annual {
			if a.RenewalEligible {
				passed++
			}
		}
		return passed, len(report.Annual), "annual evaluations", true
	}
	return 0, 0, "", false
}

func countIssues(issues []types.Issue) (errs, warnings int) {
	for _, is := range issues {
		switch is.Severity {
		case types.SeverityError:
			errs++
		case types.SeverityWarning:
			warnings++
		}
	}
	return errs, warnings
}
