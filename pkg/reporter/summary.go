package reporter

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/sentinel/internal/ui/pretty"
	"github.com/yaklabco/sentinel/pkg/analysis"
	"github.com/yaklabco/sentinel/pkg/rules"
)

const (
	maxFilePathLength = 58
	fixableMark       = "✓"
)

var _ Renderer = (*SummaryRenderer)(nil)

// SummaryRenderer renders aggregate tables: findings per status, per rule and
// per file.
type SummaryRenderer struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewSummaryRenderer creates a new summary renderer.
func NewSummaryRenderer(opts Options) *SummaryRenderer {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryRenderer{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

// Render implements Renderer.
func (r *SummaryRenderer) Render(_ context.Context, report *analysis.Report) error {
	if !report.Totals.HasFindings() {
		_, err := fmt.Fprintln(r.out, r.styles.Success.Render("No findings")+
			r.styles.Dim.Render(fmt.Sprintf(" (%d files checked)", report.Totals.Files)))
		return err
	}

	sections := []string{
		r.section("Findings by Status", r.statusTable(report.Totals)),
		r.section("Rules", r.ruleTable(report.ByRule)),
		r.section("Files", r.fileTable(report.ByFile)),
		r.totals(report.Totals),
	}

	_, err := fmt.Fprintln(r.out, strings.Join(sections, "\n\n"))
	return err
}

func (r *SummaryRenderer) section(title, body string) string {
	return r.styles.SummaryTitle.Render(title) + "\n" + body
}

// statusTable renders the status split with each status's share of the total.
func (r *SummaryRenderer) statusTable(totals analysis.Totals) string {
	statuses := []rules.Status{rules.StatusUnsupported, rules.StatusRisky, rules.StatusSafe}

	var rows [][]string
	var styles []rules.Status
	for _, s := range statuses {
		n := totals.Get(s)
		rows = append(rows, []string{s.String(), strconv.Itoa(n), percent(n, totals.Findings)})
		styles = append(styles, s)
	}
	if totals.Unknown > 0 {
		rows = append(rows, []string{"unknown", strconv.Itoa(totals.Unknown), percent(totals.Unknown, totals.Findings)})
		styles = append(styles, "")
	}

	return r.styles.Table([]string{"Status", "Findings", "Share"}, rows, []int{1, 2}, func(row int) *lipgloss.Style {
		return r.statusStyle(styles[row])
	})
}

func (r *SummaryRenderer) ruleTable(ras []analysis.RuleAnalysis) string {
	rows := make([][]string, 0, len(ras))
	for _, ra := range ras {
		fixable := ""
		if ra.Fixable {
			fixable = fixableMark
		}
		rows = append(rows, []string{
			ra.RuleID,
			ra.Status.String(),
			strconv.Itoa(ra.Findings),
			strconv.Itoa(len(ra.Files)),
			fixable,
		})
	}

	return r.styles.Table([]string{"Rule", "Status", "Findings", "Files", "Quick fix"}, rows, []int{2, 3},
		func(row int) *lipgloss.Style {
			return r.statusStyle(ras[row].Status)
		})
}

func (r *SummaryRenderer) fileTable(files []analysis.FileAnalysis) string {
	rows := make([][]string, 0, len(files))
	for _, fa := range files {
		path := fa.Path
		if len(path) > maxFilePathLength {
			path = "…" + path[len(path)-(maxFilePathLength-1):]
		}
		rows = append(rows, []string{
			path,
			strconv.Itoa(fa.Findings),
			strconv.Itoa(fa.Unsupported),
			strconv.Itoa(fa.Risky),
			strconv.Itoa(fa.Safe),
		})
	}

	return r.styles.Table([]string{"File", "Findings", "Unsupported", "Risky", "Safe"}, rows, []int{1, 2, 3, 4}, nil)
}

func (r *SummaryRenderer) totals(totals analysis.Totals) string {
	line := r.styles.SummaryValue.Render(fmt.Sprintf("%d %s in %d %s",
		totals.Findings, pluralize(totals.Findings, "finding", "findings"),
		totals.FilesWithFindings, pluralize(totals.FilesWithFindings, "file", "files")))

	if totals.Fixable > 0 {
		line += ", " + r.styles.Success.Render(fmt.Sprintf("%d with a quick fix", totals.Fixable))
	}
	if totals.FilesSkipped > 0 {
		line += ", " + r.styles.Dim.Render(fmt.Sprintf("%d skipped", totals.FilesSkipped))
	}

	return r.styles.SummaryTitle.Render("Total: ") + line
}

func (r *SummaryRenderer) statusStyle(s rules.Status) *lipgloss.Style {
	var style lipgloss.Style
	switch s {
	case rules.StatusSafe:
		style = r.styles.Safe
	case rules.StatusRisky:
		style = r.styles.Risky
	case rules.StatusUnsupported:
		style = r.styles.Unsupported
	default:
		return nil
	}
	return &style
}

func percent(n, total int) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.0f%%", float64(n)*100/float64(total))
}
