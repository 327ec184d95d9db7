package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/sentinel/internal/ui/pretty"
	"github.com/yaklabco/sentinel/pkg/lint"
	"github.com/yaklabco/sentinel/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to scan."))
		}
		return 0, nil
	}

	var total int
	for _, file := range result.Files {
		total += r.reportFile(file)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return total, nil
}

func (r *TextReporter) reportFile(file runner.FileOutcome) int {
	path := r.opts.displayPath(file.Path)

	if file.Error != nil {
		fmt.Fprintf(r.bw, "%s: %s\n",
			r.styles.FilePath.Render(path),
			r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
		)
		return 0
	}

	pr := file.Result
	if pr == nil {
		return 0
	}

	if pr.Skipped && noteworthySkip(pr.SkipReason) {
		fmt.Fprintf(r.bw, "%s: %s\n",
			r.styles.FilePath.Render(path),
			r.styles.Warning.Render("skipped: "+pr.SkipReason),
		)
	}

	if pr.FileResult == nil || !pr.HasIssues() {
		return 0
	}

	if r.opts.GroupByFile {
		fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, pr.IssueCount()))
	}

	for _, diag := range pr.Diagnostics {
		diag.FilePath = path

		var sourceLine string
		if r.opts.ShowContext && pr.Index != nil {
			sourceLine = pr.Index.Line(diag.StartLine)
		}

		fmt.Fprint(r.bw, r.styles.FormatFinding(&diag, r.opts.ShowContext, sourceLine))
	}

	if r.opts.GroupByFile {
		fmt.Fprintln(r.bw)
	}

	return pr.IssueCount()
}

// noteworthySkip reports whether a skip is worth telling the user about.
// Files in languages that are not scanned are skipped silently.
func noteworthySkip(reason string) bool {
	return reason == lint.SkipModified || reason == lint.ErrBudgetExceeded.Error()
}
