package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strconv"

	"github.com/yaklabco/sentinel/internal/ui/pretty"
	"github.com/yaklabco/sentinel/pkg/runner"
)

// TableReporter lists every finding in a single table.
type TableReporter struct {
	opts   Options
	styles *pretty.Styles
}

// NewTableReporter creates a new table reporter.
func NewTableReporter(opts Options) *TableReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TableReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
	}
}

// Report implements Reporter.
func (r *TableReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	var rows [][]string
	if result != nil {
		for _, file := range result.Files {
			if file.Result == nil || file.Result.FileResult == nil {
				continue
			}
			path := r.opts.displayPath(file.Path)
			for _, d := range file.Result.Diagnostics {
				rows = append(rows, []string{
					path,
					fmt.Sprintf("%d:%d", d.StartLine, d.StartColumn),
					strconv.Itoa(d.Start),
					d.Match,
					d.Status.String(),
					d.RuleID,
				})
			}
		}
	}

	if len(rows) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(bw, r.styles.Success.Render("No findings"))
		}
		return 0, nil
	}

	fmt.Fprintln(bw, r.styles.Table(
		[]string{"File", "Line:Col", "Offset", "Feature", "Status", "Rule"},
		rows,
		[]int{2},
		nil,
	))

	if r.opts.ShowSummary {
		fmt.Fprint(bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return len(rows), nil
}
