package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/sentinel/pkg/rules"
	"github.com/yaklabco/sentinel/pkg/runner"
)

const (
	wordFile  = "file"
	wordFiles = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "5 findings (1 unsupported, 3 risky, 1 safe) in 3 files, 4 fixable".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.FindingsTotal == 0 {
		msg := s.Success.Render("No findings") +
			s.Dim.Render(fmt.Sprintf(" (%d %s checked)", stats.FilesProcessed, plural(stats.FilesProcessed, wordFile, wordFiles)))
		if stats.Replacements > 0 {
			msg += ", " + s.formatFixed(stats)
		}
		return msg + "\n"
	}

	parts := []string{fmt.Sprintf("%s (%s) in %s",
		s.SummaryTitle.Render(fmt.Sprintf("%d %s", stats.FindingsTotal, plural(stats.FindingsTotal, "finding", "findings"))),
		s.FormatStatusBreakdown(stats.FindingsByStatus),
		s.SummaryValue.Render(fmt.Sprintf("%d %s", stats.FilesWithFindings, plural(stats.FilesWithFindings, wordFile, wordFiles))),
	)}

	if stats.FindingsFixable > 0 {
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d fixable", stats.FindingsFixable)))
	}
	if stats.Replacements > 0 {
		parts = append(parts, s.formatFixed(stats))
	}
	if stats.FilesSkipped > 0 {
		parts = append(parts, s.Dim.Render(fmt.Sprintf("%d skipped", stats.FilesSkipped)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d failed", stats.FilesErrored)))
	}

	return strings.Join(parts, ", ") + "\n"
}

func (s *Styles) formatFixed(stats runner.Stats) string {
	return s.Success.Render(fmt.Sprintf("%d %s in %d %s",
		stats.Replacements,
		plural(stats.Replacements, "replacement", "replacements"),
		stats.FilesModified,
		plural(stats.FilesModified, wordFile, wordFiles)))
}

// FormatStatusBreakdown renders non-zero status counts, most severe first.
func (s *Styles) FormatStatusBreakdown(counts map[rules.Status]int) string {
	var parts []string
	for _, status := range []rules.Status{rules.StatusUnsupported, rules.StatusRisky, rules.StatusSafe} {
		if n := counts[status]; n > 0 {
			parts = append(parts, s.FormatStatus(status, fmt.Sprintf("%d %s", n, status)))
		}
	}
	if n := counts[""]; n > 0 {
		parts = append(parts, fmt.Sprintf("%d unknown", n))
	}
	return strings.Join(parts, ", ")
}
