package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/sentinel/pkg/config"
	"github.com/yaklabco/sentinel/pkg/lint"
	"github.com/yaklabco/sentinel/pkg/rules"
)

// FormatFinding formats a single diagnostic for terminal output:
//
//	path:line:col  warning  .at(-1) (risky) @16  reason  (array-at)
//
// followed by the source line and a caret when showContext is set, and the
// quick fix when the rule has one.
func (s *Styles) FormatFinding(diag *lint.Diagnostic, showContext bool, sourceLine string) string {
	var builder strings.Builder

	location := s.FilePath.Render(diag.FilePath) +
		s.Location.Render(fmt.Sprintf(":%d:%d", diag.StartLine, diag.StartColumn))

	fmt.Fprintf(&builder, "  %s  %s  %s  %s  %s\n",
		location,
		s.FormatSeverity(diag.Severity),
		s.FormatFeature(diag.Match, diag.Status, diag.Start),
		s.Message.Render(diag.Reason),
		s.RuleID.Render("("+diag.RuleID+")"),
	)

	if showContext && sourceLine != "" {
		builder.WriteString(s.FormatSourceContext(sourceLine, diag.StartColumn))
	}

	if diag.Suggestion != "" {
		builder.WriteString("    " + s.Dim.Render("Quick fix:") + " " +
			s.Suggestion.Render(diag.Suggestion) + "\n")
	}

	return builder.String()
}

// FormatFeature renders a finding the way the batch scanner always has:
// the matched text, its status and its character offset.
func (s *Styles) FormatFeature(match string, status rules.Status, offset int) string {
	return fmt.Sprintf("%s %s %s",
		s.Match.Render(match),
		s.FormatStatus(status, "("+status.String()+")"),
		s.Dim.Render(fmt.Sprintf("@%d", offset)),
	)
}

// FormatStatus renders text in the color of status.
func (s *Styles) FormatStatus(status rules.Status, text string) string {
	switch status {
	case rules.StatusSafe:
		return s.Safe.Render(text)
	case rules.StatusRisky:
		return s.Risky.Render(text)
	case rules.StatusUnsupported:
		return s.Unsupported.Render(text)
	default:
		return text
	}
}

// FormatSeverity returns a styled severity string.
func (s *Styles) FormatSeverity(sev config.Severity) string {
	switch sev {
	case config.SeverityError:
		return s.Error.Render("error")
	case config.SeverityWarning:
		return s.Warning.Render("warning")
	case config.SeverityInfo:
		return s.Info.Render("info")
	default:
		return string(sev)
	}
}

// FormatSourceContext formats the source line with a caret marker.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder

	const indent = "        "

	builder.WriteString(indent + s.SourceLine.Render(line) + "\n")

	if column > 0 {
		padding := indent + strings.Repeat(" ", column-1)
		builder.WriteString(padding + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, count int) string {
	header := s.FilePath.Render(path)
	switch {
	case count == 1:
		header += s.Dim.Render(" (1 finding)")
	case count > 1:
		header += s.Dim.Render(fmt.Sprintf(" (%d findings)", count))
	}
	return header
}
