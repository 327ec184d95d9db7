package lint

import (
	"slices"

	"github.com/yaklabco/sentinel/pkg/config"
	"github.com/yaklabco/sentinel/pkg/langdetect"
	"github.com/yaklabco/sentinel/pkg/position"
	"github.com/yaklabco/sentinel/pkg/rules"
)

// Diagnostic is a finding placed in a file and given a severity.
type Diagnostic struct {
	rules.Finding

	FilePath string

	// 1-based line and character column of the match.
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int

	Severity config.Severity

	// Suggestion is the rule's quick-fix text, if any.
	Suggestion string

	// Link is the rule's documentation URL, if any.
	Link string
}

// HasFix returns true if the diagnostic offers a quick fix.
func (d Diagnostic) HasFix() bool {
	return d.Suggestion != ""
}

// FileResult contains the results of scanning a single file.
type FileResult struct {
	Path     string
	Language langdetect.Language

	// Diagnostics are ordered by position.
	Diagnostics []Diagnostic

	// Replacements made by --fix, in the order they were made.
	Replacements []rules.Replacement

	// Index maps offsets of the scanned content to lines.
	Index *position.Index
}

// HasIssues returns true if any diagnostics were found.
func (fr *FileResult) HasIssues() bool {
	return len(fr.Diagnostics) > 0
}

// IssueCount returns the total number of diagnostics.
func (fr *FileResult) IssueCount() int {
	return len(fr.Diagnostics)
}

// FixableCount returns the number of diagnostics with a quick fix.
func (fr *FileResult) FixableCount() int {
	count := 0
	for _, d := range fr.Diagnostics {
		if d.HasFix() {
			count++
		}
	}
	return count
}

// CountByStatus returns the number of diagnostics per rule status.
func (fr *FileResult) CountByStatus() map[rules.Status]int {
	counts := make(map[rules.Status]int)
	for _, d := range fr.Diagnostics {
		counts[d.Status]++
	}
	return counts
}

// newFileResult turns findings into position-ordered diagnostics.
func newFileResult(
	path string,
	lang langdetect.Language,
	content string,
	findings []rules.Finding,
	rs []rules.Rule,
	cfg *config.Config,
) *FileResult {
	idx := position.NewIndex(content)
	byID := make(map[string]rules.Rule, len(rs))
	for _, r := range rs {
		if _, ok := byID[r.ID]; !ok {
			byID[r.ID] = r
		}
	}

	sorted := slices.Clone(findings)
	SortFindings(sorted)

	diags := make([]Diagnostic, 0, len(sorted))
	for _, f := range sorted {
		startLine, startCol := idx.Position(f.Start)
		endLine, endCol := idx.Position(f.End)
		r := byID[f.RuleID]
		diags = append(diags, Diagnostic{
			Finding:     f,
			FilePath:    path,
			StartLine:   startLine,
			StartColumn: startCol,
			EndLine:     endLine,
			EndColumn:   endCol,
			Severity:    cfg.SeverityFor(f.Status),
			Suggestion:  r.Fix,
			Link:        r.Link,
		})
	}

	return &FileResult{
		Path:        path,
		Language:    lang,
		Diagnostics: diags,
		Index:       idx,
	}
}
