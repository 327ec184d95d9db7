package analysis

import (
	"time"

	"github.com/yaklabco/sentinel/pkg/rules"
)

// Report contains pre-computed views of scan results.
// Computed once by Analyze, used by all renderers.
type Report struct {
	// Findings is the flat list for detailed output.
	Findings []FindingEntry `json:"findings"`

	// ByFile groups findings by file path.
	ByFile []FileAnalysis `json:"byFile,omitempty"`

	// ByRule groups findings by rule.
	ByRule []RuleAnalysis `json:"byRule,omitempty"`

	// Skipped lists files that were not scanned, with the reason.
	Skipped []SkippedFile `json:"skipped,omitempty"`

	// Errors lists files that could not be processed.
	Errors []FileError `json:"errors,omitempty"`

	// Totals contains aggregate statistics.
	Totals Totals `json:"summary"`

	// Version is the report format version.
	Version string `json:"version"`

	// Timestamp is when the analysis was performed.
	Timestamp time.Time `json:"timestamp"`
}

// FindingEntry is a single finding in the report.
type FindingEntry struct {
	FilePath    string       `json:"filePath"`
	RuleID      string       `json:"ruleId"`
	Status      rules.Status `json:"status"`
	Severity    string       `json:"severity"`
	Match       string       `json:"match"`
	Reason      string       `json:"reason"`
	Message     string       `json:"message"`
	Start       int          `json:"start"`
	End         int          `json:"end"`
	StartLine   int          `json:"startLine"`
	StartColumn int          `json:"startColumn"`
	EndLine     int          `json:"endLine"`
	EndColumn   int          `json:"endColumn"`
	Suggestion  string       `json:"suggestion,omitempty"`
	Link        string       `json:"link,omitempty"`
}

// StatusCounts counts findings per rule status.
type StatusCounts struct {
	Safe        int `json:"safe"`
	Risky       int `json:"risky"`
	Unsupported int `json:"unsupported"`
	Unknown     int `json:"unknown,omitempty"`
}

func (c *StatusCounts) add(s rules.Status) {
	switch s {
	case rules.StatusSafe:
		c.Safe++
	case rules.StatusRisky:
		c.Risky++
	case rules.StatusUnsupported:
		c.Unsupported++
	default:
		c.Unknown++
	}
}

// Get returns the count for s.
func (c StatusCounts) Get(s rules.Status) int {
	switch s {
	case rules.StatusSafe:
		return c.Safe
	case rules.StatusRisky:
		return c.Risky
	case rules.StatusUnsupported:
		return c.Unsupported
	default:
		return c.Unknown
	}
}

// Totals contains aggregate statistics for the report.
type Totals struct {
	StatusCounts

	Files             int `json:"filesChecked"`
	FilesWithFindings int `json:"filesWithFindings"`
	FilesSkipped      int `json:"filesSkipped"`
	FilesErrored      int `json:"filesErrored"`
	FilesModified     int `json:"filesModified"`
	Findings          int `json:"totalFindings"`
	Fixable           int `json:"fixable"`
	Replacements      int `json:"replacements"`
}

// HasFindings returns true if there are any findings.
func (t Totals) HasFindings() bool {
	return t.Findings > 0
}

// FileAnalysis contains aggregated data for a single file.
type FileAnalysis struct {
	StatusCounts

	Path     string   `json:"path"`
	Findings int      `json:"findings"`
	Rules    []string `json:"rules,omitempty"`
}

// RuleAnalysis contains aggregated data for a single rule.
type RuleAnalysis struct {
	RuleID   string       `json:"ruleId"`
	Status   rules.Status `json:"status"`
	Reason   string       `json:"reason"`
	Findings int          `json:"findings"`
	Fixable  bool         `json:"fixable"`
	Files    []string     `json:"files,omitempty"`
}

// SkippedFile is a file that was not scanned.
type SkippedFile struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// FileError is a file that could not be processed.
type FileError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}
