// Package analysis turns a runner result into the aggregated views used by
// the reporters: totals per status, per-file and per-rule breakdowns.
package analysis

import (
	"cmp"
	"path/filepath"
	"slices"
	"time"

	"github.com/yaklabco/sentinel/pkg/lint"
	"github.com/yaklabco/sentinel/pkg/rules"
	"github.com/yaklabco/sentinel/pkg/runner"
)

// ReportVersion is the current report format version.
const ReportVersion = "1.0.0"

// makeRelativePath converts an absolute path to a path relative to workDir.
// If workDir is empty or conversion fails, returns the original path.
func makeRelativePath(absPath, workDir string) string {
	if workDir == "" {
		return absPath
	}
	relPath, err := filepath.Rel(workDir, absPath)
	if err != nil {
		return absPath
	}
	return relPath
}

// analysisContext holds temporary state during analysis.
type analysisContext struct {
	ruleMap   map[string]*RuleAnalysis
	fileMap   map[string]*FileAnalysis
	ruleFiles map[string]map[string]bool
	fileRules map[string]map[string]bool
}

func newAnalysisContext() *analysisContext {
	return &analysisContext{
		ruleMap:   make(map[string]*RuleAnalysis),
		fileMap:   make(map[string]*FileAnalysis),
		ruleFiles: make(map[string]map[string]bool),
		fileRules: make(map[string]map[string]bool),
	}
}

func (ctx *analysisContext) file(path string) *FileAnalysis {
	if _, ok := ctx.fileMap[path]; !ok {
		ctx.fileMap[path] = &FileAnalysis{Path: path}
		ctx.fileRules[path] = make(map[string]bool)
	}
	return ctx.fileMap[path]
}

func (ctx *analysisContext) rule(d *lint.Diagnostic) *RuleAnalysis {
	if _, ok := ctx.ruleMap[d.RuleID]; !ok {
		ctx.ruleMap[d.RuleID] = &RuleAnalysis{
			RuleID: d.RuleID,
			Status: d.Status,
			Reason: d.Reason,
		}
		ctx.ruleFiles[d.RuleID] = make(map[string]bool)
	}
	return ctx.ruleMap[d.RuleID]
}

func newFindingEntry(path string, d *lint.Diagnostic) FindingEntry {
	return FindingEntry{
		FilePath:    path,
		RuleID:      d.RuleID,
		Status:      d.Status,
		Severity:    string(d.Severity),
		Match:       d.Match,
		Reason:      d.Reason,
		Message:     d.Message(),
		Start:       d.Start,
		End:         d.End,
		StartLine:   d.StartLine,
		StartColumn: d.StartColumn,
		EndLine:     d.EndLine,
		EndColumn:   d.EndColumn,
		Suggestion:  d.Suggestion,
		Link:        d.Link,
	}
}

func (ctx *analysisContext) buildByRule(opts Options) []RuleAnalysis {
	result := make([]RuleAnalysis, 0, len(ctx.ruleMap))
	for ruleID, ra := range ctx.ruleMap {
		for f := range ctx.ruleFiles[ruleID] {
			ra.Files = append(ra.Files, f)
		}
		slices.Sort(ra.Files)
		result = append(result, *ra)
	}
	sortRuleAnalysis(result, opts.SortBy, opts.SortDesc)
	return result
}

func (ctx *analysisContext) buildByFile(opts Options) []FileAnalysis {
	var result []FileAnalysis
	for path, fa := range ctx.fileMap {
		if fa.Findings == 0 {
			continue
		}
		for r := range ctx.fileRules[path] {
			fa.Rules = append(fa.Rules, r)
		}
		slices.Sort(fa.Rules)
		result = append(result, *fa)
	}
	sortFileAnalysis(result, opts.SortBy, opts.SortDesc)
	return result
}

// Analyze transforms a runner.Result into a Report in a single pass over
// the findings.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{
		Version:   ReportVersion,
		Timestamp: time.Now(),
	}

	if result == nil {
		return report
	}

	ctx := newAnalysisContext()

	for _, file := range result.Files {
		report.Totals.Files++
		displayPath := makeRelativePath(file.Path, opts.WorkingDir)

		if file.Error != nil {
			report.Totals.FilesErrored++
			report.Errors = append(report.Errors, FileError{Path: displayPath, Error: file.Error.Error()})
			continue
		}

		pr := file.Result
		if pr == nil {
			continue
		}
		if pr.Skipped {
			report.Totals.FilesSkipped++
			report.Skipped = append(report.Skipped, SkippedFile{Path: displayPath, Reason: pr.SkipReason})
		}
		if pr.Written {
			report.Totals.FilesModified++
		}
		if pr.FileResult == nil {
			continue
		}

		report.Totals.Replacements += len(pr.Replacements)
		if pr.HasIssues() {
			report.Totals.FilesWithFindings++
		}

		fa := ctx.file(displayPath)

		for i := range pr.Diagnostics {
			d := &pr.Diagnostics[i]

			report.Totals.Findings++
			report.Totals.add(d.Status)
			if d.HasFix() {
				report.Totals.Fixable++
			}

			fa.Findings++
			fa.add(d.Status)
			ctx.fileRules[displayPath][d.RuleID] = true

			ra := ctx.rule(d)
			ra.Findings++
			if d.HasFix() {
				ra.Fixable = true
			}
			ctx.ruleFiles[d.RuleID][displayPath] = true

			if opts.IncludeFindings {
				report.Findings = append(report.Findings, newFindingEntry(displayPath, d))
			}
		}
	}

	if opts.IncludeByRule {
		report.ByRule = ctx.buildByRule(opts)
	}
	if opts.IncludeByFile {
		report.ByFile = ctx.buildByFile(opts)
	}

	return report
}

// statusRank orders statuses from most to least severe.
func statusRank(s rules.Status) int {
	switch s {
	case rules.StatusUnsupported:
		return 0
	case rules.StatusRisky:
		return 1
	case rules.StatusSafe:
		return 2
	default:
		return 3
	}
}

func compareCount(left, right int, desc bool) int {
	result := cmp.Compare(left, right)
	if desc {
		result = -result
	}
	return result
}

func sortRuleAnalysis(ras []RuleAnalysis, sortBy SortField, desc bool) {
	slices.SortFunc(ras, func(left, right RuleAnalysis) int {
		var result int
		switch sortBy {
		case SortByAlpha:
		case SortByStatus:
			result = cmp.Compare(statusRank(left.Status), statusRank(right.Status))
			if result == 0 {
				result = cmp.Compare(right.Findings, left.Findings)
			}
		default:
			result = compareCount(left.Findings, right.Findings, desc)
		}
		if result == 0 {
			result = cmp.Compare(left.RuleID, right.RuleID)
		}
		return result
	})
}

func sortFileAnalysis(files []FileAnalysis, sortBy SortField, desc bool) {
	slices.SortFunc(files, func(left, right FileAnalysis) int {
		var result int
		switch sortBy {
		case SortByAlpha:
		case SortByStatus:
			// Unsupported first, then risky.
			result = cmp.Compare(right.Unsupported, left.Unsupported)
			if result == 0 {
				result = cmp.Compare(right.Risky, left.Risky)
			}
			if result == 0 {
				result = cmp.Compare(right.Findings, left.Findings)
			}
		default:
			result = compareCount(left.Findings, right.Findings, desc)
		}
		if result == 0 {
			result = cmp.Compare(left.Path, right.Path)
		}
		return result
	})
}
