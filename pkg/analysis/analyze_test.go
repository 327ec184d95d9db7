package analysis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/sentinel/pkg/config"
	"github.com/yaklabco/sentinel/pkg/lint"
	"github.com/yaklabco/sentinel/pkg/rules"
	"github.com/yaklabco/sentinel/pkg/runner"
)

func diag(ruleID string, status rules.Status, fixable bool) lint.Diagnostic {
	d := lint.Diagnostic{
		Finding: rules.Finding{
			RuleID: ruleID,
			Match:  ".at(-1)",
			Reason: "reason for " + ruleID,
			Status: status,
		},
		Severity: config.NewConfig().SeverityFor(status),
	}
	if fixable {
		d.Suggestion = "fix"
	}
	return d
}

func outcome(path string, diags ...lint.Diagnostic) runner.FileOutcome {
	return runner.FileOutcome{
		Path: path,
		Result: &lint.PipelineResult{
			Path:       path,
			FileResult: &lint.FileResult{Path: path, Diagnostics: diags},
		},
	}
}

func sampleResult() *runner.Result {
	return &runner.Result{
		Files: []runner.FileOutcome{
			outcome("/repo/a.js",
				diag("array-at", rules.StatusRisky, true),
				diag("array-at", rules.StatusRisky, true),
				diag("structured-clone", rules.StatusUnsupported, false),
			),
			outcome("/repo/b.ts",
				diag("string-substr", rules.StatusSafe, true),
			),
			outcome("/repo/c.ts"),
			{
				Path:   "/repo/min.js",
				Result: &lint.PipelineResult{Path: "/repo/min.js", Skipped: true, SkipReason: lint.SkipGenerated},
			},
			{Path: "/repo/gone.js", Error: errors.New("boom")},
		},
	}
}

func TestAnalyze_NilResult(t *testing.T) {
	t.Parallel()

	report := Analyze(nil, DefaultOptions())
	require.NotNil(t, report)
	assert.Equal(t, ReportVersion, report.Version)
	assert.False(t, report.Totals.HasFindings())
}

func TestAnalyze_EmptyResult(t *testing.T) {
	t.Parallel()

	report := Analyze(&runner.Result{}, DefaultOptions())

	assert.Equal(t, 0, report.Totals.Findings)
	assert.Empty(t, report.Findings)
	assert.Empty(t, report.ByFile)
	assert.Empty(t, report.ByRule)
}

func TestAnalyze_Totals(t *testing.T) {
	t.Parallel()

	report := Analyze(sampleResult(), DefaultOptions())
	totals := report.Totals

	assert.Equal(t, 5, totals.Files)
	assert.Equal(t, 2, totals.FilesWithFindings)
	assert.Equal(t, 1, totals.FilesSkipped)
	assert.Equal(t, 1, totals.FilesErrored)
	assert.Equal(t, 4, totals.Findings)
	assert.Equal(t, 3, totals.Fixable)
	assert.Equal(t, StatusCounts{Safe: 1, Risky: 2, Unsupported: 1}, totals.StatusCounts)

	assert.Equal(t, []SkippedFile{{Path: "/repo/min.js", Reason: lint.SkipGenerated}}, report.Skipped)
	assert.Equal(t, []FileError{{Path: "/repo/gone.js", Error: "boom"}}, report.Errors)
}

func TestAnalyze_ByRule(t *testing.T) {
	t.Parallel()

	report := Analyze(sampleResult(), DefaultOptions())
	require.Len(t, report.ByRule, 3)

	top := report.ByRule[0]
	assert.Equal(t, "array-at", top.RuleID)
	assert.Equal(t, rules.StatusRisky, top.Status)
	assert.Equal(t, "reason for array-at", top.Reason)
	assert.Equal(t, 2, top.Findings)
	assert.True(t, top.Fixable)
	assert.Equal(t, []string{"/repo/a.js"}, top.Files)

	// Ties on count fall back to the rule id.
	assert.Equal(t, "string-substr", report.ByRule[1].RuleID)
	assert.Equal(t, "structured-clone", report.ByRule[2].RuleID)
	assert.False(t, report.ByRule[2].Fixable)
}

func TestAnalyze_ByFile(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.WorkingDir = "/repo"

	report := Analyze(sampleResult(), opts)
	require.Len(t, report.ByFile, 2)

	assert.Equal(t, "a.js", report.ByFile[0].Path)
	assert.Equal(t, 3, report.ByFile[0].Findings)
	assert.Equal(t, []string{"array-at", "structured-clone"}, report.ByFile[0].Rules)
	assert.Equal(t, StatusCounts{Risky: 2, Unsupported: 1}, report.ByFile[0].StatusCounts)

	assert.Equal(t, "b.ts", report.ByFile[1].Path)
	assert.Equal(t, "b.ts", report.Findings[3].FilePath)
}

func TestAnalyze_Sorting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		sort  SortField
		desc  bool
		rules []string
	}{
		{name: "count descending", sort: SortByCount, desc: true, rules: []string{"array-at", "string-substr", "structured-clone"}},
		{name: "count ascending", sort: SortByCount, rules: []string{"string-substr", "structured-clone", "array-at"}},
		{name: "alpha", sort: SortByAlpha, rules: []string{"array-at", "string-substr", "structured-clone"}},
		{name: "status", sort: SortByStatus, rules: []string{"structured-clone", "array-at", "string-substr"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := DefaultOptions()
			opts.SortBy = tt.sort
			opts.SortDesc = tt.desc

			report := Analyze(sampleResult(), opts)
			got := make([]string, 0, len(report.ByRule))
			for _, ra := range report.ByRule {
				got = append(got, ra.RuleID)
			}
			assert.Equal(t, tt.rules, got)
		})
	}
}

func TestAnalyze_FindingEntries(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.IncludeByFile = false
	opts.IncludeByRule = false

	report := Analyze(sampleResult(), opts)
	assert.Nil(t, report.ByFile)
	assert.Nil(t, report.ByRule)
	require.Len(t, report.Findings, 4)

	entry := report.Findings[2]
	assert.Equal(t, "structured-clone", entry.RuleID)
	assert.Equal(t, rules.StatusUnsupported, entry.Status)
	assert.Equal(t, string(config.SeverityError), entry.Severity)
	assert.Equal(t, ".at(-1) - reason for structured-clone", entry.Message)
}
