package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/sentinel/pkg/config"
	"github.com/yaklabco/sentinel/pkg/fix"
	"github.com/yaklabco/sentinel/pkg/lint"
	"github.com/yaklabco/sentinel/pkg/position"
	"github.com/yaklabco/sentinel/pkg/reporter"
	"github.com/yaklabco/sentinel/pkg/rules"
	"github.com/yaklabco/sentinel/pkg/runner"
)

const sampleSource = "const last = arr.at(-1);\nconst copy = structuredClone(obj);\n"

// sampleResult builds a run over one file with a risky and an unsupported
// finding, one skipped file and one failed file.
func sampleResult() *runner.Result {
	idx := position.NewIndex(sampleSource)
	diags := []lint.Diagnostic{
		{
			Finding: rules.Finding{
				RuleID: "array-at", Match: ".at(-1)", Reason: "Array.prototype.at is not in older engines",
				Start: 16, End: 23, ByteStart: 16, ByteEnd: 23, Status: rules.StatusRisky,
			},
			FilePath:  "/work/src/app.js",
			StartLine: 1, StartColumn: 17, EndLine: 1, EndColumn: 24,
			Severity:   config.SeverityWarning,
			Suggestion: ".slice(-1)[0]",
			Link:       "https://example.com/array-at",
		},
		{
			Finding: rules.Finding{
				RuleID: "structured-clone", Match: "structuredClone(", Reason: "structuredClone is unavailable",
				Start: 38, End: 54, ByteStart: 38, ByteEnd: 54, Status: rules.StatusUnsupported,
			},
			FilePath:  "/work/src/app.js",
			StartLine: 2, StartColumn: 14, EndLine: 2, EndColumn: 30,
			Severity: config.SeverityError,
		},
	}

	return &runner.Result{
		Files: []runner.FileOutcome{
			{
				Path: "/work/src/app.js",
				Result: &lint.PipelineResult{
					Path: "/work/src/app.js",
					FileResult: &lint.FileResult{
						Path:        "/work/src/app.js",
						Diagnostics: diags,
						Index:       idx,
					},
				},
			},
			{
				Path:   "/work/src/huge.js",
				Result: &lint.PipelineResult{Path: "/work/src/huge.js", Skipped: true, SkipReason: lint.ErrBudgetExceeded.Error()},
			},
			{
				Path:  "/work/src/gone.js",
				Error: errors.New("file not found"),
			},
		},
		Stats: runner.Stats{
			FilesDiscovered:   3,
			FilesProcessed:    2,
			FilesSkipped:      1,
			FilesErrored:      1,
			FindingsTotal:     2,
			FindingsFixable:   1,
			FilesWithFindings: 1,
			FindingsByStatus: map[rules.Status]int{
				rules.StatusRisky:       1,
				rules.StatusUnsupported: 1,
			},
			FindingsBySeverity: map[string]int{"warning": 1, "error": 1},
		},
	}
}

func newTestReporter(t *testing.T, format reporter.Format, mutate func(*reporter.Options)) (reporter.Reporter, *bytes.Buffer) {
	t.Helper()

	var out, errOut bytes.Buffer
	opts := reporter.DefaultOptions()
	opts.Writer = &out
	opts.ErrorWriter = &errOut
	opts.Format = format
	opts.Color = "never"
	opts.WorkingDir = "/work"
	if mutate != nil {
		mutate(&opts)
	}

	rep, err := reporter.New(opts)
	require.NoError(t, err)
	return rep, &out
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{name: "empty defaults to text", input: "", want: reporter.FormatText},
		{name: "text", input: "text", want: reporter.FormatText},
		{name: "table", input: "table", want: reporter.FormatTable},
		{name: "json", input: "json", want: reporter.FormatJSON},
		{name: "upper case", input: "JSON", want: reporter.FormatJSON},
		{name: "sarif", input: "sarif", want: reporter.FormatSARIF},
		{name: "diff", input: "diff", want: reporter.FormatDiff},
		{name: "summary", input: "summary", want: reporter.FormatSummary},
		{name: "unknown format", input: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := reporter.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_IsValid(t *testing.T) {
	t.Parallel()

	for _, f := range reporter.Formats() {
		assert.True(t, f.IsValid(), f.String())
	}
	assert.False(t, reporter.Format("unknown").IsValid())
	assert.False(t, reporter.Format("").IsValid())
}

func TestNew_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	_, err := reporter.New(reporter.Options{Format: reporter.Format("xml")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestTextReporter(t *testing.T) {
	t.Parallel()

	rep, out := newTestReporter(t, reporter.FormatText, nil)

	n, err := rep.Report(context.Background(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got := out.String()
	assert.Contains(t, got, "src/app.js (2 findings)")
	assert.Contains(t, got, "src/app.js:1:17")
	assert.Contains(t, got, ".at(-1) (risky) @16")
	assert.Contains(t, got, "(array-at)")
	assert.Contains(t, got, "Quick fix: .slice(-1)[0]")
	assert.Contains(t, got, "const last = arr.at(-1);")
	assert.Contains(t, got, "structuredClone( (unsupported) @38")
	assert.Contains(t, got, "src/huge.js: skipped: "+lint.ErrBudgetExceeded.Error())
	assert.Contains(t, got, "src/gone.js: error: file not found")
	assert.Contains(t, got, "2 findings")
	assert.NotContains(t, got, "/work/")
}

func TestTextReporter_NoContextNoSummary(t *testing.T) {
	t.Parallel()

	rep, out := newTestReporter(t, reporter.FormatText, func(o *reporter.Options) {
		o.ShowContext = false
		o.ShowSummary = false
		o.GroupByFile = false
	})

	_, err := rep.Report(context.Background(), sampleResult())
	require.NoError(t, err)

	got := out.String()
	assert.NotContains(t, got, "const last = arr.at(-1);")
	assert.NotContains(t, got, "(2 findings)")
	assert.Contains(t, got, "src/app.js:2:14")
}

func TestTextReporter_Empty(t *testing.T) {
	t.Parallel()

	rep, out := newTestReporter(t, reporter.FormatText, nil)

	n, err := rep.Report(context.Background(), &runner.Result{})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Contains(t, out.String(), "No files to scan.")
}

func TestTableReporter(t *testing.T) {
	t.Parallel()

	rep, out := newTestReporter(t, reporter.FormatTable, nil)

	n, err := rep.Report(context.Background(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got := out.String()
	for _, want := range []string{"File", "Line:Col", "Feature", "src/app.js", "1:17", ".at(-1)", "risky", "structured-clone"} {
		assert.Contains(t, got, want)
	}
}

func TestTableReporter_NoFindings(t *testing.T) {
	t.Parallel()

	rep, out := newTestReporter(t, reporter.FormatTable, nil)

	n, err := rep.Report(context.Background(), &runner.Result{})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Contains(t, out.String(), "No findings")
}

func TestJSONRenderer(t *testing.T) {
	t.Parallel()

	rep, out := newTestReporter(t, reporter.FormatJSON, nil)

	n, err := rep.Report(context.Background(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var decoded struct {
		Findings []struct {
			FilePath string `json:"filePath"`
			RuleID   string `json:"ruleId"`
			Match    string `json:"match"`
			Status   string `json:"status"`
			Start    int    `json:"start"`
		} `json:"findings"`
		Summary struct {
			Findings    int `json:"totalFindings"`
			Risky       int `json:"risky"`
			Unsupported int `json:"unsupported"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))

	require.Len(t, decoded.Findings, 2)
	assert.Equal(t, "array-at", decoded.Findings[0].RuleID)
	assert.Equal(t, ".at(-1)", decoded.Findings[0].Match)
	assert.Equal(t, 16, decoded.Findings[0].Start)
	assert.Equal(t, 2, decoded.Summary.Findings)
	assert.Equal(t, 1, decoded.Summary.Risky)
	assert.Equal(t, 1, decoded.Summary.Unsupported)
}

func TestJSONRenderer_EmptyFindingsArray(t *testing.T) {
	t.Parallel()

	rep, out := newTestReporter(t, reporter.FormatJSON, func(o *reporter.Options) { o.Compact = true })

	_, err := rep.Report(context.Background(), &runner.Result{})
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"findings":[]`)
	assert.Equal(t, 1, strings.Count(out.String(), "\n"))
}

func TestSARIFReporter(t *testing.T) {
	t.Parallel()

	rep, out := newTestReporter(t, reporter.FormatSARIF, func(o *reporter.Options) { o.ToolVersion = "1.2.3" })

	n, err := rep.Report(context.Background(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var log struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name    string `json:"name"`
					Version string `json:"version"`
					Rules   []struct {
						ID      string `json:"id"`
						HelpURI string `json:"helpUri"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID string `json:"ruleId"`
				Level  string `json:"level"`
			} `json:"results"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &log))

	assert.Equal(t, "2.1.0", log.Version)
	require.Len(t, log.Runs, 1)
	run := log.Runs[0]
	assert.Equal(t, "sentinel", run.Tool.Driver.Name)
	assert.Equal(t, "1.2.3", run.Tool.Driver.Version)
	require.Len(t, run.Results, 2)
	assert.Equal(t, "warning", run.Results[0].Level)
	assert.Equal(t, "error", run.Results[1].Level)

	helpURIs := map[string]string{}
	for _, r := range run.Tool.Driver.Rules {
		helpURIs[r.ID] = r.HelpURI
	}
	assert.Equal(t, "https://example.com/array-at", helpURIs["array-at"])
}

func TestDiffReporter(t *testing.T) {
	t.Parallel()

	rep, out := newTestReporter(t, reporter.FormatDiff, nil)

	result := &runner.Result{
		Files: []runner.FileOutcome{{
			Path: "/work/a.js",
			Result: &lint.PipelineResult{
				Path: "/work/a.js",
				Diff: fix.GenerateDiff("/work/a.js", []byte("x.at(-1);\n"), []byte("x.slice(-1)[0];\n")),
				FileResult: &lint.FileResult{
					Replacements: []rules.Replacement{{RuleID: "array-at"}},
				},
			},
		}},
	}

	n, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got := out.String()
	assert.Contains(t, got, "diff --git a/a.js b/a.js")
	assert.Contains(t, got, "-x.at(-1);")
	assert.Contains(t, got, "+x.slice(-1)[0];")
	assert.Contains(t, got, "1 file")
}

func TestSummaryRenderer(t *testing.T) {
	t.Parallel()

	rep, out := newTestReporter(t, reporter.FormatSummary, nil)

	n, err := rep.Report(context.Background(), sampleResult())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got := out.String()
	for _, want := range []string{
		"Findings by Status", "Rules", "Files",
		"unsupported", "risky", "50%",
		"array-at", "structured-clone", "src/app.js",
		"Total:", "2 findings in 1 file", "1 with a quick fix", "1 skipped",
	} {
		assert.Contains(t, got, want)
	}
}

func TestSummaryRenderer_NoFindings(t *testing.T) {
	t.Parallel()

	rep, out := newTestReporter(t, reporter.FormatSummary, nil)

	n, err := rep.Report(context.Background(), &runner.Result{})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Contains(t, out.String(), "No findings")
}
