package lint_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/sentinel/pkg/config"
	"github.com/yaklabco/sentinel/pkg/fsutil"
	"github.com/yaklabco/sentinel/pkg/langdetect"
	"github.com/yaklabco/sentinel/pkg/lint"
	"github.com/yaklabco/sentinel/pkg/rules"
)

const jsSource = "const last = items.at(-1);\nconsole.log(last);\n"

func newTestPipeline(t *testing.T, files map[string]string) (*lint.Pipeline, afero.Fs) {
	t.Helper()

	mem := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(mem, path, []byte(content), 0o644))
	}

	engine, err := lint.NewEngine(atRules(), lint.EngineOptions{})
	require.NoError(t, err)

	return lint.NewPipeline(engine, fsutil.New(mem), nil), mem
}

func TestPipeline_Scan(t *testing.T) {
	t.Parallel()

	pipeline, _ := newTestPipeline(t, map[string]string{"/src/app.js": jsSource})

	result, err := pipeline.ProcessFile(context.Background(), "/src/app.js", lint.PipelineOptions{})
	require.NoError(t, err)

	assert.False(t, result.Skipped)
	assert.False(t, result.Modified)
	assert.Equal(t, "issues found", result.Summary())
	require.NotNil(t, result.FileResult)
	assert.Equal(t, langdetect.JavaScript, result.Language)
	require.Len(t, result.Diagnostics, 1)

	d := result.Diagnostics[0]
	assert.Equal(t, "/src/app.js", d.FilePath)
	assert.Equal(t, 1, d.StartLine)
	assert.Equal(t, 19, d.StartColumn)
	assert.Equal(t, config.SeverityWarning, d.Severity)
	assert.Equal(t, ".slice(-1)[0]", d.Suggestion)
	assert.True(t, d.HasFix())
}

func TestPipeline_FixWritesWithBackup(t *testing.T) {
	t.Parallel()

	pipeline, mem := newTestPipeline(t, map[string]string{"/src/app.js": jsSource})
	opts := lint.PipelineOptions{Fix: true, Backup: true}

	result, err := pipeline.ProcessFile(context.Background(), "/src/app.js", opts)
	require.NoError(t, err)

	assert.True(t, result.Modified)
	assert.True(t, result.Written)
	assert.True(t, result.BackupCreated)
	assert.Equal(t, "fixed (backup created)", result.Summary())
	assert.Empty(t, result.Diagnostics)
	assert.Equal(t, []rules.Replacement{
		{RuleID: "array-at", From: ".at(-1)", To: ".slice(-1)[0]"},
	}, result.Replacements)

	written, err := afero.ReadFile(mem, "/src/app.js")
	require.NoError(t, err)
	assert.Equal(t, strings.Replace(jsSource, ".at(-1)", ".slice(-1)[0]", 1), string(written))

	backup, err := afero.ReadFile(mem, fsutil.BackupPath("/src/app.js"))
	require.NoError(t, err)
	assert.Equal(t, jsSource, string(backup))
}

func TestPipeline_FixIsIdempotent(t *testing.T) {
	t.Parallel()

	pipeline, _ := newTestPipeline(t, map[string]string{"/src/app.js": jsSource})
	opts := lint.PipelineOptions{Fix: true}

	_, err := pipeline.ProcessFile(context.Background(), "/src/app.js", opts)
	require.NoError(t, err)

	again, err := pipeline.ProcessFile(context.Background(), "/src/app.js", opts)
	require.NoError(t, err)
	assert.False(t, again.Modified)
	assert.False(t, again.Written)
	assert.Equal(t, "ok", again.Summary())
}

func TestPipeline_DryRun(t *testing.T) {
	t.Parallel()

	pipeline, mem := newTestPipeline(t, map[string]string{"/src/app.js": jsSource})
	opts := lint.PipelineOptions{Fix: true, DryRun: true, Backup: true}

	result, err := pipeline.ProcessFile(context.Background(), "/src/app.js", opts)
	require.NoError(t, err)

	assert.True(t, result.Modified)
	assert.False(t, result.Written)
	assert.Equal(t, "changes pending", result.Summary())
	require.NotNil(t, result.Diff)
	assert.True(t, result.Diff.HasChanges())
	assert.Contains(t, result.Diff.String(), "-const last = items.at(-1);")
	assert.Contains(t, result.Diff.String(), "+const last = items.slice(-1)[0];")

	content, err := afero.ReadFile(mem, "/src/app.js")
	require.NoError(t, err)
	assert.Equal(t, jsSource, string(content))

	exists, err := afero.Exists(mem, fsutil.BackupPath("/src/app.js"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPipeline_Skips(t *testing.T) {
	t.Parallel()

	pipeline, _ := newTestPipeline(t, map[string]string{
		"/docs/readme.md": "```js\nx.at(-1)\n```\n",
		"/notes.txt":      "x.at(-1)\n",
	})

	tests := []struct {
		path   string
		reason string
	}{
		{path: "/docs/readme.md", reason: lint.SkipIneligibleLanguage},
		{path: "/notes.txt", reason: lint.SkipUnsupportedLanguage},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			result, err := pipeline.ProcessFile(context.Background(), tt.path, lint.PipelineOptions{Fix: true})
			require.NoError(t, err)
			assert.True(t, result.Skipped)
			assert.Equal(t, tt.reason, result.SkipReason)
			assert.Nil(t, result.FileResult)
			assert.Equal(t, "skipped: "+tt.reason, result.Summary())
		})
	}
}

func TestPipeline_MissingFile(t *testing.T) {
	t.Parallel()

	pipeline, _ := newTestPipeline(t, nil)

	_, err := pipeline.ProcessFile(context.Background(), "/nope.js", lint.PipelineOptions{})
	require.ErrorIs(t, err, lint.ErrFileNotFound)
	assert.True(t, lint.IsPipelineError(err))
}

func TestPipeline_ProcessContent_BudgetExceeded(t *testing.T) {
	t.Parallel()

	pipeline, _ := newTestPipeline(t, nil)

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	result, err := pipeline.ProcessContent(ctx, "big.js", langdetect.JavaScript, []byte(jsSource),
		lint.PipelineOptions{Timeout: time.Minute})
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Equal(t, lint.ErrBudgetExceeded.Error(), result.SkipReason)
}

func TestPipeline_ProcessContent_Cancelled(t *testing.T) {
	t.Parallel()

	pipeline, _ := newTestPipeline(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pipeline.ProcessContent(ctx, "app.js", langdetect.JavaScript, []byte(jsSource), lint.PipelineOptions{})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, lint.IsPipelineError(err))
}

func TestPipeline_StatusSeverity(t *testing.T) {
	t.Parallel()

	engine, err := lint.NewEngine(atRules(), lint.EngineOptions{})
	require.NoError(t, err)

	cfg := config.NewConfig()
	cfg.StatusSeverity[string(rules.StatusRisky)] = config.SeverityError
	pipeline := lint.NewPipeline(engine, fsutil.New(afero.NewMemMapFs()), cfg)

	result, err := pipeline.ProcessContent(context.Background(), "a.ts", langdetect.TypeScript,
		[]byte("a.at(-1)"), lint.PipelineOptions{})
	require.NoError(t, err)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, config.SeverityError, result.Diagnostics[0].Severity)
	assert.Equal(t, map[rules.Status]int{rules.StatusRisky: 1}, result.CountByStatus())
}

func TestPipelineOptionsFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Fix = true
	cfg.NoBackups = true

	opts := lint.PipelineOptionsFromConfig(cfg)
	assert.True(t, opts.Fix)
	assert.False(t, opts.Backup)
	assert.Equal(t, config.DefaultTimeout, opts.Timeout)

	assert.True(t, lint.PipelineOptionsFromConfig(nil).Backup)
}
