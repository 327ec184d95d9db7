package lint_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/sentinel/pkg/langdetect"
	"github.com/yaklabco/sentinel/pkg/lint"
	"github.com/yaklabco/sentinel/pkg/rules"
)

func atRules() []rules.Rule {
	return []rules.Rule{{
		ID:      "array-at",
		Pattern: `\.at\(-1\)`,
		Reason:  "not in old Safari",
		Fix:     ".slice(-1)[0]",
		FixCode: ".slice(-1)[0]",
		Status:  rules.StatusRisky,
	}}
}

func newMarkdownEngine(t *testing.T) *lint.Engine {
	t.Helper()

	langs := langdetect.NewSet(append(langdetect.DefaultEligible(), langdetect.Markdown)...)
	engine, err := lint.NewEngine(atRules(), lint.EngineOptions{Languages: langs})
	require.NoError(t, err)
	return engine
}

func TestNewEngine(t *testing.T) {
	t.Parallel()

	rs := append(atRules(), rules.Rule{ID: "broken", Pattern: "(", Reason: "r"})

	engine, err := lint.NewEngine(rs, lint.EngineOptions{})
	require.Error(t, err)
	require.NotNil(t, engine)

	assert.Len(t, engine.Rules(), 1)
	assert.True(t, engine.Eligible(langdetect.TypeScript))
	assert.False(t, engine.Eligible(langdetect.Markdown))
}

func TestEngine_ScanContent(t *testing.T) {
	t.Parallel()

	engine, err := lint.NewEngine(atRules(), lint.EngineOptions{})
	require.NoError(t, err)

	got, err := engine.ScanContent(context.Background(), "a.at(-1)\nb.at(-1)\n", langdetect.JavaScript)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 10, got[1].Start)
}

func TestEngine_ScanContent_Markdown(t *testing.T) {
	t.Parallel()

	engine := newMarkdownEngine(t)

	doc := "# Üsage\n\n" +
		"```js\nconst last = list.at(-1);\n```\n\n" +
		"Prose mentioning list.at(-1) is ignored.\n\n" +
		"```python\nitems.at(-1)\n```\n"

	got, err := engine.ScanContent(context.Background(), doc, langdetect.Markdown)
	require.NoError(t, err)
	require.Len(t, got, 1)

	byteStart := strings.Index(doc, ".at(-1)")
	f := got[0]
	assert.Equal(t, byteStart, f.ByteStart)
	assert.Equal(t, byteStart-1, f.Start)
	assert.Equal(t, ".at(-1)", f.Match)
	assert.Equal(t, f.Match, doc[f.ByteStart:f.ByteEnd])
	assert.Equal(t, f.Match, string([]rune(doc)[f.Start:f.End]))
}

func TestEngine_ScanContent_MarkdownIndentedBlock(t *testing.T) {
	t.Parallel()

	engine := newMarkdownEngine(t)
	doc := "- step\n\n  ```js\n  a.at(-1)\n  b.at(-1)\n  ```\n"

	got, err := engine.ScanContent(context.Background(), doc, langdetect.Markdown)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, f := range got {
		assert.Equal(t, ".at(-1)", doc[f.ByteStart:f.ByteEnd])
	}
}

func TestEngine_FixContent(t *testing.T) {
	t.Parallel()

	engine, err := lint.NewEngine(atRules(), lint.EngineOptions{})
	require.NoError(t, err)

	got, err := engine.FixContent(context.Background(), "a.at(-1) + b.at(-1)", langdetect.TypeScript)
	require.NoError(t, err)
	assert.Equal(t, "a.slice(-1)[0] + b.slice(-1)[0]", got.Fixed)
	assert.Len(t, got.Replacements, 2)
}

func TestEngine_FixContent_Markdown(t *testing.T) {
	t.Parallel()

	engine := newMarkdownEngine(t)

	doc := "Use list.at(-1) carefully.\n\n" +
		"```ts\nconst last = list.at(-1);\n```\n\n" +
		"- step\n\n  ```js\n  a.at(-1)\n  b.at(-1)\n  ```\n"

	got, err := engine.FixContent(context.Background(), doc, langdetect.Markdown)
	require.NoError(t, err)

	want := "Use list.at(-1) carefully.\n\n" +
		"```ts\nconst last = list.slice(-1)[0];\n```\n\n" +
		"- step\n\n  ```js\n  a.at(-1)\n  b.at(-1)\n  ```\n"
	assert.Equal(t, want, got.Fixed)
	assert.Len(t, got.Replacements, 1)
}

func TestEngine_FixContent_NoChange(t *testing.T) {
	t.Parallel()

	engine := newMarkdownEngine(t)

	got, err := engine.FixContent(context.Background(), "# nothing\n", langdetect.Markdown)
	require.NoError(t, err)
	assert.True(t, got.Empty())
	assert.Equal(t, "# nothing\n", got.Fixed)
}
