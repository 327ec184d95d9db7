package rules_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/sentinel/pkg/rules"
)

func TestLoadFS(t *testing.T) {
	t.Parallel()

	want := []rules.Rule{
		{ID: "array-at", Pattern: `\.at\(`, Reason: "partial support", FixCode: "[", Status: rules.StatusRisky},
		{ID: "share", Pattern: "navigator.share", Reason: "no firefox", Literal: true},
	}

	tests := []struct {
		name    string
		path    string
		content string
	}{
		{
			name: "json list",
			path: "rules.json",
			content: `[
  {"id": "array-at", "pattern": "\\.at\\(", "reason": "partial support", "fixCode": "[", "status": "risky"},
  {"id": "share", "pattern": "navigator.share", "reason": "no firefox", "literal": true}
]`,
		},
		{
			name: "json object",
			path: "rules.json",
			content: `{"rules": [
  {"id": "array-at", "pattern": "\\.at\\(", "reason": "partial support", "fixCode": "[", "status": "risky"},
  {"id": "share", "pattern": "navigator.share", "reason": "no firefox", "literal": true}
]}`,
		},
		{
			name: "yaml list",
			path: "rules.yml",
			content: `- id: array-at
  pattern: '\.at\('
  reason: partial support
  fixCode: '['
  status: risky
- id: share
  pattern: navigator.share
  reason: no firefox
  literal: true
`,
		},
		{
			name: "yaml object",
			path: "rules.yaml",
			content: `rules:
  - id: array-at
    pattern: '\.at\('
    reason: partial support
    fixCode: '['
    status: risky
  - id: share
    pattern: navigator.share
    reason: no firefox
    literal: true
`,
		},
		{
			name: "toml tables",
			path: "rules.toml",
			content: `[[rules]]
id = "array-at"
pattern = '\.at\('
reason = "partial support"
fixCode = "["
status = "risky"

[[rules]]
id = "share"
pattern = "navigator.share"
reason = "no firefox"
literal = true
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fsys := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fsys, tt.path, []byte(tt.content), 0o644))

			got, err := rules.LoadFS(fsys, tt.path)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestLoadFS_Errors(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "bad.json", []byte(`[{"id": 1}`), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "rules.txt", []byte(`[]`), 0o644))

	_, err := rules.LoadFS(fsys, "bad.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.json")

	_, err = rules.LoadFS(fsys, "rules.txt")
	require.ErrorIs(t, err, rules.ErrUnknownFormat)

	_, err = rules.LoadFS(fsys, "missing.json")
	require.Error(t, err)
}

func TestLoadAll(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "a.json", []byte(`[{"id":"a","pattern":"a","reason":"r"}]`), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "b.yml", []byte("- id: b\n  pattern: b\n  reason: r\n"), 0o644))

	got, err := rules.LoadAll(fsys, []string{"a.json", "b.yml"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
}

func TestParse_EmptyDocuments(t *testing.T) {
	t.Parallel()

	for _, format := range []rules.Format{rules.FormatJSON, rules.FormatYAML, rules.FormatTOML} {
		got, err := rules.Parse(nil, format)
		require.NoError(t, err, format)
		assert.NotNil(t, got, format)
		assert.Empty(t, got, format)
	}
}

func TestFormatFromPath(t *testing.T) {
	t.Parallel()

	tests := map[string]rules.Format{
		"rules.json":     rules.FormatJSON,
		"dir/RULES.JSON": rules.FormatJSON,
		"rules.yaml":     rules.FormatYAML,
		"rules.yml":      rules.FormatYAML,
		"baseline.toml":  rules.FormatTOML,
	}
	for path, want := range tests {
		got, err := rules.FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
}
