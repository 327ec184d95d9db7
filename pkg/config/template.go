package config

// Template returns the commented starter configuration written by
// "sentinel init".
func Template() []byte {
	return []byte(`# sentinel configuration

# Rule files (.json, .yaml, .yml or .toml). Leave empty to use the
# built-in rule set.
# rules:
#   - rules.json

# Languages to scan.
languages:
  - javascript
  - javascriptreact
  - typescript
  - typescriptreact
  - html

# Also scan fenced code blocks in markdown files.
markdown: false

# Skip minified bundles and other generated files.
skip_generated: false

# Glob patterns to skip.
ignore:
  - "**/node_modules/**"

# Glob patterns files must match to be scanned.
# include:
#   - "src/**"

# Per-file scan budget. Files that exceed it are reported as skipped.
timeout: 10s

# Statuses that fail a scan. Empty fails on any finding.
# fail_on:
#   - unsupported

# How each rule status is reported: error, warning or info.
status_severity:
  safe: info
  risky: warning
  unsupported: error

backups:
  enabled: true
`)
}
