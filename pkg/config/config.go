// Package config defines the configuration types for sentinel.
// These types are plain data; loading and merging live in internal/configloader.
package config

import (
	"time"

	"github.com/yaklabco/sentinel/pkg/langdetect"
	"github.com/yaklabco/sentinel/pkg/rules"
)

// Severity is the level a finding is reported at.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// IsValid reports whether s is a known severity.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo:
		return true
	default:
		return false
	}
}

// BackupsConfig controls backup behavior when fixing files.
type BackupsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// OutputFormat specifies the output format for findings.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatSARIF   OutputFormat = "sarif"
	FormatDiff    OutputFormat = "diff"
	FormatSummary OutputFormat = "summary"
)

// DefaultTimeout is the per-file scan budget.
const DefaultTimeout = 10 * time.Second

// Config is the root configuration structure.
type Config struct {
	// Rules lists rule files (.json, .yaml, .toml). Empty selects the
	// built-in rule set.
	Rules []string `yaml:"rules"`

	// Languages lists the language ids eligible for scanning.
	Languages []string `yaml:"languages"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `yaml:"ignore"`

	// Include contains glob patterns files must match to be scanned.
	Include []string `yaml:"include"`

	// Markdown enables scanning fenced code blocks in .md files.
	Markdown bool `yaml:"markdown"`

	// SkipGenerated skips minified and other generated files.
	SkipGenerated bool `yaml:"skip_generated"`

	// Timeout is the per-file scan budget. Zero disables it.
	Timeout time.Duration `yaml:"timeout"`

	// Backups configures backup behavior when fixing.
	Backups BackupsConfig `yaml:"backups"`

	// FailOn lists the statuses that make a scan fail. Empty means any finding.
	FailOn []string `yaml:"fail_on"`

	// StatusSeverity maps rule statuses to report severities.
	StatusSeverity map[string]Severity `yaml:"status_severity"`

	// CLI-level options (not persisted to config files).

	Fix       bool         `yaml:"-"`
	DryRun    bool         `yaml:"-"`
	Format    OutputFormat `yaml:"-"`
	Jobs      int          `yaml:"-"`
	NoBackups bool         `yaml:"-"`
	NoContext bool         `yaml:"-"`
}

// DefaultStatusSeverity returns the built-in status to severity mapping.
func DefaultStatusSeverity() map[string]Severity {
	return map[string]Severity{
		string(rules.StatusSafe):        SeverityInfo,
		string(rules.StatusRisky):       SeverityWarning,
		string(rules.StatusUnsupported): SeverityError,
	}
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	langs := langdetect.DefaultEligible()
	languages := make([]string, len(langs))
	for i, l := range langs {
		languages[i] = string(l)
	}

	return &Config{
		Languages:      languages,
		Ignore:         []string{"**/node_modules/**"},
		Timeout:        DefaultTimeout,
		Backups:        BackupsConfig{Enabled: true},
		StatusSeverity: DefaultStatusSeverity(),
		Format:         FormatText,
	}
}

// SeverityFor returns the severity findings with the given status report at.
// Statuses without a mapping report as warnings.
func (c *Config) SeverityFor(status rules.Status) Severity {
	if c != nil {
		if sev, ok := c.StatusSeverity[string(status)]; ok {
			return sev
		}
	}
	return SeverityWarning
}

// EligibleLanguages returns the configured languages as a set, adding
// markdown when markdown scanning is enabled.
func (c *Config) EligibleLanguages() langdetect.Set {
	set := langdetect.NewSet()
	for _, l := range c.Languages {
		set[langdetect.Language(l)] = struct{}{}
	}
	if c.Markdown {
		set[langdetect.Markdown] = struct{}{}
	}
	return set
}

// FailStatuses returns FailOn as statuses.
func (c *Config) FailStatuses() []rules.Status {
	out := make([]rules.Status, 0, len(c.FailOn))
	for _, s := range c.FailOn {
		if status, ok := rules.ParseStatus(s); ok {
			out = append(out, status)
		}
	}
	return out
}

// BackupsEnabled reports whether fixed files get sidecar backups.
func (c *Config) BackupsEnabled() bool {
	return c.Backups.Enabled && !c.NoBackups
}
