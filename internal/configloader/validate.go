package configloader

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/yaklabco/sentinel/pkg/config"
	"github.com/yaklabco/sentinel/pkg/langdetect"
	"github.com/yaklabco/sentinel/pkg/rules"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "status_severity.risky").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) errorf(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warnf(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

//nolint:gochecknoglobals // Read-only lookup table.
var knownFormats = map[config.OutputFormat]bool{
	config.FormatText:    true,
	config.FormatTable:   true,
	config.FormatJSON:    true,
	config.FormatSARIF:   true,
	config.FormatDiff:    true,
	config.FormatSummary: true,
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.Format != "" && !knownFormats[cfg.Format] {
		result.errorf("format", cfg.Format,
			"invalid format %q; must be one of: text, table, json, sarif, diff, summary", cfg.Format)
	}

	if cfg.Jobs < 0 {
		result.errorf("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}

	if cfg.Timeout < 0 {
		result.errorf("timeout", cfg.Timeout, "timeout must be >= 0 (0 disables the budget)")
	}

	for i, path := range cfg.Rules {
		if _, err := rules.FormatFromPath(path); err != nil {
			result.errorf(fmt.Sprintf("rules[%d]", i), path, "%v", err)
		}
	}

	for i, lang := range cfg.Languages {
		if !langdetect.Known(langdetect.Language(lang)) {
			result.warnf(fmt.Sprintf("languages[%d]", i), lang, "unknown language %q; it will never match", lang)
		}
	}

	for i, s := range cfg.FailOn {
		if _, ok := rules.ParseStatus(s); !ok {
			result.errorf(fmt.Sprintf("fail_on[%d]", i), s,
				"invalid status %q; must be one of: safe, risky, unsupported", s)
		}
	}

	validateStatusSeverity(cfg, result)
	validateGlobs("ignore", cfg.Ignore, result)
	validateGlobs("include", cfg.Include, result)

	return result
}

func validateStatusSeverity(cfg *config.Config, result *ValidationResult) {
	for status, sev := range cfg.StatusSeverity {
		field := "status_severity." + status
		if !rules.Status(status).IsKnown() {
			result.warnf(field, status, "unknown status %q; it will be ignored", status)
		}
		if !sev.IsValid() {
			result.errorf(field, sev, "invalid severity %q; must be one of: error, warning, info", sev)
		}
	}
}

// validateGlobs compiles patterns the way discovery does.
func validateGlobs(field string, patterns []string, result *ValidationResult) {
	for i, pattern := range patterns {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			result.errorf(fmt.Sprintf("%s[%d]", field, i), pattern, "invalid glob pattern: %v", err)
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)
	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}
	return result
}
