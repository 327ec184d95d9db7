package configloader

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/yaklabco/sentinel/pkg/config"
)

// envVarPrefix is the prefix for all sentinel environment variables.
const envVarPrefix = "SENTINEL_"

type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeDuration
	envTypeSlice
)

type envMapping struct {
	field       string
	typ         envFieldType
	description string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"RULES":           {"rules", envTypeSlice, "Comma-separated rule files"},
	"LANGUAGES":       {"languages", envTypeSlice, "Comma-separated language ids to scan"},
	"IGNORE":          {"ignore", envTypeSlice, "Comma-separated ignore globs"},
	"INCLUDE":         {"include", envTypeSlice, "Comma-separated include globs"},
	"FAIL_ON":         {"fail_on", envTypeSlice, "Comma-separated statuses that fail a scan"},
	"MARKDOWN":        {"markdown", envTypeBool, "Scan fenced code blocks in markdown: true or false"},
	"SKIP_GENERATED":  {"skip_generated", envTypeBool, "Skip generated files: true or false"},
	"TIMEOUT":         {"timeout", envTypeDuration, "Per-file scan budget, e.g. 10s"},
	"FORMAT":          {"format", envTypeString, "Output format: text, table, json, sarif, diff or summary"},
	"JOBS":            {"jobs", envTypeInt, "Number of parallel workers (0 = auto)"},
	"FIX":             {"fix", envTypeBool, "Apply fixes: true or false"},
	"DRY_RUN":         {"dry_run", envTypeBool, "Preview fixes: true or false"},
	"BACKUPS_ENABLED": {"backups.enabled", envTypeBool, "Back up files before fixing: true or false"},
	"NO_BACKUPS":      {"no_backups", envTypeBool, "Disable backups: true or false"},
}

// LoadFromEnv applies SENTINEL_* environment variable overrides to cfg.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value, ok := os.LookupEnv(envVar)
		if !ok || value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeDuration:
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for %s: %q", envVar, value)
		}
		cfg.Timeout = d
		return nil
	case envTypeSlice:
		return setSliceField(cfg, mapping.field, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue splits a comma-separated value, trimming each element.
func parseSliceValue(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "format":
		cfg.Format = config.OutputFormat(value)
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "markdown":
		cfg.Markdown = value
	case "skip_generated":
		cfg.SkipGenerated = value
	case "fix":
		cfg.Fix = value
	case "dry_run":
		cfg.DryRun = value
	case "backups.enabled":
		cfg.Backups.Enabled = value
	case "no_backups":
		cfg.NoBackups = value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "jobs":
		cfg.Jobs = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "rules":
		cfg.Rules = value
	case "languages":
		cfg.Languages = value
	case "ignore":
		cfg.Ignore = value
	case "include":
		cfg.Include = value
	case "fail_on":
		cfg.FailOn = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// EnvVar describes a supported environment variable.
type EnvVar struct {
	Name        string
	Description string
}

// ListEnvVars returns the supported environment variables, sorted by name.
func ListEnvVars() []EnvVar {
	vars := make([]EnvVar, 0, len(envMappings))
	for suffix, mapping := range envMappings {
		vars = append(vars, EnvVar{Name: envVarPrefix + suffix, Description: mapping.description})
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].Name < vars[j].Name })
	return vars
}
