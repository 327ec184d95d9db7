package configloader

import (
	"maps"
	"slices"

	"github.com/yaklabco/sentinel/pkg/config"
)

// merge combines two configurations, with override taking precedence over base:
//   - scalars: override wins when non-zero
//   - booleans: override wins when true
//   - maps: deep merge, override's values win
//   - slices: override replaces base when non-nil
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.Timeout != 0 {
		result.Timeout = override.Timeout
	}

	// false is the zero value, so an override can only switch these on.
	if override.Fix {
		result.Fix = true
	}
	if override.DryRun {
		result.DryRun = true
	}
	if override.NoBackups {
		result.NoBackups = true
	}
	if override.NoContext {
		result.NoContext = true
	}
	if override.Markdown {
		result.Markdown = true
	}
	if override.SkipGenerated {
		result.SkipGenerated = true
	}

	if override.StatusSeverity != nil {
		if result.StatusSeverity == nil {
			result.StatusSeverity = make(map[string]config.Severity, len(override.StatusSeverity))
		}
		maps.Copy(result.StatusSeverity, override.StatusSeverity)
	}

	for _, s := range []struct {
		dst *[]string
		src []string
	}{
		{&result.Rules, override.Rules},
		{&result.Languages, override.Languages},
		{&result.Ignore, override.Ignore},
		{&result.Include, override.Include},
		{&result.FailOn, override.FailOn},
	} {
		if s.src != nil {
			*s.dst = slices.Clone(s.src)
		}
	}

	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for _, cfg := range configs[1:] {
		result = merge(result, cfg)
	}
	return result
}
