// Package runner provides multi-file scanning orchestration.
package runner

import (
	"slices"

	"github.com/yaklabco/sentinel/pkg/config"
)

// Options controls multi-file scanning behavior.
type Options struct {
	// Paths are the user-specified paths (files or directories) to process.
	// If empty, defaults to the working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths.
	// If empty, the current process working directory is used.
	WorkingDir string

	// Extensions is the set of file extensions (lowercase, with leading dot)
	// that are scanned. Defaults to DefaultExtensions(Config.Markdown).
	Extensions []string

	// IncludeGlobs are glob patterns files must match, relative to WorkingDir.
	// Empty means every file with a matching extension.
	IncludeGlobs []string

	// ExcludeGlobs are glob patterns used to skip files or directories.
	ExcludeGlobs []string

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means runtime.NumCPU().
	Jobs int

	// Config is the resolved configuration for this run.
	Config *config.Config
}

// DefaultExtensions returns the extensions scanned by default. Markdown
// files are added when markdown scanning is enabled.
func DefaultExtensions(markdown bool) []string {
	exts := []string{".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs", ".html", ".htm"}
	if markdown {
		exts = append(exts, ".md", ".markdown")
	}
	return exts
}

// OptionsFromConfig builds runner options for paths from cfg.
func OptionsFromConfig(cfg *config.Config, paths []string) Options {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return Options{
		Paths:        paths,
		IncludeGlobs: slices.Clone(cfg.Include),
		ExcludeGlobs: slices.Clone(cfg.Ignore),
		Jobs:         cfg.Jobs,
		Config:       cfg,
	}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions(o.Config != nil && o.Config.Markdown)
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
