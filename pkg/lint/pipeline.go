package lint

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/yaklabco/sentinel/pkg/config"
	"github.com/yaklabco/sentinel/pkg/fix"
	"github.com/yaklabco/sentinel/pkg/fsutil"
	"github.com/yaklabco/sentinel/pkg/langdetect"
	"github.com/yaklabco/sentinel/pkg/rules"
)

// Pipeline error types for categorization.
var (
	// ErrFileNotFound indicates the file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrWriteFailure indicates a write error.
	ErrWriteFailure = errors.New("write failure")

	// ErrBudgetExceeded indicates a file took longer than its scan budget.
	ErrBudgetExceeded = errors.New("scan budget exceeded")
)

// Skip reasons reported on PipelineResult.
const (
	SkipUnsupportedLanguage = "unsupported language"
	SkipIneligibleLanguage  = "language not enabled"
	SkipGenerated           = "generated file"
	SkipModified            = "file modified during processing"
)

// PipelineResult contains the result of processing a single file.
type PipelineResult struct {
	// FileResult holds the findings left in the file: those of the original
	// content, or of the fixed content once a fix was applied.
	*FileResult

	Path string

	// OriginalInfo is the file state before processing.
	OriginalInfo *fsutil.FileInfo

	// Modified is true if fixing changed the content.
	Modified bool

	// ModifiedContent is the content after fixing (nil if not modified).
	ModifiedContent []byte

	// Diff is the unified diff for dry-run mode (nil if not in dry-run).
	Diff *fix.Diff

	Skipped    bool
	SkipReason string

	BackupCreated bool

	// Written is true if the file was written to disk.
	Written bool
}

// Summary returns a human-readable summary of the pipeline result.
func (pr *PipelineResult) Summary() string {
	if pr.Skipped {
		return "skipped: " + pr.SkipReason
	}
	if pr.Written {
		if pr.BackupCreated {
			return "fixed (backup created)"
		}
		return "fixed"
	}
	if pr.Modified {
		return "changes pending"
	}
	if pr.FileResult != nil && pr.HasIssues() {
		return "issues found"
	}
	return "ok"
}

// PipelineOptions controls pipeline behavior.
type PipelineOptions struct {
	// Fix enables bulk fixing.
	Fix bool

	// DryRun generates diffs without writing files.
	DryRun bool

	// Backup writes a sidecar backup before a file is first rewritten.
	Backup bool

	// Timeout is the per-file budget. Zero disables it.
	Timeout time.Duration

	// SkipGenerated skips minified and other generated files.
	SkipGenerated bool
}

// PipelineOptionsFromConfig creates PipelineOptions from config.Config.
func PipelineOptionsFromConfig(cfg *config.Config) PipelineOptions {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return PipelineOptions{
		Fix:           cfg.Fix,
		DryRun:        cfg.DryRun,
		Backup:        cfg.BackupsEnabled(),
		Timeout:       cfg.Timeout,
		SkipGenerated: cfg.SkipGenerated,
	}
}

// Pipeline orchestrates the safe processing of a single file.
type Pipeline struct {
	Engine *Engine
	FS     *fsutil.FS

	// Config supplies status severities. Nil selects the defaults.
	Config *config.Config
}

// NewPipeline creates a pipeline that reads and writes through fsys.
func NewPipeline(engine *Engine, fsys *fsutil.FS, cfg *config.Config) *Pipeline {
	if fsys == nil {
		fsys = fsutil.New(nil)
	}
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Pipeline{Engine: engine, FS: fsys, Config: cfg}
}

// ProcessFile runs the full pipeline for a single file:
//  1. Read and hash the file.
//  2. Classify it and skip ineligible files.
//  3. Scan it within the per-file budget.
//  4. Apply bulk fixes if fix mode is enabled.
//  5. In dry-run mode, build a diff and stop.
//  6. Check for concurrent modification, back up and write atomically.
func (p *Pipeline) ProcessFile(ctx context.Context, path string, opts PipelineOptions) (*PipelineResult, error) {
	result := &PipelineResult{Path: path}

	original, info, err := p.FS.ReadFile(ctx, path)
	if err != nil {
		return nil, categorizeError(err)
	}
	result.OriginalInfo = info

	lang, ok := langdetect.Classify(path, original)
	switch {
	case !ok:
		return skip(result, SkipUnsupportedLanguage), nil
	case !p.Engine.Eligible(lang):
		return skip(result, SkipIneligibleLanguage), nil
	case opts.SkipGenerated && langdetect.IsGenerated(path, original):
		return skip(result, SkipGenerated), nil
	}

	if err := p.process(ctx, result, lang, original, opts); err != nil {
		if errors.Is(err, ErrBudgetExceeded) {
			return skip(result, ErrBudgetExceeded.Error()), nil
		}
		return nil, err
	}

	if !result.Modified || opts.DryRun {
		return result, nil
	}

	modified, err := p.FS.CheckModified(ctx, info)
	if err != nil {
		return nil, fmt.Errorf("check modified: %w", err)
	}
	if modified {
		return skip(result, SkipModified), nil
	}

	if opts.Backup {
		created, err := p.FS.CreateBackup(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("create backup: %w", err)
		}
		result.BackupCreated = created
	}

	if err := p.FS.WriteAtomic(ctx, path, result.ModifiedContent, info.Mode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.Written = true

	return result, nil
}

// ProcessContent runs the scan and fix steps on in-memory content. It never
// writes; in dry-run mode it fills in the diff.
func (p *Pipeline) ProcessContent(
	ctx context.Context,
	path string,
	lang langdetect.Language,
	content []byte,
	opts PipelineOptions,
) (*PipelineResult, error) {
	result := &PipelineResult{Path: path}
	if err := p.process(ctx, result, lang, content, opts); err != nil {
		if errors.Is(err, ErrBudgetExceeded) {
			return skip(result, ErrBudgetExceeded.Error()), nil
		}
		return nil, err
	}
	return result, nil
}

// process scans and optionally fixes content within the per-file budget.
func (p *Pipeline) process(
	ctx context.Context,
	result *PipelineResult,
	lang langdetect.Language,
	content []byte,
	opts PipelineOptions,
) error {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	text := string(content)
	findings, err := p.Engine.ScanContent(ctx, text, lang)
	if err != nil {
		return budgetError(ctx, result.Path, err)
	}

	if !opts.Fix {
		result.FileResult = p.fileResult(result.Path, lang, text, findings)
		return nil
	}

	fixed, err := p.Engine.FixContent(ctx, text, lang)
	if err != nil {
		return budgetError(ctx, result.Path, err)
	}

	if fixed.Empty() {
		result.FileResult = p.fileResult(result.Path, lang, text, findings)
		result.Replacements = fixed.Replacements
		return nil
	}

	remaining, err := p.Engine.ScanContent(ctx, fixed.Fixed, lang)
	if err != nil {
		return budgetError(ctx, result.Path, err)
	}

	result.FileResult = p.fileResult(result.Path, lang, fixed.Fixed, remaining)
	result.Replacements = fixed.Replacements
	result.Modified = true
	result.ModifiedContent = []byte(fixed.Fixed)

	if opts.DryRun {
		result.Diff = fix.GenerateDiff(result.Path, content, result.ModifiedContent)
	}
	return nil
}

func (p *Pipeline) fileResult(path string, lang langdetect.Language, text string, findings []rules.Finding) *FileResult {
	return newFileResult(path, lang, text, findings, p.Engine.Rules(), p.Config)
}

// budgetError maps a scan failure caused by the per-file deadline or a regex
// match timeout to ErrBudgetExceeded. Cancellation from the caller is
// returned unchanged.
func budgetError(ctx context.Context, path string, err error) error {
	if errors.Is(err, rules.ErrTimeout) ||
		(errors.Is(err, context.DeadlineExceeded) && errors.Is(ctx.Err(), context.DeadlineExceeded)) {
		return fmt.Errorf("%s: %w: %w", path, ErrBudgetExceeded, err)
	}
	return fmt.Errorf("scan %s: %w", path, err)
}

func skip(result *PipelineResult, reason string) *PipelineResult {
	result.Skipped = true
	result.SkipReason = reason
	result.Modified = false
	result.ModifiedContent = nil
	result.Diff = nil
	return result
}

// categorizeError wraps an error with the appropriate pipeline error type.
func categorizeError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, fsutil.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	}

	if errors.Is(err, fsutil.ErrPermissionDenied) || errors.Is(err, os.ErrPermission) {
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}

	return err
}

// IsPipelineError checks if an error is a known pipeline error type.
func IsPipelineError(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrWriteFailure) ||
		errors.Is(err, ErrBudgetExceeded)
}
