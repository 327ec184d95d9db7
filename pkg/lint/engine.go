package lint

import (
	"context"
	"time"

	"github.com/yaklabco/sentinel/pkg/fix"
	"github.com/yaklabco/sentinel/pkg/langdetect"
	"github.com/yaklabco/sentinel/pkg/markdown"
	"github.com/yaklabco/sentinel/pkg/position"
	"github.com/yaklabco/sentinel/pkg/rules"
)

// EngineOptions configures an Engine.
type EngineOptions struct {
	// MatchTimeout bounds a single regex match attempt. Zero means no limit.
	MatchTimeout time.Duration

	// Languages is the set of eligible languages. Nil selects the defaults.
	Languages langdetect.Set
}

// Engine scans and fixes whole files with one compiled rule set. Markdown
// files are handled through their fenced code blocks. An Engine is
// immutable and safe for concurrent use.
type Engine struct {
	set       *rules.Set
	languages langdetect.Set
	markdown  *markdown.Parser
}

// NewEngine compiles rs. Like Compile, it returns a usable engine together
// with the joined compile errors of the rules it had to leave out.
func NewEngine(rs []rules.Rule, opts EngineOptions) (*Engine, error) {
	set, err := rules.Compile(rs, rules.Options{MatchTimeout: opts.MatchTimeout})

	languages := opts.Languages
	if languages == nil {
		languages = langdetect.NewSet(langdetect.DefaultEligible()...)
	}

	return &Engine{
		set:       set,
		languages: languages,
		markdown:  markdown.New(),
	}, err
}

// Rules returns the rules that compiled, in order.
func (e *Engine) Rules() []rules.Rule {
	return e.set.Rules()
}

// Eligible reports whether files in lang are scanned.
func (e *Engine) Eligible(lang langdetect.Language) bool {
	return e.languages.Contains(lang)
}

// ScanContent returns the findings in content. For markdown only the fenced
// code blocks in eligible languages are scanned, and offsets are relative to
// the whole file.
func (e *Engine) ScanContent(ctx context.Context, content string, lang langdetect.Language) ([]rules.Finding, error) {
	if lang != langdetect.Markdown {
		return e.set.ScanContext(ctx, content)
	}

	findings := make([]rules.Finding, 0)
	idx := position.NewIndex(content)
	for _, region := range e.regions(content, false) {
		found, err := e.set.ScanContext(ctx, content[region.Start:region.Stop])
		chars := idx.CharOffset(region.Start)
		for _, f := range found {
			findings = append(findings, f.Shift(chars, region.Start))
		}
		if err != nil {
			return findings, err
		}
	}
	return findings, nil
}

// FixContent applies the bulk fixes to content. For markdown each code block
// that is contiguous in the source is fixed on its own.
func (e *Engine) FixContent(ctx context.Context, content string, lang langdetect.Language) (FixResult, error) {
	if lang != langdetect.Markdown {
		return fixText(ctx, e.set.Patterns(), content)
	}

	result := FixResult{Fixed: content, Replacements: make([]rules.Replacement, 0)}
	edits := fix.NewEditBuilder()
	for _, region := range e.regions(content, true) {
		blockResult, err := fixText(ctx, e.set.Patterns(), content[region.Start:region.Stop])
		if err != nil {
			return result, err
		}
		if blockResult.Empty() {
			continue
		}
		edits.Replace("", region.Start, region.Stop, blockResult.Fixed)
		result.Replacements = append(result.Replacements, blockResult.Replacements...)
	}

	if edits.Len() == 0 {
		return result, nil
	}

	fixed, err := fix.ApplyString(content, edits.Edits)
	if err != nil {
		return FixResult{Fixed: content, Replacements: make([]rules.Replacement, 0)}, err
	}
	result.Fixed = fixed
	return result, nil
}

// regions returns the byte ranges of the eligible code blocks in a markdown
// document. Blocks broken up by indentation are returned line by line unless
// contiguousOnly is set, in which case they are left out.
func (e *Engine) regions(content string, contiguousOnly bool) []markdown.Segment {
	var out []markdown.Segment
	for _, block := range e.markdown.CodeBlocks([]byte(content)) {
		if !e.Eligible(block.Language) {
			continue
		}
		switch {
		case block.Contiguous:
			out = append(out, block.Span())
		case !contiguousOnly:
			out = append(out, block.Segments...)
		}
	}
	return out
}
