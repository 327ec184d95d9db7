package lint

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaklabco/sentinel/pkg/fix"
	"github.com/yaklabco/sentinel/pkg/rules"
)

// FixResult is the outcome of fixing a document.
type FixResult struct {
	// Fixed is the rewritten text.
	Fixed string

	// Replacements lists every substitution in the order it was made.
	Replacements []rules.Replacement
}

// Empty reports whether fixing changed nothing.
func (r FixResult) Empty() bool {
	return len(r.Replacements) == 0
}

// ApplyFixes rewrites text with every rule that has a FixCode. Rules run in
// order, each against the output of the previous one, and replace every
// non-overlapping match with FixCode taken literally. Rules whose pattern
// does not compile are skipped and reported like in Scan.
func ApplyFixes(text string, rs []rules.Rule) (FixResult, error) {
	fixable := make([]rules.Rule, 0, len(rs))
	for _, r := range rs {
		if r.HasFixCode() {
			fixable = append(fixable, r)
		}
	}

	set, compileErr := rules.Compile(fixable, rules.Options{})

	result, err := fixText(context.Background(), set.Patterns(), text)
	return result, errors.Join(compileErr, err)
}

// fixText applies the patterns that carry a FixCode to text in order.
func fixText(ctx context.Context, patterns []*rules.Pattern, text string) (FixResult, error) {
	result := FixResult{
		Fixed:        text,
		Replacements: make([]rules.Replacement, 0),
	}

	for _, p := range patterns {
		r := p.Rule()
		if !r.HasFixCode() {
			continue
		}

		matches, err := p.FindAll(ctx, result.Fixed)
		if err != nil {
			return result, err
		}
		if len(matches) == 0 {
			continue
		}

		edits := fix.NewEditBuilder()
		for _, m := range matches {
			edits.Replace(r.ID, m.ByteStart, m.ByteEnd, r.FixCode)
			result.Replacements = append(result.Replacements, rules.Replacement{
				RuleID: r.ID,
				From:   m.Match,
				To:     r.FixCode,
			})
		}

		fixed, err := fix.ApplyString(result.Fixed, edits.Edits)
		if err != nil {
			return result, fmt.Errorf("rule %q: %w", r.ID, err)
		}
		result.Fixed = fixed
	}

	return result, nil
}
