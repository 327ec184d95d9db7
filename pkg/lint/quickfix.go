package lint

import (
	"errors"
	"fmt"

	"github.com/yaklabco/sentinel/pkg/fix"
	"github.com/yaklabco/sentinel/pkg/rules"
)

// ErrNoFixAvailable is returned when a rule is unknown or offers no quick fix.
var ErrNoFixAvailable = errors.New("no fix available")

// ResolveQuickFix returns the quick-fix text of the first rule with ruleID.
func ResolveQuickFix(rs []rules.Rule, ruleID string) (string, error) {
	r, ok := rules.Find(rs, ruleID)
	if !ok || !r.HasFix() {
		return "", fmt.Errorf("%w: rule %q", ErrNoFixAvailable, ruleID)
	}
	return r.Fix, nil
}

// ApplyQuickFix replaces exactly the span of f in text with the quick fix of
// its rule. The text is not matched again, so the span must come from a scan
// of this same text.
func ApplyQuickFix(text string, f rules.Finding, rs []rules.Rule) (string, error) {
	replacement, err := ResolveQuickFix(rs, f.RuleID)
	if err != nil {
		return "", err
	}

	edit := fix.TextEdit{
		StartOffset: charToByte(text, f.Start),
		EndOffset:   charToByte(text, f.End),
		NewText:     replacement,
		RuleID:      f.RuleID,
	}

	fixed, err := fix.ApplyString(text, []fix.TextEdit{edit})
	if err != nil {
		return "", fmt.Errorf("quick fix %q: %w", f.RuleID, err)
	}
	return fixed, nil
}

// charToByte converts a character offset to a byte offset. Offsets outside
// the text map outside the valid byte range.
func charToByte(text string, offset int) int {
	if offset < 0 {
		return -1
	}

	n := 0
	for i := range text {
		if n == offset {
			return i
		}
		n++
	}
	if n == offset {
		return len(text)
	}
	return len(text) + 1
}
