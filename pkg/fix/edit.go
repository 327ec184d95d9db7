// Package fix provides text edits, their validation and application, and
// unified diffs for previewing rewritten files.
package fix

// TextEdit represents a single text replacement in a file.
type TextEdit struct {
	// StartOffset is the byte index where the edit begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the edit ends (exclusive).
	EndOffset int

	// NewText is the replacement text.
	NewText string

	// RuleID identifies the rule that produced the edit, if any.
	RuleID string
}

// Len returns the number of bytes the edit removes.
func (e TextEdit) Len() int {
	return e.EndOffset - e.StartOffset
}

// EditBuilder accumulates text edits for a single document.
type EditBuilder struct {
	Edits []TextEdit
}

// NewEditBuilder creates a new EditBuilder.
func NewEditBuilder() *EditBuilder {
	return &EditBuilder{
		Edits: make([]TextEdit, 0),
	}
}

// Replace adds an edit from ruleID that replaces bytes [start, end) with newText.
func (b *EditBuilder) Replace(ruleID string, start, end int, newText string) {
	b.Edits = append(b.Edits, TextEdit{
		StartOffset: start,
		EndOffset:   end,
		NewText:     newText,
		RuleID:      ruleID,
	})
}

// Shift moves every accumulated edit by delta bytes.
func (b *EditBuilder) Shift(delta int) {
	for i := range b.Edits {
		b.Edits[i].StartOffset += delta
		b.Edits[i].EndOffset += delta
	}
}

// Len returns the number of accumulated edits.
func (b *EditBuilder) Len() int {
	return len(b.Edits)
}
