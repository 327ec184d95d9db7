// Package rules defines compatibility rules, the findings they produce, and the
// helpers that load, filter, check and compile rule sets.
//
// A rule pairs a regular expression with a human-readable reason and optional
// replacements. Rules are plain data: nothing in this package mutates a rule
// once it has been loaded.
package rules

import "strings"

// Status classifies how broadly a flagged construct is supported.
type Status string

const (
	// StatusSafe marks constructs that are widely available.
	StatusSafe Status = "safe"

	// StatusRisky marks constructs with partial or recent support.
	StatusRisky Status = "risky"

	// StatusUnsupported marks constructs that are missing in major runtimes.
	StatusUnsupported Status = "unsupported"
)

// Statuses lists the known statuses in reporting order.
func Statuses() []Status {
	return []Status{StatusSafe, StatusRisky, StatusUnsupported}
}

// IsKnown reports whether s is one of the known statuses.
func (s Status) IsKnown() bool {
	switch s {
	case StatusSafe, StatusRisky, StatusUnsupported:
		return true
	default:
		return false
	}
}

// ParseStatus converts a string to a Status, case-insensitively.
func ParseStatus(s string) (Status, bool) {
	status := Status(strings.ToLower(strings.TrimSpace(s)))
	return status, status.IsKnown()
}

func (s Status) String() string {
	if s == "" {
		return "unknown"
	}
	return string(s)
}

// Rule is a single compatibility rule.
type Rule struct {
	// ID uniquely identifies the rule within a set, e.g. "array-at".
	ID string `json:"id" yaml:"id" toml:"id"`

	// Pattern is a regular expression source, or a dotted property path
	// when Literal is set.
	Pattern string `json:"pattern" yaml:"pattern" toml:"pattern"`

	// Reason explains why the construct is flagged.
	Reason string `json:"reason" yaml:"reason" toml:"reason"`

	// Fix is the replacement offered for a single occurrence.
	Fix string `json:"fix,omitempty" yaml:"fix,omitempty" toml:"fix,omitempty"`

	// FixCode is the replacement used when fixing a whole document.
	FixCode string `json:"fixCode,omitempty" yaml:"fixCode,omitempty" toml:"fixCode,omitempty"`

	// Status classifies the construct. The engine never inspects it.
	Status Status `json:"status,omitempty" yaml:"status,omitempty" toml:"status,omitempty"`

	// Literal treats Pattern as a dotted path: every "." matches only a dot.
	Literal bool `json:"literal,omitempty" yaml:"literal,omitempty" toml:"literal,omitempty"`

	// Link points at documentation for the construct.
	Link string `json:"link,omitempty" yaml:"link,omitempty" toml:"link,omitempty"`
}

// Source returns the regular expression source compiled for the rule.
func (r Rule) Source() string {
	if !r.Literal {
		return r.Pattern
	}
	return strings.ReplaceAll(r.Pattern, ".", `\.`)
}

// HasFix reports whether the rule offers a single-occurrence quick fix.
func (r Rule) HasFix() bool {
	return r.Fix != ""
}

// HasFixCode reports whether the rule takes part in whole-document fixing.
func (r Rule) HasFixCode() bool {
	return r.FixCode != ""
}

// Complete reports whether the rule has every field the engine requires.
// Only empty fields count as missing: a pattern of a single space is a
// valid regex.
func (r Rule) Complete() bool {
	return r.ID != "" && r.Pattern != "" && r.Reason != ""
}

// Find returns the first rule with the given id.
func Find(rs []Rule, id string) (Rule, bool) {
	for _, r := range rs {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}

// Finding is one match of one rule.
//
// Start and End are character offsets (Unicode code points) into the scanned
// text, end exclusive. ByteStart and ByteEnd cover the same span in bytes.
// Code points are not UTF-16 code units: after a character outside the
// Basic Multilingual Plane, such as an emoji, an editor counting UTF-16 units
// is one ahead per such character ("é😀x" has x at 2 here, at 3 in UTF-16).
type Finding struct {
	RuleID    string `json:"ruleId"`
	Match     string `json:"match"`
	Reason    string `json:"reason"`
	Start     int    `json:"start"`
	End       int    `json:"end"`
	ByteStart int    `json:"byteStart"`
	ByteEnd   int    `json:"byteEnd"`
	Status    Status `json:"status,omitempty"`
}

// Message renders the finding the way editors display it.
func (f Finding) Message() string {
	return f.Match + " - " + f.Reason
}

// Shift returns a copy of f moved by the given character and byte deltas.
func (f Finding) Shift(chars, bytes int) Finding {
	f.Start += chars
	f.End += chars
	f.ByteStart += bytes
	f.ByteEnd += bytes
	return f
}

// Replacement records one substitution made while fixing a document.
type Replacement struct {
	RuleID string `json:"ruleId"`
	From   string `json:"from"`
	To     string `json:"to"`
}
