package rules

import (
	_ "embed"
	"fmt"
)

//go:embed default.json
var defaultRules []byte

// Default returns the built-in starter rule set.
func Default() []Rule {
	rs, err := Parse(defaultRules, FormatJSON)
	if err != nil {
		panic(fmt.Sprintf("rules: embedded default set is invalid: %v", err))
	}
	return rs
}

// DefaultJSON returns the built-in rule set as written on disk.
func DefaultJSON() []byte {
	out := make([]byte, len(defaultRules))
	copy(out, defaultRules)
	return out
}
