// Package lint is sentinel's engine. It finds rule matches in text, applies
// bulk fixes and single quick fixes, and runs the per-file pipeline that
// reads, scans, fixes and writes source files.
//
// Scan, ApplyFixes and ResolveQuickFix are pure: they never touch the
// filesystem and never keep state between calls.
package lint

import (
	"cmp"
	"errors"
	"slices"

	"github.com/yaklabco/sentinel/pkg/rules"
)

// Scan returns every match of every rule in text, grouped by rule in the
// given order and then in match order. Rules whose pattern does not compile
// are skipped; their *rules.CompileError values are joined into the returned
// error while the findings of the other rules are still returned. The slice
// is never nil.
func Scan(text string, rs []rules.Rule) ([]rules.Finding, error) {
	set, compileErr := rules.Compile(rs, rules.Options{})

	findings, err := set.Scan(text)
	return findings, errors.Join(compileErr, err)
}

// SortFindings orders findings by position. Findings at the same position
// keep their scan order.
func SortFindings(findings []rules.Finding) {
	slices.SortStableFunc(findings, func(a, b rules.Finding) int {
		if c := cmp.Compare(a.Start, b.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.End, b.End)
	})
}
