package lint_test

import (
	"strings"
	"testing"

	"github.com/yaklabco/sentinel/pkg/lint"
	"github.com/yaklabco/sentinel/pkg/rules"
)

// benchSource is a file with a mix of flagged and clean lines.
var benchSource = strings.Repeat(
	"const last = items.at(-1);\n"+
		"const copy = structuredClone(state);\n"+
		"const name = user.name.substr(0, 8);\n"+
		"const total = values.reduce((a, b) => a + b, 0);\n", 500)

func BenchmarkScan(b *testing.B) {
	rs := rules.Default()
	b.SetBytes(int64(len(benchSource)))

	for b.Loop() {
		if _, err := lint.Scan(benchSource, rs); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkApplyFixes(b *testing.B) {
	rs := rules.Default()
	b.SetBytes(int64(len(benchSource)))

	for b.Loop() {
		if _, err := lint.ApplyFixes(benchSource, rs); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCompiledSetScan(b *testing.B) {
	set, err := rules.Compile(rules.Default(), rules.Options{})
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(benchSource)))

	for b.Loop() {
		if _, err := set.Scan(benchSource); err != nil {
			b.Fatal(err)
		}
	}
}
