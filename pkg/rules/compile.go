package rules

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dlclark/regexp2"
)

// ErrTimeout is returned when matching a pattern exceeds its time budget.
var ErrTimeout = errors.New("match timed out")

// CompileError reports a rule whose pattern is not a valid regular expression.
type CompileError struct {
	RuleID  string
	Pattern string
	Err     error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("rule %q: invalid pattern %q: %v", e.RuleID, e.Pattern, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// Options configures compilation.
type Options struct {
	// MatchTimeout bounds a single match attempt. Zero means no limit.
	MatchTimeout time.Duration
}

// Pattern is a compiled rule.
type Pattern struct {
	rule Rule
	re   *regexp2.Regexp
}

// CompilePattern compiles a single rule with ECMAScript regex semantics.
func CompilePattern(r Rule, opts Options) (*Pattern, error) {
	re, err := regexp2.Compile(r.Source(), regexp2.ECMAScript)
	if err != nil {
		return nil, &CompileError{RuleID: r.ID, Pattern: r.Pattern, Err: err}
	}
	if opts.MatchTimeout > 0 {
		re.MatchTimeout = opts.MatchTimeout
	}
	return &Pattern{rule: r, re: re}, nil
}

// Rule returns the rule the pattern was compiled from.
func (p *Pattern) Rule() Rule {
	return p.rule
}

// FindAll returns every match of the pattern in text, in match order.
func (p *Pattern) FindAll(ctx context.Context, text string) ([]Finding, error) {
	return p.findAll(ctx, newDocument(text), make([]Finding, 0))
}

// findAll appends the pattern's matches in doc to out. Matching resumes at
// the end of each match; an empty match advances the search by one character.
func (p *Pattern) findAll(ctx context.Context, doc *document, out []Finding) ([]Finding, error) {
	if err := ctx.Err(); err != nil {
		return out, fmt.Errorf("rule %q: %w", p.rule.ID, err)
	}

	m, err := p.re.FindRunesMatchStartingAt(doc.runes, 0)
	for m != nil && err == nil {
		if cerr := ctx.Err(); cerr != nil {
			return out, fmt.Errorf("rule %q: %w", p.rule.ID, cerr)
		}

		start := m.Index
		end := start + m.Length
		out = append(out, Finding{
			RuleID:    p.rule.ID,
			Match:     doc.slice(start, end),
			Reason:    p.rule.Reason,
			Start:     start,
			End:       end,
			ByteStart: doc.offsets[start],
			ByteEnd:   doc.offsets[end],
			Status:    p.rule.Status,
		})

		next := end
		if m.Length == 0 {
			next++
		}
		if next > len(doc.runes) {
			break
		}
		m, err = p.re.FindRunesMatchStartingAt(doc.runes, next)
	}
	if err != nil {
		return out, fmt.Errorf("rule %q: %w: %s", p.rule.ID, ErrTimeout, err.Error())
	}
	return out, nil
}

// Set is an ordered collection of compiled rules. A Set is immutable and safe
// for concurrent use.
type Set struct {
	patterns []*Pattern
}

// Compile compiles rs in order. Rules with malformed patterns are left out of
// the set and reported as *CompileError values joined into the returned
// error; the set is always non-nil and holds every rule that compiled.
func Compile(rs []Rule, opts Options) (*Set, error) {
	set := &Set{patterns: make([]*Pattern, 0, len(rs))}
	var errs []error
	for _, r := range rs {
		p, err := CompilePattern(r, opts)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		set.patterns = append(set.patterns, p)
	}
	return set, errors.Join(errs...)
}

// Len returns the number of compiled rules.
func (s *Set) Len() int {
	return len(s.patterns)
}

// Patterns returns the compiled rules in order.
func (s *Set) Patterns() []*Pattern {
	out := make([]*Pattern, len(s.patterns))
	copy(out, s.patterns)
	return out
}

// Rules returns the rules of the set in order.
func (s *Set) Rules() []Rule {
	out := make([]Rule, len(s.patterns))
	for i, p := range s.patterns {
		out[i] = p.rule
	}
	return out
}

// Scan returns every finding of every rule in text: grouped by rule in set
// order, then in match order. The result is never nil.
func (s *Set) Scan(text string) ([]Finding, error) {
	return s.ScanContext(context.Background(), text)
}

// ScanContext is Scan with cancellation. On cancellation or a match timeout
// it returns the findings gathered so far together with the error.
func (s *Set) ScanContext(ctx context.Context, text string) ([]Finding, error) {
	findings := make([]Finding, 0)
	if len(s.patterns) == 0 {
		return findings, nil
	}

	doc := newDocument(text)
	for _, p := range s.patterns {
		var err error
		findings, err = p.findAll(ctx, doc, findings)
		if err != nil {
			return findings, err
		}
	}
	return findings, nil
}
