package rules

import "errors"

// Dropped is a rule excluded by Filter and the fields it lacked.
type Dropped struct {
	Index   int
	Rule    Rule
	Missing []string
}

// Filter keeps the rules that have an id, a pattern and a reason. The rest
// are returned with their position in rs and the missing field names.
func Filter(rs []Rule) ([]Rule, []Dropped) {
	kept := make([]Rule, 0, len(rs))
	var dropped []Dropped

	for i, r := range rs {
		if r.Complete() {
			kept = append(kept, r)
			continue
		}
		dropped = append(dropped, Dropped{Index: i, Rule: r, Missing: missingFields(r)})
	}

	return kept, dropped
}

func missingFields(r Rule) []string {
	var missing []string
	if r.ID == "" {
		missing = append(missing, "id")
	}
	if r.Pattern == "" {
		missing = append(missing, "pattern")
	}
	if r.Reason == "" {
		missing = append(missing, "reason")
	}
	return missing
}

// Validate compiles every rule and returns one *CompileError per rule whose
// pattern does not compile.
func Validate(rs []Rule) []error {
	var errs []error
	for _, r := range rs {
		if _, err := CompilePattern(r, Options{}); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// CompileErrors extracts the *CompileError values from an error returned by
// Compile.
func CompileErrors(err error) []*CompileError {
	if err == nil {
		return nil
	}

	var out []*CompileError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, CompileErrors(e)...)
		}
		return out
	}

	var ce *CompileError
	if errors.As(err, &ce) {
		out = append(out, ce)
	}
	return out
}
