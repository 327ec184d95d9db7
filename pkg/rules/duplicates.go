package rules

// Duplicate is a pattern shared by more than one rule.
type Duplicate struct {
	Pattern string   `json:"pattern"`
	IDs     []string `json:"ids"`
}

// DuplicatePatterns reports every pattern that appears on more than one rule.
// Patterns are compared as written, before any filtering. Each entry lists
// the colliding ids in rule order, and entries are ordered by the first rule
// carrying the pattern.
func DuplicatePatterns(rs []Rule) []Duplicate {
	ids := make(map[string][]string, len(rs))
	order := make([]string, 0, len(rs))

	for _, r := range rs {
		if _, seen := ids[r.Pattern]; !seen {
			order = append(order, r.Pattern)
		}
		ids[r.Pattern] = append(ids[r.Pattern], r.ID)
	}

	dups := make([]Duplicate, 0)
	for _, pattern := range order {
		if len(ids[pattern]) > 1 {
			dups = append(dups, Duplicate{Pattern: pattern, IDs: ids[pattern]})
		}
	}
	return dups
}
