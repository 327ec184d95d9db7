package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/sentinel/pkg/rules"
)

func TestDuplicatePatterns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		rules []rules.Rule
		want  []rules.Duplicate
	}{
		{
			name:  "empty",
			rules: nil,
			want:  []rules.Duplicate{},
		},
		{
			name:  "unique patterns",
			rules: []rules.Rule{{ID: "r1", Pattern: "x"}, {ID: "r2", Pattern: "y"}},
			want:  []rules.Duplicate{},
		},
		{
			name:  "shared pattern",
			rules: []rules.Rule{{ID: "r1", Pattern: "x"}, {ID: "r2", Pattern: "x"}},
			want:  []rules.Duplicate{{Pattern: "x", IDs: []string{"r1", "r2"}}},
		},
		{
			name: "three-way collision lists every id",
			rules: []rules.Rule{
				{ID: "a", Pattern: "p"},
				{ID: "b", Pattern: "q"},
				{ID: "c", Pattern: "p"},
				{ID: "d", Pattern: "q"},
				{ID: "e", Pattern: "p"},
			},
			want: []rules.Duplicate{
				{Pattern: "p", IDs: []string{"a", "c", "e"}},
				{Pattern: "q", IDs: []string{"b", "d"}},
			},
		},
		{
			name: "incomplete rules still count",
			rules: []rules.Rule{
				{ID: "", Pattern: "x"},
				{ID: "r2", Pattern: "x", Reason: "r"},
			},
			want: []rules.Duplicate{{Pattern: "x", IDs: []string{"", "r2"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, rules.DuplicatePatterns(tt.rules))
		})
	}
}
