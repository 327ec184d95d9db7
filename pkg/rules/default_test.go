package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/sentinel/pkg/rules"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	rs := rules.Default()
	require.NotEmpty(t, rs)

	kept, dropped := rules.Filter(rs)
	assert.Len(t, kept, len(rs))
	assert.Empty(t, dropped)
	assert.Empty(t, rules.Validate(rs))
	assert.Empty(t, rules.DuplicatePatterns(rs))

	for _, r := range rs {
		assert.True(t, r.Status.IsKnown(), r.ID)
	}
}
