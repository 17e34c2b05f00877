package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameworkShape(t *testing.T) {
	components := Components()
	require.Len(t, components, 5)

	for _, c := range components {
		assert.Equal(t, 20.0, c.MaxScore, c.ID)
		assert.NotEmpty(t, c.Rubric, c.ID)
		require.Len(t, c.Criteria, 3, c.ID)

		var criteriaTotal float64
		for _, criterion := range c.Criteria {
			assert.Greater(t, criterion.MaxPoints, 0.0)
			assert.Less(t, criterion.PartialPoints, criterion.MaxPoints)
			assert.NotEmpty(t, criterion.FullIndicators)
			criteriaTotal += criterion.MaxPoints
		}
		assert.Equal(t, c.MaxScore, criteriaTotal, "criteria of %s must sum to the component maximum", c.ID)
	}

	assert.Equal(t, 100.0, BaseScoreCeiling())
}

func TestOverridesReferenceExistingCriteria(t *testing.T) {
	for _, c := range Components() {
		labels := make(map[string]float64)
		for _, criterion := range c.Criteria {
			labels[criterion.Label] = criterion.MaxPoints
		}
		for _, rule := range c.Overrides {
			max, ok := labels[rule.Criterion]
			require.True(t, ok, "override in %s targets unknown criterion %s", c.ID, rule.Criterion)
			assert.LessOrEqual(t, rule.Boost, max, "override boost in %s exceeds criterion maximum", c.ID)
			assert.NotEmpty(t, rule.Triggers)
		}
	}
}

func TestComponentByID(t *testing.T) {
	spec, ok := ComponentByID("governance")
	assert.True(t, ok)
	assert.Equal(t, "Governance & Oversight", spec.Name)

	_, ok = ComponentByID("unknown")
	assert.False(t, ok)
}

func TestObjectivesShape(t *testing.T) {
	objectives := Objectives()
	require.Len(t, objectives, 6)

	seen := make(map[string]bool)
	for _, o := range objectives {
		assert.False(t, seen[o.ID], "duplicate objective %s", o.ID)
		seen[o.ID] = true
		assert.NotEmpty(t, o.ConcernTerms, o.ID)
		assert.NotEmpty(t, o.HarmTerms, o.ID)
		assert.NotEmpty(t, o.Recommendation, o.ID)
	}
}

func TestIncompatibilitySignaturesTargetKnownObjectives(t *testing.T) {
	known := make(map[string]bool)
	for _, o := range Objectives() {
		known[o.ID] = true
	}
	for _, sig := range incompatibilitySignatures {
		assert.True(t, known[sig.Objective], "signature targets unknown objective %s", sig.Objective)
		assert.NotEmpty(t, sig.Phrases)
	}
}
