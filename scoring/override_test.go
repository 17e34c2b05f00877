package scoring

import (
	"context"
	"strings"
	"testing"

	"greenscore-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emissionsEvaluation(t *testing.T, excerpt string) (models.ComponentEvaluation, ComponentSpec) {
	t.Helper()
	spec, ok := ComponentByID("emissions_targets")
	require.True(t, ok)

	e := &IndicatorEvaluator{}
	eval, err := e.Evaluate(context.Background(), ComponentInput{
		Component:      spec,
		Excerpt:        excerpt,
		ProjectContext: map[string]string{},
	})
	require.NoError(t, err)
	return *eval, spec
}

func findFinding(t *testing.T, eval models.ComponentEvaluation, criterion string) models.CriterionFinding {
	t.Helper()
	for _, f := range eval.Findings {
		if f.Criterion == criterion {
			return f
		}
	}
	t.Fatalf("finding %q not present", criterion)
	return models.CriterionFinding{}
}

func TestApplyOverridesRaisesScore(t *testing.T) {
	eval, spec := emissionsEvaluation(t, "The project targets net zero by 2040.")
	before := findFinding(t, eval, "science_based_target")
	require.Equal(t, 4.0, before.Awarded)

	evidence := "our targets have been validated by the science based targets initiative"
	out := ApplyOverrides(eval, spec, evidence)

	after := findFinding(t, out, "science_based_target")
	assert.Equal(t, 8.0, after.Awarded)
	assert.Equal(t, models.FindingMet, after.Status)
	assert.True(t, strings.HasPrefix(after.Rationale, "[explicit statement] "))
	assert.Equal(t, eval.Score+4, out.Score)
	assert.Contains(t, out.Rationale, "raised 1 criterion score(s)")
}

func TestApplyOverridesIsIdempotent(t *testing.T) {
	eval, spec := emissionsEvaluation(t, "The project targets net zero by 2040.")
	evidence := "sbti-validated targets across all business units"

	once := ApplyOverrides(eval, spec, evidence)
	twice := ApplyOverrides(once, spec, evidence)

	assert.Equal(t, once, twice)
}

func TestApplyOverridesNeverLowers(t *testing.T) {
	eval, spec := emissionsEvaluation(t, "Targets follow a 1.5C pathway.")
	before := findFinding(t, eval, "science_based_target")
	require.Equal(t, 8.0, before.Awarded)

	out := ApplyOverrides(eval, spec, "sbti-validated")

	after := findFinding(t, out, "science_based_target")
	assert.Equal(t, before.Awarded, after.Awarded)
	assert.Equal(t, eval.Score, out.Score)
	assert.Equal(t, eval.Rationale, out.Rationale)
}

func TestApplyOverridesWithoutTriggerIsNoOp(t *testing.T) {
	eval, spec := emissionsEvaluation(t, "The project targets net zero by 2040.")

	out := ApplyOverrides(eval, spec, "generic documentation with no explicit statements")

	assert.Equal(t, eval.Score, out.Score)
	assert.Equal(t, eval.Findings, out.Findings)
}

func TestApplyOverridesDoesNotMutateInput(t *testing.T) {
	eval, spec := emissionsEvaluation(t, "The project targets net zero by 2040.")
	originalScore := eval.Score
	originalAwarded := findFinding(t, eval, "science_based_target").Awarded

	_ = ApplyOverrides(eval, spec, "sbti-validated")

	assert.Equal(t, originalScore, eval.Score)
	assert.Equal(t, originalAwarded, findFinding(t, eval, "science_based_target").Awarded)
}

func TestApplyOverridesBoostCappedAtCriterionMax(t *testing.T) {
	spec := ComponentSpec{
		ID:       "custom",
		Name:     "Custom",
		MaxScore: 10,
		Criteria: []CriterionSpec{
			{Label: "crit", MaxPoints: 6},
		},
		Overrides: []OverrideRule{
			{Criterion: "crit", Triggers: []string{"explicit statement"}, Boost: 10},
		},
	}
	eval := models.ComponentEvaluation{
		ComponentID: "custom",
		MaxScore:    10,
		Findings: []models.CriterionFinding{
			{Criterion: "crit", MaxPoints: 6, Awarded: 0, Status: models.FindingMissing},
		},
	}

	out := ApplyOverrides(eval, spec, "contains the explicit statement verbatim")

	assert.Equal(t, 6.0, out.Findings[0].Awarded)
	assert.Equal(t, 6.0, out.Score)
}
