package scoring

import (
	"context"
	"errors"
	"testing"

	"greenscore-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStrategy struct {
	eval  *models.ComponentEvaluation
	err   error
	calls int
}

func (s *stubStrategy) Name() string { return "stub" }

func (s *stubStrategy) Evaluate(ctx context.Context, input ComponentInput) (*models.ComponentEvaluation, error) {
	s.calls++
	return s.eval, s.err
}

func governanceComponentInput(t *testing.T, excerpt string) ComponentInput {
	t.Helper()
	spec, ok := ComponentByID("governance")
	require.True(t, ok)
	return ComponentInput{
		Component:      spec,
		Excerpt:        excerpt,
		ProjectContext: map[string]string{},
	}
}

func adjudicatedEvaluation(confidence int) *models.ComponentEvaluation {
	return &models.ComponentEvaluation{
		Score:       99, // deliberately wrong; clamping recomputes from findings
		Confidence:  confidence,
		AIEvaluated: true,
		Findings: []models.CriterionFinding{
			{Criterion: "board_oversight", MaxPoints: 8, Awarded: 8, Status: models.FindingMet},
			{Criterion: "executive_accountability", MaxPoints: 6, Awarded: 3, Status: models.FindingPartial},
			{Criterion: "policy_alignment", MaxPoints: 6, Awarded: 3, Status: models.FindingPartial},
		},
	}
}

func TestCriterionEvaluatorUsesAdjudicatedResult(t *testing.T) {
	probabilistic := &stubStrategy{eval: adjudicatedEvaluation(80)}
	deterministic := &stubStrategy{}
	e := NewCriterionEvaluator(
		WithProbabilisticStrategy(probabilistic),
		WithDeterministicStrategy(deterministic),
	)

	eval := e.Evaluate(context.Background(), governanceComponentInput(t, ""))

	assert.True(t, eval.AIEvaluated)
	assert.Equal(t, 14.0, eval.Score)
	assert.Equal(t, "governance", eval.ComponentID)
	assert.Equal(t, "Governance & Oversight", eval.Name)
	assert.Equal(t, 20.0, eval.MaxScore)
	assert.Equal(t, 0, deterministic.calls)
}

func TestCriterionEvaluatorClampsAdjudicatedFindings(t *testing.T) {
	inflated := adjudicatedEvaluation(80)
	inflated.Findings[0].Awarded = 12 // above the 8-point criterion ceiling
	e := NewCriterionEvaluator(WithProbabilisticStrategy(&stubStrategy{eval: inflated}))

	eval := e.Evaluate(context.Background(), governanceComponentInput(t, ""))

	assert.Equal(t, 8.0, eval.Findings[0].Awarded)
	assert.Equal(t, 14.0, eval.Score)
}

func TestCriterionEvaluatorDiscardsLowConfidence(t *testing.T) {
	e := NewCriterionEvaluator(WithProbabilisticStrategy(&stubStrategy{eval: adjudicatedEvaluation(25)}))

	eval := e.Evaluate(context.Background(), governanceComponentInput(t, "The board has board-level oversight of climate strategy."))

	assert.False(t, eval.AIEvaluated)
	assert.Equal(t, DeterministicConfidence, eval.Confidence)
}

func TestCriterionEvaluatorDiscardsResultWithoutFindings(t *testing.T) {
	empty := &models.ComponentEvaluation{Confidence: 90, AIEvaluated: true}
	e := NewCriterionEvaluator(WithProbabilisticStrategy(&stubStrategy{eval: empty}))

	eval := e.Evaluate(context.Background(), governanceComponentInput(t, ""))

	assert.False(t, eval.AIEvaluated)
}

func TestCriterionEvaluatorFallsBackOnAdjudicationError(t *testing.T) {
	e := NewCriterionEvaluator(WithProbabilisticStrategy(&stubStrategy{err: errors.New("timeout")}))

	eval := e.Evaluate(context.Background(), governanceComponentInput(t, "A governance committee oversees the climate policy."))

	assert.False(t, eval.AIEvaluated)
	assert.Greater(t, eval.Score, 0.0)
}

func TestCriterionEvaluatorDegradesWhenDeterministicErrors(t *testing.T) {
	e := NewCriterionEvaluator(WithDeterministicStrategy(&stubStrategy{err: errors.New("broken replacement")}))

	eval := e.Evaluate(context.Background(), governanceComponentInput(t, "anything"))

	assert.Equal(t, 0.0, eval.Score)
	assert.Len(t, eval.Findings, 3)
	for _, f := range eval.Findings {
		assert.Equal(t, models.FindingMissing, f.Status)
	}
	assert.Equal(t, "Component could not be evaluated", eval.Rationale)
}
