package scoring

import (
	"context"
	"errors"
	"testing"

	"greenscore-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cannedAdjudicator(response string, err error) *Adjudicator {
	a := NewAdjudicator("test-key", nil)
	a.generate = func(ctx context.Context, prompt string) (string, error) {
		return response, err
	}
	return a
}

func TestAdjudicatorEvaluateParsesFencedResponse(t *testing.T) {
	response := "```json\n" + `{
		"score": 14,
		"confidence": 85,
		"rationale": "Solid oversight, weaker accountability.",
		"findings": [
			{"criterion": "board_oversight", "max_points": 8, "awarded": 8, "status": "missing", "evidence": "board committee"},
			{"criterion": "executive_accountability", "max_points": 6, "awarded": 3},
			{"criterion": "policy_alignment", "max_points": 6, "awarded": 1}
		],
		"suggestions": ["Link executive pay to climate outcomes"]
	}` + "\n```"
	a := cannedAdjudicator(response, nil)

	eval, err := a.Evaluate(context.Background(), governanceComponentInput(t, "excerpt"))

	require.NoError(t, err)
	assert.True(t, eval.AIEvaluated)
	assert.Equal(t, 14.0, eval.Score)
	assert.Equal(t, 85, eval.Confidence)
	require.Len(t, eval.Findings, 3)
	// Status comes from the awarded/max ratio, not from the model
	assert.Equal(t, models.FindingMet, eval.Findings[0].Status)
	assert.Equal(t, models.FindingPartial, eval.Findings[1].Status)
	assert.Equal(t, models.FindingMissing, eval.Findings[2].Status)
	assert.Equal(t, []string{"Link executive pay to climate outcomes"}, eval.Suggestions)
}

func TestAdjudicatorEvaluateRejectsMalformedResponse(t *testing.T) {
	a := cannedAdjudicator("the project looks fine to me", nil)

	_, err := a.Evaluate(context.Background(), governanceComponentInput(t, ""))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed adjudication response")
}

func TestAdjudicatorEvaluateRejectsResponseWithoutFindings(t *testing.T) {
	a := cannedAdjudicator(`{"score": 10, "confidence": 80, "findings": []}`, nil)

	_, err := a.Evaluate(context.Background(), governanceComponentInput(t, ""))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no findings")
}

func TestAdjudicatorEvaluatePropagatesGenerationError(t *testing.T) {
	a := cannedAdjudicator("", errors.New("API error: 503"))

	_, err := a.Evaluate(context.Background(), governanceComponentInput(t, ""))

	assert.Error(t, err)
}

func TestScreenEnvironmentalRequiresAllObjectives(t *testing.T) {
	a := cannedAdjudicator(`{
		"confidence": 90,
		"objectives": [
			{"objective": "climate_mitigation", "status": "no_harm", "score": 4}
		]
	}`, nil)

	_, err := a.ScreenEnvironmental(context.Background(), &models.Project{}, "doc")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "covers 1 objectives, want 6")
}

func TestScreenEnvironmentalParsesResponse(t *testing.T) {
	a := cannedAdjudicator(`{
		"confidence": 75,
		"objectives": [
			{"objective": "climate_mitigation", "status": "no_harm", "score": 4},
			{"objective": "climate_adaptation", "status": "not_assessed", "score": 2},
			{"objective": "water_resources", "status": "potential_harm", "score": 2, "concern": "High water draw", "recommendation": "Recycle process water"},
			{"objective": "circular_economy", "status": "no_harm", "score": 4},
			{"objective": "pollution_prevention", "status": "no_harm", "score": 4},
			{"objective": "biodiversity", "status": "significant_harm", "score": 1, "fundamentally_incompatible": true}
		]
	}`, nil)

	assessment, err := a.ScreenEnvironmental(context.Background(), &models.Project{}, "doc")

	require.NoError(t, err)
	assert.True(t, assessment.AIEvaluated)
	assert.Equal(t, 75, assessment.Confidence)
	require.Len(t, assessment.Objectives, 6)
	assert.Equal(t, models.ObjectivePotentialHarm, assessment.Objectives[2].Status)
	assert.Equal(t, "Recycle process water", assessment.Objectives[2].Recommendation)
	assert.True(t, assessment.Objectives[5].FundamentallyIncompatible)
}

func TestAssessRiskClampsScore(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     float64
	}{
		{"above range", `{"risk_score": 150, "confidence": 80}`, 100},
		{"below range", `{"risk_score": -5, "confidence": 80}`, 0},
		{"in range", `{"risk_score": 42.5, "confidence": 80}`, 42.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := cannedAdjudicator(tt.response, nil)
			score, confidence, err := a.AssessRisk(context.Background(), &models.Project{}, "doc")
			require.NoError(t, err)
			assert.Equal(t, tt.want, score)
			assert.Equal(t, 80, confidence)
		})
	}
}

func TestAssessRiskRejectsMalformedResponse(t *testing.T) {
	a := cannedAdjudicator("not json", nil)

	_, _, err := a.AssessRisk(context.Background(), &models.Project{}, "doc")

	assert.Error(t, err)
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}\n", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFences(tt.in))
		})
	}
}
