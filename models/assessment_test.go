package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name    string
		awarded float64
		max     float64
		want    FindingStatus
	}{
		{"full marks", 8, 8, FindingMet},
		{"met boundary", 6.4, 8, FindingMet},
		{"middle", 4, 8, FindingPartial},
		{"missing boundary", 1.6, 8, FindingMissing},
		{"zero", 0, 8, FindingMissing},
		{"zero max", 5, 0, FindingMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.awarded, tt.max))
		})
	}
}

func TestAssessmentReportRoundTrip(t *testing.T) {
	original := AssessmentReport{
		ProjectID: uuid.New(),
		Components: []ComponentEvaluation{
			{
				ComponentID: "governance",
				Name:        "Governance & Oversight",
				MaxScore:    20,
				Score:       14,
				Confidence:  80,
				AIEvaluated: true,
				Findings: []CriterionFinding{
					{Criterion: "board_oversight", MaxPoints: 8, Awarded: 8, Status: FindingMet},
				},
			},
		},
		Environmental: &EnvironmentalAssessment{
			Status:          EnvironmentalCompliant,
			NormalizedScore: 92,
		},
		BaseScore:     14,
		Penalty:       5,
		FinalScore:    9,
		Eligibility:   EligibilityIneligible,
		AIRiskScore:   10,
		RuleRiskScore: 0,
		GeneratedAt:   time.Now().UTC(),
	}

	value, err := original.Value()
	require.NoError(t, err)

	var decoded AssessmentReport
	require.NoError(t, decoded.Scan(value))

	assert.Equal(t, original.ProjectID, decoded.ProjectID)
	assert.Equal(t, original.Components, decoded.Components)
	require.NotNil(t, decoded.Environmental)
	assert.Equal(t, EnvironmentalCompliant, decoded.Environmental.Status)
	assert.Equal(t, original.FinalScore, decoded.FinalScore)
	assert.Equal(t, original.Eligibility, decoded.Eligibility)
	assert.True(t, original.GeneratedAt.Equal(decoded.GeneratedAt))
}

func TestAssessmentReportScanString(t *testing.T) {
	var report AssessmentReport
	require.NoError(t, report.Scan(`{"final_score": 61, "eligibility": "eligible"}`))

	assert.Equal(t, 61.0, report.FinalScore)
	assert.Equal(t, EligibilityEligible, report.Eligibility)
}

func TestAssessmentReportScanNil(t *testing.T) {
	var report AssessmentReport
	require.NoError(t, report.Scan(nil))
	assert.Equal(t, AssessmentReport{}, report)
}

func TestAssessmentStepsScanNilYieldsEmptyList(t *testing.T) {
	var steps AssessmentSteps
	require.NoError(t, steps.Scan(nil))

	assert.NotNil(t, steps)
	assert.Empty(t, steps)
}

func TestAssessmentStepsRoundTrip(t *testing.T) {
	original := AssessmentSteps{
		{Name: "Scoring Governance & Oversight", Status: "completed"},
		{Name: "Aggregating Final Score", Status: "pending"},
	}

	value, err := original.Value()
	require.NoError(t, err)

	var decoded AssessmentSteps
	require.NoError(t, decoded.Scan(value))
	assert.Equal(t, original, decoded)
}

func TestComponentExcerptsScanNilYieldsEmptyMap(t *testing.T) {
	var excerpts ComponentExcerpts
	require.NoError(t, excerpts.Scan(nil))

	assert.NotNil(t, excerpts)
	assert.Empty(t, excerpts)
}
