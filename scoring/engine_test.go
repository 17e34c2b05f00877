package scoring

import (
	"context"
	"errors"
	"testing"

	"greenscore-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRisk struct {
	score      float64
	confidence int
	err        error
}

func (s *stubRisk) AssessRisk(ctx context.Context, project *models.Project, docText string) (float64, int, error) {
	return s.score, s.confidence, s.err
}

type panicStrategy struct{}

func (p *panicStrategy) Name() string { return "panicking" }

func (p *panicStrategy) Evaluate(ctx context.Context, input ComponentInput) (*models.ComponentEvaluation, error) {
	panic("strategy exploded")
}

func docTextProject(docText string) *models.Project {
	return &models.Project{
		ID:                uuid.New(),
		Name:              "Plant Retrofit",
		Sector:            "manufacturing",
		Country:           "DE",
		RawDocumentText:   &docText,
		ComponentExcerpts: models.ComponentExcerpts{},
		ExtractedFields:   models.ExtractedFields{},
	}
}

func TestAssessNilProject(t *testing.T) {
	e := NewEngine()

	report, err := e.Assess(context.Background(), nil)

	assert.Nil(t, report)
	assert.ErrorIs(t, err, ErrNoProject)
}

func TestAssessDeterministicRun(t *testing.T) {
	e := NewEngine()
	project := docTextProject("The board has board-level oversight of climate strategy and a published climate policy. " +
		"Compensation linked to climate outcomes applies to senior management. " +
		"Baseline emissions of 120 ktCO2e cover scope 1 and scope 2, with a net zero goal and interim target dates. " +
		"A decarbonization roadmap directs capital expenditure allocated to electrification of process heat. " +
		"The plan is fully funded through committed financing, supported by scenario analysis and a detailed cost estimate. " +
		"Reporting follows TCFD and is independently audited annually.")
	project.ComponentExcerpts = models.ComponentExcerpts{}
	for _, spec := range Components() {
		project.ComponentExcerpts[spec.ID] = *project.RawDocumentText
	}

	report, err := e.Assess(context.Background(), project)

	require.NoError(t, err)
	require.Len(t, report.Components, 5)
	assert.Equal(t, project.ID, report.ProjectID)
	require.NotNil(t, report.Environmental)
	assert.Equal(t, 0.0, report.AIRiskScore)

	var base float64
	for _, c := range report.Components {
		assert.False(t, c.AIEvaluated)
		assert.False(t, c.Failed)
		assert.Greater(t, c.Score, 0.0)
		base += c.Score
	}
	assert.Equal(t, base, report.BaseScore)
	assert.Equal(t, models.EligibilityEligible, report.Eligibility)
}

func TestAssessSubstitutesPlaceholderOnPanic(t *testing.T) {
	e := NewEngine(WithCriterionEvaluator(NewCriterionEvaluator(
		WithDeterministicStrategy(&panicStrategy{}),
	)))

	report, err := e.Assess(context.Background(), docTextProject("solar retrofit"))

	require.NoError(t, err)
	require.Len(t, report.Components, 5)
	for _, c := range report.Components {
		assert.True(t, c.Failed)
		assert.Equal(t, 0.0, c.Score)
	}
	// The other units are unaffected by the component failures
	assert.NotNil(t, report.Environmental)
	assert.Equal(t, models.EligibilityIneligible, report.Eligibility)
}

func TestAssessAcceptsConfidentRiskScore(t *testing.T) {
	e := NewEngine(WithRiskStrategy(&stubRisk{score: 40, confidence: 80}))

	report, err := e.Assess(context.Background(), docTextProject("solar retrofit"))

	require.NoError(t, err)
	assert.Equal(t, 40.0, report.AIRiskScore)
}

func TestAssessDiscardsLowConfidenceRiskScore(t *testing.T) {
	e := NewEngine(WithRiskStrategy(&stubRisk{score: 40, confidence: 10}))

	report, err := e.Assess(context.Background(), docTextProject("solar retrofit"))

	require.NoError(t, err)
	assert.Equal(t, 0.0, report.AIRiskScore)
}

func TestAssessTreatsRiskErrorAsAbsent(t *testing.T) {
	e := NewEngine(WithRiskStrategy(&stubRisk{err: errors.New("unavailable")}))

	report, err := e.Assess(context.Background(), docTextProject("solar retrofit"))

	require.NoError(t, err)
	assert.Equal(t, 0.0, report.AIRiskScore)
}

func TestAssessAppliesRedFlagRules(t *testing.T) {
	e := NewEngine()
	project := docTextProject("The operator faces pending environmental litigation over discharge permits.")

	report, err := e.Assess(context.Background(), project)

	require.NoError(t, err)
	assert.Equal(t, 30.0, report.RuleRiskScore)
}

func TestAssessScansTransitionStrategyForRedFlags(t *testing.T) {
	e := NewEngine()
	project := docTextProject("clean documentation")
	project.TransitionStrategy = "We rely primarily on offsets to reach the target."

	report, err := e.Assess(context.Background(), project)

	require.NoError(t, err)
	assert.Equal(t, 15.0, report.RuleRiskScore)
}

func TestAssessAppliesOverridesFromDocumentText(t *testing.T) {
	e := NewEngine()
	project := docTextProject("Our sbti-validated targets cover the full portfolio.")
	project.ComponentExcerpts = models.ComponentExcerpts{
		"emissions_targets": "The project targets net zero by 2040.",
	}

	report, err := e.Assess(context.Background(), project)

	require.NoError(t, err)
	var emissions models.ComponentEvaluation
	for _, c := range report.Components {
		if c.ComponentID == "emissions_targets" {
			emissions = c
		}
	}
	var sbt models.CriterionFinding
	for _, f := range emissions.Findings {
		if f.Criterion == "science_based_target" {
			sbt = f
		}
	}
	assert.Equal(t, 8.0, sbt.Awarded)
	assert.Equal(t, models.FindingMet, sbt.Status)
}
