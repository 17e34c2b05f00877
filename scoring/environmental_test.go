package scoring

import (
	"context"
	"errors"
	"testing"

	"greenscore-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubScreener struct {
	assessment *models.EnvironmentalAssessment
	err        error
}

func (s *stubScreener) ScreenEnvironmental(ctx context.Context, project *models.Project, docText string) (*models.EnvironmentalAssessment, error) {
	return s.assessment, s.err
}

func cleanScreening(confidence int) *models.EnvironmentalAssessment {
	objectives := make([]models.EnvironmentalObjectiveResult, 0, len(Objectives()))
	for _, spec := range Objectives() {
		objectives = append(objectives, models.EnvironmentalObjectiveResult{
			Objective: spec.ID,
			Status:    models.ObjectiveNoHarm,
			Score:     objectiveMaxScore,
		})
	}
	return &models.EnvironmentalAssessment{
		Objectives:  objectives,
		Confidence:  confidence,
		AIEvaluated: true,
	}
}

func TestEnvironmentalEvaluatorCleanDocument(t *testing.T) {
	e := NewEnvironmentalEvaluator(nil)
	doc := "Rooftop solar installation with community benefit agreements and verified supply chains."

	a := e.Evaluate(context.Background(), &models.Project{Sector: "energy"}, doc)

	require.Len(t, a.Objectives, 6)
	for _, obj := range a.Objectives {
		assert.Equal(t, models.ObjectiveNoHarm, obj.Status)
		assert.Equal(t, 4.0, obj.Score)
	}
	assert.Equal(t, 24.0, a.RawScore)
	assert.InDelta(t, 100.0, a.NormalizedScore, 0.001)
	assert.Equal(t, models.EnvironmentalCompliant, a.Status)
	assert.False(t, a.Incompatible)
	assert.Empty(t, a.Recommendations)
}

func TestEnvironmentalEvaluatorEmptyDocument(t *testing.T) {
	e := NewEnvironmentalEvaluator(nil)

	a := e.Evaluate(context.Background(), &models.Project{}, "")

	require.Len(t, a.Objectives, 6)
	for _, obj := range a.Objectives {
		assert.Equal(t, models.ObjectiveNotAssessed, obj.Status)
		assert.Equal(t, 2.0, obj.Score)
	}
	assert.InDelta(t, 50.0, a.NormalizedScore, 0.001)
	assert.Equal(t, models.EnvironmentalPartial, a.Status)
}

func TestEnvironmentalEvaluatorSignificantHarm(t *testing.T) {
	e := NewEnvironmentalEvaluator(nil)
	doc := "The facility discharges untreated wastewater into the adjacent river."

	a := e.Evaluate(context.Background(), &models.Project{Sector: "manufacturing"}, doc)

	var water models.EnvironmentalObjectiveResult
	for _, obj := range a.Objectives {
		if obj.Objective == "water_resources" {
			water = obj
		}
	}
	assert.Equal(t, models.ObjectiveSignificantHarm, water.Status)
	assert.Equal(t, 1.0, water.Score)
	assert.NotEmpty(t, water.Recommendation)
	assert.Equal(t, models.EnvironmentalNonCompliant, a.Status)
	assert.False(t, a.Incompatible)
	assert.NotEmpty(t, a.Recommendations)
	assert.NotEmpty(t, a.KeyRisks)
}

func TestEnvironmentalEvaluatorIncompatibilityIsAbsorbing(t *testing.T) {
	e := NewEnvironmentalEvaluator(nil)
	// A remediable issue elsewhere plus a non-remediable activity
	doc := "Waste goes to landfill disposal. The plan also covers new oil exploration in the northern basin."

	a := e.Evaluate(context.Background(), &models.Project{Sector: "energy"}, doc)

	var climate models.EnvironmentalObjectiveResult
	for _, obj := range a.Objectives {
		if obj.Objective == "climate_mitigation" {
			climate = obj
		}
	}
	assert.True(t, climate.FundamentallyIncompatible)
	assert.Equal(t, 0.0, climate.Score)
	assert.Equal(t, models.ObjectiveSignificantHarm, climate.Status)
	assert.Empty(t, climate.Recommendation)

	assert.True(t, a.Incompatible)
	assert.Equal(t, models.EnvironmentalNonCompliant, a.Status)
	// Incompatibility suppresses remediation advice entirely, including for
	// the remediable landfill concern
	assert.Empty(t, a.Recommendations)
}

func TestEnvironmentalEvaluatorIncompatibilityOverridesScreening(t *testing.T) {
	// The screener reports a clean project, but the document names a
	// non-remediable activity; the signature scan wins.
	e := NewEnvironmentalEvaluator(&stubScreener{assessment: cleanScreening(90)})
	doc := "Expansion financed through a new coal mine in the region."

	a := e.Evaluate(context.Background(), &models.Project{}, doc)

	assert.True(t, a.AIEvaluated)
	assert.True(t, a.Incompatible)
	assert.Equal(t, models.EnvironmentalNonCompliant, a.Status)
	for _, obj := range a.Objectives {
		if obj.Objective == "climate_mitigation" {
			assert.Equal(t, 0.0, obj.Score)
			assert.Equal(t, models.ObjectiveSignificantHarm, obj.Status)
		}
	}
}

func TestEnvironmentalEvaluatorDiscardsLowConfidenceScreening(t *testing.T) {
	e := NewEnvironmentalEvaluator(&stubScreener{assessment: cleanScreening(10)})

	a := e.Evaluate(context.Background(), &models.Project{}, "rooftop solar installation")

	assert.False(t, a.AIEvaluated)
	assert.Equal(t, DeterministicConfidence, a.Confidence)
}

func TestEnvironmentalEvaluatorFallsBackOnScreenerError(t *testing.T) {
	e := NewEnvironmentalEvaluator(&stubScreener{err: errors.New("unavailable")})

	a := e.Evaluate(context.Background(), &models.Project{}, "rooftop solar installation")

	assert.False(t, a.AIEvaluated)
	require.Len(t, a.Objectives, 6)
}

func TestSectorWeightingEmphasizesRelevantObjectives(t *testing.T) {
	e := NewEnvironmentalEvaluator(nil)
	project := &models.Project{Sector: "energy"}

	// Energy weights climate mitigation 1.5x, so harm there costs more than
	// the same harm on biodiversity
	climateHarm := e.Evaluate(context.Background(), project, "a coal-fired unit remains in operation")
	bioHarm := e.Evaluate(context.Background(), project, "construction causes critical habitat loss nearby")

	assert.Less(t, climateHarm.NormalizedScore, bioHarm.NormalizedScore)
}

func TestObjectiveScoreClamping(t *testing.T) {
	screened := cleanScreening(90)
	screened.Objectives[0].Score = 9
	screened.Objectives[1].Score = -3
	e := NewEnvironmentalEvaluator(&stubScreener{assessment: screened})

	a := e.Evaluate(context.Background(), &models.Project{}, "rooftop solar installation")

	assert.Equal(t, 4.0, a.Objectives[0].Score)
	assert.Equal(t, 0.0, a.Objectives[1].Score)
}
