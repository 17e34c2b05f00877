package scoring

import (
	"fmt"
	"strings"
	"time"

	"greenscore-backend/models"

	"github.com/google/uuid"
)

const (
	eligibleThreshold = 60
	partialThreshold  = 30

	aiRiskWeight   = 0.5
	ruleRiskWeight = 0.3
	envRiskWeight  = 0.2

	strongComponentRatio = 0.7
	weakComponentRatio   = 0.5
)

// EnvironmentalPenalty maps the harm framework's normalized score to a fixed
// penalty step
func EnvironmentalPenalty(normalized float64) float64 {
	switch {
	case normalized >= 83:
		return 0
	case normalized >= 70:
		return 5
	case normalized >= 50:
		return 10
	case normalized >= 25:
		return 18
	default:
		return 25
	}
}

// BlendPenalty combines the three independent risk signals into one penalty.
// A nil environmental assessment contributes zero, as do absent risk scores;
// missing signals are never treated as failures.
func BlendPenalty(aiRisk, ruleRisk float64, environmental *models.EnvironmentalAssessment) float64 {
	var envPenalty float64
	if environmental != nil {
		envPenalty = EnvironmentalPenalty(environmental.NormalizedScore)
	}
	return aiRiskWeight*aiRisk + ruleRiskWeight*ruleRisk + envRiskWeight*envPenalty
}

// Classify maps the final score and component breakdown to an eligibility
// state. A component scoring exactly zero blocks "eligible" regardless of the
// numeric total: a critical failure vetoes the continuous score.
func Classify(finalScore float64, components []models.ComponentEvaluation) models.Eligibility {
	anyZero := false
	for _, c := range components {
		if c.Score == 0 {
			anyZero = true
			break
		}
	}

	switch {
	case finalScore >= eligibleThreshold && !anyZero:
		return models.EligibilityEligible
	case finalScore >= partialThreshold:
		return models.EligibilityPartial
	default:
		return models.EligibilityIneligible
	}
}

// BuildRationale summarizes which components are strong (at or above 70% of
// their maximum) and which are weak (below 50%)
func BuildRationale(components []models.ComponentEvaluation) string {
	var strong, weak []string
	for _, c := range components {
		if c.MaxScore <= 0 {
			continue
		}
		ratio := c.Score / c.MaxScore
		if ratio >= strongComponentRatio {
			strong = append(strong, c.Name)
		} else if ratio < weakComponentRatio {
			weak = append(weak, c.Name)
		}
	}

	var parts []string
	if len(strong) > 0 {
		parts = append(parts, fmt.Sprintf("Strong performance: %s.", strings.Join(strong, ", ")))
	}
	if len(weak) > 0 {
		parts = append(parts, fmt.Sprintf("Weak performance: %s.", strings.Join(weak, ", ")))
	}
	if len(parts) == 0 {
		return "All components scored in the middle range."
	}
	return strings.Join(parts, " ")
}

// Aggregate fuses the component evaluations, the environmental assessment and
// the risk signals into the final report
func Aggregate(projectID uuid.UUID, components []models.ComponentEvaluation, environmental *models.EnvironmentalAssessment, aiRisk, ruleRisk float64) *models.AssessmentReport {
	var base float64
	for _, c := range components {
		base += c.Score
	}

	penalty := BlendPenalty(aiRisk, ruleRisk, environmental)
	final := base - penalty
	if final < 0 {
		final = 0
	}

	return &models.AssessmentReport{
		ProjectID:     projectID,
		Components:    components,
		Environmental: environmental,
		BaseScore:     base,
		Penalty:       penalty,
		FinalScore:    final,
		Eligibility:   Classify(final, components),
		Rationale:     BuildRationale(components),
		AIRiskScore:   aiRisk,
		RuleRiskScore: ruleRisk,
		GeneratedAt:   time.Now().UTC(),
	}
}
