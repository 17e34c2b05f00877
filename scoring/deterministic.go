package scoring

import (
	"context"
	"fmt"
	"strings"

	"greenscore-backend/models"
)

// IndicatorEvaluator is the deterministic strategy. It scans the concatenated
// evidence text (excerpt, extracted fields, transition strategy) for
// domain-specific indicator terms and assigns fixed point allocations per
// criterion based on presence or absence.
type IndicatorEvaluator struct{}

// Name identifies the strategy in logs and rationales
func (e *IndicatorEvaluator) Name() string {
	return "indicator"
}

// Evaluate scores one component from indicator-term presence. It never
// returns an error.
func (e *IndicatorEvaluator) Evaluate(ctx context.Context, input ComponentInput) (*models.ComponentEvaluation, error) {
	evidence := collectEvidence(input)

	findings := make([]models.CriterionFinding, 0, len(input.Component.Criteria))
	suggestions := make([]string, 0)
	var quoted []string
	var total float64

	for _, criterion := range input.Component.Criteria {
		finding := scoreCriterion(criterion, evidence)
		total += finding.Awarded
		if finding.Status == models.FindingMissing {
			suggestions = append(suggestions, fmt.Sprintf("Provide documentation addressing %s", strings.ReplaceAll(criterion.Label, "_", " ")))
		}
		if finding.Evidence != "" {
			quoted = append(quoted, finding.Evidence)
		}
		findings = append(findings, finding)
	}

	if total > input.Component.MaxScore {
		total = input.Component.MaxScore
	}

	return &models.ComponentEvaluation{
		ComponentID: input.Component.ID,
		Name:        input.Component.Name,
		MaxScore:    input.Component.MaxScore,
		Score:       total,
		Confidence:  DeterministicConfidence,
		AIEvaluated: false,
		Findings:    findings,
		Rationale:   fmt.Sprintf("Scored %s by indicator-term matching across the supplied documentation.", input.Component.Name),
		Suggestions: suggestions,
		Evidence:    quoted,
	}, nil
}

// scoreCriterion assigns the fixed allocation for one criterion: full points
// when any full indicator appears, the partial allocation when only a partial
// indicator appears, zero otherwise.
func scoreCriterion(criterion CriterionSpec, evidence string) models.CriterionFinding {
	finding := models.CriterionFinding{
		Criterion: criterion.Label,
		MaxPoints: criterion.MaxPoints,
	}

	if term, ok := matchAny(evidence, criterion.FullIndicators); ok {
		finding.Awarded = criterion.MaxPoints
		finding.Evidence = term
		finding.Rationale = fmt.Sprintf("Documentation contains %q", term)
	} else if term, ok := matchAny(evidence, criterion.PartialIndicators); ok {
		finding.Awarded = criterion.PartialPoints
		finding.Evidence = term
		finding.Rationale = fmt.Sprintf("Documentation mentions %q without sufficient detail", term)
	} else {
		finding.Awarded = 0
		finding.Rationale = "No supporting evidence found in the documentation"
	}

	finding.Status = models.DeriveStatus(finding.Awarded, finding.MaxPoints)
	return finding
}

// matchAny returns the first term present in the evidence text
func matchAny(evidence string, terms []string) (string, bool) {
	for _, term := range terms {
		if strings.Contains(evidence, strings.ToLower(term)) {
			return term, true
		}
	}
	return "", false
}

// collectEvidence lowercases and concatenates everything the deterministic
// strategy is allowed to look at
func collectEvidence(input ComponentInput) string {
	var builder strings.Builder
	builder.WriteString(input.Excerpt)
	builder.WriteString(" ")
	for _, key := range []string{"description", "transition_strategy"} {
		if v, ok := input.ProjectContext[key]; ok {
			builder.WriteString(v)
			builder.WriteString(" ")
		}
	}
	for _, v := range input.Fields {
		if s, ok := v.(string); ok {
			builder.WriteString(s)
			builder.WriteString(" ")
		}
	}
	return strings.ToLower(builder.String())
}
