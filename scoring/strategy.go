package scoring

import (
	"context"
	"log"

	"greenscore-backend/models"
)

const (
	// ConfidenceThreshold is the minimum adjudicator confidence accepted by
	// the dispatcher. Results below it are discarded entirely.
	ConfidenceThreshold = 30

	// DeterministicConfidence is the fixed confidence reported by the
	// indicator strategy, marking an evaluation as non-adjudicated.
	DeterministicConfidence = 50
)

// ComponentInput carries everything one component evaluation needs
type ComponentInput struct {
	Component ComponentSpec
	// Excerpt is the document excerpt extracted for this component; may be empty
	Excerpt string
	Fields  models.ExtractedFields
	// ProjectContext holds identifying and narrative fields (name, sector,
	// country, transition strategy)
	ProjectContext map[string]string
}

// ComponentStrategy evaluates one framework component. Both strategies emit
// the same ComponentEvaluation shape so the rest of the pipeline is
// strategy-agnostic.
type ComponentStrategy interface {
	Name() string
	Evaluate(ctx context.Context, input ComponentInput) (*models.ComponentEvaluation, error)
}

// CriterionEvaluator dispatches between the probabilistic and deterministic
// strategies. The probabilistic strategy is tried first; its result is
// discarded when it errors, returns no findings, or reports confidence below
// ConfidenceThreshold. The deterministic path cannot fail, so Evaluate never
// fails outward.
type CriterionEvaluator struct {
	probabilistic ComponentStrategy
	deterministic ComponentStrategy
}

// CriterionEvaluatorOption is a functional option for CriterionEvaluator
type CriterionEvaluatorOption func(*CriterionEvaluator)

// WithProbabilisticStrategy sets the adjudicator-backed strategy
func WithProbabilisticStrategy(s ComponentStrategy) CriterionEvaluatorOption {
	return func(e *CriterionEvaluator) {
		e.probabilistic = s
	}
}

// WithDeterministicStrategy replaces the default indicator strategy
func WithDeterministicStrategy(s ComponentStrategy) CriterionEvaluatorOption {
	return func(e *CriterionEvaluator) {
		e.deterministic = s
	}
}

// NewCriterionEvaluator creates a new evaluator. Without options it runs the
// deterministic strategy only.
func NewCriterionEvaluator(opts ...CriterionEvaluatorOption) *CriterionEvaluator {
	e := &CriterionEvaluator{
		deterministic: &IndicatorEvaluator{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate produces one ComponentEvaluation for the input component
func (e *CriterionEvaluator) Evaluate(ctx context.Context, input ComponentInput) *models.ComponentEvaluation {
	if e.probabilistic != nil {
		eval, err := e.probabilistic.Evaluate(ctx, input)
		if err != nil {
			log.Printf("Warning: adjudication unavailable for %s: %v. Falling back to indicator evaluation.", input.Component.ID, err)
		} else if !usable(eval) {
			log.Printf("Warning: discarding unusable adjudication for %s (confidence %d). Falling back to indicator evaluation.", input.Component.ID, eval.Confidence)
		} else {
			clampEvaluation(eval, input.Component)
			return eval
		}
	}

	eval, err := e.deterministic.Evaluate(ctx, input)
	if err != nil {
		// The indicator strategy does not error; guard against replacements
		// that do by degrading to an empty evaluation.
		log.Printf("Warning: deterministic evaluation failed for %s: %v", input.Component.ID, err)
		eval = emptyEvaluation(input.Component)
	}
	clampEvaluation(eval, input.Component)
	return eval
}

// usable reports whether an adjudicated result satisfies the structured
// response contract well enough to be kept
func usable(eval *models.ComponentEvaluation) bool {
	if eval == nil || len(eval.Findings) == 0 {
		return false
	}
	return eval.Confidence >= ConfidenceThreshold
}

// clampEvaluation enforces the scoring invariants on any strategy output:
// findings never exceed their maxima and the total never exceeds the
// component maximum.
func clampEvaluation(eval *models.ComponentEvaluation, spec ComponentSpec) {
	var total float64
	for i := range eval.Findings {
		f := &eval.Findings[i]
		if f.Awarded < 0 {
			f.Awarded = 0
		}
		if f.MaxPoints > 0 && f.Awarded > f.MaxPoints {
			f.Awarded = f.MaxPoints
		}
		total += f.Awarded
	}
	if total > spec.MaxScore {
		total = spec.MaxScore
	}
	if total < 0 {
		total = 0
	}
	eval.Score = total
	eval.ComponentID = spec.ID
	eval.Name = spec.Name
	eval.MaxScore = spec.MaxScore
}

func emptyEvaluation(spec ComponentSpec) *models.ComponentEvaluation {
	findings := make([]models.CriterionFinding, 0, len(spec.Criteria))
	for _, c := range spec.Criteria {
		findings = append(findings, models.CriterionFinding{
			Criterion: c.Label,
			MaxPoints: c.MaxPoints,
			Awarded:   0,
			Status:    models.FindingMissing,
			Rationale: "No evaluation available",
		})
	}
	return &models.ComponentEvaluation{
		ComponentID: spec.ID,
		Name:        spec.Name,
		MaxScore:    spec.MaxScore,
		Confidence:  0,
		Findings:    findings,
		Rationale:   "Component could not be evaluated",
	}
}
