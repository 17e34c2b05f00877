package scoring

import (
	"context"
	"errors"
	"log"
	"strings"

	"greenscore-backend/models"

	"golang.org/x/sync/errgroup"
)

// ErrNoProject is returned when an assessment is requested without a project
// record. It is the only condition that aborts an assessment.
var ErrNoProject = errors.New("no project record supplied")

// RiskStrategy is the probabilistic risk-score boundary
type RiskStrategy interface {
	AssessRisk(ctx context.Context, project *models.Project, docText string) (float64, int, error)
}

// Engine runs one full assessment: the five framework components, the
// environmental screening and the risk signals are independent units of work
// evaluated concurrently, joined only at aggregation.
type Engine struct {
	evaluator     *CriterionEvaluator
	environmental *EnvironmentalEvaluator
	risk          RiskStrategy
}

// EngineOption is a functional option for Engine
type EngineOption func(*Engine)

// WithCriterionEvaluator sets the component evaluator
func WithCriterionEvaluator(e *CriterionEvaluator) EngineOption {
	return func(eng *Engine) {
		eng.evaluator = e
	}
}

// WithEnvironmentalEvaluator sets the environmental evaluator
func WithEnvironmentalEvaluator(e *EnvironmentalEvaluator) EngineOption {
	return func(eng *Engine) {
		eng.environmental = e
	}
}

// WithRiskStrategy sets the probabilistic risk scorer
func WithRiskStrategy(r RiskStrategy) EngineOption {
	return func(eng *Engine) {
		eng.risk = r
	}
}

// NewEngine creates an engine. Without options every unit runs its
// deterministic path only.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		evaluator:     NewCriterionEvaluator(),
		environmental: NewEnvironmentalEvaluator(nil),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Assess produces the full assessment report for one project. Individual unit
// failures degrade to placeholder results; only a missing project aborts.
func (e *Engine) Assess(ctx context.Context, project *models.Project) (*models.AssessmentReport, error) {
	if project == nil {
		return nil, ErrNoProject
	}

	docText := ""
	if project.RawDocumentText != nil {
		docText = *project.RawDocumentText
	}

	projectContext := map[string]string{
		"name":                project.Name,
		"sector":              project.Sector,
		"country":             project.Country,
		"transition_strategy": project.TransitionStrategy,
	}

	specs := Components()
	components := make([]models.ComponentEvaluation, len(specs))
	var environmental *models.EnvironmentalAssessment
	var aiRisk float64

	g, gctx := errgroup.WithContext(ctx)

	for i, spec := range specs {
		g.Go(func() error {
			defer recoverUnit(spec.ID, func() {
				components[i] = *failedEvaluation(spec)
			})

			input := ComponentInput{
				Component:      spec,
				Excerpt:        project.ComponentExcerpts[spec.ID],
				Fields:         project.ExtractedFields,
				ProjectContext: projectContext,
			}

			eval := e.evaluator.Evaluate(gctx, input)
			evidence := overrideEvidence(input, docText)
			components[i] = ApplyOverrides(*eval, spec, evidence)
			return nil
		})
	}

	g.Go(func() error {
		defer recoverUnit("environmental", func() {
			environmental = nil
		})
		environmental = e.environmental.Evaluate(gctx, project, docText)
		return nil
	})

	g.Go(func() error {
		defer recoverUnit("risk", func() {
			aiRisk = 0
		})
		if e.risk == nil {
			return nil
		}
		score, confidence, err := e.risk.AssessRisk(gctx, project, docText)
		if err != nil {
			log.Printf("Warning: risk adjudication unavailable: %v. Treating AI risk as absent.", err)
			return nil
		}
		if confidence < ConfidenceThreshold {
			log.Printf("Warning: discarding low-confidence risk score (confidence %d).", confidence)
			return nil
		}
		aiRisk = score
		return nil
	})

	// Units never propagate errors; the join only waits for completion.
	_ = g.Wait()

	ruleRisk, triggered := RuleRiskScore(docText + " " + project.TransitionStrategy)
	if len(triggered) > 0 {
		log.Printf("Red-flag rules triggered for project %s: %s", project.ID, strings.Join(triggered, ", "))
	}

	return Aggregate(project.ID, components, environmental, aiRisk, ruleRisk), nil
}

// overrideEvidence concatenates everything the override layer may scan for
// explicit compliance statements
func overrideEvidence(input ComponentInput, docText string) string {
	return strings.ToLower(input.Excerpt + " " + input.ProjectContext["transition_strategy"] + " " + docText)
}

// recoverUnit converts a panicking unit into its placeholder result so one
// failed unit never aborts the assessment
func recoverUnit(unit string, fallback func()) {
	if r := recover(); r != nil {
		log.Printf("Warning: %s evaluation unit panicked: %v. Substituting placeholder result.", unit, r)
		fallback()
	}
}

// failedEvaluation is the zero placeholder for a unit that failed
// unexpectedly
func failedEvaluation(spec ComponentSpec) *models.ComponentEvaluation {
	eval := emptyEvaluation(spec)
	eval.Failed = true
	eval.Rationale = "Component evaluation failed unexpectedly; scored 0"
	return eval
}
