package scoring

import (
	"context"
	"fmt"
	"log"
	"strings"

	"greenscore-backend/models"
)

// objectiveMaxScore is the per-objective ceiling of the harm framework
const objectiveMaxScore = 4

// partialStatusFloor is the normalized score below which an otherwise clean
// screening is still classified as partial
const partialStatusFloor = 75

// ObjectiveSpec defines one environmental objective of the harm framework
type ObjectiveSpec struct {
	ID   string
	Name string
	// ConcernTerms downgrade the objective to potential harm when present
	ConcernTerms []string
	// HarmTerms downgrade the objective to significant harm when present
	HarmTerms []string
	// Recommendation is offered when the objective shows remediable concerns
	Recommendation string
}

// Objectives returns the six fixed environmental objectives
func Objectives() []ObjectiveSpec {
	return []ObjectiveSpec{
		{
			ID:             "climate_mitigation",
			Name:           "Climate Change Mitigation",
			ConcernTerms:   []string{"increase in emissions", "higher emissions", "no reduction target", "diesel generators"},
			HarmTerms:      []string{"coal-fired", "new gas turbine capacity", "flaring"},
			Recommendation: "Quantify and cap the project's gross emissions impact with a dated reduction plan",
		},
		{
			ID:             "climate_adaptation",
			Name:           "Climate Change Adaptation",
			ConcernTerms:   []string{"flood-prone", "drought-prone", "no adaptation plan", "heat stress"},
			HarmTerms:      []string{"ignores physical climate risk", "built on floodplain without mitigation"},
			Recommendation: "Carry out a physical climate-risk assessment covering the asset lifetime",
		},
		{
			ID:             "water_resources",
			Name:           "Water & Marine Resources",
			ConcernTerms:   []string{"high water consumption", "groundwater extraction", "water-stressed region"},
			HarmTerms:      []string{"untreated wastewater", "discharge into protected waters"},
			Recommendation: "Introduce water-recycling measures and disclose consumption against local availability",
		},
		{
			ID:             "circular_economy",
			Name:           "Circular Economy",
			ConcernTerms:   []string{"single-use", "no recycling", "landfill disposal"},
			HarmTerms:      []string{"hazardous waste without treatment", "illegal dumping"},
			Recommendation: "Adopt a waste-management plan with reuse and recycling targets",
		},
		{
			ID:             "pollution_prevention",
			Name:           "Pollution Prevention",
			ConcernTerms:   []string{"air quality impact", "noise pollution", "particulate emissions"},
			HarmTerms:      []string{"toxic discharge", "heavy metal contamination"},
			Recommendation: "Install abatement controls and commit to continuous emissions monitoring",
		},
		{
			ID:             "biodiversity",
			Name:           "Biodiversity & Ecosystems",
			ConcernTerms:   []string{"habitat disturbance", "wildlife corridor", "deforestation risk"},
			HarmTerms:      []string{"critical habitat loss", "endangered species displacement"},
			Recommendation: "Commission a biodiversity impact study and define offset measures",
		},
	}
}

// incompatibilitySignature marks activities for which no remediation can
// satisfy an objective
type incompatibilitySignature struct {
	Objective string
	Phrases   []string
	Concern   string
}

// incompatibilitySignatures lists the non-remediable activity signatures.
// A match forces the objective to significant harm with a zero score and
// suppresses all remediation output.
var incompatibilitySignatures = []incompatibilitySignature{
	{
		Objective: "climate_mitigation",
		Phrases:   []string{"new oil exploration", "new oil field", "new coal mine", "expansion of fossil fuel extraction", "new gas field development"},
		Concern:   "New fossil-fuel extraction capacity",
	},
	{
		Objective: "biodiversity",
		Phrases:   []string{"clearing of primary forest", "primary forest clearance", "conversion of old-growth forest"},
		Concern:   "Irreversible loss of primary forest",
	},
	{
		Objective: "biodiversity",
		Phrases:   []string{"construction within a protected area", "development inside a nature reserve", "development within a protected area"},
		Concern:   "Development inside a protected area",
	},
}

// sectorWeights emphasizes domain-relevant objectives when normalizing the
// harm score. Unlisted sectors and objectives use weight 1.
var sectorWeights = map[string]map[string]float64{
	"agriculture": {
		"water_resources": 1.5,
		"biodiversity":    1.25,
	},
	"textiles": {
		"water_resources":      1.5,
		"pollution_prevention": 1.25,
	},
	"mining": {
		"biodiversity":         1.5,
		"water_resources":      1.25,
		"pollution_prevention": 1.25,
	},
	"energy": {
		"climate_mitigation": 1.5,
	},
	"construction": {
		"circular_economy": 1.25,
		"biodiversity":     1.25,
	},
	"manufacturing": {
		"pollution_prevention": 1.25,
		"circular_economy":     1.25,
	},
}

func objectiveWeight(sector, objective string) float64 {
	if weights, ok := sectorWeights[strings.ToLower(sector)]; ok {
		if w, ok := weights[objective]; ok {
			return w
		}
	}
	return 1
}

// EnvironmentalStrategy is the probabilistic screening boundary
type EnvironmentalStrategy interface {
	ScreenEnvironmental(ctx context.Context, project *models.Project, docText string) (*models.EnvironmentalAssessment, error)
}

// EnvironmentalEvaluator produces one EnvironmentalAssessment per project.
// Like the criterion evaluator it tries the probabilistic screening first and
// falls back to deterministic pattern matching; it never fails outward.
type EnvironmentalEvaluator struct {
	screener EnvironmentalStrategy
}

// NewEnvironmentalEvaluator creates an evaluator. A nil screener runs the
// deterministic path only.
func NewEnvironmentalEvaluator(screener EnvironmentalStrategy) *EnvironmentalEvaluator {
	return &EnvironmentalEvaluator{screener: screener}
}

// Evaluate screens the project against all six objectives
func (e *EnvironmentalEvaluator) Evaluate(ctx context.Context, project *models.Project, docText string) *models.EnvironmentalAssessment {
	var assessment *models.EnvironmentalAssessment

	if e.screener != nil {
		screened, err := e.screener.ScreenEnvironmental(ctx, project, docText)
		if err != nil {
			log.Printf("Warning: environmental screening unavailable: %v. Falling back to indicator screening.", err)
		} else if screened == nil || screened.Confidence < ConfidenceThreshold {
			log.Printf("Warning: discarding low-confidence environmental screening. Falling back to indicator screening.")
		} else {
			assessment = screened
		}
	}

	if assessment == nil {
		assessment = screenByIndicators(docText)
	}

	finalizeAssessment(assessment, project.Sector, docText)
	return assessment
}

// screenByIndicators is the deterministic screening path: keyword sets per
// objective plus explicit high-risk activity signatures.
func screenByIndicators(docText string) *models.EnvironmentalAssessment {
	evidence := strings.ToLower(docText)

	results := make([]models.EnvironmentalObjectiveResult, 0, len(Objectives()))
	for _, spec := range Objectives() {
		result := models.EnvironmentalObjectiveResult{
			Objective: spec.ID,
			Status:    models.ObjectiveNoHarm,
			Score:     objectiveMaxScore,
		}

		if evidence == "" {
			result.Status = models.ObjectiveNotAssessed
			result.Score = 2
			result.Concern = "No documentation available for screening"
			results = append(results, result)
			continue
		}

		if term, ok := matchAny(evidence, spec.HarmTerms); ok {
			result.Status = models.ObjectiveSignificantHarm
			result.Score = 1
			result.Evidence = term
			result.Concern = fmt.Sprintf("Documentation indicates %q", term)
			result.Recommendation = spec.Recommendation
		} else if term, ok := matchAny(evidence, spec.ConcernTerms); ok {
			result.Status = models.ObjectivePotentialHarm
			result.Score = 2
			result.Evidence = term
			result.Concern = fmt.Sprintf("Documentation mentions %q", term)
			result.Recommendation = spec.Recommendation
		}

		results = append(results, result)
	}

	return &models.EnvironmentalAssessment{
		Objectives:  results,
		Confidence:  DeterministicConfidence,
		AIEvaluated: false,
	}
}

// finalizeAssessment enforces the framework invariants on either strategy's
// output: incompatibility signatures, per-objective clamping, the absorbing
// incompatibility rule, sector-weighted normalization, and status thresholds.
func finalizeAssessment(assessment *models.EnvironmentalAssessment, sector, docText string) {
	evidence := strings.ToLower(docText)

	// Evidence-driven incompatibility applies regardless of which strategy
	// produced the objective results.
	for _, sig := range incompatibilitySignatures {
		term, ok := matchAny(evidence, sig.Phrases)
		if !ok {
			continue
		}
		for i := range assessment.Objectives {
			if assessment.Objectives[i].Objective != sig.Objective {
				continue
			}
			assessment.Objectives[i].FundamentallyIncompatible = true
			if assessment.Objectives[i].Concern == "" {
				assessment.Objectives[i].Concern = sig.Concern
			}
			if assessment.Objectives[i].Evidence == "" {
				assessment.Objectives[i].Evidence = term
			}
		}
	}

	var rawTotal, weighted, weightedMax float64
	var keyRisks, recommendations []string
	anySignificant := false
	anyPotential := false

	for i := range assessment.Objectives {
		obj := &assessment.Objectives[i]

		if obj.Score < 0 {
			obj.Score = 0
		}
		if obj.Score > objectiveMaxScore {
			obj.Score = objectiveMaxScore
		}

		// Incompatibility is absorbing at the objective level: zero score,
		// significant harm, no remediation offered.
		if obj.FundamentallyIncompatible {
			obj.Score = 0
			obj.Status = models.ObjectiveSignificantHarm
			obj.Recommendation = ""
			assessment.Incompatible = true
		}

		switch obj.Status {
		case models.ObjectiveSignificantHarm:
			anySignificant = true
		case models.ObjectivePotentialHarm:
			anyPotential = true
		}

		if obj.Concern != "" && obj.Status != models.ObjectiveNoHarm {
			keyRisks = append(keyRisks, obj.Concern)
		}
		if obj.Recommendation != "" {
			recommendations = append(recommendations, obj.Recommendation)
		}

		weight := objectiveWeight(sector, obj.Objective)
		rawTotal += obj.Score
		weighted += weight * obj.Score
		weightedMax += weight * objectiveMaxScore
	}

	assessment.RawScore = rawTotal
	if weightedMax > 0 {
		assessment.NormalizedScore = weighted / weightedMax * 100
	}

	switch {
	case assessment.Incompatible:
		assessment.Status = models.EnvironmentalNonCompliant
		// Incompatibility absorbs everything: no remediation is offered even
		// for objectives with fixable issues.
		recommendations = nil
	case anySignificant:
		assessment.Status = models.EnvironmentalNonCompliant
	case anyPotential || assessment.NormalizedScore < partialStatusFloor:
		assessment.Status = models.EnvironmentalPartial
	default:
		assessment.Status = models.EnvironmentalCompliant
	}

	assessment.KeyRisks = capList(keyRisks, 6)
	assessment.Recommendations = capList(recommendations, 6)
}
