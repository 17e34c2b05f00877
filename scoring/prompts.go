package scoring

import (
	"encoding/json"
	"fmt"
	"strings"

	"greenscore-backend/models"
)

// maxPromptChars bounds prompt size to stay inside model context limits
const maxPromptChars = 30000

// buildComponentPrompt assembles the rubric, excerpt and extracted fields for
// one component evaluation
func buildComponentPrompt(input ComponentInput) string {
	var criteria strings.Builder
	for _, c := range input.Component.Criteria {
		criteria.WriteString(fmt.Sprintf("- %s (max %.0f points)\n", c.Label, c.MaxPoints))
	}

	fields := "{}"
	if len(input.Fields) > 0 {
		if b, err := json.Marshal(input.Fields); err == nil {
			fields = string(b)
		}
	}

	prompt := fmt.Sprintf(`You are a transition-finance compliance analyst scoring one component of a fixed assessment framework.

COMPONENT: %s (maximum %.0f points)

RUBRIC:
%s

SUB-CRITERIA:
%s
PROJECT CONTEXT:
Name: %s
Sector: %s
Country: %s

TRANSITION STRATEGY:
%s

EXTRACTED FIELDS:
%s

DOCUMENT EXCERPT:
%s

TASK:
Score every sub-criterion listed above from the evidence given. Never award more than a sub-criterion's maximum. Quote the supporting passage in "evidence". Report an honest confidence from 0 to 100 for the evaluation as a whole.

Respond with a single JSON object and nothing else:
{"score": <number>, "confidence": <0-100>, "rationale": "<one sentence>", "findings": [{"criterion": "<label>", "max_points": <number>, "awarded": <number>, "evidence": "<quote>", "rationale": "<short>"}], "suggestions": ["<improvement>"], "evidence": ["<quote>"]}`,
		input.Component.Name,
		input.Component.MaxScore,
		input.Component.Rubric,
		criteria.String(),
		input.ProjectContext["name"],
		input.ProjectContext["sector"],
		input.ProjectContext["country"],
		input.ProjectContext["transition_strategy"],
		fields,
		input.Excerpt,
	)

	return truncatePrompt(prompt)
}

// buildEnvironmentalPrompt assembles the six-objective harm screening request
func buildEnvironmentalPrompt(project *models.Project, docText string) string {
	var objectives strings.Builder
	for _, o := range Objectives() {
		objectives.WriteString(fmt.Sprintf("- %s: %s\n", o.ID, o.Name))
	}

	prompt := fmt.Sprintf(`You are an environmental-harm screening analyst. Screen the project below against all six environmental objectives.

OBJECTIVES:
%s
PROJECT:
Name: %s
Sector: %s
Country: %s
Baseline emissions: %.0f tCO2e, target: %.0f tCO2e

DOCUMENTATION:
%s

TASK:
For every objective report a status ("no_harm", "potential_harm", "significant_harm" or "not_assessed") and a score from 0 (severe harm) to 4 (no harm). Set "fundamentally_incompatible" to true only for harms that no remediation can fix, such as new fossil-fuel extraction, clearing of primary forest, or development inside protected areas; leave "recommendation" empty in that case. Report an honest confidence from 0 to 100.

Respond with a single JSON object and nothing else:
{"confidence": <0-100>, "objectives": [{"objective": "<id>", "status": "<status>", "score": <0-4>, "evidence": "<quote>", "concern": "<short>", "fundamentally_incompatible": <bool>, "recommendation": "<short or empty>"}]}`,
		objectives.String(),
		project.Name,
		project.Sector,
		project.Country,
		project.BaselineEmissions,
		project.TargetEmissions,
		docText,
	)

	return truncatePrompt(prompt)
}

// buildRiskPrompt assembles the overall transition-risk request
func buildRiskPrompt(project *models.Project, docText string) string {
	prompt := fmt.Sprintf(`You are a transition-finance risk analyst. Estimate the overall execution and greenwashing risk of the project below on a 0-100 scale, where 0 is negligible risk and 100 is severe risk.

PROJECT:
Name: %s
Sector: %s
Country: %s
Investment: %.0f
Baseline emissions: %.0f tCO2e, target: %.0f tCO2e

TRANSITION STRATEGY:
%s

DOCUMENTATION:
%s

Respond with a single JSON object and nothing else:
{"risk_score": <0-100>, "confidence": <0-100>}`,
		project.Name,
		project.Sector,
		project.Country,
		project.InvestmentAmount,
		project.BaselineEmissions,
		project.TargetEmissions,
		project.TransitionStrategy,
		docText,
	)

	return truncatePrompt(prompt)
}

func truncatePrompt(prompt string) string {
	if len(prompt) > maxPromptChars {
		return prompt[:maxPromptChars] + "\n\n[Content truncated due to length...]"
	}
	return prompt
}
