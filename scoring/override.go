package scoring

import (
	"fmt"
	"strings"

	"greenscore-backend/models"
)

// overrideMarker prefixes the rationale of any finding raised by an explicit
// compliance statement
const overrideMarker = "[explicit statement] "

// ApplyOverrides scans the evidence text for the component's literal trigger
// phrases and raises (never lowers) matching criterion scores to the
// configured boost value. It is a pure transform: the input evaluation is not
// mutated, and applying it twice yields the same result as applying it once.
func ApplyOverrides(eval models.ComponentEvaluation, spec ComponentSpec, evidence string) models.ComponentEvaluation {
	evidence = strings.ToLower(evidence)

	out := eval
	out.Findings = make([]models.CriterionFinding, len(eval.Findings))
	copy(out.Findings, eval.Findings)

	boosted := 0
	for _, rule := range spec.Overrides {
		if _, ok := matchAny(evidence, rule.Triggers); !ok {
			continue
		}
		for i := range out.Findings {
			f := &out.Findings[i]
			if f.Criterion != rule.Criterion {
				continue
			}
			boost := rule.Boost
			if f.MaxPoints > 0 && boost > f.MaxPoints {
				boost = f.MaxPoints
			}
			if f.Awarded >= boost {
				break
			}
			f.Awarded = boost
			f.Status = models.FindingMet
			f.Rationale = overrideMarker + f.Rationale
			boosted++
			break
		}
	}

	if boosted == 0 {
		return out
	}

	var total float64
	for _, f := range out.Findings {
		total += f.Awarded
	}
	if total > spec.MaxScore {
		total = spec.MaxScore
	}
	out.Score = total
	out.Rationale = strings.TrimSpace(eval.Rationale + fmt.Sprintf(" Explicit compliance statements raised %d criterion score(s).", boosted))
	return out
}
