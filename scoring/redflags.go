package scoring

import "strings"

// RedFlagRule is one deterministic risk rule: literal phrases that add a
// fixed weight to the rule risk score when present in the documentation
type RedFlagRule struct {
	Name    string
	Phrases []string
	Weight  float64
}

// redFlagRules are the deterministic counterpart to the adjudicated risk
// score. Weights sum past 100; the total is capped.
var redFlagRules = []RedFlagRule{
	{
		Name:    "pending_environmental_litigation",
		Phrases: []string{"pending environmental litigation", "environmental lawsuit", "notice of violation"},
		Weight:  30,
	},
	{
		Name:    "regulatory_sanction",
		Phrases: []string{"regulatory sanction", "environmental fine", "consent decree"},
		Weight:  25,
	},
	{
		Name:    "greenwashing_marker",
		Phrases: []string{"eco-friendly", "100% green", "completely sustainable", "zero impact"},
		Weight:  15,
	},
	{
		Name:    "stranded_asset_exposure",
		Phrases: []string{"stranded asset", "asset write-down risk", "fossil fuel reserves on balance sheet"},
		Weight:  20,
	},
	{
		Name:    "missing_baseline",
		Phrases: []string{"baseline not available", "no emissions data", "emissions not measured"},
		Weight:  20,
	},
	{
		Name:    "offset_reliance",
		Phrases: []string{"rely primarily on offsets", "offsets account for the majority", "carbon credits instead of reductions"},
		Weight:  15,
	},
}

// RuleRiskScore computes the deterministic red-flag risk score (0-100) from
// the raw document text, returning the names of the triggered rules.
func RuleRiskScore(text string) (float64, []string) {
	evidence := strings.ToLower(text)
	if evidence == "" {
		return 0, nil
	}

	var score float64
	var triggered []string
	for _, rule := range redFlagRules {
		if _, ok := matchAny(evidence, rule.Phrases); ok {
			score += rule.Weight
			triggered = append(triggered, rule.Name)
		}
	}

	if score > 100 {
		score = 100
	}
	return score, triggered
}
