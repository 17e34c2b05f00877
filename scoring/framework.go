package scoring

// CriterionSpec defines one sub-criterion within a framework component,
// including the indicator terms used by the deterministic strategy
type CriterionSpec struct {
	Label string
	// MaxPoints is the framework-defined ceiling for this criterion
	MaxPoints float64
	// FullIndicators award MaxPoints when any term appears in the evidence
	FullIndicators []string
	// PartialIndicators award PartialPoints when any term appears and no
	// full indicator matched
	PartialIndicators []string
	PartialPoints     float64
}

// OverrideRule maps explicit compliance statements to a forced score floor
// for one criterion. Overrides only ever raise scores.
type OverrideRule struct {
	Criterion string
	Triggers  []string
	Boost     float64
}

// ComponentSpec defines one scoring domain of the transition framework
type ComponentSpec struct {
	ID       string
	Name     string
	MaxScore float64
	// Rubric is the instruction block sent to the adjudicator for this component
	Rubric    string
	Criteria  []CriterionSpec
	Overrides []OverrideRule
}

// Components returns the five framework components. The framework is fixed:
// five components of 20 points each, for a 100-point base score ceiling.
func Components() []ComponentSpec {
	return []ComponentSpec{
		{
			ID:       "governance",
			Name:     "Governance & Oversight",
			MaxScore: 20,
			Rubric: `Assess the project's climate governance. Award points for: documented board-level oversight of climate strategy (max 8), executive accountability such as management incentives tied to climate outcomes (max 6), and alignment of corporate policy with the stated transition objectives (max 6).`,
			Criteria: []CriterionSpec{
				{
					Label:          "board_oversight",
					MaxPoints:      8,
					FullIndicators: []string{"board-level oversight", "board committee on climate", "board oversight of climate"},
					PartialIndicators: []string{
						"board", "governance committee", "oversight",
					},
					PartialPoints: 4,
				},
				{
					Label:          "executive_accountability",
					MaxPoints:      6,
					FullIndicators: []string{"executive remuneration linked", "management incentives tied", "compensation linked to climate"},
					PartialIndicators: []string{
						"executive responsibility", "chief sustainability officer", "accountability",
					},
					PartialPoints: 3,
				},
				{
					Label:          "policy_alignment",
					MaxPoints:      6,
					FullIndicators: []string{"policy aligned with the paris agreement", "lobbying aligned", "policy commitments consistent"},
					PartialIndicators: []string{
						"climate policy", "sustainability policy", "code of conduct",
					},
					PartialPoints: 3,
				},
			},
			Overrides: []OverrideRule{
				{
					Criterion: "board_oversight",
					Triggers:  []string{"the board has established a dedicated climate committee", "board-level climate committee meets quarterly"},
					Boost:     8,
				},
				{
					Criterion: "executive_accountability",
					Triggers:  []string{"executive compensation is directly tied to emissions reduction targets"},
					Boost:     6,
				},
			},
		},
		{
			ID:       "emissions_targets",
			Name:     "Emissions Targets",
			MaxScore: 20,
			Rubric: `Assess the project's emissions targets. Award points for: a disclosed and verifiable emissions baseline covering scopes 1 and 2 (max 6), a reduction target consistent with recognized science-based pathways (max 8), and interim milestones with dated checkpoints before the final target year (max 6).`,
			Criteria: []CriterionSpec{
				{
					Label:          "baseline_disclosure",
					MaxPoints:      6,
					FullIndicators: []string{"scope 1 and scope 2", "baseline emissions of", "ghg inventory"},
					PartialIndicators: []string{
						"baseline", "emissions inventory", "carbon footprint",
					},
					PartialPoints: 3,
				},
				{
					Label:          "science_based_target",
					MaxPoints:      8,
					FullIndicators: []string{"science based targets initiative", "sbti", "1.5c pathway", "well below 2"},
					PartialIndicators: []string{
						"reduction target", "net zero", "net-zero", "carbon neutral",
					},
					PartialPoints: 4,
				},
				{
					Label:          "interim_milestones",
					MaxPoints:      6,
					FullIndicators: []string{"interim target", "milestones by 2030", "intermediate targets"},
					PartialIndicators: []string{
						"by 2030", "by 2035", "milestone",
					},
					PartialPoints: 3,
				},
			},
			Overrides: []OverrideRule{
				{
					Criterion: "science_based_target",
					Triggers:  []string{"targets have been validated by the science based targets initiative", "sbti-validated"},
					Boost:     8,
				},
				{
					Criterion: "baseline_disclosure",
					Triggers:  []string{"full scope 1, 2 and 3 inventory independently verified"},
					Boost:     6,
				},
			},
		},
		{
			ID:       "transition_plan",
			Name:     "Transition Plan",
			MaxScore: 20,
			Rubric: `Assess the credibility of the decarbonization plan. Award points for: a concrete decarbonization roadmap with named measures and dates (max 8), capital expenditure explicitly allocated to transition measures (max 6), and a technology pathway appropriate to the sector (max 6).`,
			Criteria: []CriterionSpec{
				{
					Label:          "decarbonization_roadmap",
					MaxPoints:      8,
					FullIndicators: []string{"decarbonization roadmap", "transition roadmap", "phase-out schedule"},
					PartialIndicators: []string{
						"roadmap", "action plan", "transition plan",
					},
					PartialPoints: 4,
				},
				{
					Label:          "capex_alignment",
					MaxPoints:      6,
					FullIndicators: []string{"capital expenditure allocated to", "capex aligned", "investment earmarked for decarbonization"},
					PartialIndicators: []string{
						"capex", "capital expenditure", "investment plan",
					},
					PartialPoints: 3,
				},
				{
					Label:          "technology_pathway",
					MaxPoints:      6,
					FullIndicators: []string{"electrification of", "renewable energy procurement", "green hydrogen", "heat pump"},
					PartialIndicators: []string{
						"energy efficiency", "renewable", "low-carbon technology",
					},
					PartialPoints: 3,
				},
			},
			Overrides: []OverrideRule{
				{
					Criterion: "capex_alignment",
					Triggers:  []string{"committed capital expenditure of which at least half is allocated to transition measures"},
					Boost:     6,
				},
			},
		},
		{
			ID:       "financial_viability",
			Name:     "Financial Viability",
			MaxScore: 20,
			Rubric: `Assess whether the transition is financially credible. Award points for: a funding plan covering the stated transition investments (max 8), revenue resilience under transition scenarios (max 6), and a quantified cost estimate of the transition measures (max 6).`,
			Criteria: []CriterionSpec{
				{
					Label:          "funding_plan",
					MaxPoints:      8,
					FullIndicators: []string{"fully funded", "committed financing", "secured funding"},
					PartialIndicators: []string{
						"funding plan", "financing", "green bond",
					},
					PartialPoints: 4,
				},
				{
					Label:          "revenue_resilience",
					MaxPoints:      6,
					FullIndicators: []string{"scenario analysis", "stress test", "revenue under transition scenarios"},
					PartialIndicators: []string{
						"revenue projection", "sensitivity analysis", "diversified revenue",
					},
					PartialPoints: 3,
				},
				{
					Label:          "transition_cost",
					MaxPoints:      6,
					FullIndicators: []string{"estimated transition cost of", "quantified cost of the transition"},
					PartialIndicators: []string{
						"cost estimate", "budgeted", "projected cost",
					},
					PartialPoints: 3,
				},
			},
			Overrides: []OverrideRule{
				{
					Criterion: "funding_plan",
					Triggers:  []string{"the transition plan is fully funded through committed facilities"},
					Boost:     8,
				},
			},
		},
		{
			ID:       "disclosure",
			Name:     "Disclosure & Verification",
			MaxScore: 20,
			Rubric: `Assess reporting quality. Award points for: reporting under a recognized disclosure framework such as TCFD or ISSB (max 8), third-party verification or assurance of reported figures (max 6), and at least annual disclosure frequency (max 6).`,
			Criteria: []CriterionSpec{
				{
					Label:          "reporting_framework",
					MaxPoints:      8,
					FullIndicators: []string{"tcfd", "issb", "csrd", "gri standards"},
					PartialIndicators: []string{
						"sustainability report", "annual report", "disclosure framework",
					},
					PartialPoints: 4,
				},
				{
					Label:          "third_party_verification",
					MaxPoints:      6,
					FullIndicators: []string{"independently audited", "third-party assurance", "limited assurance", "reasonable assurance"},
					PartialIndicators: []string{
						"verified", "audited", "assurance",
					},
					PartialPoints: 3,
				},
				{
					Label:          "disclosure_frequency",
					MaxPoints:      6,
					FullIndicators: []string{"annual sustainability report", "reported annually", "quarterly disclosure"},
					PartialIndicators: []string{
						"annually", "periodic reporting", "regular disclosure",
					},
					PartialPoints: 3,
				},
			},
			Overrides: []OverrideRule{
				{
					Criterion: "third_party_verification",
					Triggers:  []string{"emissions figures carry reasonable assurance from an accredited verifier"},
					Boost:     6,
				},
			},
		},
	}
}

// ComponentByID returns the component spec with the given ID
func ComponentByID(id string) (ComponentSpec, bool) {
	for _, c := range Components() {
		if c.ID == id {
			return c, true
		}
	}
	return ComponentSpec{}, false
}

// BaseScoreCeiling returns the fixed maximum base score of the framework
func BaseScoreCeiling() float64 {
	var total float64
	for _, c := range Components() {
		total += c.MaxScore
	}
	return total
}
