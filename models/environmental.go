package models

// ObjectiveStatus represents the harm level found for one environmental objective
type ObjectiveStatus string

const (
	ObjectiveNoHarm          ObjectiveStatus = "no_harm"
	ObjectivePotentialHarm   ObjectiveStatus = "potential_harm"
	ObjectiveSignificantHarm ObjectiveStatus = "significant_harm"
	ObjectiveNotAssessed     ObjectiveStatus = "not_assessed"
)

// EnvironmentalStatus represents the overall harm-screening outcome
type EnvironmentalStatus string

const (
	EnvironmentalCompliant    EnvironmentalStatus = "compliant"
	EnvironmentalPartial      EnvironmentalStatus = "partial"
	EnvironmentalNonCompliant EnvironmentalStatus = "non_compliant"
)

// EnvironmentalObjectiveResult represents the screening result for one of the
// six environmental objectives.
// Invariant: when FundamentallyIncompatible is set, Recommendation is empty —
// no remediation is offered for unfixable harms.
type EnvironmentalObjectiveResult struct {
	Objective                 string          `json:"objective"`
	Status                    ObjectiveStatus `json:"status"`
	Score                     float64         `json:"score"`
	Evidence                  string          `json:"evidence,omitempty"`
	Concern                   string          `json:"concern,omitempty"`
	FundamentallyIncompatible bool            `json:"fundamentally_incompatible,omitempty"`
	Recommendation            string          `json:"recommendation,omitempty"`
}

// EnvironmentalAssessment aggregates the six objective results.
// When Incompatible is set the overall status is forced to non_compliant and
// Recommendations is empty regardless of the other objectives.
type EnvironmentalAssessment struct {
	Objectives      []EnvironmentalObjectiveResult `json:"objectives"`
	RawScore        float64                        `json:"raw_score"`
	NormalizedScore float64                        `json:"normalized_score"`
	Status          EnvironmentalStatus            `json:"status"`
	Incompatible    bool                           `json:"incompatible"`
	Confidence      int                            `json:"confidence"`
	AIEvaluated     bool                           `json:"ai_evaluated"`
	KeyRisks        []string                       `json:"key_risks,omitempty"`
	Recommendations []string                       `json:"recommendations,omitempty"`
}
