package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// FindingStatus represents how well a sub-criterion was satisfied
type FindingStatus string

const (
	FindingMet     FindingStatus = "met"
	FindingPartial FindingStatus = "partial"
	FindingMissing FindingStatus = "missing"
)

// Eligibility represents the final classification of a project
type Eligibility string

const (
	EligibilityEligible   Eligibility = "eligible"
	EligibilityPartial    Eligibility = "partial"
	EligibilityIneligible Eligibility = "ineligible"
)

// CriterionFinding represents one scored sub-criterion within a component
type CriterionFinding struct {
	Criterion string        `json:"criterion"`
	MaxPoints float64       `json:"max_points"`
	Awarded   float64       `json:"awarded"`
	Status    FindingStatus `json:"status"`
	Evidence  string        `json:"evidence,omitempty"`
	Rationale string        `json:"rationale,omitempty"`
}

// DeriveStatus returns the status implied by awarded points relative to max.
// Awarded at or above 80% of max is "met", at or below 20% is "missing",
// anything in between is "partial".
func DeriveStatus(awarded, max float64) FindingStatus {
	if max <= 0 {
		return FindingMissing
	}
	ratio := awarded / max
	switch {
	case ratio >= 0.8:
		return FindingMet
	case ratio <= 0.2:
		return FindingMissing
	default:
		return FindingPartial
	}
}

// ComponentEvaluation represents the scored result for one framework component
type ComponentEvaluation struct {
	ComponentID string             `json:"component_id"`
	Name        string             `json:"name"`
	MaxScore    float64            `json:"max_score"`
	Score       float64            `json:"score"`
	Confidence  int                `json:"confidence"`
	AIEvaluated bool               `json:"ai_evaluated"`
	Failed      bool               `json:"failed,omitempty"`
	Findings    []CriterionFinding `json:"findings"`
	Rationale   string             `json:"rationale,omitempty"`
	Suggestions []string           `json:"suggestions,omitempty"`
	Evidence    []string           `json:"evidence,omitempty"`
}

// AssessmentReport is the final artifact produced by one assessment run
type AssessmentReport struct {
	ProjectID     uuid.UUID                `json:"project_id"`
	Components    []ComponentEvaluation    `json:"components"`
	Environmental *EnvironmentalAssessment `json:"environmental,omitempty"`
	BaseScore     float64                  `json:"base_score"`
	Penalty       float64                  `json:"penalty"`
	FinalScore    float64                  `json:"final_score"`
	Eligibility   Eligibility              `json:"eligibility"`
	Rationale     string                   `json:"rationale,omitempty"`
	AIRiskScore   float64                  `json:"ai_risk_score"`
	RuleRiskScore float64                  `json:"rule_risk_score"`
	GeneratedAt   time.Time                `json:"generated_at"`
}

// Value implements driver.Valuer for JSONB
func (r AssessmentReport) Value() (driver.Value, error) {
	return json.Marshal(r)
}

// Scan implements sql.Scanner for JSONB
func (r *AssessmentReport) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	if len(bytes) == 0 {
		return nil
	}

	return json.Unmarshal(bytes, r)
}

// Assessment represents a persisted assessment report for a project
type Assessment struct {
	ID        uuid.UUID        `json:"id"`
	ProjectID uuid.UUID        `json:"project_id"`
	Report    AssessmentReport `json:"report"`
	CreatedAt time.Time        `json:"created_at"`
}
