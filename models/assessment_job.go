package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AssessmentJobStatus represents the status of an assessment job
type AssessmentJobStatus string

const (
	JobStatusPending    AssessmentJobStatus = "pending"
	JobStatusInProgress AssessmentJobStatus = "in_progress"
	JobStatusCompleted  AssessmentJobStatus = "completed"
	JobStatusFailed     AssessmentJobStatus = "failed"
)

// AssessmentStep represents a step in the assessment process
type AssessmentStep struct {
	Name        string `json:"name"`
	Status      string `json:"status"` // "pending", "in_progress", "completed", "failed"
	Description string `json:"description,omitempty"`
}

// AssessmentSteps represents a list of assessment steps
type AssessmentSteps []AssessmentStep

// Value implements driver.Valuer for JSONB
func (a AssessmentSteps) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// Scan implements sql.Scanner for JSONB
func (a *AssessmentSteps) Scan(value interface{}) error {
	if value == nil {
		*a = make(AssessmentSteps, 0)
		return nil
	}

	// Handle different types that pgx might return for JSONB
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*a = make(AssessmentSteps, 0)
		return nil
	}

	if len(bytes) == 0 {
		*a = make(AssessmentSteps, 0)
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// AssessmentJob represents an assessment job entity
type AssessmentJob struct {
	ID           uuid.UUID           `json:"id"`
	ProjectID    uuid.UUID           `json:"project_id"`
	Status       AssessmentJobStatus `json:"status"`
	CurrentStep  *string             `json:"current_step,omitempty"`
	Steps        AssessmentSteps     `json:"steps"`
	ErrorMessage *string             `json:"error_message,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	CompletedAt  *time.Time          `json:"completed_at,omitempty"`
}
