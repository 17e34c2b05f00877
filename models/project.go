package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ProjectStatus represents the status of a project
type ProjectStatus string

const (
	StatusDraft    ProjectStatus = "draft"
	StatusInReview ProjectStatus = "in_review"
	StatusAssessed ProjectStatus = "assessed"
	StatusArchived ProjectStatus = "archived"
)

// ComponentExcerpts maps framework component IDs to the document excerpt
// extracted for that component by the ingestion stage
type ComponentExcerpts map[string]string

// Value implements driver.Valuer for JSONB
func (c ComponentExcerpts) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements sql.Scanner for JSONB
func (c *ComponentExcerpts) Scan(value interface{}) error {
	if value == nil {
		*c = make(ComponentExcerpts)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*c = make(ComponentExcerpts)
		return nil
	}

	if len(bytes) == 0 {
		*c = make(ComponentExcerpts)
		return nil
	}

	return json.Unmarshal(bytes, c)
}

// ExtractedFields holds structured fields pulled out of project documents
// by the ingestion stage (key figures, named commitments, dates)
type ExtractedFields map[string]interface{}

// Value implements driver.Valuer for JSONB
func (e ExtractedFields) Value() (driver.Value, error) {
	return json.Marshal(e)
}

// Scan implements sql.Scanner for JSONB
func (e *ExtractedFields) Scan(value interface{}) error {
	if value == nil {
		*e = make(ExtractedFields)
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
		*e = make(ExtractedFields)
		return nil
	}

	return json.Unmarshal(bytes, e)
}

// Project represents a financed project under assessment.
// A project record is immutable for the duration of one assessment run.
type Project struct {
	ID     uuid.UUID     `json:"id"`
	UserID uuid.UUID     `json:"user_id"`
	Status ProjectStatus `json:"status"`

	// Identification
	Name    string `json:"name"`
	Sector  string `json:"sector"`
	Country string `json:"country"`

	// Financials
	InvestmentAmount float64 `json:"investment_amount"`
	AnnualRevenue    float64 `json:"annual_revenue"`

	// Emissions profile (tCO2e)
	BaselineEmissions float64 `json:"baseline_emissions"`
	TargetEmissions   float64 `json:"target_emissions"`

	// Transition strategy narrative supplied by the applicant
	TransitionStrategy string `json:"transition_strategy"`

	// Documents
	DocumentFileID  *uuid.UUID `json:"document_file_id"`
	RawDocumentText *string    `json:"raw_document_text,omitempty"`

	// Supplied by the extraction stage
	ComponentExcerpts ComponentExcerpts `json:"component_excerpts"`
	ExtractedFields   ExtractedFields   `json:"extracted_fields"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
