package repository

import (
	"context"

	"greenscore-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AssessmentRepository handles database operations for assessment reports
type AssessmentRepository struct {
	db *pgxpool.Pool
}

// NewAssessmentRepository creates a new assessment repository
func NewAssessmentRepository(db *pgxpool.Pool) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

// Create persists an assessment report
func (r *AssessmentRepository) Create(ctx context.Context, assessment *models.Assessment) error {
	query := `
		INSERT INTO assessments (project_id, report)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.db.QueryRow(
		ctx, query,
		assessment.ProjectID,
		assessment.Report,
	).Scan(&assessment.ID, &assessment.CreatedAt)

	return err
}

// GetByID retrieves an assessment by ID
func (r *AssessmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Assessment, error) {
	assessment := &models.Assessment{}
	query := `
		SELECT id, project_id, report, created_at
		FROM assessments
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&assessment.ID,
		&assessment.ProjectID,
		&assessment.Report,
		&assessment.CreatedAt,
	)

	if err != nil {
		return nil, err
	}

	return assessment, nil
}

// GetLatestByProjectID retrieves the most recent assessment for a project
func (r *AssessmentRepository) GetLatestByProjectID(ctx context.Context, projectID uuid.UUID) (*models.Assessment, error) {
	assessment := &models.Assessment{}
	query := `
		SELECT id, project_id, report, created_at
		FROM assessments
		WHERE project_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	err := r.db.QueryRow(ctx, query, projectID).Scan(
		&assessment.ID,
		&assessment.ProjectID,
		&assessment.Report,
		&assessment.CreatedAt,
	)

	if err != nil {
		return nil, err
	}

	return assessment, nil
}

// ListByProjectID retrieves all assessments for a project, newest first
func (r *AssessmentRepository) ListByProjectID(ctx context.Context, projectID uuid.UUID) ([]*models.Assessment, error) {
	query := `
		SELECT id, project_id, report, created_at
		FROM assessments
		WHERE project_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assessments []*models.Assessment
	for rows.Next() {
		assessment := &models.Assessment{}
		err := rows.Scan(
			&assessment.ID,
			&assessment.ProjectID,
			&assessment.Report,
			&assessment.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		assessments = append(assessments, assessment)
	}

	return assessments, rows.Err()
}
