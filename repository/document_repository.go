package repository

import (
	"context"

	"greenscore-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DocumentRepository handles database operations for documents
type DocumentRepository struct {
	db *pgxpool.Pool
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create creates a new document record
func (r *DocumentRepository) Create(ctx context.Context, document *models.Document) error {
	query := `
		INSERT INTO documents (
			user_id, project_id, filename, mime_type, size, storage_path
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRow(
		ctx, query,
		document.UserID,
		document.ProjectID,
		document.Filename,
		document.MimeType,
		document.Size,
		document.StoragePath,
	).Scan(&document.ID, &document.CreatedAt)

	return err
}

// GetByID retrieves a document by ID
func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	document := &models.Document{}
	query := `
		SELECT id, user_id, project_id, filename, mime_type, size, storage_path, created_at
		FROM documents
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&document.ID,
		&document.UserID,
		&document.ProjectID,
		&document.Filename,
		&document.MimeType,
		&document.Size,
		&document.StoragePath,
		&document.CreatedAt,
	)

	if err != nil {
		return nil, err
	}

	return document, nil
}

// ListByUserID retrieves all documents for a user
func (r *DocumentRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Document, error) {
	query := `
		SELECT id, user_id, project_id, filename, mime_type, size, storage_path, created_at
		FROM documents
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var documents []*models.Document
	for rows.Next() {
		document := &models.Document{}
		err := rows.Scan(
			&document.ID,
			&document.UserID,
			&document.ProjectID,
			&document.Filename,
			&document.MimeType,
			&document.Size,
			&document.StoragePath,
			&document.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		documents = append(documents, document)
	}

	return documents, rows.Err()
}

// ListByProjectID retrieves all documents for a project
func (r *DocumentRepository) ListByProjectID(ctx context.Context, projectID uuid.UUID) ([]*models.Document, error) {
	query := `
		SELECT id, user_id, project_id, filename, mime_type, size, storage_path, created_at
		FROM documents
		WHERE project_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var documents []*models.Document
	for rows.Next() {
		document := &models.Document{}
		err := rows.Scan(
			&document.ID,
			&document.UserID,
			&document.ProjectID,
			&document.Filename,
			&document.MimeType,
			&document.Size,
			&document.StoragePath,
			&document.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		documents = append(documents, document)
	}

	return documents, rows.Err()
}

// Delete deletes a document record
func (r *DocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM documents WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
