package service

import (
	"context"
	"errors"

	"greenscore-backend/models"
	"greenscore-backend/repository"

	"github.com/google/uuid"
)

// ProjectService handles business logic for projects
type ProjectService struct {
	projectRepo *repository.ProjectRepository
	jobRepo     *repository.AssessmentJobRepository
}

// ProjectServiceOption is a functional option for ProjectService
type ProjectServiceOption func(*ProjectService)

// WithProjectRepository sets the project repository
func WithProjectRepository(repo *repository.ProjectRepository) ProjectServiceOption {
	return func(s *ProjectService) {
		s.projectRepo = repo
	}
}

// WithAssessmentJobRepository sets the assessment job repository
func WithAssessmentJobRepository(repo *repository.AssessmentJobRepository) ProjectServiceOption {
	return func(s *ProjectService) {
		s.jobRepo = repo
	}
}

// NewProjectService creates a new project service
func NewProjectService(opts ...ProjectServiceOption) *ProjectService {
	s := &ProjectService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateProjectRequest represents a request to create a project
type CreateProjectRequest struct {
	UserID             uuid.UUID
	Name               string
	Sector             string
	Country            string
	InvestmentAmount   float64
	AnnualRevenue      float64
	BaselineEmissions  float64
	TargetEmissions    float64
	TransitionStrategy string
}

// CreateProjectResult represents the result of creating a project
type CreateProjectResult struct {
	Project *models.Project
}

// CreateProject creates a new project with default values
func (s *ProjectService) CreateProject(ctx context.Context, req CreateProjectRequest) (*CreateProjectResult, error) {
	if s.projectRepo == nil {
		return nil, errors.New("project repository not set")
	}

	project := &models.Project{
		UserID:             req.UserID,
		Status:             models.StatusDraft,
		Name:               req.Name,
		Sector:             req.Sector,
		Country:            req.Country,
		InvestmentAmount:   req.InvestmentAmount,
		AnnualRevenue:      req.AnnualRevenue,
		BaselineEmissions:  req.BaselineEmissions,
		TargetEmissions:    req.TargetEmissions,
		TransitionStrategy: req.TransitionStrategy,
		ComponentExcerpts:  make(models.ComponentExcerpts),
		ExtractedFields:    make(models.ExtractedFields),
	}

	err := s.projectRepo.Create(ctx, project)
	if err != nil {
		return nil, err
	}

	return &CreateProjectResult{Project: project}, nil
}

// GetProjectRequest represents a request to get a project
type GetProjectRequest struct {
	ID uuid.UUID
}

// GetProjectResult represents the result of getting a project
type GetProjectResult struct {
	Project *models.Project
}

// GetProject retrieves a project by ID
func (s *ProjectService) GetProject(ctx context.Context, req GetProjectRequest) (*GetProjectResult, error) {
	if s.projectRepo == nil {
		return nil, errors.New("project repository not set")
	}

	project, err := s.projectRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	return &GetProjectResult{Project: project}, nil
}

// UpdateProjectRequest represents a request to update a project
type UpdateProjectRequest struct {
	Project *models.Project
}

// UpdateProjectResult represents the result of updating a project
type UpdateProjectResult struct {
	Project *models.Project
}

// UpdateProject updates a project
func (s *ProjectService) UpdateProject(ctx context.Context, req UpdateProjectRequest) (*UpdateProjectResult, error) {
	if s.projectRepo == nil {
		return nil, errors.New("project repository not set")
	}

	err := s.projectRepo.Update(ctx, req.Project)
	if err != nil {
		return nil, err
	}

	return &UpdateProjectResult{Project: req.Project}, nil
}

// AttachDocumentTextRequest represents a request to attach extracted document
// text and per-component excerpts to a project
type AttachDocumentTextRequest struct {
	ProjectID         uuid.UUID
	DocumentFileID    *uuid.UUID
	RawDocumentText   string
	ComponentExcerpts models.ComponentExcerpts
	ExtractedFields   models.ExtractedFields
}

// AttachDocumentTextResult represents the result of attaching document text
type AttachDocumentTextResult struct {
	Project *models.Project
}

// AttachDocumentText stores extracted document material on a project so a
// later assessment run can score against it
func (s *ProjectService) AttachDocumentText(ctx context.Context, req AttachDocumentTextRequest) (*AttachDocumentTextResult, error) {
	if s.projectRepo == nil {
		return nil, errors.New("project repository not set")
	}

	project, err := s.projectRepo.GetByID(ctx, req.ProjectID)
	if err != nil {
		return nil, ErrProjectNotFound
	}

	if req.DocumentFileID != nil {
		project.DocumentFileID = req.DocumentFileID
	}
	if req.RawDocumentText != "" {
		project.RawDocumentText = &req.RawDocumentText
	}
	if len(req.ComponentExcerpts) > 0 {
		project.ComponentExcerpts = req.ComponentExcerpts
	}
	if len(req.ExtractedFields) > 0 {
		project.ExtractedFields = req.ExtractedFields
	}

	err = s.projectRepo.Update(ctx, project)
	if err != nil {
		return nil, err
	}

	return &AttachDocumentTextResult{Project: project}, nil
}

// ListProjectsRequest represents a request to list projects
type ListProjectsRequest struct {
	UserID uuid.UUID
	Status *models.ProjectStatus
	Limit  int
	Offset int
}

// ListProjectsResult represents the result of listing projects
type ListProjectsResult struct {
	Projects []*models.Project
}

// ListProjects lists projects for a user
func (s *ProjectService) ListProjects(ctx context.Context, req ListProjectsRequest) (*ListProjectsResult, error) {
	if s.projectRepo == nil {
		return nil, errors.New("project repository not set")
	}

	projects, err := s.projectRepo.ListByUserID(ctx, req.UserID, req.Status, req.Limit, req.Offset)
	if err != nil {
		return nil, err
	}

	return &ListProjectsResult{Projects: projects}, nil
}
