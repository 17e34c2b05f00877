package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"greenscore-backend/models"
	"greenscore-backend/repository"
	"greenscore-backend/scoring"

	"github.com/google/uuid"
)

// AssessmentService handles assessment run logic
type AssessmentService struct {
	projectRepo    *repository.ProjectRepository
	jobRepo        *repository.AssessmentJobRepository
	assessmentRepo *repository.AssessmentRepository
	engine         *scoring.Engine
}

// AssessmentServiceOption is a functional option for AssessmentService
type AssessmentServiceOption func(*AssessmentService)

// AssessmentWithProjectRepository sets the project repository
func AssessmentWithProjectRepository(repo *repository.ProjectRepository) AssessmentServiceOption {
	return func(s *AssessmentService) {
		s.projectRepo = repo
	}
}

// AssessmentWithJobRepository sets the assessment job repository
func AssessmentWithJobRepository(repo *repository.AssessmentJobRepository) AssessmentServiceOption {
	return func(s *AssessmentService) {
		s.jobRepo = repo
	}
}

// AssessmentWithAssessmentRepository sets the assessment repository
func AssessmentWithAssessmentRepository(repo *repository.AssessmentRepository) AssessmentServiceOption {
	return func(s *AssessmentService) {
		s.assessmentRepo = repo
	}
}

// AssessmentWithEngine sets the scoring engine
func AssessmentWithEngine(engine *scoring.Engine) AssessmentServiceOption {
	return func(s *AssessmentService) {
		s.engine = engine
	}
}

// NewAssessmentService creates a new assessment service
func NewAssessmentService(opts ...AssessmentServiceOption) *AssessmentService {
	s := &AssessmentService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrMissingRequiredData = errors.New("project missing required data for assessment")
	ErrJobCreationFailed   = errors.New("failed to create assessment job")
	ErrJobNotFound         = errors.New("assessment job not found")
	ErrAssessmentNotFound  = errors.New("assessment not found")
)

const (
	stepEnvironmental = "Screening Environmental Objectives"
	stepRisk          = "Assessing Risk Signals"
	stepAggregate     = "Aggregating Final Score"
)

// StartAssessmentRequest represents a request to start an assessment run
type StartAssessmentRequest struct {
	ProjectID uuid.UUID
}

// StartAssessmentResult represents the result of creating an assessment job
type StartAssessmentResult struct {
	JobID uuid.UUID
}

// GetJobStatusRequest represents a request to get job status
type GetJobStatusRequest struct {
	JobID uuid.UUID
}

// GetJobStatusResult represents the result of getting job status
type GetJobStatusResult struct {
	Job *models.AssessmentJob
}

// StartAssessment creates an assessment job and returns immediately.
// This method must complete in <100ms to avoid HTTP timeouts; the scoring
// work happens in ProcessAssessment.
func (s *AssessmentService) StartAssessment(
	ctx context.Context,
	req StartAssessmentRequest,
) (*StartAssessmentResult, error) {
	if s.projectRepo == nil {
		return nil, errors.New("project repository not set")
	}
	if s.jobRepo == nil {
		return nil, errors.New("assessment job repository not set")
	}

	// 1. Validate project exists and has required data
	project, err := s.projectRepo.GetByID(ctx, req.ProjectID)
	if err != nil {
		return nil, ErrProjectNotFound
	}

	// 2. Validate required fields
	if project.Name == "" {
		return nil, ErrMissingRequiredData
	}
	if project.Sector == "" {
		return nil, ErrMissingRequiredData
	}
	hasText := project.RawDocumentText != nil && *project.RawDocumentText != ""
	if !hasText && project.TransitionStrategy == "" && len(project.ComponentExcerpts) == 0 {
		return nil, ErrMissingRequiredData
	}

	// 3. Create assessment job with initial steps
	job := &models.AssessmentJob{
		ID:        uuid.New(),
		ProjectID: req.ProjectID,
		Status:    models.JobStatusPending,
		Steps:     s.initializeSteps(),
	}

	err = s.jobRepo.Create(ctx, job)
	if err != nil {
		return nil, ErrJobCreationFailed
	}

	return &StartAssessmentResult{
		JobID: job.ID,
	}, nil
}

// GetJobStatus retrieves the status of an assessment job
func (s *AssessmentService) GetJobStatus(
	ctx context.Context,
	req GetJobStatusRequest,
) (*GetJobStatusResult, error) {
	if s.jobRepo == nil {
		return nil, errors.New("assessment job repository not set")
	}

	job, err := s.jobRepo.GetByID(ctx, req.JobID)
	if err != nil {
		return nil, ErrJobNotFound
	}

	return &GetJobStatusResult{
		Job: job,
	}, nil
}

// initializeSteps creates the initial assessment steps: one per framework
// component, then the environmental screening, risk signals and aggregation
func (s *AssessmentService) initializeSteps() models.AssessmentSteps {
	steps := make(models.AssessmentSteps, 0)

	for _, spec := range scoring.Components() {
		steps = append(steps, models.AssessmentStep{
			Name:   componentStepName(spec),
			Status: "pending",
		})
	}

	steps = append(steps, models.AssessmentStep{
		Name:   stepEnvironmental,
		Status: "pending",
	})
	steps = append(steps, models.AssessmentStep{
		Name:   stepRisk,
		Status: "pending",
	})
	steps = append(steps, models.AssessmentStep{
		Name:   stepAggregate,
		Status: "pending",
	})

	return steps
}

// componentStepName returns a human-readable step name for a component
func componentStepName(spec scoring.ComponentSpec) string {
	return "Scoring " + spec.Name
}

// ProcessAssessment performs the actual scoring work in the background.
// This method runs in a goroutine and can take up to a minute when the
// probabilistic strategy is active.
func (s *AssessmentService) ProcessAssessment(
	ctx context.Context,
	jobID uuid.UUID,
) error {
	if s.jobRepo == nil {
		return errors.New("assessment job repository not set")
	}
	if s.projectRepo == nil {
		return errors.New("project repository not set")
	}
	if s.assessmentRepo == nil {
		return errors.New("assessment repository not set")
	}
	if s.engine == nil {
		return errors.New("scoring engine not set")
	}

	// 1. Load job and project
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to load assessment job: %w", err)
	}

	project, err := s.projectRepo.GetByID(ctx, job.ProjectID)
	if err != nil {
		s.markJobFailed(ctx, jobID, "failed to load project: "+err.Error())
		return err
	}

	// 2. Update job status to in_progress
	err = s.jobRepo.UpdateStatus(ctx, jobID, models.JobStatusInProgress)
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}

	err = s.projectRepo.UpdateStatus(ctx, job.ProjectID, models.StatusInReview)
	if err != nil {
		log.Printf("Warning: failed to move project %s to in_review: %v", job.ProjectID, err)
	}

	// 3. The evaluation units run concurrently inside the engine, so their
	// steps advance together rather than one at a time
	specs := scoring.Components()
	for _, spec := range specs {
		if err := s.updateStepStatus(ctx, jobID, componentStepName(spec), "in_progress"); err != nil {
			s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
			return err
		}
	}
	if err := s.updateStepStatus(ctx, jobID, stepEnvironmental, "in_progress"); err != nil {
		s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
		return err
	}
	if err := s.updateStepStatus(ctx, jobID, stepRisk, "in_progress"); err != nil {
		s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
		return err
	}

	report, err := s.engine.Assess(ctx, project)
	if err != nil {
		s.markJobFailed(ctx, jobID, "assessment failed: "+err.Error())
		return fmt.Errorf("assessment failed: %w", err)
	}

	// 4. Reflect per-component outcomes on the steps
	for i, spec := range specs {
		status := "completed"
		if i < len(report.Components) && report.Components[i].Failed {
			status = "failed"
		}
		if err := s.updateStepStatus(ctx, jobID, componentStepName(spec), status); err != nil {
			s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
			return err
		}
	}
	if err := s.updateStepStatus(ctx, jobID, stepEnvironmental, "completed"); err != nil {
		s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
		return err
	}
	if err := s.updateStepStatus(ctx, jobID, stepRisk, "completed"); err != nil {
		s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
		return err
	}

	// 5. Persist the report
	err = s.updateStepStatus(ctx, jobID, stepAggregate, "in_progress")
	if err != nil {
		s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
		return err
	}

	assessment := &models.Assessment{
		ProjectID: job.ProjectID,
		Report:    *report,
	}
	err = s.assessmentRepo.Create(ctx, assessment)
	if err != nil {
		s.markJobFailed(ctx, jobID, "failed to store assessment: "+err.Error())
		return err
	}

	err = s.updateStepStatus(ctx, jobID, stepAggregate, "completed")
	if err != nil {
		s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
		return err
	}

	// 6. Move the project to assessed
	now := time.Now()
	project.Status = models.StatusAssessed
	project.CompletedAt = &now
	err = s.projectRepo.Update(ctx, project)
	if err != nil {
		log.Printf("Warning: failed to move project %s to assessed: %v", job.ProjectID, err)
	}

	// 7. Mark job as completed
	err = s.jobRepo.Complete(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to complete job: %w", err)
	}

	return nil
}

// GetLatestAssessmentRequest represents a request for a project's latest assessment
type GetLatestAssessmentRequest struct {
	ProjectID uuid.UUID
}

// GetLatestAssessmentResult represents the result of fetching the latest assessment
type GetLatestAssessmentResult struct {
	Assessment *models.Assessment
}

// GetLatestAssessment retrieves the most recent assessment for a project
func (s *AssessmentService) GetLatestAssessment(
	ctx context.Context,
	req GetLatestAssessmentRequest,
) (*GetLatestAssessmentResult, error) {
	if s.assessmentRepo == nil {
		return nil, errors.New("assessment repository not set")
	}

	assessment, err := s.assessmentRepo.GetLatestByProjectID(ctx, req.ProjectID)
	if err != nil {
		return nil, ErrAssessmentNotFound
	}

	return &GetLatestAssessmentResult{Assessment: assessment}, nil
}

// ListAssessmentsRequest represents a request to list a project's assessments
type ListAssessmentsRequest struct {
	ProjectID uuid.UUID
}

// ListAssessmentsResult represents the result of listing assessments
type ListAssessmentsResult struct {
	Assessments []*models.Assessment
}

// ListAssessments lists all assessments for a project, newest first
func (s *AssessmentService) ListAssessments(
	ctx context.Context,
	req ListAssessmentsRequest,
) (*ListAssessmentsResult, error) {
	if s.assessmentRepo == nil {
		return nil, errors.New("assessment repository not set")
	}

	assessments, err := s.assessmentRepo.ListByProjectID(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}

	return &ListAssessmentsResult{Assessments: assessments}, nil
}

// updateStepStatus updates the status of a specific step in the assessment job
func (s *AssessmentService) updateStepStatus(ctx context.Context, jobID uuid.UUID, stepName, status string) error {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return err
	}

	steps := job.Steps
	var currentStep string
	if job.CurrentStep != nil {
		currentStep = *job.CurrentStep
	}

	for i := range steps {
		if steps[i].Name == stepName {
			steps[i].Status = status
			if status == "in_progress" {
				currentStep = stepName
			}
			break
		}
	}

	return s.jobRepo.UpdateProgress(ctx, jobID, currentStep, steps)
}

// markJobFailed marks a job as failed with an error message
func (s *AssessmentService) markJobFailed(ctx context.Context, jobID uuid.UUID, errorMessage string) {
	err := s.jobRepo.Fail(ctx, jobID, errorMessage)
	if err != nil {
		log.Printf("Warning: failed to mark job %s as failed: %v", jobID, err)
	}
}
