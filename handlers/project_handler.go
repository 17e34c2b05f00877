package handlers

import (
	"context"
	"log"
	"net/http"

	"greenscore-backend/models"
	"greenscore-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProjectHandler handles HTTP requests for projects
type ProjectHandler struct {
	projectService    *service.ProjectService
	assessmentService *service.AssessmentService
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService *service.ProjectService, assessmentService *service.AssessmentService) *ProjectHandler {
	return &ProjectHandler{
		projectService:    projectService,
		assessmentService: assessmentService,
	}
}

// CreateProjectRequest represents the request body for creating a project
type CreateProjectRequest struct {
	UserID             string  `json:"user_id" binding:"required"`
	Name               string  `json:"name" binding:"required"`
	Sector             string  `json:"sector"`
	Country            string  `json:"country"`
	InvestmentAmount   float64 `json:"investment_amount"`
	AnnualRevenue      float64 `json:"annual_revenue"`
	BaselineEmissions  float64 `json:"baseline_emissions"`
	TargetEmissions    float64 `json:"target_emissions"`
	TransitionStrategy string  `json:"transition_strategy"`
}

// CreateProject handles POST /api/projects
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_USER_ID",
				"message": "Invalid user_id format",
			},
		})
		return
	}

	serviceReq := service.CreateProjectRequest{
		UserID:             userID,
		Name:               req.Name,
		Sector:             req.Sector,
		Country:            req.Country,
		InvestmentAmount:   req.InvestmentAmount,
		AnnualRevenue:      req.AnnualRevenue,
		BaselineEmissions:  req.BaselineEmissions,
		TargetEmissions:    req.TargetEmissions,
		TransitionStrategy: req.TransitionStrategy,
	}

	result, err := h.projectService.CreateProject(c.Request.Context(), serviceReq)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CREATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    result.Project,
	})
}

// GetProject handles GET /api/projects/:id
func (h *ProjectHandler) GetProject(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid project ID format",
			},
		})
		return
	}

	serviceReq := service.GetProjectRequest{
		ID: id,
	}

	result, err := h.projectService.GetProject(c.Request.Context(), serviceReq)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Project not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Project,
	})
}

// UpdateProjectRequest represents the request body for updating a project
type UpdateProjectRequest struct {
	Status             string                 `json:"status"`
	Name               string                 `json:"name"`
	Sector             string                 `json:"sector"`
	Country            string                 `json:"country"`
	InvestmentAmount   *float64               `json:"investment_amount"`
	AnnualRevenue      *float64               `json:"annual_revenue"`
	BaselineEmissions  *float64               `json:"baseline_emissions"`
	TargetEmissions    *float64               `json:"target_emissions"`
	TransitionStrategy *string                `json:"transition_strategy"`
	DocumentFileID     *string                `json:"document_file_id"`
	RawDocumentText    *string                `json:"raw_document_text"`
	ComponentExcerpts  map[string]string      `json:"component_excerpts"`
	ExtractedFields    map[string]interface{} `json:"extracted_fields"`
}

// UpdateProject handles PUT /api/projects/:id
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid project ID format",
			},
		})
		return
	}

	// Get existing project
	getReq := service.GetProjectRequest{ID: id}
	result, err := h.projectService.GetProject(c.Request.Context(), getReq)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Project not found",
			},
		})
		return
	}

	project := result.Project

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	// Update fields if provided
	if req.Status != "" {
		project.Status = models.ProjectStatus(req.Status)
	}
	if req.Name != "" {
		project.Name = req.Name
	}
	if req.Sector != "" {
		project.Sector = req.Sector
	}
	if req.Country != "" {
		project.Country = req.Country
	}
	if req.InvestmentAmount != nil {
		project.InvestmentAmount = *req.InvestmentAmount
	}
	if req.AnnualRevenue != nil {
		project.AnnualRevenue = *req.AnnualRevenue
	}
	if req.BaselineEmissions != nil {
		project.BaselineEmissions = *req.BaselineEmissions
	}
	if req.TargetEmissions != nil {
		project.TargetEmissions = *req.TargetEmissions
	}
	if req.TransitionStrategy != nil {
		project.TransitionStrategy = *req.TransitionStrategy
	}
	if req.DocumentFileID != nil {
		docID, err := uuid.Parse(*req.DocumentFileID)
		if err == nil {
			project.DocumentFileID = &docID
		}
	}
	if req.RawDocumentText != nil {
		project.RawDocumentText = req.RawDocumentText
	}
	if req.ComponentExcerpts != nil {
		project.ComponentExcerpts = models.ComponentExcerpts(req.ComponentExcerpts)
	}
	if req.ExtractedFields != nil {
		project.ExtractedFields = models.ExtractedFields(req.ExtractedFields)
	}

	updateReq := service.UpdateProjectRequest{
		Project: project,
	}

	updateResult, err := h.projectService.UpdateProject(c.Request.Context(), updateReq)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPDATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    updateResult.Project,
	})
}

// ListProjects handles GET /api/projects
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userIDStr := c.Query("user_id")
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_USER_ID",
				"message": "Valid user_id query parameter is required",
			},
		})
		return
	}

	var status *models.ProjectStatus
	if statusStr := c.Query("status"); statusStr != "" {
		s := models.ProjectStatus(statusStr)
		status = &s
	}

	serviceReq := service.ListProjectsRequest{
		UserID: userID,
		Status: status,
	}

	result, err := h.projectService.ListProjects(c.Request.Context(), serviceReq)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LIST_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Projects,
	})
}

// StartAssessment handles POST /api/projects/:id/assess
func (h *ProjectHandler) StartAssessment(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid project ID format",
			},
		})
		return
	}

	serviceReq := service.StartAssessmentRequest{
		ProjectID: id,
	}

	// Create job (synchronous, fast)
	result, err := h.assessmentService.StartAssessment(c.Request.Context(), serviceReq)
	if err != nil {
		status := http.StatusInternalServerError
		code := "ASSESSMENT_FAILED"
		switch err {
		case service.ErrProjectNotFound:
			status = http.StatusNotFound
			code = "NOT_FOUND"
		case service.ErrMissingRequiredData:
			status = http.StatusBadRequest
			code = "MISSING_REQUIRED_DATA"
		}
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
			},
		})
		return
	}

	// Spawn background goroutine for actual scoring
	// Use background context (not request context) to avoid cancellation
	go func() {
		bgCtx := context.Background()
		if err := h.assessmentService.ProcessAssessment(bgCtx, result.JobID); err != nil {
			// Error is logged and stored in job.ErrorMessage
			// No need to return to HTTP client (they'll poll status)
			log.Printf("Assessment job %s failed: %v", result.JobID, err)
		}
	}()

	// Return immediately (within 100ms)
	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"data": gin.H{
			"job_id":  result.JobID,
			"status":  "pending",
			"message": "Assessment job created. Poll /api/jobs/:id for updates.",
		},
	})
}

// GetJobStatus handles GET /api/jobs/:id
func (h *ProjectHandler) GetJobStatus(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid job ID format",
			},
		})
		return
	}

	serviceReq := service.GetJobStatusRequest{
		JobID: id,
	}

	result, err := h.assessmentService.GetJobStatus(c.Request.Context(), serviceReq)
	if err != nil {
		if err == service.ErrJobNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Assessment job not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "RETRIEVAL_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Job,
	})
}

// GetAssessment handles GET /api/projects/:id/assessment
func (h *ProjectHandler) GetAssessment(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid project ID format",
			},
		})
		return
	}

	serviceReq := service.GetLatestAssessmentRequest{
		ProjectID: id,
	}

	result, err := h.assessmentService.GetLatestAssessment(c.Request.Context(), serviceReq)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "No assessment found for project",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Assessment,
	})
}

// ListAssessments handles GET /api/projects/:id/assessments
func (h *ProjectHandler) ListAssessments(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid project ID format",
			},
		})
		return
	}

	serviceReq := service.ListAssessmentsRequest{
		ProjectID: id,
	}

	result, err := h.assessmentService.ListAssessments(c.Request.Context(), serviceReq)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LIST_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Assessments,
	})
}
