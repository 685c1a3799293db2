package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hirebridge/hirebridge/internal/services"
	appErrors "github.com/hirebridge/hirebridge/pkg/errors"
	"github.com/hirebridge/hirebridge/pkg/response"
)

// JobPostingHandler exposes create and list operations for job postings.
type JobPostingHandler struct {
	postings *services.JobPostingService
}

func NewJobPostingHandler(postings *services.JobPostingService) *JobPostingHandler {
	return &JobPostingHandler{postings: postings}
}

type createJobPostingRequest struct {
	JobTitle        string    `json:"job_title" validate:"required"`
	JobDescription  string    `json:"job_description"`
	ExperienceLevel string    `json:"experience_level" validate:"required,oneof=entry mid senior"`
	Candidates      []string  `json:"candidates" validate:"dive,email"`
	EndDate         time.Time `json:"end_date" validate:"required"`
}

// POST /api/job-postings
func (h *JobPostingHandler) Create(c *gin.Context) {
	clientID, ok := clientIDFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req createJobPostingRequest
	if !bindAndValidate(c, &req) {
		return
	}

	posting, err := h.postings.Create(requestContext(c), clientID, services.JobPostingInput{
		JobTitle:        req.JobTitle,
		JobDescription:  req.JobDescription,
		ExperienceLevel: req.ExperienceLevel,
		Candidates:      req.Candidates,
		EndDate:         req.EndDate,
	})
	if err != nil {
		if errors.Is(err, services.ErrEndDateInPast) {
			response.Error(c, appErrors.NewBadRequest("end date must be after the creation date"))
			return
		}
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}

	response.Success(c, http.StatusCreated, posting)
}

// GET /api/job-postings
func (h *JobPostingHandler) List(c *gin.Context) {
	clientID, ok := clientIDFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	postings, err := h.postings.ListByClient(requestContext(c), clientID)
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}

	response.Success(c, http.StatusOK, postings)
}
