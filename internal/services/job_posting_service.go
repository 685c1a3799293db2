package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hirebridge/hirebridge/internal/models"
	"github.com/hirebridge/hirebridge/pkg/logger"
	"github.com/hirebridge/hirebridge/pkg/metrics"
)

// ErrEndDateInPast indicates the posting's end date is not after its creation time.
var ErrEndDateInPast = errors.New("job posting: end date must be after the creation date")

// JobPostingInput carries the client-supplied fields of a new posting.
type JobPostingInput struct {
	JobTitle        string
	JobDescription  string
	ExperienceLevel string
	Candidates      []string
	EndDate         time.Time
}

// JobPostingOption customises the JobPostingService.
type JobPostingOption func(*JobPostingService)

// WithJobPostingClock injects a custom time source.
func WithJobPostingClock(clock func() time.Time) JobPostingOption {
	return func(s *JobPostingService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// JobPostingService creates and lists job postings and dispatches candidate
// invitations.
type JobPostingService struct {
	db         *gorm.DB
	dispatcher *Dispatcher
	now        func() time.Time
	log        *zap.Logger
}

// NewJobPostingService constructs the service with the provided dependencies.
func NewJobPostingService(db *gorm.DB, dispatcher *Dispatcher, opts ...JobPostingOption) (*JobPostingService, error) {
	if db == nil {
		return nil, errors.New("job posting service: db is required")
	}
	if dispatcher == nil {
		return nil, errors.New("job posting service: dispatcher is required")
	}

	service := &JobPostingService{
		db:         db,
		dispatcher: dispatcher,
		now:        time.Now,
		log:        logger.WithModule("postings"),
	}

	for _, opt := range opts {
		opt(service)
	}

	return service, nil
}

// Create persists a posting stamped with the owner and creation time. Each
// candidate starts as pending and receives one invitation email; invitation
// failures are logged per candidate and never fail the posting.
func (s *JobPostingService) Create(ctx context.Context, ownerID string, input JobPostingInput) (*models.JobPosting, error) {
	ctx = ensureContext(ctx)

	if strings.TrimSpace(ownerID) == "" {
		return nil, errors.New("job posting service: owner id is required")
	}

	now := s.now()
	if !input.EndDate.After(now) {
		return nil, ErrEndDateInPast
	}

	candidates := make([]models.Candidate, 0, len(input.Candidates))
	for _, email := range input.Candidates {
		email = strings.TrimSpace(email)
		if email == "" {
			continue
		}
		candidates = append(candidates, models.Candidate{
			Email:   email,
			Status:  models.CandidateStatusPending,
			AddedAt: now,
		})
	}

	posting := models.JobPosting{
		ClientID:        ownerID,
		JobTitle:        input.JobTitle,
		JobDescription:  input.JobDescription,
		ExperienceLevel: input.ExperienceLevel,
		EndDate:         input.EndDate,
		Status:          models.PostingStatusActive,
	}
	if err := posting.SetCandidates(candidates); err != nil {
		return nil, fmt.Errorf("job posting service: encode candidates: %w", err)
	}

	if err := s.db.WithContext(ctx).Create(&posting).Error; err != nil {
		return nil, fmt.Errorf("job posting service: create posting: %w", err)
	}

	metrics.JobPostingsCreated.Inc()

	for _, candidate := range candidates {
		if err := s.dispatcher.SendEmail(ctx, EmailDispatch{
			To:       candidate.Email,
			Subject:  "New Job Opportunity",
			Body:     fmt.Sprintf("You have been invited to apply for the position of %s. Please check your dashboard for more details.", posting.JobTitle),
			ClientID: &posting.ClientID,
			Category: models.CategoryJobInvitation,
		}); err != nil {
			s.log.Warn("candidate invitation failed",
				zap.String("posting_id", posting.ID),
				zap.String("candidate", candidate.Email),
				zap.Error(err),
			)
		}
	}

	return &posting, nil
}

// ListByClient returns the caller's postings ordered by creation time, newest first.
func (s *JobPostingService) ListByClient(ctx context.Context, clientID string) ([]models.JobPosting, error) {
	ctx = ensureContext(ctx)

	var postings []models.JobPosting
	if err := s.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&postings).Error; err != nil {
		return nil, fmt.Errorf("job posting service: list postings: %w", err)
	}

	return postings, nil
}
