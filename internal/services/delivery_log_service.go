package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/hirebridge/hirebridge/internal/models"
)

// maxDeliveryLogResults caps a single delivery log query.
const maxDeliveryLogResults = 100

// DeliveryLogFilters encapsulates optional filters when querying the delivery log.
type DeliveryLogFilters struct {
	Since    *time.Time
	Until    *time.Time
	Status   string
	Category string
}

// DeliveryLogService reads and prunes the append-only delivery log.
type DeliveryLogService struct {
	db *gorm.DB
}

// NewDeliveryLogService constructs a DeliveryLogService using the provided database handle.
func NewDeliveryLogService(db *gorm.DB) (*DeliveryLogService, error) {
	if db == nil {
		return nil, errors.New("delivery log service: db is required")
	}
	return &DeliveryLogService{db: db}, nil
}

// List returns up to 100 matching entries ordered by dispatch time descending.
func (s *DeliveryLogService) List(ctx context.Context, filters DeliveryLogFilters) ([]models.DeliveryLog, error) {
	ctx = ensureContext(ctx)

	query := s.db.WithContext(ctx).Model(&models.DeliveryLog{})
	if filters.Since != nil && filters.Until != nil {
		query = query.Where("sent_at >= ? AND sent_at <= ?", *filters.Since, *filters.Until)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}

	var logs []models.DeliveryLog
	if err := query.
		Order("sent_at DESC").
		Limit(maxDeliveryLogResults).
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("delivery log service: list entries: %w", err)
	}

	return logs, nil
}

// CleanupOlderThan removes entries older than the supplied retention window in days.
func (s *DeliveryLogService) CleanupOlderThan(ctx context.Context, retentionDays int) (int64, error) {
	ctx = ensureContext(ctx)

	if retentionDays <= 0 {
		return 0, errors.New("delivery log service: retentionDays must be positive")
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	result := s.db.WithContext(ctx).Where("sent_at < ?", cutoff).Delete(&models.DeliveryLog{})
	if result.Error != nil {
		return 0, fmt.Errorf("delivery log service: cleanup entries: %w", result.Error)
	}

	return result.RowsAffected, nil
}
