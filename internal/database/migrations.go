package database

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/hirebridge/hirebridge/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
// The unique indexes on clients.company_email and clients.phone_no back the
// insert-if-absent registration guarantee; do not remove them.
func AutoMigrate(db *gorm.DB) error {
	if db == nil {
		return errors.New("nil database handle")
	}

	if err := db.AutoMigrate(
		&models.Client{},
		&models.DeliveryLog{},
		&models.JobPosting{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	return nil
}
