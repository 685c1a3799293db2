package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Delivery channels.
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// Delivery statuses.
const (
	DeliveryStatusSent   = "sent"
	DeliveryStatusFailed = "failed"
)

// Delivery categories.
const (
	CategoryVerification  = "verification"
	CategoryLogin         = "login"
	CategoryJobInvitation = "job_invitation"
)

// DeliveryLog records a single outbound delivery attempt. Rows are write-once;
// nothing in the application mutates a log entry after creation.
type DeliveryLog struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Recipient string    `gorm:"not null;index" json:"recipient"`
	Channel   string    `gorm:"not null;index" json:"channel"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Status    string    `gorm:"not null;index" json:"status"`
	Error     string    `json:"error,omitempty"`
	ClientID  *string   `gorm:"type:uuid;index" json:"client_id"`
	Category  string    `gorm:"not null;index" json:"type"`
	SentAt    time.Time `gorm:"index" json:"sent_at"`
}

// BeforeCreate assigns the identifier and timestamp for append-only rows.
func (l *DeliveryLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.SentAt.IsZero() {
		l.SentAt = time.Now()
	}
	return nil
}
