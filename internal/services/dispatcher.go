package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hirebridge/hirebridge/internal/models"
	"github.com/hirebridge/hirebridge/pkg/logger"
	"github.com/hirebridge/hirebridge/pkg/mail"
	"github.com/hirebridge/hirebridge/pkg/metrics"
	"github.com/hirebridge/hirebridge/pkg/sms"
)

// EmailDispatch describes a single outbound email attempt.
type EmailDispatch struct {
	To       string
	Subject  string
	Body     string
	ClientID *string
	Category string
}

// SMSDispatch describes a single outbound text message attempt.
type SMSDispatch struct {
	To       string
	Body     string
	ClientID *string
	Category string
}

// DispatcherOption customises the Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatcherClock injects a custom time source.
func WithDispatcherClock(clock func() time.Time) DispatcherOption {
	return func(d *Dispatcher) {
		if clock != nil {
			d.now = clock
		}
	}
}

// Dispatcher sends messages through the configured channels and records every
// attempt in the delivery log, exactly one row per attempt regardless of
// outcome or channel. Failed deliveries are never retried.
type Dispatcher struct {
	db     *gorm.DB
	mailer mail.Mailer
	sender sms.Sender
	now    func() time.Time
	log    *zap.Logger
}

// NewDispatcher constructs a Dispatcher with the provided collaborators.
func NewDispatcher(db *gorm.DB, mailer mail.Mailer, sender sms.Sender, opts ...DispatcherOption) (*Dispatcher, error) {
	if db == nil {
		return nil, errors.New("dispatcher: db is required")
	}
	if mailer == nil {
		return nil, errors.New("dispatcher: mailer is required")
	}
	if sender == nil {
		return nil, errors.New("dispatcher: sms sender is required")
	}

	dispatcher := &Dispatcher{
		db:     db,
		mailer: mailer,
		sender: sender,
		now:    time.Now,
		log:    logger.WithModule("dispatch"),
	}

	for _, opt := range opts {
		opt(dispatcher)
	}

	return dispatcher, nil
}

// SendEmail attempts a single email delivery and appends one delivery log row.
// The returned error reflects the channel outcome; the log write always happens.
func (d *Dispatcher) SendEmail(ctx context.Context, msg EmailDispatch) error {
	ctx = ensureContext(ctx)

	sendErr := d.mailer.Send(ctx, mail.Message{
		To:      []string{msg.To},
		Subject: msg.Subject,
		Body:    msg.Body,
	})

	entry := models.DeliveryLog{
		Recipient: msg.To,
		Channel:   models.ChannelEmail,
		Subject:   msg.Subject,
		Body:      msg.Body,
		ClientID:  msg.ClientID,
		Category:  msg.Category,
		SentAt:    d.now(),
	}

	return d.record(ctx, entry, sendErr)
}

// SendSMS attempts a single text message delivery and appends one delivery log row.
func (d *Dispatcher) SendSMS(ctx context.Context, msg SMSDispatch) error {
	ctx = ensureContext(ctx)

	sendErr := d.sender.Send(ctx, msg.To, msg.Body)

	entry := models.DeliveryLog{
		Recipient: msg.To,
		Channel:   models.ChannelSMS,
		Body:      msg.Body,
		ClientID:  msg.ClientID,
		Category:  msg.Category,
		SentAt:    d.now(),
	}

	return d.record(ctx, entry, sendErr)
}

func (d *Dispatcher) record(ctx context.Context, entry models.DeliveryLog, sendErr error) error {
	if sendErr != nil {
		entry.Status = models.DeliveryStatusFailed
		entry.Error = sendErr.Error()
	} else {
		entry.Status = models.DeliveryStatusSent
	}

	metrics.OTPDispatches.WithLabelValues(entry.Channel, entry.Status).Inc()

	if err := d.db.WithContext(ctx).Create(&entry).Error; err != nil {
		d.log.Error("record delivery attempt",
			zap.String("channel", entry.Channel),
			zap.String("recipient", entry.Recipient),
			zap.Error(err),
		)
		if sendErr != nil {
			return sendErr
		}
		return fmt.Errorf("dispatcher: record delivery: %w", err)
	}

	return sendErr
}
