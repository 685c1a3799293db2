package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hirebridge/hirebridge/internal/models"
	"github.com/hirebridge/hirebridge/pkg/logger"
)

var (
	// ErrDuplicateIdentity indicates the company email or phone number is already registered.
	ErrDuplicateIdentity = errors.New("verification: client with this email or phone number already exists")
	// ErrClientNotFound indicates the referenced client does not exist.
	ErrClientNotFound = errors.New("verification: client not found")
	// ErrCodeMismatch indicates a presented OTP did not match the stored challenge.
	ErrCodeMismatch = errors.New("verification: invalid otp")
)

// RegistrationInput carries the fields submitted on sign-up.
type RegistrationInput struct {
	Name         string
	PhoneNo      string
	CompanyName  string
	CompanyEmail string
	EmployeeSize int
}

// LoginInput identifies an existing client by either contact field.
type LoginInput struct {
	CompanyEmail string
	PhoneNo      string
}

// VerificationOption customises the VerificationService.
type VerificationOption func(*VerificationService)

// WithOTPGenerator overrides code generation, primarily for tests.
func WithOTPGenerator(generate func() string) VerificationOption {
	return func(s *VerificationService) {
		if generate != nil {
			s.generate = generate
		}
	}
}

// VerificationService owns the registration and login OTP state machine.
//
// A client moves pending_verification -> verified exactly once: both stored
// codes must match and are cleared in the same guarded UPDATE that flips the
// verified flag, so codes are single-use by construction. The login OTP is an
// independent challenge available to verified and unverified clients alike.
type VerificationService struct {
	db         *gorm.DB
	dispatcher *Dispatcher
	generate   func() string
	log        *zap.Logger
}

// NewVerificationService constructs the service with the provided dependencies.
func NewVerificationService(db *gorm.DB, dispatcher *Dispatcher, opts ...VerificationOption) (*VerificationService, error) {
	if db == nil {
		return nil, errors.New("verification service: db is required")
	}
	if dispatcher == nil {
		return nil, errors.New("verification service: dispatcher is required")
	}

	service := &VerificationService{
		db:         db,
		dispatcher: dispatcher,
		generate:   generateOTP,
		log:        logger.WithModule("verification"),
	}

	for _, opt := range opts {
		opt(service)
	}

	return service, nil
}

// Register creates an unverified client with two fresh challenges and
// dispatches them through both channels. The insert relies on the unique
// indexes for the duplicate check, so concurrent registrations cannot both
// pass. Dispatch failures are recorded in the delivery log but never fail the
// registration; the client can request a resend after logging in.
func (s *VerificationService) Register(ctx context.Context, input RegistrationInput) (*models.Client, error) {
	ctx = ensureContext(ctx)

	client := models.Client{
		Name:         strings.TrimSpace(input.Name),
		PhoneNo:      strings.TrimSpace(input.PhoneNo),
		CompanyName:  strings.TrimSpace(input.CompanyName),
		CompanyEmail: strings.TrimSpace(strings.ToLower(input.CompanyEmail)),
		EmployeeSize: input.EmployeeSize,
		Verified:     false,
		EmailOTP:     s.generate(),
		MobileOTP:    s.generate(),
	}

	if client.CompanyEmail == "" {
		return nil, errors.New("verification service: company email is required")
	}
	if client.PhoneNo == "" {
		return nil, errors.New("verification service: phone number is required")
	}

	if err := s.db.WithContext(ctx).Create(&client).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("verification service: create client: %w", err)
	}

	s.dispatchVerification(ctx, &client)

	return &client, nil
}

// VerifyRegistration consumes both pending challenges. Both presented codes
// must match exactly; on success the codes are cleared and the client becomes
// verified in a single statement. A mismatch of either code leaves the record
// untouched.
func (s *VerificationService) VerifyRegistration(ctx context.Context, clientID, emailOTP, mobileOTP string) error {
	ctx = ensureContext(ctx)

	if emailOTP == "" || mobileOTP == "" {
		return ErrCodeMismatch
	}

	result := s.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("id = ? AND email_otp = ? AND mobile_otp = ? AND email_otp <> ''", clientID, emailOTP, mobileOTP).
		Updates(map[string]any{
			"verified":   true,
			"email_otp":  "",
			"mobile_otp": "",
		})
	if result.Error != nil {
		return fmt.Errorf("verification service: consume otp: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		if _, err := s.findClient(ctx, clientID); err != nil {
			return err
		}
		return ErrCodeMismatch
	}

	return nil
}

// ResendVerification overwrites any pending challenges with fresh codes and
// re-dispatches them through both channels.
func (s *VerificationService) ResendVerification(ctx context.Context, clientID string) (*models.Client, error) {
	ctx = ensureContext(ctx)

	client, err := s.findClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	client.EmailOTP = s.generate()
	client.MobileOTP = s.generate()

	if err := s.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("id = ?", client.ID).
		Updates(map[string]any{
			"email_otp":  client.EmailOTP,
			"mobile_otp": client.MobileOTP,
		}).Error; err != nil {
		return nil, fmt.Errorf("verification service: store otp: %w", err)
	}

	s.dispatchVerification(ctx, client)

	return client, nil
}

// RequestLoginOTP issues a fresh login challenge for the client identified by
// company email or phone number, overwriting any previous one. The code is
// delivered by email when an email identifier was supplied, by SMS otherwise.
func (s *VerificationService) RequestLoginOTP(ctx context.Context, input LoginInput) (*models.Client, error) {
	ctx = ensureContext(ctx)

	email := strings.TrimSpace(strings.ToLower(input.CompanyEmail))
	phone := strings.TrimSpace(input.PhoneNo)
	if email == "" && phone == "" {
		return nil, ErrClientNotFound
	}

	query := s.db.WithContext(ctx)
	switch {
	case email != "" && phone != "":
		query = query.Where("company_email = ? OR phone_no = ?", email, phone)
	case email != "":
		query = query.Where("company_email = ?", email)
	default:
		query = query.Where("phone_no = ?", phone)
	}

	var client models.Client
	if err := query.First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("verification service: find client: %w", err)
	}

	client.LoginOTP = s.generate()
	if err := s.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("id = ?", client.ID).
		Update("login_otp", client.LoginOTP).Error; err != nil {
		return nil, fmt.Errorf("verification service: store login otp: %w", err)
	}

	body := fmt.Sprintf("Your login OTP is: %s", client.LoginOTP)
	if email != "" {
		if err := s.dispatcher.SendEmail(ctx, EmailDispatch{
			To:       client.CompanyEmail,
			Subject:  "Login OTP",
			Body:     body,
			ClientID: &client.ID,
			Category: models.CategoryLogin,
		}); err != nil {
			s.log.Warn("login otp email failed", zap.String("client_id", client.ID), zap.Error(err))
		}
	} else {
		if err := s.dispatcher.SendSMS(ctx, SMSDispatch{
			To:       client.PhoneNo,
			Body:     body,
			ClientID: &client.ID,
			Category: models.CategoryLogin,
		}); err != nil {
			s.log.Warn("login otp sms failed", zap.String("client_id", client.ID), zap.Error(err))
		}
	}

	return &client, nil
}

// VerifyLoginOTP consumes the pending login challenge. The code is single-use:
// the same guarded UPDATE that matches it also clears it.
func (s *VerificationService) VerifyLoginOTP(ctx context.Context, clientID, code string) (*models.Client, error) {
	ctx = ensureContext(ctx)

	if code == "" {
		return nil, ErrCodeMismatch
	}

	result := s.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("id = ? AND login_otp = ? AND login_otp <> ''", clientID, code).
		Update("login_otp", "")
	if result.Error != nil {
		return nil, fmt.Errorf("verification service: consume login otp: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		if _, err := s.findClient(ctx, clientID); err != nil {
			return nil, err
		}
		return nil, ErrCodeMismatch
	}

	return s.findClient(ctx, clientID)
}

// Status reports the verification flag for the given client.
func (s *VerificationService) Status(ctx context.Context, clientID string) (*models.Client, error) {
	return s.findClient(ensureContext(ctx), clientID)
}

func (s *VerificationService) findClient(ctx context.Context, clientID string) (*models.Client, error) {
	var client models.Client
	if err := s.db.WithContext(ctx).First(&client, "id = ?", clientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("verification service: find client: %w", err)
	}
	return &client, nil
}

func (s *VerificationService) dispatchVerification(ctx context.Context, client *models.Client) {
	if err := s.dispatcher.SendEmail(ctx, EmailDispatch{
		To:       client.CompanyEmail,
		Subject:  "Email Verification OTP",
		Body:     fmt.Sprintf("Your email verification OTP is: %s", client.EmailOTP),
		ClientID: &client.ID,
		Category: models.CategoryVerification,
	}); err != nil {
		s.log.Warn("verification email failed", zap.String("client_id", client.ID), zap.Error(err))
	}

	if err := s.dispatcher.SendSMS(ctx, SMSDispatch{
		To:       client.PhoneNo,
		Body:     fmt.Sprintf("Your mobile verification OTP is: %s", client.MobileOTP),
		ClientID: &client.ID,
		Category: models.CategoryVerification,
	}); err != nil {
		s.log.Warn("verification sms failed", zap.String("client_id", client.ID), zap.Error(err))
	}
}
