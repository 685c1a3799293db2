package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hirebridge/hirebridge/internal/database/testutil"
	"github.com/hirebridge/hirebridge/internal/models"
)

type verificationEnv struct {
	db     *gorm.DB
	mailer *fakeMailer
	sms    *fakeSMSSender
	svc    *VerificationService
}

func newVerificationEnv(t *testing.T, opts ...VerificationOption) *verificationEnv {
	t.Helper()

	db := testutil.MustOpenTestDB(t)
	mailer := &fakeMailer{}
	sender := &fakeSMSSender{}

	dispatcher, err := NewDispatcher(db, mailer, sender)
	require.NoError(t, err)

	svc, err := NewVerificationService(db, dispatcher, opts...)
	require.NoError(t, err)

	return &verificationEnv{db: db, mailer: mailer, sms: sender, svc: svc}
}

func registrationInput() RegistrationInput {
	return RegistrationInput{
		Name:         "Acme Inc",
		PhoneNo:      "+15551234567",
		CompanyName:  "Acme",
		CompanyEmail: "a@b.com",
		EmployeeSize: 25,
	}
}

func TestRegisterDispatchesBothChannels(t *testing.T) {
	env := newVerificationEnv(t, WithOTPGenerator(sequenceOTP("111111", "222222")))

	client, err := env.svc.Register(context.Background(), registrationInput())
	require.NoError(t, err)
	require.NotEmpty(t, client.ID)
	require.False(t, client.Verified)
	require.Equal(t, "111111", client.EmailOTP)
	require.Equal(t, "222222", client.MobileOTP)

	require.Len(t, env.mailer.sent, 1)
	require.Equal(t, []string{"a@b.com"}, env.mailer.sent[0].To)
	require.Contains(t, env.mailer.sent[0].Body, "111111")

	require.Len(t, env.sms.sent, 1)
	require.Equal(t, "+15551234567", env.sms.sent[0].To)
	require.Contains(t, env.sms.sent[0].Body, "222222")

	// One delivery log row per attempt, on both channels.
	var logs []models.DeliveryLog
	require.NoError(t, env.db.Order("channel").Find(&logs).Error)
	require.Len(t, logs, 2)
	require.Equal(t, models.ChannelEmail, logs[0].Channel)
	require.Equal(t, models.ChannelSMS, logs[1].Channel)
	for _, entry := range logs {
		require.Equal(t, models.DeliveryStatusSent, entry.Status)
		require.Equal(t, models.CategoryVerification, entry.Category)
	}
}

func TestRegisterDuplicateIdentity(t *testing.T) {
	env := newVerificationEnv(t)

	_, err := env.svc.Register(context.Background(), registrationInput())
	require.NoError(t, err)

	// Same email, different phone.
	dup := registrationInput()
	dup.PhoneNo = "+15559999999"
	_, err = env.svc.Register(context.Background(), dup)
	require.ErrorIs(t, err, ErrDuplicateIdentity)

	// Same phone, different email.
	dup = registrationInput()
	dup.CompanyEmail = "other@b.com"
	_, err = env.svc.Register(context.Background(), dup)
	require.ErrorIs(t, err, ErrDuplicateIdentity)
}

func TestRegisterSurvivesDeliveryFailure(t *testing.T) {
	env := newVerificationEnv(t)
	env.mailer.err = errors.New("smtp unreachable")
	env.sms.err = errors.New("sns unreachable")

	client, err := env.svc.Register(context.Background(), registrationInput())
	require.NoError(t, err)

	// The record persisted despite both channels failing.
	var stored models.Client
	require.NoError(t, env.db.First(&stored, "id = ?", client.ID).Error)
	require.NotEmpty(t, stored.EmailOTP)

	// Both failures audited, SMS included.
	var logs []models.DeliveryLog
	require.NoError(t, env.db.Order("channel").Find(&logs).Error)
	require.Len(t, logs, 2)
	for _, entry := range logs {
		require.Equal(t, models.DeliveryStatusFailed, entry.Status)
		require.NotEmpty(t, entry.Error)
	}
}

func TestVerifyRegistrationPartialMatch(t *testing.T) {
	env := newVerificationEnv(t, WithOTPGenerator(sequenceOTP("111111", "222222")))

	client, err := env.svc.Register(context.Background(), registrationInput())
	require.NoError(t, err)

	// Correct email code, wrong mobile code: transition rejected, nothing cleared.
	err = env.svc.VerifyRegistration(context.Background(), client.ID, "111111", "999999")
	require.ErrorIs(t, err, ErrCodeMismatch)

	var stored models.Client
	require.NoError(t, env.db.First(&stored, "id = ?", client.ID).Error)
	require.False(t, stored.Verified)
	require.Equal(t, "111111", stored.EmailOTP)
	require.Equal(t, "222222", stored.MobileOTP)
}

func TestVerifyRegistrationCodesAreSingleUse(t *testing.T) {
	env := newVerificationEnv(t, WithOTPGenerator(sequenceOTP("111111", "222222")))

	client, err := env.svc.Register(context.Background(), registrationInput())
	require.NoError(t, err)

	require.NoError(t, env.svc.VerifyRegistration(context.Background(), client.ID, "111111", "222222"))

	var stored models.Client
	require.NoError(t, env.db.First(&stored, "id = ?", client.ID).Error)
	require.True(t, stored.Verified)
	require.Empty(t, stored.EmailOTP)
	require.Empty(t, stored.MobileOTP)

	// Replaying the consumed codes must fail.
	err = env.svc.VerifyRegistration(context.Background(), client.ID, "111111", "222222")
	require.ErrorIs(t, err, ErrCodeMismatch)
}

func TestVerifyRegistrationUnknownClient(t *testing.T) {
	env := newVerificationEnv(t)

	err := env.svc.VerifyRegistration(context.Background(), "no-such-id", "111111", "222222")
	require.ErrorIs(t, err, ErrClientNotFound)
}

func TestResendVerificationOverwritesCodes(t *testing.T) {
	env := newVerificationEnv(t, WithOTPGenerator(sequenceOTP("111111", "222222", "333333", "444444")))

	client, err := env.svc.Register(context.Background(), registrationInput())
	require.NoError(t, err)

	_, err = env.svc.ResendVerification(context.Background(), client.ID)
	require.NoError(t, err)

	var stored models.Client
	require.NoError(t, env.db.First(&stored, "id = ?", client.ID).Error)
	require.Equal(t, "333333", stored.EmailOTP)
	require.Equal(t, "444444", stored.MobileOTP)

	// The original codes no longer verify.
	err = env.svc.VerifyRegistration(context.Background(), client.ID, "111111", "222222")
	require.ErrorIs(t, err, ErrCodeMismatch)

	require.NoError(t, env.svc.VerifyRegistration(context.Background(), client.ID, "333333", "444444"))
}

func TestLoginOTPByEmail(t *testing.T) {
	env := newVerificationEnv(t, WithOTPGenerator(sequenceOTP("111111", "222222", "555555")))

	client, err := env.svc.Register(context.Background(), registrationInput())
	require.NoError(t, err)

	found, err := env.svc.RequestLoginOTP(context.Background(), LoginInput{CompanyEmail: "a@b.com"})
	require.NoError(t, err)
	require.Equal(t, client.ID, found.ID)
	require.Equal(t, "555555", found.LoginOTP)

	// Delivered over email, not SMS, and distinct from the registration codes.
	require.Len(t, env.mailer.sent, 2)
	require.Contains(t, env.mailer.sent[1].Body, "555555")
	require.Len(t, env.sms.sent, 1)

	verified, err := env.svc.VerifyLoginOTP(context.Background(), client.ID, "555555")
	require.NoError(t, err)
	require.Empty(t, verified.LoginOTP)

	// Consumed codes cannot be replayed.
	_, err = env.svc.VerifyLoginOTP(context.Background(), client.ID, "555555")
	require.ErrorIs(t, err, ErrCodeMismatch)
}

func TestLoginOTPByPhoneUsesSMS(t *testing.T) {
	env := newVerificationEnv(t, WithOTPGenerator(sequenceOTP("111111", "222222", "555555")))

	_, err := env.svc.Register(context.Background(), registrationInput())
	require.NoError(t, err)

	_, err = env.svc.RequestLoginOTP(context.Background(), LoginInput{PhoneNo: "+15551234567"})
	require.NoError(t, err)

	require.Len(t, env.sms.sent, 2)
	require.Contains(t, env.sms.sent[1].Body, "555555")

	var logs []models.DeliveryLog
	require.NoError(t, env.db.Where("category = ?", models.CategoryLogin).Find(&logs).Error)
	require.Len(t, logs, 1)
	require.Equal(t, models.ChannelSMS, logs[0].Channel)
}

func TestLoginOTPUnknownIdentifier(t *testing.T) {
	env := newVerificationEnv(t)

	_, err := env.svc.RequestLoginOTP(context.Background(), LoginInput{CompanyEmail: "nobody@b.com"})
	require.ErrorIs(t, err, ErrClientNotFound)
}

func TestLoginOTPOverwritesPreviousChallenge(t *testing.T) {
	env := newVerificationEnv(t, WithOTPGenerator(sequenceOTP("111111", "222222", "555555", "666666")))

	client, err := env.svc.Register(context.Background(), registrationInput())
	require.NoError(t, err)

	_, err = env.svc.RequestLoginOTP(context.Background(), LoginInput{CompanyEmail: "a@b.com"})
	require.NoError(t, err)
	_, err = env.svc.RequestLoginOTP(context.Background(), LoginInput{CompanyEmail: "a@b.com"})
	require.NoError(t, err)

	// The first challenge is stale once overwritten.
	_, err = env.svc.VerifyLoginOTP(context.Background(), client.ID, "555555")
	require.ErrorIs(t, err, ErrCodeMismatch)

	_, err = env.svc.VerifyLoginOTP(context.Background(), client.ID, "666666")
	require.NoError(t, err)
}

func TestStatus(t *testing.T) {
	env := newVerificationEnv(t, WithOTPGenerator(sequenceOTP("111111", "222222")))

	client, err := env.svc.Register(context.Background(), registrationInput())
	require.NoError(t, err)

	status, err := env.svc.Status(context.Background(), client.ID)
	require.NoError(t, err)
	require.False(t, status.Verified)

	require.NoError(t, env.svc.VerifyRegistration(context.Background(), client.ID, "111111", "222222"))

	status, err = env.svc.Status(context.Background(), client.ID)
	require.NoError(t, err)
	require.True(t, status.Verified)
}
