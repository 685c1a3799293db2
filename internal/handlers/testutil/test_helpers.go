package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hirebridge/hirebridge/internal/api"
	iauth "github.com/hirebridge/hirebridge/internal/auth"
	sharedtestutil "github.com/hirebridge/hirebridge/internal/database/testutil"
	"github.com/hirebridge/hirebridge/internal/services"
	"github.com/hirebridge/hirebridge/pkg/mail"
	"github.com/hirebridge/hirebridge/pkg/response"
)

// FakeMailer records outbound email instead of delivering it.
type FakeMailer struct {
	mu   sync.Mutex
	Sent []mail.Message
	Err  error
}

func (m *FakeMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, msg)
	return nil
}

// SentSMS is one recorded text message.
type SentSMS struct {
	To   string
	Body string
}

// FakeSMSSender records outbound text messages instead of delivering them.
type FakeSMSSender struct {
	mu   sync.Mutex
	Sent []SentSMS
	Err  error
}

func (s *FakeSMSSender) Send(_ context.Context, phoneNumber, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Sent = append(s.Sent, SentSMS{To: phoneNumber, Body: body})
	return nil
}

// Env encapsulates a fully-wired API instance backed by an in-memory database
// for handler tests. Generated OTP codes are recorded in issue order so tests
// can replay them without parsing message bodies.
type Env struct {
	T      *testing.T
	DB     *gorm.DB
	Router *gin.Engine
	JWT    *iauth.JWTService
	Mailer *FakeMailer
	SMS    *FakeSMSSender

	mu    sync.Mutex
	codes []string
}

// NewEnv provisions a fresh handler test environment with migrations applied.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db := sharedtestutil.MustOpenTestDB(t)

	jwtSvc, err := iauth.NewJWTService(iauth.JWTConfig{
		Secret:   "test-suite-super-secret-key-32-bytes!!",
		Issuer:   "test-suite",
		TokenTTL: 24 * time.Hour,
	})
	require.NoError(t, err)

	env := &Env{
		T:      t,
		DB:     db,
		JWT:    jwtSvc,
		Mailer: &FakeMailer{},
		SMS:    &FakeSMSSender{},
	}

	dispatcher, err := services.NewDispatcher(db, env.Mailer, env.SMS)
	require.NoError(t, err)

	verification, err := services.NewVerificationService(db, dispatcher,
		services.WithOTPGenerator(env.recordCode))
	require.NoError(t, err)

	postings, err := services.NewJobPostingService(db, dispatcher)
	require.NoError(t, err)

	logs, err := services.NewDeliveryLogService(db)
	require.NoError(t, err)

	router, err := api.NewRouter(jwtSvc, verification, postings, logs)
	require.NoError(t, err)

	env.Router = router
	return env
}

// Codes returns every OTP generated so far, oldest first.
func (e *Env) Codes() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.codes...)
}

// LastCodes returns the n most recently generated OTP codes.
func (e *Env) LastCodes(n int) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	require.GreaterOrEqual(e.T, len(e.codes), n)
	return append([]string(nil), e.codes[len(e.codes)-n:]...)
}

func (e *Env) recordCode() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	code := nextSequenceCode(len(e.codes))
	e.codes = append(e.codes, code)
	return code
}

// nextSequenceCode yields distinct six-digit codes in a fixed order.
func nextSequenceCode(i int) string {
	return fmt.Sprintf("%06d", 100000+(i*31337)%900000)
}

// Request executes an HTTP request against the test router, applying JSON
// encoding and auth headers automatically.
func (e *Env) Request(method, path string, body any, token string) *httptest.ResponseRecorder {
	e.T.Helper()

	var buf *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(e.T, err)
		buf = bytes.NewBuffer(data)
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, buf)
	require.NoError(e.T, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}

// APIResponse represents the canonical API envelope returned by handlers.
type APIResponse struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Error   *response.ErrorInfo `json:"error"`
}

// DecodeResponse parses the standard API response object from a recorder.
func DecodeResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

// DecodeInto unmarshals the data payload into the provided destination.
func DecodeInto[T any](t *testing.T, raw json.RawMessage, dest *T) {
	t.Helper()
	if dest == nil {
		t.Fatal("destination must not be nil")
	}
	require.NoError(t, json.Unmarshal(raw, dest))
}
