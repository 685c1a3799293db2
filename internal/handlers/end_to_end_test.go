package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	iauth "github.com/hirebridge/hirebridge/internal/auth"
	"github.com/hirebridge/hirebridge/internal/handlers/testutil"
	"github.com/hirebridge/hirebridge/internal/models"
)

// issueToken mints a session token directly, bypassing the OTP login flow.
func issueToken(t *testing.T, env *testutil.Env, clientID string) string {
	t.Helper()
	token, err := env.JWT.GenerateToken(iauth.TokenInput{
		ClientID: clientID,
		Email:    "a@b.com",
		Name:     "Ada Lovelace",
	})
	require.NoError(t, err)
	return token
}

// TestFullSignupToPostingFlow walks the whole lifecycle over the wired router:
// register, verify both codes, request a login OTP, exchange it for a token,
// and create a posting with an invited candidate.
func TestFullSignupToPostingFlow(t *testing.T) {
	env := testutil.NewEnv(t)

	// Register.
	w := env.Request(http.MethodPost, "/api/register", map[string]any{
		"name":          "Ada Lovelace",
		"phone_no":      "+15551234567",
		"company_name":  "Analytical Engines Ltd",
		"company_email": "a@b.com",
		"employee_size": 42,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := testutil.DecodeResponse(t, w)
	require.True(t, resp.Success)
	var reg struct {
		ClientID string `json:"client_id"`
	}
	testutil.DecodeInto(t, resp.Data, &reg)
	require.NotEmpty(t, reg.ClientID)

	registrationCodes := env.LastCodes(2)

	// Verify both codes.
	w = env.Request(http.MethodPost, "/api/verify-otp", map[string]any{
		"client_id":  reg.ClientID,
		"email_otp":  registrationCodes[0],
		"mobile_otp": registrationCodes[1],
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var verified struct {
		Verified bool   `json:"verified"`
		Redirect string `json:"redirect"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &verified)
	require.True(t, verified.Verified)
	require.Equal(t, "/dashboard", verified.Redirect)

	// Replay of the consumed codes must fail.
	w = env.Request(http.MethodPost, "/api/verify-otp", map[string]any{
		"client_id":  reg.ClientID,
		"email_otp":  registrationCodes[0],
		"mobile_otp": registrationCodes[1],
	}, "")
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	// Login issues a fresh code distinct from the cleared registration pair.
	w = env.Request(http.MethodPost, "/api/login", map[string]any{
		"company_email": "a@b.com",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var login struct {
		ClientID string `json:"client_id"`
		Channel  string `json:"channel"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &login)
	require.Equal(t, reg.ClientID, login.ClientID)
	require.Equal(t, models.ChannelEmail, login.Channel)

	loginCode := env.LastCodes(1)[0]
	require.NotContains(t, registrationCodes, loginCode)

	// Exchange the login code for a session token.
	w = env.Request(http.MethodPost, "/api/verify-login-otp", map[string]any{
		"client_id": reg.ClientID,
		"otp":       loginCode,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var session struct {
		Token string `json:"token"`
		User  struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"user"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &session)
	require.NotEmpty(t, session.Token)
	require.Equal(t, reg.ClientID, session.User.ID)
	require.Equal(t, "a@b.com", session.User.Email)

	// The consumed login code cannot be replayed.
	w = env.Request(http.MethodPost, "/api/verify-login-otp", map[string]any{
		"client_id": reg.ClientID,
		"otp":       loginCode,
	}, "")
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	// Create a posting with one invited candidate.
	w = env.Request(http.MethodPost, "/api/job-postings", map[string]any{
		"job_title":        "Difference Engine Operator",
		"job_description":  "Operate and maintain the difference engine.",
		"experience_level": "senior",
		"candidates":       []string{"candidate@example.com"},
		"end_date":         time.Now().Add(30 * 24 * time.Hour).Format(time.RFC3339),
	}, session.Token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var posting struct {
		ID         string `json:"id"`
		ClientID   string `json:"client_id"`
		Candidates []struct {
			Email  string `json:"email"`
			Status string `json:"status"`
		} `json:"candidates"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &posting)
	require.Equal(t, reg.ClientID, posting.ClientID)
	require.Len(t, posting.Candidates, 1)
	require.Equal(t, "candidate@example.com", posting.Candidates[0].Email)
	require.Equal(t, "pending", posting.Candidates[0].Status)

	// Candidate received an invitation email.
	lastMail := env.Mailer.Sent[len(env.Mailer.Sent)-1]
	require.Equal(t, []string{"candidate@example.com"}, lastMail.To)
	require.Equal(t, "New Job Opportunity", lastMail.Subject)
}
