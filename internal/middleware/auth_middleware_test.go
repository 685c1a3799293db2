package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	iauth "github.com/hirebridge/hirebridge/internal/auth"
)

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	jwtSvc, err := iauth.NewJWTService(iauth.JWTConfig{
		Secret: "secret",
		Issuer: "test-suite",
	})
	require.NoError(t, err)

	token, err := jwtSvc.GenerateToken(iauth.TokenInput{
		ClientID: "client-123",
		Email:    "a@b.com",
		Name:     "Acme Inc",
	})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/secure", Auth(jwtSvc), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"client_id": c.GetString(CtxClientIDKey),
		})
	})

	// Missing Authorization header -> 401
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Garbage token -> 403
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)

	// Valid token -> downstream handler executes
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	require.Equal(t, "client-123", payload["client_id"])
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	issued := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	issuer, err := iauth.NewJWTService(iauth.JWTConfig{
		Secret: "secret",
		Clock:  func() time.Time { return issued },
	})
	require.NoError(t, err)

	token, err := issuer.GenerateToken(iauth.TokenInput{ClientID: "client-123"})
	require.NoError(t, err)

	// Guard clock sits more than 24 hours after issuance.
	guard, err := iauth.NewJWTService(iauth.JWTConfig{
		Secret: "secret",
		Clock:  func() time.Time { return issued.Add(25 * time.Hour) },
	})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/secure", Auth(guard), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)
}
