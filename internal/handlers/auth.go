package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	iauth "github.com/hirebridge/hirebridge/internal/auth"
	"github.com/hirebridge/hirebridge/internal/models"
	"github.com/hirebridge/hirebridge/internal/services"
	appErrors "github.com/hirebridge/hirebridge/pkg/errors"
	"github.com/hirebridge/hirebridge/pkg/metrics"
	"github.com/hirebridge/hirebridge/pkg/response"
)

// AuthHandler manages the registration, verification and OTP login flows.
type AuthHandler struct {
	verification *services.VerificationService
	jwt          *iauth.JWTService
}

func NewAuthHandler(verification *services.VerificationService, jwt *iauth.JWTService) *AuthHandler {
	return &AuthHandler{verification: verification, jwt: jwt}
}

type registerRequest struct {
	Name         string `json:"name" validate:"required"`
	PhoneNo      string `json:"phone_no" validate:"required"`
	CompanyName  string `json:"company_name" validate:"required"`
	CompanyEmail string `json:"company_email" validate:"required,email"`
	EmployeeSize int    `json:"employee_size" validate:"required,min=1"`
}

// POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindAndValidate(c, &req) {
		return
	}

	client, err := h.verification.Register(requestContext(c), services.RegistrationInput{
		Name:         req.Name,
		PhoneNo:      req.PhoneNo,
		CompanyName:  req.CompanyName,
		CompanyEmail: req.CompanyEmail,
		EmployeeSize: req.EmployeeSize,
	})
	if err != nil {
		response.Error(c, mapVerificationError(err))
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"client_id": client.ID})
}

type verifyOTPRequest struct {
	ClientID  string `json:"client_id" validate:"required"`
	EmailOTP  string `json:"email_otp" validate:"required,len=6"`
	MobileOTP string `json:"mobile_otp" validate:"required,len=6"`
}

// POST /api/verify-otp
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.verification.VerifyRegistration(requestContext(c), req.ClientID, req.EmailOTP, req.MobileOTP); err != nil {
		response.Error(c, mapVerificationError(err))
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"verified": true,
		"redirect": "/dashboard",
	})
}

type loginRequest struct {
	CompanyEmail string `json:"company_email" validate:"omitempty,email"`
	PhoneNo      string `json:"phone_no"`
}

// POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if strings.TrimSpace(req.CompanyEmail) == "" && strings.TrimSpace(req.PhoneNo) == "" {
		response.Error(c, appErrors.NewBadRequest("company email or phone number is required"))
		return
	}

	client, err := h.verification.RequestLoginOTP(requestContext(c), services.LoginInput{
		CompanyEmail: req.CompanyEmail,
		PhoneNo:      req.PhoneNo,
	})
	if err != nil {
		response.Error(c, mapVerificationError(err))
		return
	}

	channel := models.ChannelSMS
	if strings.TrimSpace(req.CompanyEmail) != "" {
		channel = models.ChannelEmail
	}

	response.Success(c, http.StatusOK, gin.H{
		"client_id": client.ID,
		"channel":   channel,
	})
}

type verifyLoginOTPRequest struct {
	ClientID string `json:"client_id" validate:"required"`
	OTP      string `json:"otp" validate:"required,len=6"`
}

// POST /api/verify-login-otp
func (h *AuthHandler) VerifyLoginOTP(c *gin.Context) {
	var req verifyLoginOTPRequest
	if !bindAndValidate(c, &req) {
		return
	}

	client, err := h.verification.VerifyLoginOTP(requestContext(c), req.ClientID, req.OTP)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		response.Error(c, mapVerificationError(err))
		return
	}

	token, err := h.jwt.GenerateToken(iauth.TokenInput{
		ClientID: client.ID,
		Email:    client.CompanyEmail,
		Name:     client.Name,
	})
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}

	metrics.AuthAttempts.WithLabelValues("success").Inc()

	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":    client.ID,
			"name":  client.Name,
			"email": client.CompanyEmail,
		},
	})
}

// POST /api/send-otp
func (h *AuthHandler) SendOTP(c *gin.Context) {
	clientID, ok := clientIDFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if _, err := h.verification.ResendVerification(requestContext(c), clientID); err != nil {
		response.Error(c, mapVerificationError(err))
		return
	}

	response.Success(c, http.StatusOK, gin.H{"sent": true})
}

// GET /api/verification-status
func (h *AuthHandler) VerificationStatus(c *gin.Context) {
	clientID, ok := clientIDFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	client, err := h.verification.Status(requestContext(c), clientID)
	if err != nil {
		response.Error(c, mapVerificationError(err))
		return
	}

	response.Success(c, http.StatusOK, gin.H{"verified": client.Verified})
}

// mapVerificationError translates service sentinels into API errors.
func mapVerificationError(err error) error {
	switch {
	case errors.Is(err, services.ErrDuplicateIdentity):
		return appErrors.ErrDuplicateIdentity
	case errors.Is(err, services.ErrClientNotFound):
		return appErrors.ErrNotFound.WithMessage("Client not found.")
	case errors.Is(err, services.ErrCodeMismatch):
		return appErrors.ErrInvalidCode
	default:
		return appErrors.ErrInternalServer.WithInternal(err)
	}
}
