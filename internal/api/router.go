package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	iauth "github.com/hirebridge/hirebridge/internal/auth"
	"github.com/hirebridge/hirebridge/internal/handlers"
	"github.com/hirebridge/hirebridge/internal/middleware"
	"github.com/hirebridge/hirebridge/internal/services"
)

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(
	jwt *iauth.JWTService,
	verification *services.VerificationService,
	postings *services.JobPostingService,
	logs *services.DeliveryLogService,
) (*gin.Engine, error) {
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if verification == nil {
		return nil, fmt.Errorf("verification service must be provided")
	}
	if postings == nil {
		return nil, fmt.Errorf("job posting service must be provided")
	}
	if logs == nil {
		return nil, fmt.Errorf("delivery log service must be provided")
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())

	// Health endpoint (public)
	r.GET("/health", handlers.Health())

	authHandler := handlers.NewAuthHandler(verification, jwt)
	postingHandler := handlers.NewJobPostingHandler(postings)
	logHandler := handlers.NewDeliveryLogHandler(logs)

	// Public routes
	public := r.Group("/api")
	{
		public.POST("/register", authHandler.Register)
		public.POST("/verify-otp", authHandler.VerifyOTP)
		public.POST("/login", authHandler.Login)
		public.POST("/verify-login-otp", authHandler.VerifyLoginOTP)
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.Auth(jwt))
	{
		protected.POST("/send-otp", authHandler.SendOTP)
		protected.GET("/verification-status", authHandler.VerificationStatus)
		protected.POST("/job-postings", postingHandler.Create)
		protected.GET("/job-postings", postingHandler.List)
		protected.GET("/email-logs", logHandler.List)
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
