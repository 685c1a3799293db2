package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	iauth "github.com/hirebridge/hirebridge/internal/auth"
	"github.com/hirebridge/hirebridge/pkg/errors"
	"github.com/hirebridge/hirebridge/pkg/response"
)

const (
	CtxClaimsKey   = "authClaims"
	CtxClientIDKey = "clientID"
)

// Auth enforces bearer token authentication using the supplied JWT service.
// A missing token yields 401; a token that fails signature or expiry checks
// yields 403.
func Auth(jwt *iauth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if len(authz) < 8 || !strings.EqualFold(authz[:7], "Bearer ") {
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		token := strings.TrimSpace(authz[7:])
		claims, err := jwt.ValidateToken(token)
		if err != nil {
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, errors.ErrInvalidToken)
			c.Abort()
			return
		}

		// Propagate identity into request context
		c.Set(CtxClaimsKey, claims)
		c.Set(CtxClientIDKey, claims.ClientID)

		c.Next()
	}
}
