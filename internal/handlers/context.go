package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/hirebridge/hirebridge/internal/middleware"
)

// requestContext safely returns the request context with a background fallback for tests.
func requestContext(c *gin.Context) context.Context {
	if c == nil {
		return context.Background()
	}
	if req := c.Request; req != nil {
		return req.Context()
	}
	return context.Background()
}

// clientIDFromContext extracts the authenticated client id set by the auth middleware.
func clientIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(middleware.CtxClientIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
