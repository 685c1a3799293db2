package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hirebridge/hirebridge/internal/services"
	appErrors "github.com/hirebridge/hirebridge/pkg/errors"
	"github.com/hirebridge/hirebridge/pkg/response"
)

// DeliveryLogHandler exposes read access to the outbound delivery audit log.
type DeliveryLogHandler struct {
	logs *services.DeliveryLogService
}

func NewDeliveryLogHandler(logs *services.DeliveryLogService) *DeliveryLogHandler {
	return &DeliveryLogHandler{logs: logs}
}

// GET /api/email-logs?startDate=&endDate=&status=&type=
func (h *DeliveryLogHandler) List(c *gin.Context) {
	filters := services.DeliveryLogFilters{
		Status:   strings.TrimSpace(c.Query("status")),
		Category: strings.TrimSpace(c.Query("type")),
	}

	since, ok := parseTimeQuery(c, "startDate")
	if !ok {
		return
	}
	until, ok := parseTimeQuery(c, "endDate")
	if !ok {
		return
	}
	filters.Since = since
	filters.Until = until

	logs, err := h.logs.List(requestContext(c), filters)
	if err != nil {
		response.Error(c, appErrors.ErrInternalServer.WithInternal(err))
		return
	}

	response.Success(c, http.StatusOK, logs)
}

// parseTimeQuery reads an optional timestamp query parameter accepting RFC 3339
// or a bare date. It writes a 400 response and returns false on a bad value.
func parseTimeQuery(c *gin.Context, key string) (*time.Time, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, true
	}

	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return &ts, true
	}
	if ts, err := time.Parse("2006-01-02", raw); err == nil {
		return &ts, true
	}

	response.Error(c, appErrors.NewBadRequest(key+" must be an RFC 3339 timestamp or YYYY-MM-DD date"))
	return nil, false
}
