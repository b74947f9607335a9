package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/apierr"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/logging"
	"github.com/srini-crayon/tngrm-frontend-sub001/internal/services"
)

const maxLogBody = 64 << 10

// SystemHandler serves liveness and client log endpoints.
type SystemHandler struct {
	health services.IHealthService
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(health services.IHealthService) *SystemHandler {
	return &SystemHandler{health: health}
}

// Log handles POST /api/log. The JSON body is written to the log as is.
func (h *SystemHandler) Log(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxLogBody))
	if err != nil || !json.Valid(raw) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid JSON body"})
		return
	}
	logging.Infof("client log: %s", raw)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Health handles GET /api/health.
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// BackendHealth handles GET /admin/backend-health.
func (h *SystemHandler) BackendHealth(c *gin.Context) {
	status, err := h.health.Check(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, gin.H{"status": "unavailable", "error": apierr.Message(err, "Backend service is unavailable")})
		return
	}
	c.JSON(http.StatusOK, status)
}
