package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HealthHandler struct {
	logger    *zap.Logger
	provider  string
	startTime time.Time
}

func NewHealthHandler(logger *zap.Logger, provider string) *HealthHandler {
	return &HealthHandler{
		logger:    logger,
		provider:  provider,
		startTime: time.Now(),
	}
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "alive",
		Uptime: time.Since(h.startTime).String(),
	})
}

// Readiness reports ready once a provider is wired; the static provider
// has nothing to warm up.
func (h *HealthHandler) Readiness(c *gin.Context) {
	if h.provider == "" {
		h.logger.Warn("Readiness probe failed: no weather provider configured")
		c.JSON(http.StatusServiceUnavailable, HealthResponse{
			Status: "unavailable",
			Uptime: time.Since(h.startTime).String(),
		})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:   "ready",
		Uptime:   time.Since(h.startTime).String(),
		Provider: h.provider,
	})
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Uptime:    time.Since(h.startTime).String(),
		Provider:  h.provider,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
