package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"campustech-backend/internal/http/respond"
)

// HealthHandler returns uptime and basic status.
type HealthHandler struct {
	startedAt time.Time
}

func NewHealthHandler(startedAt time.Time) *HealthHandler {
	return &HealthHandler{startedAt: startedAt}
}

func (h *HealthHandler) Register(r *gin.RouterGroup) {
	r.GET("/health", h.handle)
}

func (h *HealthHandler) handle(c *gin.Context) {
	respond.JSON(c, http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(h.startedAt).Truncate(time.Second).String(),
	})
}
