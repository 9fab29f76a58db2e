package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"calbot/services/calendar"
)

// HealthHandler reports process and calendar connectivity status.
type HealthHandler struct {
	Calendar calendar.Store
}

func NewHealthHandler(store calendar.Store) *HealthHandler {
	return &HealthHandler{Calendar: store}
}

func (h *HealthHandler) HealthCheckHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	connected := h.Calendar != nil && h.Calendar.TestConnection(ctx) == nil
	c.JSON(http.StatusOK, gin.H{
		"status":             "healthy",
		"timestamp":          time.Now(),
		"calendar_connected": connected,
	})
}
