package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"calbot/models"
	"calbot/utils"
)

// DirectBookingHandler accepts a structured booking request, renders it as a
// natural-language booking message and runs it through the same pipeline as
// chat, so validation and conflict handling stay in one place.
func (h *AgentHandler) DirectBookingHandler(c *gin.Context) {
	var booking models.BookingRequest
	if err := c.ShouldBindJSON(&booking); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid booking request", err.Error())
		return
	}

	duration := booking.Duration
	if duration <= 0 {
		duration = 60
	}
	message := fmt.Sprintf("Book an appointment titled '%s' on %s at %s for %d minutes",
		booking.Title, booking.Date, booking.Time, duration)
	if booking.Description != "" {
		message += " with description: " + booking.Description
	}

	result := h.Orchestrator.Process(c.Request.Context(), "", message)

	c.JSON(http.StatusOK, gin.H{
		"message":         result.FinalText(),
		"booking_details": booking,
	})
}

// AvailableSlotsHandler returns the agent's free-slot summary for a date.
func (h *AgentHandler) AvailableSlotsHandler(c *gin.Context) {
	date := c.Param("date")
	message := fmt.Sprintf("What times are available on %s?", date)

	result := h.Orchestrator.Process(c.Request.Context(), "", message)

	c.JSON(http.StatusOK, gin.H{
		"date":     date,
		"response": result.FinalText(),
	})
}
