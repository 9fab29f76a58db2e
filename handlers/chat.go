package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"calbot/models"
	"calbot/services/agent"
	"calbot/utils"
)

// AgentHandler exposes the dialogue pipeline over HTTP. The endpoints are
// thin adapters; all logic lives in the orchestrator and below.
type AgentHandler struct {
	Orchestrator *agent.Orchestrator
	Logger       *zap.Logger
}

func NewAgentHandler(orc *agent.Orchestrator, logger *zap.Logger) *AgentHandler {
	return &AgentHandler{Orchestrator: orc, Logger: logger}
}

// ChatHandler processes a free-text message and returns the agent's reply.
func (h *AgentHandler) ChatHandler(c *gin.Context) {
	var msg models.ChatMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid chat message", err.Error())
		return
	}

	h.Logger.Info("Processing message", zap.String("user_id", msg.UserID))
	result := h.Orchestrator.Process(c.Request.Context(), msg.UserID, msg.Content)

	c.JSON(http.StatusOK, models.ChatResponse{
		Response:  result.FinalText(),
		Timestamp: time.Now(),
		Intent:    result.Intent,
		Entities:  result.Entities,
	})
}
