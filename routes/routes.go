package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"calbot/handlers"
)

// RegisterAgentRoutes registers the chat, booking and slot endpoints.
func RegisterAgentRoutes(r *gin.Engine, ah *handlers.AgentHandler) {
	api := r.Group("/api")
	{
		api.POST("/chat", ah.ChatHandler)
		api.POST("/book", ah.DirectBookingHandler)
		api.GET("/available-slots/:date", ah.AvailableSlotsHandler)
	}
}

// RegisterHealthRoute registers the health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hh *handlers.HealthHandler) {
	r.GET("/health", hh.HealthCheckHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, ah *handlers.AgentHandler, hh *handlers.HealthHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAgentRoutes(r, ah)
	RegisterHealthRoute(r, hh)
}
