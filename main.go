// File: calbot/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"calbot/config"
	"calbot/database"
	conversationRepo "calbot/database/repository/conversation"
	"calbot/handlers"
	"calbot/middleware"
	"calbot/routes"
	"calbot/services"
	"calbot/services/agent"
	"calbot/services/calendar"
	ai "calbot/services/intelligence"
	"calbot/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	business := config.NewBusinessConfig()

	store, err := calendar.NewGoogleStore(
		context.Background(),
		config.AppConfig.GoogleCredentialsFile,
		config.AppConfig.CalendarID,
		config.AppConfig.CalendarTimezone,
	)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize calendar store: %v", err)
	}
	probeCtx, probeCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := store.TestConnection(probeCtx); err != nil {
		logger.Sugar().Warnf("main: calendar connection test failed: %v", err)
	}
	probeCancel()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// services.
	availability := &services.DefaultAvailabilityEngine{
		Store:    store,
		Business: business,
	}
	dispatcher := &agent.Dispatcher{
		Availability: availability,
		Store:        store,
		Business:     business,
		Normalizer:   agent.NewNormalizer(business.Location),
		Logger:       logger,
	}

	historyStore := ai.NewRedisHistoryStore(
		utils.GetContextCacheClient(),
		time.Duration(config.AppConfig.CacheTTL)*time.Second,
	)
	llmSvc := ai.NewGeminiService(
		config.AppConfig.GeminiAPIKey,
		config.AppConfig.ModelName,
		config.AppConfig.ModelTemperature,
	)

	var archive conversationRepo.Repository
	if config.AppConfig.SaveConversations {
		database.InitDB()
		archive = conversationRepo.NewMongoConversationRepo()
	}

	orchestrator := &agent.Orchestrator{
		LLM:        llmSvc,
		Extractor:  agent.NewExtractor(logger),
		Dispatcher: dispatcher,
		History:    historyStore,
		Archive:    archive,
		Logger:     logger,
	}

	agentHandler := handlers.NewAgentHandler(orchestrator, logger)
	healthHandler := handlers.NewHealthHandler(store)

	// Register routes with the assembled handlers.
	routes.RegisterRoutes(router, agentHandler, healthHandler)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
