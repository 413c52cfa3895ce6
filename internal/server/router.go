package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/mindbridge-backend/internal/handlers"
	"github.com/yungbote/mindbridge-backend/internal/middleware"
)

type RouterConfig struct {
	AuthMiddleware        *middleware.AuthMiddleware
	RecommendationHandler *handlers.RecommendationHandler
	SessionHandler        *handlers.SessionHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))
	router.Use(otelgin.Middleware("mindbridge-backend"))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)

	// ===============
	// || Protected ||
	// ===============
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())

	// Recommendations
	api.POST("/recommendations", cfg.RecommendationHandler.Generate)
	api.POST("/activity-results", cfg.RecommendationHandler.RecordResult)
	api.GET("/activity-results", cfg.RecommendationHandler.GetHistory)

	// Sessions
	api.POST("/sessions", cfg.SessionHandler.Create)
	api.GET("/sessions", cfg.SessionHandler.List)
	api.GET("/sessions/active", cfg.SessionHandler.ListActive)
	api.GET("/sessions/stats", cfg.SessionHandler.Stats)
	api.GET("/sessions/:id", cfg.SessionHandler.Get)
	api.POST("/sessions/:id/start", cfg.SessionHandler.Start)
	api.POST("/sessions/:id/pause", cfg.SessionHandler.Pause)
	api.POST("/sessions/:id/resume", cfg.SessionHandler.Resume)
	api.POST("/sessions/:id/complete", cfg.SessionHandler.Complete)
	api.POST("/sessions/:id/abandon", cfg.SessionHandler.Abandon)
	api.PATCH("/sessions/:id/progress", cfg.SessionHandler.UpdateProgress)
	api.POST("/sessions/:id/interactions", cfg.SessionHandler.RecordInteraction)

	return router
}
