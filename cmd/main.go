package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yungbote/mindbridge-backend/internal/clients/redis"
	"github.com/yungbote/mindbridge-backend/internal/config"
	"github.com/yungbote/mindbridge-backend/internal/data/db"
	"github.com/yungbote/mindbridge-backend/internal/data/repos"
	"github.com/yungbote/mindbridge-backend/internal/handlers"
	"github.com/yungbote/mindbridge-backend/internal/middleware"
	"github.com/yungbote/mindbridge-backend/internal/modules/recommendation"
	"github.com/yungbote/mindbridge-backend/internal/modules/session"
	"github.com/yungbote/mindbridge-backend/internal/observability"
	"github.com/yungbote/mindbridge-backend/internal/platform/envutil"
	"github.com/yungbote/mindbridge-backend/internal/platform/logger"
	"github.com/yungbote/mindbridge-backend/internal/server"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Tracing
	shutdownOTel := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "mindbridge-backend",
		Environment: envutil.GetEnv("APP_ENV", "development", log),
		Version:     envutil.GetEnv("APP_VERSION", "dev", log),
	})
	if shutdownOTel != nil {
		defer func() {
			if err := shutdownOTel(context.Background()); err != nil {
				log.Warn("otel shutdown failed", "error", err)
			}
		}()
	}

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := envutil.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)

	// Config
	cfg, err := config.Load(log)
	if err != nil {
		log.Fatal("Config load failed", "error", err)
	}

	// Postgres
	var store session.Store
	var resultStore recommendation.ResultStore
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Warn("Postgres init failed, falling back to in-memory session store", "error", err)
		store = session.NewMemoryStore()
	} else {
		if err := postgresService.AutoMigrateAll(); err != nil {
			log.Warn("Postgres auto migration failed", "error", err)
		}
		store = repos.NewSessionRepo(postgresService.DB(), log)
		resultStore = repos.NewActivityResultRepo(postgresService.DB(), log)
	}

	// Redis
	var events session.EventPublisher
	if bus, err := redis.NewSessionEventBus(log); err != nil {
		log.Warn("Redis init failed, session events disabled", "error", err)
	} else {
		events = bus
		defer bus.Close()
	}

	// Modules
	log.Info("Setting up modules from main...")
	engine := recommendation.NewEngine(log, recommendation.NewStaticCatalog(), resultStore, cfg)
	manager := session.NewManager(log, store, session.RealClock(), cfg.Session, events)
	manager.StartSweeper(ctx)

	// Handlers
	log.Info("Setting up Handlers from main...")
	recommendationHandler := handlers.NewRecommendationHandler(log, engine)
	sessionHandler := handlers.NewSessionHandler(log, manager)

	// Middleware
	log.Info("Setting up Middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, jwtSecretKey)

	// Router
	router := server.NewRouter(server.RouterConfig{
		AuthMiddleware:        authMiddleware,
		RecommendationHandler: recommendationHandler,
		SessionHandler:        sessionHandler,
	})

	port := envutil.GetEnv("PORT", "8080", log)
	log.Info("Starting server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
