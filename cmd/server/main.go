package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	zlog "github.com/rs/zerolog/log"

	"orghub/internal/api"
	"orghub/internal/api/handlers"
	"orghub/internal/api/middleware"
	"orghub/internal/engine/tenants"
	"orghub/internal/pkg/logger"
	"orghub/internal/platform/auth"
	"orghub/internal/platform/config"
	"orghub/internal/platform/database"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Logging)

	if cfg.JWT.Secret == config.DevSecret {
		zlog.Warn().Msg("jwt.secret is the development default; set a real secret in production")
	}

	mongo, err := database.Connect(context.Background(), cfg.Mongo)
	if err != nil {
		log.Fatalf("Failed to connect to mongo: %v", err)
	}
	defer mongo.Close(context.Background())

	if err := mongo.EnsureIndexes(context.Background()); err != nil {
		// Matches original init behavior: log and keep serving; the
		// lifecycle pre-checks still catch most duplicates.
		zlog.Error().Err(err).Msg("index creation issue")
	} else {
		zlog.Info().Msg("store indexes created")
	}

	store := database.NewStore(mongo.DB)

	// Services
	tokenSvc := auth.NewTokenService(cfg.JWT)
	tenantSvc := tenants.NewService(store, cfg.Mongo.Database)

	// Handlers
	orgHandler := handlers.NewOrgHandler(tenantSvc)
	authHandler := handlers.NewAuthHandler(store, tokenSvc)
	healthHandler := handlers.NewHealthHandler(mongo)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenSvc, store)

	router := api.NewRouter(&api.Dependencies{
		OrgHandler:     orgHandler,
		AuthHandler:    authHandler,
		HealthHandler:  healthHandler,
		AuthMiddleware: authMiddleware,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      middleware.RequestLogger(router),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	zlog.Info().Str("addr", addr).Msg("server starting")
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
