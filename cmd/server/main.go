// Package main initializes and starts the onboarding HTTP server, setting up
// configuration, logging, database connections, repositories, services, and
// handlers.
package main

import (
	"cmp"
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/atinyakov/onboarding/internal/config"
	"github.com/atinyakov/onboarding/internal/db"
	"github.com/atinyakov/onboarding/internal/logger"
	"github.com/atinyakov/onboarding/internal/repository"
	"github.com/atinyakov/onboarding/internal/server/handler/http"
	"github.com/atinyakov/onboarding/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Load a local .env file if present, then parse flags and environment.
	_ = godotenv.Load()
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize PostgreSQL connection and schema.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Purge soft-deleted users in the background.
	db.StartDeletedUserPurger(context.Background(), postgresDB,
		time.Hour,       // interval
		30*24*time.Hour, // retention: 30 days
		zapLogger,
	)

	// Initialize repositories for users and admin configuration.
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	configRepo := repository.NewPostgresConfigRepository(postgresDB)

	// Initialize business-logic services.
	userService := service.NewUserService(userRepo)
	configService := service.NewConfigService(configRepo, userRepo)

	// Seed the default page configuration on first run.
	if err := configService.EnsureDefault(context.Background()); err != nil {
		zapLogger.Fatal("cannot seed admin configuration", zap.Error(err))
	}

	// Create HTTP handlers for the user and admin endpoints.
	userHandler := &http.UserHandler{UserService: userService}
	adminHandler := &http.AdminHandler{ConfigService: configService, UserService: userService}

	// Build the router with middleware and routes.
	router := http.NewRouter(userHandler, adminHandler, zapLogger)

	server := &nethttp.Server{
		Addr:    options.Addr,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
