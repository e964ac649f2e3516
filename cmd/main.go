package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/rufinoratti/zonadepor-api/config"
	"github.com/rufinoratti/zonadepor-api/db"
	"github.com/rufinoratti/zonadepor-api/handlers"
	"github.com/rufinoratti/zonadepor-api/middleware"
	"github.com/rufinoratti/zonadepor-api/notifications"
	"github.com/rufinoratti/zonadepor-api/repositories"
	api "github.com/rufinoratti/zonadepor-api/routes"
	"github.com/rufinoratti/zonadepor-api/services"
	"github.com/rufinoratti/zonadepor-api/storage"
)

// Интервал планировщика, отменяющего несобравшиеся партиды.
const schedulerInterval = time.Minute

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	uploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Cloudflare R2 uploader initialized")

	wsHub := notifications.NewHub()
	go wsHub.Run()
	logger.Info("WebSocket hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	sportRepo := repositories.NewPostgresSportRepository(dbConn)
	zoneRepo := repositories.NewPostgresZoneRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	participantRepo := repositories.NewPostgresParticipantRepository(dbConn)
	invitationRepo := repositories.NewPostgresInvitationRepository(dbConn)
	logger.Info("repositories initialized")

	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo, uploader)
	sportService := services.NewSportService(sportRepo, uploader)
	zoneService := services.NewZoneService(zoneRepo)
	matchService := services.NewMatchService(
		dbConn,
		matchRepo,
		participantRepo,
		sportRepo,
		zoneRepo,
		userRepo,
		wsHub,
		logger,
	)
	membershipService := services.NewMembershipService(dbConn, matchRepo, participantRepo, wsHub)
	matchmakingService := services.NewMatchmakingService(matchRepo, participantRepo, userRepo, invitationRepo, wsHub, logger)
	invitationService := services.NewInvitationService(invitationRepo, participantRepo, membershipService)
	logger.Info("services initialized")

	// Планировщик отменяет партиды, чьё время прошло без подтверждения.
	go func() {
		ticker := time.NewTicker(schedulerInterval)
		defer ticker.Stop()
		logger.Info("expired match scheduler started", slog.Duration("interval", schedulerInterval))

		if err := matchService.CancelExpiredMatches(context.Background()); err != nil {
			logger.Error("scheduler: initial run failed", slog.Any("error", err))
		}

		for range ticker.C {
			if err := matchService.CancelExpiredMatches(context.Background()); err != nil {
				logger.Error("scheduler: periodic run failed", slog.Any("error", err))
			}
		}
	}()

	authenticator := middleware.NewAuthenticator(cfg.JWTSecretKey)

	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey)
	matchHandler := handlers.NewMatchHandler(matchService, membershipService)
	matchmakingHandler := handlers.NewMatchmakingHandler(matchmakingService)
	invitationHandler := handlers.NewInvitationHandler(invitationService)
	userHandler := handlers.NewUserHandler(userService)
	sportHandler := handlers.NewSportHandler(sportService)
	zoneHandler := handlers.NewZoneHandler(zoneService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		authenticator,
		authHandler,
		matchHandler,
		matchmakingHandler,
		invitationHandler,
		userHandler,
		sportHandler,
		zoneHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if err := server.Close(); err != nil {
				logger.Error("forced server close failed", slog.Any("error", err))
			}
		}
	}

	logger.Info("server stopped")
}
