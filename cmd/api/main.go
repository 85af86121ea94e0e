package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"HostelAPI/internal/auth"
	"HostelAPI/internal/common"
	"HostelAPI/internal/database"
	"HostelAPI/internal/env"
	"HostelAPI/internal/logging"
	"HostelAPI/internal/metrics"
	"HostelAPI/internal/middleware"
	"HostelAPI/internal/v0/bookings"
	"HostelAPI/internal/v0/complaints"
	"HostelAPI/internal/v0/counseling"
	"HostelAPI/internal/v0/lostfound"
	"HostelAPI/internal/v0/menu"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

func main() {
	if err := env.LoadDotEnv(); err != nil {
		logging.Info().Msg("No .env file found, using system environment variables")
	}

	cfg, err := env.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Invalid configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Caller: !cfg.IsProduction(),
	})
	common.SetExposeErrors(!cfg.IsProduction())
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logging.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Initialize auth components
	authRepo := auth.NewRepository(db)
	jwtManager, err := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create JWT manager")
	}
	tokenStore := auth.NewTokenStore(authRepo, jwtManager, cfg.RefreshTokenExpiry)
	stateStore := auth.NewOAuthStateStore(authRepo)
	oauthConfig := auth.NewOAuthConfig(cfg.Google, cfg.GitHub, cfg.AuthCallbackBaseURL)

	cleaner := auth.NewCleaner(authRepo, stateStore, auth.CleanupInterval)
	cleaner.Start(ctx)

	authHandler := auth.NewHandler(authRepo, oauthConfig, stateStore, tokenStore, cfg.IsProduction())
	adminHandler := auth.NewAdminHandler(authRepo)
	authMiddleware := auth.NewMiddleware(authRepo, tokenStore)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	stopLimiter := make(chan struct{})
	limiter.StartCleanup(5*time.Minute, stopLimiter)
	limit := limiter.Handler()

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		logging.RequestLogger(),
		metrics.Middleware(),
		middleware.CORS(middleware.CORSConfig{
			AllowedOrigins: middleware.SplitOrigins(cfg.AllowedOrigin),
		}),
	)

	// Global routes
	global := router.Group("/api")
	common.RegisterRoutes(global, func(ctx context.Context) error {
		return database.HealthCheck(ctx, db)
	})

	// Auth routes (public + token-protected + admin)
	auth.RegisterRoutes(global, authHandler, adminHandler, authMiddleware, limit)

	// v0 API routes
	v0Group := router.Group("/api/v0")
	registerResources(v0Group, db, cfg, authRepo, authMiddleware, limit)

	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.Static("/uploads", cfg.UploadDir)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info().Str("addr", srv.Addr).Str("environment", cfg.Environment).Msg("Hostel API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logging.Info().Msg("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Forced shutdown")
	}

	cancel()
	cleaner.Stop()
	close(stopLimiter)
}

func registerResources(
	rg *gin.RouterGroup,
	db *sqlx.DB,
	cfg *env.Config,
	users *auth.Repository,
	authMiddleware *auth.Middleware,
	limit gin.HandlerFunc,
) {
	menuHandler := menu.NewHandler(menu.NewRepository(db, users), cfg.MenuRotationWeeks)
	menu.RegisterRoutes(rg, menuHandler, authMiddleware, limit)

	bookingHandler := bookings.NewHandler(bookings.NewRepository(db, users))
	bookings.RegisterRoutes(rg, bookingHandler, authMiddleware, limit)

	complaintHandler := complaints.NewHandler(complaints.NewRepository(db, users))
	complaints.RegisterRoutes(rg, complaintHandler, authMiddleware, limit)

	lostFoundHandler := lostfound.NewHandler(lostfound.NewRepository(db, users), cfg.UploadDir, cfg.MaxUploadSize)
	lostfound.RegisterRoutes(rg, lostFoundHandler, authMiddleware, limit)

	counselingHandler := counseling.NewHandler(counseling.NewRepository(db, users))
	counseling.RegisterRoutes(rg, counselingHandler, authMiddleware, limit)
}

/*
This project is the backend API for the hostel management system: mess menus, room bookings, complaints, lost and found and counseling appointments.
Hostel API Copyright (C) 2025 OpenSourceDUTH
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
