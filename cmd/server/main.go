package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mkkmani/musicbackend/internal/config"
	"github.com/mkkmani/musicbackend/internal/database"
	"github.com/mkkmani/musicbackend/internal/handler"
	"github.com/mkkmani/musicbackend/internal/logger"
	"github.com/mkkmani/musicbackend/internal/metrics"
	"github.com/mkkmani/musicbackend/internal/model"
	"github.com/mkkmani/musicbackend/internal/repository"
	"github.com/mkkmani/musicbackend/internal/router"
	"github.com/mkkmani/musicbackend/internal/service"
	"github.com/mkkmani/musicbackend/internal/validator"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting music backend")

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Migrate Schema ────────────────────────────────────────────────
	if cfg.AutoMigrate {
		if err := database.MigrateUp(cfg.DatabaseURL, log); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate schema")
		}
	}

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	// The list cache is optional; without Redis every read hits Postgres.
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = database.NewRedisClient(ctx, cfg, log)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, content cache disabled")
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	studentRepo := repository.NewStudentRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	videoRepo := repository.NewVideoRepository(pool)
	galleryRepo := repository.NewGalleryRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	m := metrics.New()
	hasher, err := service.NewPasswordHasher(cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize password hasher")
	}
	authService := service.NewAuthService(cfg)
	studentService := service.NewStudentService(studentRepo, hasher, authService, m, log)
	adminService := service.NewAdminService(adminRepo, hasher, authService, m, log)
	videoService := service.NewVideoService(videoRepo, rdb, cfg.ContentCacheTTL, m, log)
	galleryService := service.NewGalleryService(galleryRepo, rdb, cfg.ContentCacheTTL, m, log)

	// ─── Bootstrap First Admin ────────────────────────────────────────
	created, err := bootstrapAdmin(ctx, cfg.BootstrapAdmin, adminService)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to bootstrap admin")
	}
	if cfg.BootstrapAdmin.Enabled() && !created {
		log.Info().Msg("Admins already exist, bootstrap skipped")
	}

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:        handler.NewAuthHandler(studentService, adminService, log),
		StudentMgmt: handler.NewStudentManagementHandler(studentService, log),
		AdminUser:   handler.NewAdminUserHandler(adminService, log),
		Video:       handler.NewVideoHandler(videoService, log),
		Gallery:     handler.NewGalleryHandler(galleryService, log),
	}

	// ─── Prewarm Redis Caches ─────────────────────────────────────────
	if rdb != nil {
		if err := videoService.PrewarmCache(ctx); err != nil {
			log.Warn().Err(err).Msg("Video cache prewarm failed")
		}
		if err := galleryService.PrewarmCache(ctx); err != nil {
			log.Warn().Err(err).Msg("Gallery cache prewarm failed")
		}
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg, log, m)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// bootstrapAdmin seeds the first administrator from the environment when the
// admins table is still empty. The settings pass the same rules as
// /add-admin.
func bootstrapAdmin(ctx context.Context, b config.BootstrapAdmin, admins *service.PrincipalService) (bool, error) {
	if !b.Enabled() {
		return false, nil
	}

	req := model.RegisterPrincipalRequest{
		Name:     b.Name,
		Mobile:   b.Mobile,
		Email:    b.Email,
		Profile:  b.Profile,
		Password: b.Password,
	}
	req.Normalize()
	if fields := validator.Validate(&req); fields != nil {
		return false, fmt.Errorf("invalid BOOTSTRAP_ADMIN_* settings: %v", fields)
	}
	return admins.Bootstrap(ctx, req)
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
