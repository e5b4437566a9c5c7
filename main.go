package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"job-board-api/config"
	"job-board-api/internal/api/handlers"
	"job-board-api/internal/api/middleware"
	"job-board-api/internal/api/openapi"
	"job-board-api/internal/app"
	"job-board-api/internal/cleanup"
	"job-board-api/internal/database"
	"job-board-api/internal/logger"
	"job-board-api/internal/server"
	"job-board-api/internal/services"
	"job-board-api/internal/storage/blob"
	"job-board-api/internal/storage/cache"
	"job-board-api/internal/storage/postgres"

	"github.com/getsentry/sentry-go"
	"github.com/go-playground/validator/v10"
)

// @title           Job Board API
// @version         1.0
// @description     Job postings, a dynamic application form builder and application intake.

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	if err := run(); err != nil {
		slog.Error("application stopped with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log)
	defer sentry.Flush(2 * time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient, err := database.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	dbPool, err := database.NewConnectionPool(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(ctx, dbPool); err != nil {
			return err
		}
	}

	blobs, err := blob.NewS3Store(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	spec, err := middleware.LoadOpenAPI(ctx, openapi.Spec)
	if err != nil {
		return err
	}

	userRepo := postgres.NewUserRepo(dbPool)
	jobRepo := postgres.NewJobRepo(dbPool)
	formRepo := postgres.NewFormRepo(dbPool)
	appRepo := postgres.NewApplicationRepo(dbPool)
	fileRepo := postgres.NewApplicationFileRepo(dbPool)
	uploadRepo := postgres.NewUploadRepo(dbPool)
	cleanupRepo := postgres.NewBlobCleanupRepo(dbPool)
	tickets := cache.NewTicketStore(redisClient)

	formService := services.NewFormService(formRepo, jobRepo, userRepo)
	application := &app.Application{
		Config:    cfg,
		Validator: validator.New(),
		OpenAPI:   spec,
		HealthChecks: map[string]handlers.Pinger{
			"database": dbPool,
			"redis":    handlers.PingFunc(func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }),
		},
		Users: services.NewUserService(userRepo, cfg.JWT),
		Jobs:  services.NewJobService(jobRepo, userRepo, blobs, cleanupRepo),
		Forms: formService,
		Applications: services.NewApplicationService(services.ApplicationDeps{
			Applications:     appRepo,
			Files:            fileRepo,
			Uploads:          uploadRepo,
			Users:            userRepo,
			Cleanup:          cleanupRepo,
			Blobs:            blobs,
			Forms:            formService,
			StrictValidation: cfg.Submission.StrictValidation,
		}),
		Uploads: services.NewUploadService(tickets, uploadRepo, blobs, userRepo, cfg.Server.PublicURL, cfg.Storage),
	}

	var reconciler *cleanup.Reconciler
	if cfg.Cleanup.Enabled {
		reconciler = cleanup.NewReconciler(fileRepo, uploadRepo, cleanupRepo, blobs, cfg.Cleanup)
		reconciler.Start(ctx)
	} else {
		slog.Info("background cleanup disabled")
	}

	srv := server.NewServer(application, log)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		slog.Info("shutting down server and reconciler")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
	if reconciler != nil {
		reconciler.Stop()
	}

	slog.Info("application gracefully stopped")
	return nil
}
