package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-job-portal-backend/config"
	_ "go-job-portal-backend/docs" // Important for Swagger
	"go-job-portal-backend/internal/app"
	"go-job-portal-backend/pkg/logger"
	"go-job-portal-backend/pkg/scheduler"
)

// @title           Job Portal API
// @version         1.0
// @description     Job board backend: candidates, skills, resumes and applications.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting job portal backend", "port", cfg.Port, "env", cfg.Environment)

	if err := run(cfg); err != nil {
		logger.Log.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

// run owns every resource main starts so deferred cleanup happens before the
// process exits with a failure status.
func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Wire dependencies
	application, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialise application: %w", err)
	}
	defer application.Close()

	// 4. Seed roles and the admin account
	if err := application.Seeder.Seed(ctx, application.AdminAccount()); err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	// 5. Background jobs
	go scheduler.RunEvery(ctx, "unverified-user-reaper", cfg.ReaperInterval, application.Reaper.Run)
	go application.RateLimiter.Cleanup(ctx, time.Minute)

	// 6. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           application.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	listenErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
			stop()
		}
	}()

	// Graceful Shutdown
	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	select {
	case err := <-listenErr:
		return fmt.Errorf("listen: %w", err)
	default:
	}

	logger.Log.Info("Server exiting")
	return nil
}
