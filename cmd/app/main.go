package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pointledger/internal/config"
	"pointledger/internal/db"
	"pointledger/internal/events"
	"pointledger/internal/logger"
	"pointledger/internal/point"
	"pointledger/internal/server"
)

// @title Point Ledger API
// @version 1.0
// @description Per-user point balance and transaction history service.
// @host localhost:8080
// @BasePath /
func main() {
	logger.Init()
	logger.Info("Starting point ledger")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	var repo point.Repository
	if cfg.DatabaseURL != "" {
		logger.Info("Connecting to database...")
		database, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.Close()

		if err := db.RunMigrations(database, "migrations"); err != nil {
			logger.Fatalf("Failed to run migrations: %v", err)
		}
		logger.Info("Migrations completed")

		repo = point.NewPostgresRepository(database)
	} else {
		logger.Info("No DATABASE_URL set, using in-memory storage")
		repo = point.NewMemoryRepository()
	}

	var publisher *events.Publisher
	var eventSink point.TransactionPublisher
	if cfg.RedisAddr != "" {
		publisher = events.New(cfg.RedisAddr)
		defer publisher.Close()
		eventSink = publisher
		logger.Infof("Transaction events enabled on %s", cfg.RedisAddr)
	}

	pointService := point.NewService(repo, eventSink, cfg.LockWait)

	srv := server.New(cfg, pointService, publisher)

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(cfg.Port); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}

	logger.Info("Server stopped")
}
