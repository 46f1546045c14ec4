package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/scraperworks/reddit-scraper/internal/api"
	"github.com/scraperworks/reddit-scraper/internal/config"
	"github.com/scraperworks/reddit-scraper/internal/scheduler"
	"github.com/scraperworks/reddit-scraper/internal/storage"
	"github.com/scraperworks/reddit-scraper/internal/tasks"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up logging
	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	logrus.Info("Starting Reddit Scraper API")

	store, err := storage.NewLocalStore(cfg.OutputDir)
	if err != nil {
		logrus.Fatalf("Failed to initialize storage: %v", err)
	}

	registry := tasks.NewRegistry()
	runner := tasks.NewRunner(registry, store, time.Duration(cfg.RequestTimeoutSeconds)*time.Second)

	janitor := scheduler.NewJanitor(registry, store, time.Duration(cfg.TaskRetentionHours)*time.Hour)
	if err := janitor.Start(); err != nil {
		logrus.Fatalf("Failed to start janitor: %v", err)
	}
	defer janitor.Stop()

	apiServer := api.NewServer(registry, runner, store)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      apiServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server in a goroutine
	go func() {
		logrus.Infof("HTTP server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
