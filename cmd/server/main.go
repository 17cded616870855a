package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/smartshopie/analytics-backend-go/internal/api"
	"github.com/smartshopie/analytics-backend-go/internal/config"
	"github.com/smartshopie/analytics-backend-go/internal/core/metrics"
	"github.com/smartshopie/analytics-backend-go/internal/database"
	"github.com/smartshopie/analytics-backend-go/pkg/logger"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	logger.SetLevel(log, cfg.Logging.Level)

	log.WithFields(map[string]interface{}{
		"port": cfg.Server.Port,
		"mode": cfg.Server.Mode,
		"db":   cfg.Database.Path,
	}).Info("Starting analytics backend")

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, cfg.Database.MigrationsPath); err != nil {
			log.WithError(err).Fatal("Failed to run migrations")
		}
		log.Info("Database migrations applied")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	registry, err := database.BuildRegistry(ctx, db, log)
	cancel()
	if err != nil {
		log.WithError(err).Fatal("Failed to build table registry")
	}

	repos := database.NewRepositories(db, registry)
	collector := metrics.NewCollector("")

	router := api.NewRouter(cfg, repos, db, log, collector)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Forced server shutdown")
	}
	log.Info("Server stopped")
}
