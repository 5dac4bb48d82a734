/**
 * @description
 * This is the main entry point of the Klix ledger service. It loads configuration,
 * builds the logger, the JSON document store, the event publisher, the metrics
 * registry, the ledger service and its audit scheduler, then serves the HTTP API
 * until SIGINT or SIGTERM.
 *
 * @dependencies
 * - github.com/joho/godotenv: For loading .env files during local development.
 * - internal/api, internal/app, internal/config, internal/logging, internal/observability, internal/store.
 * - pkg/rabbitmq: Ledger event publishing.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ayush-bhatt-07/klix-marketplace/internal/api"
	"github.com/ayush-bhatt-07/klix-marketplace/internal/app"
	"github.com/ayush-bhatt-07/klix-marketplace/internal/config"
	"github.com/ayush-bhatt-07/klix-marketplace/internal/logging"
	"github.com/ayush-bhatt-07/klix-marketplace/internal/observability"
	"github.com/ayush-bhatt-07/klix-marketplace/internal/store"
	"github.com/ayush-bhatt-07/klix-marketplace/pkg/rabbitmq"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("level=info component=bootstrap msg=\"no .env file found; using environment\"")
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("level=fatal component=bootstrap msg=\"config load failed\" err=%v", err)
	}

	logger, logCloser := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	defer logCloser.Close()
	slog.SetDefault(logger)

	logger.Info("starting klix ledger", "port", cfg.ServerPort, "db_path", cfg.DBPath)

	repo := store.NewFileRepository(cfg.DBPath, logger.With("component", "store"))

	var publisher rabbitmq.Publisher = &rabbitmq.EventProducerFallback{Logger: logger}
	if cfg.RabbitMQURL == "" {
		logger.Info("rabbitmq not configured; ledger events disabled")
	} else if producer, err := rabbitmq.NewEventProducer(cfg.RabbitMQURL, cfg.EventExchange, logger); err != nil {
		logger.Warn("rabbitmq producer unavailable; using fallback", "error", err)
	} else {
		publisher = producer
		logger.Info("rabbitmq producer connected", "exchange", cfg.EventExchange)
	}
	defer publisher.Close()

	metrics := observability.NewMetrics()

	service := app.NewService(repo, publisher, metrics, logger.With("component", "ledger"))

	auditor := app.NewAuditor(repo, metrics, logger.With("component", "audit"))
	scheduler := app.NewScheduler(auditor, cfg.AuditSchedule, logger.With("component", "scheduler"))
	if err := scheduler.Start(); err != nil {
		logger.Warn("ledger audit job not scheduled", "error", err)
	}

	router := api.NewRouter(api.NewHandlers(service, logger.With("component", "api")), metrics, logger, api.RouterOptions{
		AllowedOrigins: cfg.AllowedOrigins(),
		RequestTimeout: cfg.RequestTimeout,
		MetricsEnabled: cfg.MetricsEnabled,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped unexpectedly", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("shutdown started")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	select {
	case <-scheduler.Stop().Done():
	case <-ctx.Done():
		logger.Warn("audit job still running at shutdown")
	}

	logger.Info("shutdown complete")
}
