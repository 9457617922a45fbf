/**
 * @description
 * This is the main entry point for the account-service. It wires together
 * configuration, the database pool, the customer-service and card-service
 * peer clients, the event producer, and the HTTP router, then serves until
 * shutdown.
 */
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/lumenbank/banking-services/account-service/internal/api"
	"github.com/lumenbank/banking-services/account-service/internal/app"
	"github.com/lumenbank/banking-services/account-service/internal/config"
	"github.com/lumenbank/banking-services/account-service/internal/store"
	"github.com/lumenbank/banking-services/account-service/pkg/cardclient"
	"github.com/lumenbank/banking-services/account-service/pkg/customerclient"
	"github.com/lumenbank/banking-services/pkg/rabbitmq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Load .env for local development; in deployment the variables are set
	// directly in the environment.
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbpool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbpool.Close()
	logger.Info("database connection established")

	var events rabbitmq.Publisher = &rabbitmq.NoopPublisher{}
	if cfg.RabbitMQURL != "" {
		producer, err := rabbitmq.NewEventProducer(cfg.RabbitMQURL)
		if err != nil {
			logger.Warn("rabbitmq unavailable, events will be logged only", "error", err)
		} else {
			events = producer
			defer producer.Close()
		}
	}

	repository := store.NewRepository(dbpool)
	customers := customerclient.NewClient(cfg.CustomerServiceURL)
	cards := cardclient.NewClient(cfg.CardServiceURL)
	service := app.NewService(repository, customers, cards, events)
	handler := api.NewHandler(service)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: router,
	}

	go func() {
		logger.Info("starting account-service", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("shutdown signal received, gracefully shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}
