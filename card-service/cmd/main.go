/**
 * @description
 * This is the main entry point for the card-service. It wires together
 * configuration, the database pool, the account-service peer client, the
 * optional Redis issuance limiter, the event producer, and the HTTP router,
 * then serves until shutdown.
 */
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/lumenbank/banking-services/card-service/internal/api"
	"github.com/lumenbank/banking-services/card-service/internal/app"
	"github.com/lumenbank/banking-services/card-service/internal/config"
	"github.com/lumenbank/banking-services/card-service/internal/store"
	"github.com/lumenbank/banking-services/card-service/pkg/accountclient"
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

	var redisClient *redis.Client
	if strings.TrimSpace(cfg.RedisURL) == "" {
		logger.Info("redis url missing, issuance rate limiting disabled")
	} else {
		redisOptions, parseErr := redis.ParseURL(cfg.RedisURL)
		if parseErr != nil {
			logger.Warn("redis url parse failed, issuance rate limiting disabled", "error", parseErr)
		} else {
			redisClient = redis.NewClient(redisOptions)
			pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
			if pingErr := redisClient.Ping(pingCtx).Err(); pingErr != nil {
				logger.Warn("redis ping failed, issuance rate limiting disabled", "error", pingErr)
				redisClient.Close()
				redisClient = nil
			} else {
				defer redisClient.Close()
				logger.Info("redis connected")
			}
			cancelPing()
		}
	}
	var limiter *app.RedisIssuanceRateLimiter
	if redisClient != nil {
		limiter = app.NewRedisIssuanceRateLimiter(redisClient, cfg.RateLimitKeyPrefix)
	}

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
	accounts := accountclient.NewClient(cfg.AccountServiceURL)
	generator := app.NewCardNumberGenerator()
	service := app.NewService(repository, accounts, generator, events)
	handler := api.NewHandler(service, limiter, cfg.IssueRateLimit, cfg.IssueRateWindow)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: router,
	}

	go func() {
		logger.Info("starting card-service", "port", cfg.ServerPort)
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
