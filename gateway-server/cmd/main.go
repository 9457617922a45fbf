/**
 * @description
 * This is the main entry point for the gateway-server. It wires the reverse
 * proxy routes for the customer, account, and card services, with optional
 * JWT verification against a JWKS endpoint, then serves until shutdown.
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

	"github.com/joho/godotenv"

	"github.com/lumenbank/banking-services/gateway-server/internal/auth"
	"github.com/lumenbank/banking-services/gateway-server/internal/config"
	"github.com/lumenbank/banking-services/gateway-server/internal/proxy"
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

	var authMiddleware func(http.Handler) http.Handler
	if cfg.JWKSURL != "" {
		authMiddleware = auth.Middleware(auth.Config{
			JWKSURL:          cfg.JWKSURL,
			ExpectedAudience: cfg.ExpectedAudience,
			ExpectedIssuer:   cfg.ExpectedIssuer,
		})
		logger.Info("jwt verification enabled", "jwks_url", cfg.JWKSURL)
	} else {
		logger.Warn("JWKS_URL not set, proxying unauthenticated")
	}

	router, err := proxy.NewRouter(proxy.Backends{
		CustomerServiceURL: cfg.CustomerServiceURL,
		AccountServiceURL:  cfg.AccountServiceURL,
		CardServiceURL:     cfg.CardServiceURL,
	}, authMiddleware)
	if err != nil {
		logger.Error("failed to build proxy routes", "error", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: router,
	}

	go func() {
		logger.Info("starting gateway-server", "port", cfg.ServerPort)
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
