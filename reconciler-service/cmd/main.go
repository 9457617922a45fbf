/**
 * @description
 * This is the main entry point for the reconciler-service. It is a non-HTTP,
 * long-running process that periodically sweeps the account population for
 * cross-service drift (orphaned accounts, over-limit card holdings) and
 * reports what it finds.
 */
package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/lumenbank/banking-services/reconciler-service/internal/app"
	"github.com/lumenbank/banking-services/reconciler-service/internal/config"
	"github.com/lumenbank/banking-services/reconciler-service/pkg/accountclient"
	"github.com/lumenbank/banking-services/reconciler-service/pkg/cardclient"
	"github.com/lumenbank/banking-services/reconciler-service/pkg/customerclient"
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

	accounts := accountclient.NewClient(cfg.AccountServiceURL)
	customers := customerclient.NewClient(cfg.CustomerServiceURL)
	cards := cardclient.NewClient(cfg.CardServiceURL)

	jobs := app.NewJobs(accounts, customers, cards, logger, cfg.SweepPageSize)
	scheduler := app.NewScheduler(jobs, logger, cfg.SweepSchedule)

	scheduler.Start()
	logger.Info("reconciler-service started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("shutdown signal received, stopping scheduler")

	// Wait for any running sweep to finish.
	<-scheduler.Stop().Done()
	logger.Info("scheduler stopped")
}
