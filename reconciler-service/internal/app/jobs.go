/**
 * @description
 * Scheduled job implementations for the reconciler-service. The cross-service
 * guards are best-effort, so drift can accumulate: a customer deleted while
 * its account creation was in flight, or an account that collected more cards
 * than the limit during a partition. The sweep walks every account and
 * reports the drift; it never mutates anything.
 */
package app

import (
	"context"
	"log/slog"

	"github.com/lumenbank/banking-services/reconciler-service/pkg/accountclient"
)

// maxCardsPerAccount mirrors the issuance limit enforced by the card-service.
const maxCardsPerAccount = 2

// AccountClient pages through all accounts.
type AccountClient interface {
	ListAccounts(ctx context.Context, limit, offset int) ([]accountclient.Account, error)
}

// CustomerClient checks customer existence.
type CustomerClient interface {
	CustomerExists(ctx context.Context, customerID string) (bool, error)
}

// CardClient counts cards per account.
type CardClient interface {
	CountByAccount(ctx context.Context, accountID string) (int, error)
}

// SweepReport summarizes one integrity sweep.
type SweepReport struct {
	AccountsChecked   int
	OrphanedAccounts  []string
	OverLimitAccounts []string
	Errors            int
}

// Jobs contains the logic for all scheduled tasks.
type Jobs struct {
	accounts  AccountClient
	customers CustomerClient
	cards     CardClient
	logger    *slog.Logger
	pageSize  int
}

// NewJobs creates a new Jobs runner.
func NewJobs(accounts AccountClient, customers CustomerClient, cards CardClient, logger *slog.Logger, pageSize int) *Jobs {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &Jobs{
		accounts:  accounts,
		customers: customers,
		cards:     cards,
		logger:    logger,
		pageSize:  pageSize,
	}
}

// RunSweep is the cron entry point.
func (j *Jobs) RunSweep() {
	j.logger.Info("starting account integrity sweep")
	report, err := j.SweepAccounts(context.Background())
	if err != nil {
		j.logger.Error("account integrity sweep aborted", "error", err)
		return
	}
	j.logger.Info("account integrity sweep finished",
		"accounts_checked", report.AccountsChecked,
		"orphaned", len(report.OrphanedAccounts),
		"over_limit", len(report.OverLimitAccounts),
		"errors", report.Errors,
	)
}

// SweepAccounts pages through every account, verifying that its owner still
// exists and that its card count is within the issuance limit. A failed peer
// call on a single account is counted and skipped; only a failed page fetch
// aborts the sweep.
func (j *Jobs) SweepAccounts(ctx context.Context) (*SweepReport, error) {
	report := &SweepReport{}

	for offset := 0; ; offset += j.pageSize {
		page, err := j.accounts.ListAccounts(ctx, j.pageSize, offset)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}

		for _, account := range page {
			report.AccountsChecked++

			exists, err := j.customers.CustomerExists(ctx, account.CustomerID)
			if err != nil {
				j.logger.Warn("customer check failed, skipping account",
					"account_id", account.ID, "error", err)
				report.Errors++
			} else if !exists {
				j.logger.Warn("account references a missing customer",
					"account_id", account.ID, "customer_id", account.CustomerID)
				report.OrphanedAccounts = append(report.OrphanedAccounts, account.ID)
			}

			count, err := j.cards.CountByAccount(ctx, account.ID)
			if err != nil {
				j.logger.Warn("card count failed, skipping account",
					"account_id", account.ID, "error", err)
				report.Errors++
			} else if count > maxCardsPerAccount {
				j.logger.Warn("account holds more cards than the issuance limit",
					"account_id", account.ID, "cards", count)
				report.OverLimitAccounts = append(report.OverLimitAccounts, account.ID)
			}
		}

		if len(page) < j.pageSize {
			break
		}
	}

	return report, nil
}
