/**
 * @description
 * Core business logic for the account-service. Two guards live here:
 *
 * Creation: the cheap local IBAN uniqueness check runs before the remote
 * customer existence check so a duplicate fails fast without a network round
 * trip. The existence check must return an explicit boolean; a transport
 * failure aborts the create because absence was never confirmed.
 *
 * Deletion: an account that still has cards (as counted by the card-service)
 * cannot be deleted.
 *
 * Neither check is atomic with the write that follows it. The unique index on
 * iban is the authoritative duplicate guard; the cross-service rules are
 * best-effort by design.
 */
package app

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lumenbank/banking-services/account-service/internal/domain"
	"github.com/lumenbank/banking-services/pkg/apperror"
	"github.com/lumenbank/banking-services/pkg/rabbitmq"
)

// Repository defines the database operations the service needs.
type Repository interface {
	CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error)
	GetAccountByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetAccountByIBAN(ctx context.Context, iban string) (*domain.Account, error)
	UpdateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error)
	DeleteAccount(ctx context.Context, id uuid.UUID) error
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	ExistsByIBAN(ctx context.Context, iban string) (bool, error)
	ListAccountsByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.Account, error)
	CountAccountsByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)
	ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error)
}

// CustomerClient defines the existence peer call against the customer-service.
type CustomerClient interface {
	CustomerExists(ctx context.Context, customerID uuid.UUID) (bool, error)
}

// CardClient defines the count peer call against the card-service.
type CardClient interface {
	CountByAccount(ctx context.Context, accountID uuid.UUID) (int, error)
}

// Service provides the business logic for account management.
type Service struct {
	repo      Repository
	customers CustomerClient
	cards     CardClient
	events    rabbitmq.Publisher
}

// NewService creates a new account service.
func NewService(repo Repository, customers CustomerClient, cards CardClient, events rabbitmq.Publisher) *Service {
	return &Service{repo: repo, customers: customers, cards: cards, events: events}
}

func validateRequest(req domain.AccountRequest) error {
	if strings.TrimSpace(req.IBAN) == "" {
		return apperror.Validation("IBAN is required")
	}
	if strings.TrimSpace(req.BicSwift) == "" {
		return apperror.Validation("BIC/SWIFT is required")
	}
	return nil
}

// CreateAccount runs the creation guard and persists a new ACTIVE account.
func (s *Service) CreateAccount(ctx context.Context, req domain.AccountRequest) (*domain.Account, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if req.CustomerID == uuid.Nil {
		return nil, apperror.Validation("Customer ID is required")
	}

	// Local uniqueness first: no point in a network round trip when the
	// cheap check already fails.
	taken, err := s.repo.ExistsByIBAN(ctx, req.IBAN)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.Conflict("Account with IBAN %s already exists", req.IBAN)
	}

	customerExists, err := s.customers.CustomerExists(ctx, req.CustomerID)
	if err != nil {
		return nil, apperror.Unavailable("Failed to verify customer details", err)
	}
	if !customerExists {
		return nil, apperror.NotFound("Customer", "id", req.CustomerID.String())
	}

	created, err := s.repo.CreateAccount(ctx, &domain.Account{
		IBAN:       req.IBAN,
		BicSwift:   req.BicSwift,
		CustomerID: req.CustomerID,
		Status:     domain.AccountStatusActive,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Created new account with ID: %s", created.ID)
	s.publish(ctx, domain.EventAccountCreated, created)
	return created, nil
}

// GetAccount returns an account by its ID.
func (s *Service) GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return s.repo.GetAccountByID(ctx, id)
}

// GetAccountByIBAN returns an account by its IBAN.
func (s *Service) GetAccountByIBAN(ctx context.Context, iban string) (*domain.Account, error) {
	return s.repo.GetAccountByIBAN(ctx, iban)
}

// ListAccountsByCustomer returns all accounts owned by a customer.
func (s *Service) ListAccountsByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.Account, error) {
	return s.repo.ListAccountsByCustomer(ctx, customerID)
}

// CountAccountsByCustomer returns the number of accounts owned by a customer.
// Exposed to the customer-service's deletion guard.
func (s *Service) CountAccountsByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	return s.repo.CountAccountsByCustomer(ctx, customerID)
}

// ListAccounts returns a page of accounts matching the filter.
func (s *Service) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	if filter.Limit <= 0 {
		filter.Limit = 10
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.ListAccounts(ctx, filter)
}

// UpdateAccount applies the mutable fields of an account. When the IBAN is
// changing, the uniqueness check is re-run against the new value first.
func (s *Service) UpdateAccount(ctx context.Context, id uuid.UUID, req domain.AccountRequest) (*domain.Account, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	account, err := s.repo.GetAccountByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if account.IBAN != req.IBAN {
		taken, err := s.repo.ExistsByIBAN(ctx, req.IBAN)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperror.Conflict("Account with IBAN %s already exists", req.IBAN)
		}
	}

	account.IBAN = req.IBAN
	account.BicSwift = req.BicSwift

	updated, err := s.repo.UpdateAccount(ctx, account)
	if err != nil {
		return nil, err
	}

	log.Printf("Updated account with ID: %s", updated.ID)
	s.publish(ctx, domain.EventAccountUpdated, updated)
	return updated, nil
}

// DeleteAccount runs the deletion guard and removes the account.
func (s *Service) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperror.NotFound("Account", "id", id.String())
	}

	cardCount, err := s.cards.CountByAccount(ctx, id)
	if err != nil {
		log.Printf("Failed to fetch card details for account %s: %v", id, err)
		return apperror.Unavailable("Failed to fetch card details", err)
	}
	if cardCount > 0 {
		return apperror.Conflict("Account has %d card(s) and cannot be deleted", cardCount)
	}

	if err := s.repo.DeleteAccount(ctx, id); err != nil {
		return err
	}

	log.Printf("Deleted account with ID: %s", id)
	s.publish(ctx, domain.EventAccountDeleted, &domain.Account{ID: id})
	return nil
}

// Exists reports whether an account exists. Exposed to the card-service's
// issuance guard.
func (s *Service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.ExistsByID(ctx, id)
}

func (s *Service) publish(ctx context.Context, routingKey string, account *domain.Account) {
	if s.events == nil {
		return
	}
	event := domain.AccountEvent{
		AccountID:  account.ID.String(),
		IBAN:       account.IBAN,
		Status:     string(account.Status),
		OccurredAt: time.Now().UTC(),
	}
	if account.CustomerID != uuid.Nil {
		event.CustomerID = account.CustomerID.String()
	}
	if err := s.events.Publish(ctx, domain.EventsExchange, routingKey, event); err != nil {
		log.Printf("Failed to publish %s event for account %s: %v", routingKey, account.ID, err)
	}
}
