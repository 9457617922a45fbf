/**
 * @description
 * Core business logic for the customer-service. The load-bearing piece is the
 * deletion guard: a customer that still owns accounts (as reported by the
 * account-service) cannot be deleted. The account count is fetched with a
 * synchronous peer call, and a transport failure on that call fails the whole
 * operation rather than assuming the customer has no accounts.
 */
package app

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lumenbank/banking-services/customer-service/internal/domain"
	"github.com/lumenbank/banking-services/customer-service/pkg/accountclient"
	"github.com/lumenbank/banking-services/pkg/apperror"
	"github.com/lumenbank/banking-services/pkg/rabbitmq"
)

// Repository defines the database operations the service needs.
type Repository interface {
	CreateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	GetCustomerByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, id uuid.UUID) error
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	ListCustomers(ctx context.Context, filter domain.SearchFilter) ([]domain.Customer, error)
}

// AccountClient defines the peer calls made against the account-service.
type AccountClient interface {
	CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]accountclient.Account, error)
}

// Service provides the business logic for customer management.
type Service struct {
	repo     Repository
	accounts AccountClient
	events   rabbitmq.Publisher
}

// NewService creates a new customer service.
func NewService(repo Repository, accounts AccountClient, events rabbitmq.Publisher) *Service {
	return &Service{repo: repo, accounts: accounts, events: events}
}

func validateRequest(req domain.CustomerRequest) error {
	if strings.TrimSpace(req.FirstName) == "" {
		return apperror.Validation("First name is required")
	}
	if strings.TrimSpace(req.LastName) == "" {
		return apperror.Validation("Last name is required")
	}
	return nil
}

// CreateCustomer validates and persists a new customer.
func (s *Service) CreateCustomer(ctx context.Context, req domain.CustomerRequest) (*domain.Customer, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	created, err := s.repo.CreateCustomer(ctx, &domain.Customer{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		OtherName: req.OtherName,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Created new customer with ID: %s", created.ID)
	s.publish(ctx, domain.EventCustomerCreated, created)
	return created, nil
}

// GetCustomer returns a customer enriched with its accounts. The account
// lookup is best-effort: a failed peer call is logged and swallowed so a
// customer read never depends on the account-service being up.
func (s *Service) GetCustomer(ctx context.Context, id uuid.UUID) (*domain.CustomerDetail, error) {
	customer, err := s.repo.GetCustomerByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &domain.CustomerDetail{Customer: *customer}

	accounts, err := s.accounts.ListByCustomer(ctx, id)
	if err != nil {
		log.Printf("Failed to get accounts for customer %s: %v", id, err)
		return detail, nil
	}
	for _, a := range accounts {
		detail.Accounts = append(detail.Accounts, domain.AccountSummary{
			ID:       a.ID,
			IBAN:     a.IBAN,
			BicSwift: a.BicSwift,
			Status:   a.Status,
		})
	}
	return detail, nil
}

// ListCustomers returns a page of customers matching the filter.
func (s *Service) ListCustomers(ctx context.Context, filter domain.SearchFilter) ([]domain.Customer, error) {
	if filter.Limit <= 0 {
		filter.Limit = 10
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.ListCustomers(ctx, filter)
}

// UpdateCustomer validates and applies the mutable fields of a customer.
func (s *Service) UpdateCustomer(ctx context.Context, id uuid.UUID, req domain.CustomerRequest) (*domain.Customer, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	customer, err := s.repo.GetCustomerByID(ctx, id)
	if err != nil {
		return nil, err
	}

	customer.FirstName = req.FirstName
	customer.LastName = req.LastName
	customer.OtherName = req.OtherName

	updated, err := s.repo.UpdateCustomer(ctx, customer)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, domain.EventCustomerUpdated, updated)
	return updated, nil
}

// DeleteCustomer deletes a customer unless the account-service reports that
// it still owns accounts.
func (s *Service) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperror.NotFound("Customer", "id", id.String())
	}

	count, err := s.accounts.CountByCustomer(ctx, id)
	if err != nil {
		log.Printf("Error fetching account details for customer %s: %v", id, err)
		return apperror.Unavailable("Error fetching account details", err)
	}
	if count > 0 {
		plural := ""
		if count > 1 {
			plural = "s"
		}
		return apperror.Conflict("Customer has %d account%s and cannot be deleted", count, plural)
	}

	if err := s.repo.DeleteCustomer(ctx, id); err != nil {
		return err
	}

	log.Printf("Deleted customer with ID: %s", id)
	s.publish(ctx, domain.EventCustomerDeleted, &domain.Customer{ID: id})
	return nil
}

// Exists reports whether a customer exists. Exposed to the account-service
// as the customer existence peer endpoint.
func (s *Service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.ExistsByID(ctx, id)
}

func (s *Service) publish(ctx context.Context, routingKey string, customer *domain.Customer) {
	if s.events == nil {
		return
	}
	event := domain.CustomerEvent{
		CustomerID: customer.ID.String(),
		FirstName:  customer.FirstName,
		LastName:   customer.LastName,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.events.Publish(ctx, domain.EventsExchange, routingKey, event); err != nil {
		log.Printf("Failed to publish %s event for customer %s: %v", routingKey, customer.ID, err)
	}
}
