package app

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/lumenbank/banking-services/customer-service/internal/domain"
	"github.com/lumenbank/banking-services/customer-service/pkg/accountclient"
	"github.com/lumenbank/banking-services/pkg/apperror"
)

type fakeRepo struct {
	customers map[uuid.UUID]*domain.Customer
	deleted   []uuid.UUID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{customers: make(map[uuid.UUID]*domain.Customer)}
}

func (f *fakeRepo) CreateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	c := *customer
	c.ID = uuid.New()
	f.customers[c.ID] = &c
	return &c, nil
}

func (f *fakeRepo) GetCustomerByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	customer, ok := f.customers[id]
	if !ok {
		return nil, apperror.NotFound("Customer", "id", id.String())
	}
	c := *customer
	return &c, nil
}

func (f *fakeRepo) UpdateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if _, ok := f.customers[customer.ID]; !ok {
		return nil, apperror.NotFound("Customer", "id", customer.ID.String())
	}
	c := *customer
	f.customers[c.ID] = &c
	return &c, nil
}

func (f *fakeRepo) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.customers[id]; !ok {
		return apperror.NotFound("Customer", "id", id.String())
	}
	delete(f.customers, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRepo) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := f.customers[id]
	return ok, nil
}

func (f *fakeRepo) ListCustomers(ctx context.Context, filter domain.SearchFilter) ([]domain.Customer, error) {
	out := make([]domain.Customer, 0, len(f.customers))
	for _, c := range f.customers {
		out = append(out, *c)
	}
	return out, nil
}

type fakeAccountClient struct {
	count    int64
	countErr error
	accounts []accountclient.Account
	listErr  error
}

func (f *fakeAccountClient) CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	return f.count, f.countErr
}

func (f *fakeAccountClient) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]accountclient.Account, error) {
	return f.accounts, f.listErr
}

func seedCustomer(t *testing.T, repo *fakeRepo) *domain.Customer {
	t.Helper()
	created, err := repo.CreateCustomer(context.Background(), &domain.Customer{FirstName: "Ada", LastName: "Obi"})
	if err != nil {
		t.Fatalf("seeding customer: %v", err)
	}
	return created
}

func TestCreateCustomerValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     domain.CustomerRequest
		wantMsg string
	}{
		{name: "blank first name", req: domain.CustomerRequest{FirstName: "  ", LastName: "Obi"}, wantMsg: "First name is required"},
		{name: "blank last name", req: domain.CustomerRequest{FirstName: "Ada", LastName: ""}, wantMsg: "Last name is required"},
	}

	svc := NewService(newFakeRepo(), &fakeAccountClient{}, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateCustomer(context.Background(), tt.req)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if apperror.KindOf(err) != apperror.KindValidation {
				t.Fatalf("expected KindValidation, got %v", apperror.KindOf(err))
			}
			if err.Error() != tt.wantMsg {
				t.Fatalf("expected %q, got %q", tt.wantMsg, err.Error())
			}
		})
	}
}

func TestCreateCustomerOtherNameOptional(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeAccountClient{}, nil)
	created, err := svc.CreateCustomer(context.Background(), domain.CustomerRequest{FirstName: "Ada", LastName: "Obi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("expected an assigned ID")
	}
}

func TestDeleteCustomerBlockedByAccounts(t *testing.T) {
	tests := []struct {
		name    string
		count   int64
		wantMsg string
	}{
		{name: "single account", count: 1, wantMsg: "Customer has 1 account and cannot be deleted"},
		{name: "several accounts pluralized", count: 3, wantMsg: "Customer has 3 accounts and cannot be deleted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			customer := seedCustomer(t, repo)
			svc := NewService(repo, &fakeAccountClient{count: tt.count}, nil)

			err := svc.DeleteCustomer(context.Background(), customer.ID)
			if apperror.KindOf(err) != apperror.KindConflict {
				t.Fatalf("expected KindConflict, got %v (%v)", apperror.KindOf(err), err)
			}
			if err.Error() != tt.wantMsg {
				t.Fatalf("expected %q, got %q", tt.wantMsg, err.Error())
			}
			if len(repo.deleted) != 0 {
				t.Fatal("customer must not be deleted when accounts remain")
			}
		})
	}
}

func TestDeleteCustomerPeerFailureIsUnavailable(t *testing.T) {
	repo := newFakeRepo()
	customer := seedCustomer(t, repo)
	cause := errors.New("connection refused")
	svc := NewService(repo, &fakeAccountClient{countErr: cause}, nil)

	err := svc.DeleteCustomer(context.Background(), customer.ID)
	if apperror.KindOf(err) != apperror.KindUnavailable {
		t.Fatalf("expected KindUnavailable, got %v (%v)", apperror.KindOf(err), err)
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected transport cause to be wrapped")
	}
	if len(repo.deleted) != 0 {
		t.Fatal("customer must not be deleted when the peer call fails")
	}
}

func TestDeleteCustomerSucceedsWithZeroAccounts(t *testing.T) {
	repo := newFakeRepo()
	customer := seedCustomer(t, repo)
	svc := NewService(repo, &fakeAccountClient{count: 0}, nil)

	if err := svc.DeleteCustomer(context.Background(), customer.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != customer.ID {
		t.Fatalf("expected customer %s to be deleted", customer.ID)
	}
}

func TestDeleteCustomerNotFound(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeAccountClient{}, nil)
	err := svc.DeleteCustomer(context.Background(), uuid.New())
	if apperror.KindOf(err) != apperror.KindNotFound {
		t.Fatalf("expected KindNotFound, got %v", apperror.KindOf(err))
	}
}

func TestGetCustomerIncludesAccounts(t *testing.T) {
	repo := newFakeRepo()
	customer := seedCustomer(t, repo)
	client := &fakeAccountClient{accounts: []accountclient.Account{
		{ID: "a1", IBAN: "DE89370400440532013000", Status: "ACTIVE"},
	}}
	svc := NewService(repo, client, nil)

	detail, err := svc.GetCustomer(context.Background(), customer.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(detail.Accounts) != 1 || detail.Accounts[0].IBAN != "DE89370400440532013000" {
		t.Fatalf("expected enriched accounts, got %+v", detail.Accounts)
	}
}

func TestGetCustomerSwallowsEnrichmentFailure(t *testing.T) {
	repo := newFakeRepo()
	customer := seedCustomer(t, repo)
	svc := NewService(repo, &fakeAccountClient{listErr: errors.New("account service down")}, nil)

	detail, err := svc.GetCustomer(context.Background(), customer.ID)
	if err != nil {
		t.Fatalf("enrichment failure must not surface, got %v", err)
	}
	if len(detail.Accounts) != 0 {
		t.Fatalf("expected no accounts, got %+v", detail.Accounts)
	}
	if detail.FirstName != "Ada" {
		t.Fatalf("expected customer fields intact, got %+v", detail.Customer)
	}
}

func TestUpdateCustomerValidatesAndApplies(t *testing.T) {
	repo := newFakeRepo()
	customer := seedCustomer(t, repo)
	svc := NewService(repo, &fakeAccountClient{}, nil)

	if _, err := svc.UpdateCustomer(context.Background(), customer.ID, domain.CustomerRequest{FirstName: "", LastName: "Obi"}); err == nil {
		t.Fatal("expected validation error for blank first name")
	}

	updated, err := svc.UpdateCustomer(context.Background(), customer.ID, domain.CustomerRequest{
		FirstName: "Adaeze", LastName: "Obi", OtherName: "N.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.FirstName != "Adaeze" || updated.OtherName != "N." {
		t.Fatalf("expected fields applied, got %+v", updated)
	}
}
