package accountclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestCountByCustomer(t *testing.T) {
	customerID := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		want := "/api/accounts/count/customer/" + customerID.String()
		if r.URL.Path != want {
			t.Fatalf("expected path %q, got %q", want, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("3"))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	count, err := client.CountByCustomer(context.Background(), customerID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected count 3, got %d", count)
	}
}

func TestCountByCustomerNon200IsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.CountByCustomer(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestCountByCustomerConnectionErrorIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // Close immediately so the call fails in transport.

	client := NewClient(server.URL)
	if _, err := client.CountByCustomer(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected transport error")
	}
}

func TestListByCustomer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"a1","iban":"DE89370400440532013000","bic_swift":"COBADEFF","status":"ACTIVE"}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	accounts, err := client.ListByCustomer(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) != 1 || accounts[0].IBAN != "DE89370400440532013000" {
		t.Fatalf("unexpected accounts: %+v", accounts)
	}
}
