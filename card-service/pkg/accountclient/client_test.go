package accountclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestAccountExists(t *testing.T) {
	accountID := uuid.New()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		want := "/api/accounts/exists/" + accountID.String()
		if r.URL.Path != want {
			t.Fatalf("expected path %q, got %q", want, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("true"))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	exists, err := client.AccountExists(context.Background(), accountID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
}

func TestAccountExistsNon200IsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.AccountExists(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestAccountExistsConnectionErrorIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // Close immediately so the call fails in transport.

	client := NewClient(server.URL)
	if _, err := client.AccountExists(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected transport error")
	}
}
