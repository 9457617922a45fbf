package proxy

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func echoBackend(t *testing.T, name string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"backend": name, "path": r.URL.Path})
	}))
}

func TestRoutesByPrefix(t *testing.T) {
	customers := echoBackend(t, "customers")
	defer customers.Close()
	accounts := echoBackend(t, "accounts")
	defer accounts.Close()
	cards := echoBackend(t, "cards")
	defer cards.Close()

	router, err := NewRouter(Backends{
		CustomerServiceURL: customers.URL,
		AccountServiceURL:  accounts.URL,
		CardServiceURL:     cards.URL,
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	gateway := httptest.NewServer(router)
	defer gateway.Close()

	tests := []struct {
		path    string
		backend string
	}{
		{"/api/customers", "customers"},
		{"/api/customers/exists/abc", "customers"},
		{"/api/accounts/count/customer/abc", "accounts"},
		{"/api/cards/count/account/abc", "cards"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(gateway.URL + tt.path)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer resp.Body.Close()

			var body map[string]string
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			if body["backend"] != tt.backend {
				t.Fatalf("expected backend %q, got %q", tt.backend, body["backend"])
			}
			if body["path"] != tt.path {
				t.Fatalf("expected path %q preserved, got %q", tt.path, body["path"])
			}
		})
	}
}

func TestUnreachableBackendIs502(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close() // Close immediately so proxying fails in transport.

	alive := echoBackend(t, "customers")
	defer alive.Close()

	router, err := NewRouter(Backends{
		CustomerServiceURL: alive.URL,
		AccountServiceURL:  dead.URL,
		CardServiceURL:     alive.URL,
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	gateway := httptest.NewServer(router)
	defer gateway.Close()

	resp, err := http.Get(gateway.URL + "/api/accounts/some-id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != `{"error":"Service unavailable"}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestInvalidBackendURLIsRejected(t *testing.T) {
	_, err := NewRouter(Backends{
		CustomerServiceURL: "not a url",
		AccountServiceURL:  "http://localhost:8082",
		CardServiceURL:     "http://localhost:8083",
	}, nil)
	if err == nil {
		t.Fatal("expected error for invalid backend url")
	}
}
