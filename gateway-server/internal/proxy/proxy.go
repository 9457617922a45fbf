/**
 * @description
 * Reverse proxy routing for the gateway. Each /api prefix is forwarded to its
 * owning service; an unreachable backend is reported as 502 with the same
 * error body shape the services use.
 */
package proxy

import (
	"fmt"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Backends holds the base URLs of the proxied services.
type Backends struct {
	CustomerServiceURL string
	AccountServiceURL  string
	CardServiceURL     string
}

// NewRouter creates the gateway router. The authMiddleware is optional; when
// nil, requests pass through unauthenticated.
func NewRouter(backends Backends, authMiddleware func(http.Handler) http.Handler) (*chi.Mux, error) {
	customers, err := newServiceProxy(backends.CustomerServiceURL)
	if err != nil {
		return nil, fmt.Errorf("customer service url: %w", err)
	}
	accounts, err := newServiceProxy(backends.AccountServiceURL)
	if err != nil {
		return nil, fmt.Errorf("account service url: %w", err)
	}
	cards, err := newServiceProxy(backends.CardServiceURL)
	if err != nil {
		return nil, fmt.Errorf("card service url: %w", err)
	}

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Gateway is healthy"))
	})

	r.Group(func(r chi.Router) {
		if authMiddleware != nil {
			r.Use(authMiddleware)
		}
		r.Handle("/api/customers", customers)
		r.Handle("/api/customers/*", customers)
		r.Handle("/api/accounts", accounts)
		r.Handle("/api/accounts/*", accounts)
		r.Handle("/api/cards", cards)
		r.Handle("/api/cards/*", cards)
	})

	return r, nil
}

func newServiceProxy(rawURL string) (*httputil.ReverseProxy, error) {
	target, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, err
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid backend url %q", rawURL)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Printf("proxy error for %s %s: %v", r.Method, r.URL.Path, err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":"Service unavailable"}`))
	}
	return proxy, nil
}
