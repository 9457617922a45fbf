/**
 * @description
 * HTTP router setup for the account-service using go-chi/chi.
 */
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates a new Chi router and registers the account-service routes.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Account service is healthy"))
	})

	r.Route("/api/accounts", func(r chi.Router) {
		r.Post("/", h.handleCreateAccount)
		r.Get("/", h.handleListAccounts)
		r.Get("/exists/{id}", h.handleAccountExists)
		r.Get("/count/customer/{customerId}", h.handleCountByCustomer)
		r.Get("/customer/{customerId}", h.handleListAccountsByCustomer)
		r.Get("/iban/{iban}", h.handleGetAccountByIBAN)
		r.Get("/{id}", h.handleGetAccount)
		r.Put("/{id}", h.handleUpdateAccount)
		r.Delete("/{id}", h.handleDeleteAccount)
	})

	return r
}
