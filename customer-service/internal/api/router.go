/**
 * @description
 * HTTP router setup for the customer-service using go-chi/chi.
 */
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates a new Chi router and registers the customer-service routes.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Customer service is healthy"))
	})

	r.Route("/api/customers", func(r chi.Router) {
		r.Post("/", h.handleCreateCustomer)
		r.Get("/", h.handleListCustomers)
		r.Get("/exists/{id}", h.handleCustomerExists)
		r.Get("/{id}", h.handleGetCustomer)
		r.Put("/{id}", h.handleUpdateCustomer)
		r.Delete("/{id}", h.handleDeleteCustomer)
	})

	return r
}
