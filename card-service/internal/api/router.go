/**
 * @description
 * HTTP router setup for the card-service using go-chi/chi.
 */
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates a new Chi router and registers the card-service routes.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Card service is healthy"))
	})

	r.Route("/api/cards", func(r chi.Router) {
		r.Post("/", h.handleCreateCard)
		r.Get("/", h.handleListCards)
		r.Get("/count/account/{accountId}", h.handleCountByAccount)
		r.Get("/account/{accountId}", h.handleListCardsByAccount)
		r.Get("/{cardId}", h.handleGetCard)
		r.Patch("/{cardId}/alias", h.handleUpdateAlias)
		r.Delete("/{cardId}", h.handleDeleteCard)
	})

	return r
}
