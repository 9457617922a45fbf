/**
 * @description
 * HTTP handler functions for the customer-service. Handlers parse requests,
 * call the service layer, and translate application error kinds into HTTP
 * status codes.
 */
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lumenbank/banking-services/customer-service/internal/app"
	"github.com/lumenbank/banking-services/customer-service/internal/domain"
	"github.com/lumenbank/banking-services/pkg/apperror"
)

// Handler holds the application service that handlers will interact with.
type Handler struct {
	service *app.Service
}

// NewHandler creates a new Handler with the given service.
func NewHandler(service *app.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req domain.CustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, apperror.Validation("Invalid request body"))
		return
	}

	customer, err := h.service.CreateCustomer(r.Context(), req)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, customer)
}

func (h *Handler) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, apperror.Validation("Invalid customer ID"))
		return
	}

	detail, err := h.service.GetCustomer(r.Context(), id)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, detail)
}

func (h *Handler) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	filter := domain.SearchFilter{
		Name:   r.URL.Query().Get("name"),
		Limit:  parseIntParam(r, "limit", 10),
		Offset: parseIntParam(r, "offset", 0),
	}
	if start, ok := parseDateParam(r, "start_date"); ok {
		filter.StartDate = &start
	}
	if end, ok := parseDateParam(r, "end_date"); ok {
		// The end date is inclusive: extend it to the last instant of the day.
		end = end.Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &end
	}

	customers, err := h.service.ListCustomers(r.Context(), filter)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, customers)
}

func (h *Handler) handleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, apperror.Validation("Invalid customer ID"))
		return
	}

	var req domain.CustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, apperror.Validation("Invalid request body"))
		return
	}

	customer, err := h.service.UpdateCustomer(r.Context(), id, req)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, customer)
}

func (h *Handler) handleDeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, apperror.Validation("Invalid customer ID"))
		return
	}

	if err := h.service.DeleteCustomer(r.Context(), id); err != nil {
		respondWithError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCustomerExists serves the existence peer endpoint used by the
// account-service's creation guard. The body is a bare JSON boolean.
func (h *Handler) handleCustomerExists(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, apperror.Validation("Invalid customer ID"))
		return
	}

	exists, err := h.service.Exists(r.Context(), id)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, exists)
}

func parseIntParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func parseDateParam(r *http.Request, name string) (time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, false
	}
	value, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false
	}
	return value, true
}

// respondWithJSON is a helper function to write JSON responses.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// respondWithError maps an application error to its HTTP status code.
func respondWithError(w http.ResponseWriter, err error) {
	status := apperror.HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
		message = "Internal Server Error"
	}
	respondWithJSON(w, status, map[string]string{"error": message})
}
