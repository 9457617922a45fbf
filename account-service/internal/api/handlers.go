/**
 * @description
 * HTTP handler functions for the account-service. Handlers parse requests,
 * call the service layer, and translate application error kinds into HTTP
 * status codes. The exists and count endpoints serve the other services'
 * cross-service guards and return bare JSON scalars.
 */
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lumenbank/banking-services/account-service/internal/app"
	"github.com/lumenbank/banking-services/account-service/internal/domain"
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

func (h *Handler) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req domain.AccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, apperror.Validation("Invalid request body"))
		return
	}

	account, err := h.service.CreateAccount(r.Context(), req)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, account)
}

func (h *Handler) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, apperror.Validation("Invalid account ID"))
		return
	}

	account, err := h.service.GetAccount(r.Context(), id)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, account)
}

func (h *Handler) handleGetAccountByIBAN(w http.ResponseWriter, r *http.Request) {
	account, err := h.service.GetAccountByIBAN(r.Context(), chi.URLParam(r, "iban"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, account)
}

func (h *Handler) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	filter := domain.AccountFilter{
		IBAN:     r.URL.Query().Get("iban"),
		BicSwift: r.URL.Query().Get("bic_swift"),
		Limit:    parseIntParam(r, "limit", 10),
		Offset:   parseIntParam(r, "offset", 0),
	}

	accounts, err := h.service.ListAccounts(r.Context(), filter)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, accounts)
}

func (h *Handler) handleListAccountsByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuid.Parse(chi.URLParam(r, "customerId"))
	if err != nil {
		respondWithError(w, apperror.Validation("Invalid customer ID"))
		return
	}

	accounts, err := h.service.ListAccountsByCustomer(r.Context(), customerID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, accounts)
}

func (h *Handler) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, apperror.Validation("Invalid account ID"))
		return
	}

	var req domain.AccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, apperror.Validation("Invalid request body"))
		return
	}

	account, err := h.service.UpdateAccount(r.Context(), id, req)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, account)
}

func (h *Handler) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, apperror.Validation("Invalid account ID"))
		return
	}

	if err := h.service.DeleteAccount(r.Context(), id); err != nil {
		respondWithError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAccountExists serves the existence peer endpoint used by the
// card-service's issuance guard. The body is a bare JSON boolean.
func (h *Handler) handleAccountExists(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, apperror.Validation("Invalid account ID"))
		return
	}

	exists, err := h.service.Exists(r.Context(), id)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, exists)
}

// handleCountByCustomer serves the count peer endpoint used by the
// customer-service's deletion guard. The body is a bare JSON number.
func (h *Handler) handleCountByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuid.Parse(chi.URLParam(r, "customerId"))
	if err != nil {
		respondWithError(w, apperror.Validation("Invalid customer ID"))
		return
	}

	count, err := h.service.CountAccountsByCustomer(r.Context(), customerID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, count)
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
