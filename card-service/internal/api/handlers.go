/**
 * @description
 * HTTP handler functions for the card-service. Handlers parse requests, call
 * the service layer, and translate application error kinds into HTTP status
 * codes. Card reads are scoped: every operation on a single card requires the
 * owning account's ID, and a mismatch is reported without revealing whether
 * the card exists elsewhere.
 *
 * Issuance throttling lives here rather than in the service so the 429
 * response and its Retry-After header stay out of the domain error model.
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

	"github.com/lumenbank/banking-services/card-service/internal/app"
	"github.com/lumenbank/banking-services/card-service/internal/domain"
	"github.com/lumenbank/banking-services/pkg/apperror"
)

// Handler holds the application service that handlers will interact with.
type Handler struct {
	service     *app.Service
	limiter     *app.RedisIssuanceRateLimiter
	issueLimit  int
	issueWindow time.Duration
}

// NewHandler creates a new Handler. The limiter may be nil, which disables
// issuance throttling.
func NewHandler(service *app.Service, limiter *app.RedisIssuanceRateLimiter, issueLimit int, issueWindow time.Duration) *Handler {
	return &Handler{service: service, limiter: limiter, issueLimit: issueLimit, issueWindow: issueWindow}
}

func (h *Handler) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var req domain.CardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, apperror.Validation("Invalid request body"))
		return
	}

	if req.AccountID != uuid.Nil {
		count, retryAfter, err := h.limiter.ConsumeIssuanceLimit(r.Context(), req.AccountID.String(), h.issueLimit, h.issueWindow)
		if err != nil {
			// Fail open: a broken limiter must not block issuance.
			log.Printf("issuance rate limiter unavailable: %v", err)
		} else if h.issueLimit > 0 && count > h.issueLimit {
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			respondWithJSON(w, http.StatusTooManyRequests, map[string]string{
				"error": "Too many card requests for this account, try again later",
			})
			return
		}
	}

	card, err := h.service.CreateCard(r.Context(), req)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, card)
}

func (h *Handler) handleGetCard(w http.ResponseWriter, r *http.Request) {
	cardID, err := uuid.Parse(chi.URLParam(r, "cardId"))
	if err != nil {
		respondWithError(w, apperror.Validation("Invalid card ID"))
		return
	}
	accountID, err := uuid.Parse(r.URL.Query().Get("account_id"))
	if err != nil {
		respondWithError(w, apperror.Validation("Invalid account ID"))
		return
	}
	showSensitive, _ := strconv.ParseBool(r.URL.Query().Get("show_sensitive"))

	card, err := h.service.GetCard(r.Context(), cardID, accountID, showSensitive)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, card)
}

func (h *Handler) handleListCards(w http.ResponseWriter, r *http.Request) {
	filter := domain.CardFilter{
		Alias:  r.URL.Query().Get("alias"),
		PAN:    r.URL.Query().Get("pan"),
		Limit:  parseIntParam(r, "limit", 10),
		Offset: parseIntParam(r, "offset", 0),
	}
	if raw := r.URL.Query().Get("account_id"); raw != "" {
		accountID, err := uuid.Parse(raw)
		if err != nil {
			respondWithError(w, apperror.Validation("Invalid account ID"))
			return
		}
		filter.AccountID = accountID
	}
	if raw := r.URL.Query().Get("card_type"); raw != "" {
		cardType, err := domain.ParseCardType(raw)
		if err != nil {
			respondWithError(w, err)
			return
		}
		filter.CardType = cardType
	}

	showSensitive, _ := strconv.ParseBool(r.URL.Query().Get("show_sensitive"))
	cards, err := h.service.ListCards(r.Context(), filter, showSensitive)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, cards)
}

func (h *Handler) handleListCardsByAccount(w http.ResponseWriter, r *http.Request) {
	accountID, err := uuid.Parse(chi.URLParam(r, "accountId"))
	if err != nil {
		respondWithError(w, apperror.Validation("Invalid account ID"))
		return
	}

	cards, err := h.service.ListCardsByAccount(r.Context(), accountID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, cards)
}

func (h *Handler) handleUpdateAlias(w http.ResponseWriter, r *http.Request) {
	cardID, err := uuid.Parse(chi.URLParam(r, "cardId"))
	if err != nil {
		respondWithError(w, apperror.Validation("Invalid card ID"))
		return
	}

	var req struct {
		AccountID uuid.UUID `json:"account_id"`
		Alias     string    `json:"alias"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, apperror.Validation("Invalid request body"))
		return
	}

	card, err := h.service.UpdateAlias(r.Context(), cardID, req.AccountID, req.Alias)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, card)
}

func (h *Handler) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	cardID, err := uuid.Parse(chi.URLParam(r, "cardId"))
	if err != nil {
		respondWithError(w, apperror.Validation("Invalid card ID"))
		return
	}
	accountID, err := uuid.Parse(r.URL.Query().Get("account_id"))
	if err != nil {
		respondWithError(w, apperror.Validation("Invalid account ID"))
		return
	}

	if err := h.service.DeleteCard(r.Context(), cardID, accountID); err != nil {
		respondWithError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCountByAccount serves the count peer endpoint used by the
// account-service's deletion guard. The body is a bare JSON number.
func (h *Handler) handleCountByAccount(w http.ResponseWriter, r *http.Request) {
	accountID, err := uuid.Parse(chi.URLParam(r, "accountId"))
	if err != nil {
		respondWithError(w, apperror.Validation("Invalid account ID"))
		return
	}

	count, err := h.service.CountByAccount(r.Context(), accountID)
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
