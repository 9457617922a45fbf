/**
 * @description
 * Core business logic for the card-service. The issuance guard enforces the
 * holding rules: at most two cards per account and at most one of each type,
 * and the account must exist according to the account-service. The existence
 * check must return an explicit boolean; a transport failure aborts the
 * issue because absence was never confirmed.
 *
 * PAN generation retries exactly once on a known collision. A second
 * collision, or one that slips past the check, is caught by the unique index
 * and reported as a conflict rather than retried forever.
 *
 * Responses are masked everywhere except the creation response, which returns
 * the real PAN and CVV once so the caller can record them, and reads that
 * explicitly ask for sensitive values.
 */
package app

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lumenbank/banking-services/card-service/internal/domain"
	"github.com/lumenbank/banking-services/pkg/apperror"
	"github.com/lumenbank/banking-services/pkg/rabbitmq"
)

// maxCardsPerAccount is the holding limit enforced at issuance.
const maxCardsPerAccount = 2

// Repository defines the database operations the service needs.
type Repository interface {
	CreateCard(ctx context.Context, card *domain.Card) (*domain.Card, error)
	FindByIDAndAccountID(ctx context.Context, id, accountID uuid.UUID) (*domain.Card, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Card, error)
	ListCards(ctx context.Context, filter domain.CardFilter) ([]domain.Card, error)
	CountByAccount(ctx context.Context, accountID uuid.UUID) (int, error)
	ExistsByAccountAndType(ctx context.Context, accountID uuid.UUID, cardType domain.CardType) (bool, error)
	ExistsByPAN(ctx context.Context, pan string) (bool, error)
	UpdateAlias(ctx context.Context, id, accountID uuid.UUID, alias string) (*domain.Card, error)
	DeleteCard(ctx context.Context, id, accountID uuid.UUID) error
}

// AccountClient defines the existence peer call against the account-service.
type AccountClient interface {
	AccountExists(ctx context.Context, accountID uuid.UUID) (bool, error)
}

// Service provides the business logic for card management.
type Service struct {
	repo      Repository
	accounts  AccountClient
	generator Generator
	events    rabbitmq.Publisher
}

// NewService creates a new card service.
func NewService(repo Repository, accounts AccountClient, generator Generator, events rabbitmq.Publisher) *Service {
	return &Service{repo: repo, accounts: accounts, generator: generator, events: events}
}

// CreateCard runs the issuance guard and persists a new card. The response
// carries the real PAN and CVV; this is the only place they leave unmasked
// without being asked for.
func (s *Service) CreateCard(ctx context.Context, req domain.CardRequest) (*domain.CardResponse, error) {
	if req.AccountID == uuid.Nil {
		return nil, apperror.Validation("Account ID is required")
	}
	if strings.TrimSpace(req.CardType) == "" {
		return nil, apperror.Validation("Card type is required")
	}
	if strings.TrimSpace(req.Alias) == "" {
		return nil, apperror.Validation("Card alias is required")
	}

	accountExists, err := s.accounts.AccountExists(ctx, req.AccountID)
	if err != nil {
		return nil, apperror.Unavailable("Failed to verify account existence", err)
	}
	if !accountExists {
		return nil, apperror.NotFound("Account", "id", req.AccountID.String())
	}

	count, err := s.repo.CountByAccount(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if count >= maxCardsPerAccount {
		return nil, apperror.Conflict("Cannot create more than 2 cards for this account")
	}

	cardType, err := domain.ParseCardType(req.CardType)
	if err != nil {
		return nil, err
	}

	hasType, err := s.repo.ExistsByAccountAndType(ctx, req.AccountID, cardType)
	if err != nil {
		return nil, err
	}
	if hasType {
		return nil, apperror.Conflict("Account already has a card of type %s", cardType.DisplayName())
	}

	pan, err := s.uniquePAN(ctx)
	if err != nil {
		return nil, err
	}
	cvv, err := s.generator.GenerateCVV()
	if err != nil {
		return nil, err
	}

	created, err := s.repo.CreateCard(ctx, &domain.Card{
		PAN:       pan,
		CVV:       cvv,
		Alias:     req.Alias,
		AccountID: req.AccountID,
		CardType:  cardType,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Issued new %s card with ID: %s", cardType.DisplayName(), created.ID)
	s.publish(ctx, domain.EventCardIssued, created)
	return toResponse(created, false), nil
}

// uniquePAN generates a PAN and retries exactly once if the draw collides
// with an issued card. The unique index on pan remains the last line of
// defense against a collision between the check and the insert.
func (s *Service) uniquePAN(ctx context.Context) (string, error) {
	pan, err := s.generator.GeneratePAN()
	if err != nil {
		return "", err
	}
	taken, err := s.repo.ExistsByPAN(ctx, pan)
	if err != nil {
		return "", err
	}
	if !taken {
		return pan, nil
	}

	log.Printf("Generated PAN collided with an issued card, regenerating")
	pan, err = s.generator.GeneratePAN()
	if err != nil {
		return "", err
	}
	return pan, nil
}

// GetCard returns a card scoped to its owning account. The PAN and CVV are
// masked unless the caller asked for sensitive values.
func (s *Service) GetCard(ctx context.Context, id, accountID uuid.UUID, showSensitive bool) (*domain.CardResponse, error) {
	card, err := s.repo.FindByIDAndAccountID(ctx, id, accountID)
	if err != nil {
		return nil, err
	}
	return toResponse(card, !showSensitive), nil
}

// ListCardsByAccount returns the masked cards issued against an account.
func (s *Service) ListCardsByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.CardResponse, error) {
	cards, err := s.repo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return toResponses(cards), nil
}

// ListCards returns a page of cards matching the filter, masked unless the
// caller asked for sensitive values.
func (s *Service) ListCards(ctx context.Context, filter domain.CardFilter, showSensitive bool) ([]domain.CardResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = 10
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	cards, err := s.repo.ListCards(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]domain.CardResponse, 0, len(cards))
	for i := range cards {
		responses = append(responses, *toResponse(&cards[i], !showSensitive))
	}
	return responses, nil
}

// CountByAccount returns the number of cards issued against an account.
// Exposed to the account-service's deletion guard.
func (s *Service) CountByAccount(ctx context.Context, accountID uuid.UUID) (int, error) {
	return s.repo.CountByAccount(ctx, accountID)
}

// UpdateAlias renames a card. The response is always masked.
func (s *Service) UpdateAlias(ctx context.Context, id, accountID uuid.UUID, alias string) (*domain.CardResponse, error) {
	if strings.TrimSpace(alias) == "" {
		return nil, apperror.Validation("Card alias is required")
	}

	card, err := s.repo.UpdateAlias(ctx, id, accountID, alias)
	if err != nil {
		return nil, err
	}

	log.Printf("Updated alias for card with ID: %s", card.ID)
	return toResponse(card, true), nil
}

// DeleteCard removes a card scoped to its owning account.
func (s *Service) DeleteCard(ctx context.Context, id, accountID uuid.UUID) error {
	card, err := s.repo.FindByIDAndAccountID(ctx, id, accountID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteCard(ctx, id, accountID); err != nil {
		return err
	}

	log.Printf("Deleted card with ID: %s", id)
	s.publish(ctx, domain.EventCardDeleted, card)
	return nil
}

func (s *Service) publish(ctx context.Context, routingKey string, card *domain.Card) {
	if s.events == nil {
		return
	}
	event := domain.CardEvent{
		CardID:     card.ID.String(),
		AccountID:  card.AccountID.String(),
		CardType:   string(card.CardType),
		MaskedPAN:  maskPAN(card.PAN),
		OccurredAt: time.Now().UTC(),
	}
	if err := s.events.Publish(ctx, domain.EventsExchange, routingKey, event); err != nil {
		log.Printf("Failed to publish %s event for card %s: %v", routingKey, card.ID, err)
	}
}

func toResponse(card *domain.Card, masked bool) *domain.CardResponse {
	resp := &domain.CardResponse{
		ID:        card.ID,
		PAN:       card.PAN,
		CVV:       card.CVV,
		Alias:     card.Alias,
		AccountID: card.AccountID,
		CardType:  card.CardType.DisplayName(),
		CreatedAt: card.CreatedAt,
		UpdatedAt: card.UpdatedAt,
	}
	if masked {
		resp.PAN = maskPAN(card.PAN)
		resp.CVV = maskCVV()
	}
	return resp
}

func toResponses(cards []domain.Card) []domain.CardResponse {
	responses := make([]domain.CardResponse, 0, len(cards))
	for i := range cards {
		responses = append(responses, *toResponse(&cards[i], true))
	}
	return responses
}

// maskPAN keeps the first six and last four digits. PANs too short to keep
// both ends are fully masked.
func maskPAN(pan string) string {
	if len(pan) < 10 {
		return "****"
	}
	return pan[:6] + strings.Repeat("*", len(pan)-10) + pan[len(pan)-4:]
}

func maskCVV() string {
	return "***"
}
