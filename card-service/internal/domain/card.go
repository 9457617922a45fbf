/**
 * @description
 * Domain model for a payment card. The pan and cvv fields always hold the
 * real values; masking happens when a card is shaped into a response, never
 * in storage.
 */
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lumenbank/banking-services/pkg/apperror"
)

// CardType distinguishes the two kinds of card an account may hold.
type CardType string

const (
	CardTypeVirtual  CardType = "VIRTUAL"
	CardTypePhysical CardType = "PHYSICAL"
)

// ParseCardType normalizes a raw card type string. The raw value, not the
// normalized one, goes into the error so the caller sees what they sent.
func ParseCardType(raw string) (CardType, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(CardTypeVirtual):
		return CardTypeVirtual, nil
	case string(CardTypePhysical):
		return CardTypePhysical, nil
	default:
		return "", apperror.Validation("Unknown card type: %s", raw)
	}
}

// DisplayName returns the human-facing form used in responses and messages.
func (t CardType) DisplayName() string {
	switch t {
	case CardTypeVirtual:
		return "Virtual"
	case CardTypePhysical:
		return "Physical"
	default:
		return string(t)
	}
}

// Card represents a card record as stored in our own database.
type Card struct {
	ID        uuid.UUID  `json:"id"`
	PAN       string     `json:"pan"`
	CVV       string     `json:"cvv"`
	Alias     string     `json:"alias"`
	AccountID uuid.UUID  `json:"account_id"`
	CardType  CardType   `json:"card_type"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// CardRequest is the payload accepted when issuing a card.
type CardRequest struct {
	AccountID uuid.UUID `json:"account_id"`
	CardType  string    `json:"card_type"`
	Alias     string    `json:"alias"`
}

// CardResponse is the outward shape of a card. The pan and cvv fields carry
// either the real or the masked values depending on the operation.
type CardResponse struct {
	ID        uuid.UUID  `json:"id"`
	PAN       string     `json:"pan"`
	CVV       string     `json:"cvv"`
	Alias     string     `json:"alias"`
	AccountID uuid.UUID  `json:"account_id"`
	CardType  string     `json:"card_type"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// CardFilter narrows a card listing. Alias and PAN match on containment.
type CardFilter struct {
	AccountID uuid.UUID
	CardType  CardType
	Alias     string
	PAN       string
	Limit     int
	Offset    int
}
