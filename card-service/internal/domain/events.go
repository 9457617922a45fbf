package domain

import "time"

// EventsExchange is the topic exchange shared by all domain services.
const EventsExchange = "banking.events"

// Routing keys for card lifecycle events. Payloads never carry the real PAN
// or CVV; only the masked PAN leaves the service.
const (
	EventCardIssued  = "card.issued"
	EventCardDeleted = "card.deleted"
)

// CardEvent is the payload published on card lifecycle changes.
type CardEvent struct {
	CardID     string    `json:"card_id"`
	AccountID  string    `json:"account_id,omitempty"`
	CardType   string    `json:"card_type,omitempty"`
	MaskedPAN  string    `json:"masked_pan,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
