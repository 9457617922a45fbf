package domain

import "time"

// EventsExchange is the topic exchange shared by all domain services.
const EventsExchange = "banking.events"

// Routing keys for account lifecycle events.
const (
	EventAccountCreated = "account.created"
	EventAccountUpdated = "account.updated"
	EventAccountDeleted = "account.deleted"
)

// AccountEvent is the payload published on account lifecycle changes.
type AccountEvent struct {
	AccountID  string    `json:"account_id"`
	CustomerID string    `json:"customer_id,omitempty"`
	IBAN       string    `json:"iban,omitempty"`
	Status     string    `json:"status,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
