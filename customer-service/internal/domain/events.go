package domain

import "time"

// EventsExchange is the topic exchange shared by all domain services.
const EventsExchange = "banking.events"

// Routing keys for customer lifecycle events.
const (
	EventCustomerCreated = "customer.created"
	EventCustomerUpdated = "customer.updated"
	EventCustomerDeleted = "customer.deleted"
)

// CustomerEvent is the payload published on customer lifecycle changes.
type CustomerEvent struct {
	CustomerID string    `json:"customer_id"`
	FirstName  string    `json:"first_name,omitempty"`
	LastName   string    `json:"last_name,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
