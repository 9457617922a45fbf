/**
 * @description
 * Domain model for an account. The customer_id field is a weak reference into
 * the customer-service's store: it is validated once at creation time through
 * a synchronous peer call and never enforced by a foreign key.
 */
package domain

import (
	"time"

	"github.com/google/uuid"
)

// AccountStatus is the lifecycle status of an account.
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "ACTIVE"
	AccountStatusRejected AccountStatus = "REJECTED"
)

// Account represents an account record as stored in our own database.
type Account struct {
	ID              uuid.UUID     `json:"id"`
	IBAN            string        `json:"iban"`
	BicSwift        string        `json:"bic_swift"`
	CustomerID      uuid.UUID     `json:"customer_id"`
	Status          AccountStatus `json:"status"`
	RejectionReason string        `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       *time.Time    `json:"updated_at,omitempty"`
}

// AccountRequest is the payload accepted on create and update. CustomerID is
// only honored at creation time; updates cannot re-home an account.
type AccountRequest struct {
	IBAN       string    `json:"iban"`
	BicSwift   string    `json:"bic_swift"`
	CustomerID uuid.UUID `json:"customer_id"`
}

// AccountFilter narrows an account listing.
type AccountFilter struct {
	IBAN     string
	BicSwift string
	Limit    int
	Offset   int
}
