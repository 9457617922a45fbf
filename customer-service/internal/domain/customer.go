/**
 * @description
 * Domain model for a customer. Customers own accounts by weak reference only:
 * the account-service keeps the customer_id column, and integrity between the
 * two stores is enforced procedurally by the deletion guard.
 */
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Customer represents a customer record as stored in our own database.
type Customer struct {
	ID        uuid.UUID  `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	OtherName string     `json:"other_name,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// CustomerRequest is the mutable subset of a customer accepted on create and
// update.
type CustomerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	OtherName string `json:"other_name"`
}

// AccountSummary mirrors the account record returned by the account-service
// when a customer read is enriched with its accounts.
type AccountSummary struct {
	ID       string `json:"id"`
	IBAN     string `json:"iban"`
	BicSwift string `json:"bic_swift"`
	Status   string `json:"status"`
}

// CustomerDetail is a customer plus its accounts as reported by the
// account-service. Accounts are best-effort: a failed peer call leaves the
// slice empty.
type CustomerDetail struct {
	Customer
	Accounts []AccountSummary `json:"accounts,omitempty"`
}

// SearchFilter narrows a customer listing.
type SearchFilter struct {
	Name      string
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}
