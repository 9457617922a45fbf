/**
 * @description
 * This file implements the data access layer for customer records. Deletes
 * are logical: rows are flagged and every read filters on the flag, so a
 * deleted customer is invisible to the API and to peer existence checks.
 */
package store

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumenbank/banking-services/customer-service/internal/domain"
	"github.com/lumenbank/banking-services/pkg/apperror"
)

// Repository handles database operations for customers.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new repository backed by a pgx connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const customerColumns = `id, first_name, last_name, COALESCE(other_name, ''), created_at, updated_at`

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.OtherName, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCustomer inserts a new customer record.
func (r *Repository) CreateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	query := `
        INSERT INTO customers (first_name, last_name, other_name)
        VALUES ($1, $2, NULLIF($3, ''))
        RETURNING ` + customerColumns
	created, err := scanCustomer(r.db.QueryRow(ctx, query, customer.FirstName, customer.LastName, customer.OtherName))
	if err != nil {
		log.Printf("Error inserting customer into database: %v", err)
		return nil, err
	}
	return created, nil
}

// GetCustomerByID retrieves a non-deleted customer by its ID.
func (r *Repository) GetCustomerByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1 AND NOT deleted`
	customer, err := scanCustomer(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("Customer", "id", id.String())
		}
		log.Printf("Error finding customer by id: %v", err)
		return nil, err
	}
	return customer, nil
}

// UpdateCustomer applies the mutable fields of a customer.
func (r *Repository) UpdateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	query := `
        UPDATE customers
        SET first_name = $2, last_name = $3, other_name = NULLIF($4, ''), updated_at = NOW()
        WHERE id = $1 AND NOT deleted
        RETURNING ` + customerColumns
	updated, err := scanCustomer(r.db.QueryRow(ctx, query,
		customer.ID, customer.FirstName, customer.LastName, customer.OtherName))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("Customer", "id", customer.ID.String())
		}
		log.Printf("Error updating customer %s: %v", customer.ID, err)
		return nil, err
	}
	return updated, nil
}

// DeleteCustomer flags a customer as deleted.
func (r *Repository) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE customers SET deleted = TRUE, deleted_at = NOW() WHERE id = $1 AND NOT deleted`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		log.Printf("Error deleting customer %s: %v", id, err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("Customer", "id", id.String())
	}
	return nil
}

// ExistsByID reports whether a non-deleted customer exists.
func (r *Repository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM customers WHERE id = $1 AND NOT deleted)`
	if err := r.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		log.Printf("Error checking customer existence: %v", err)
		return false, err
	}
	return exists, nil
}

// ListCustomers returns a page of customers matching the filter. The name
// filter matches against the concatenated first and last name.
func (r *Repository) ListCustomers(ctx context.Context, filter domain.SearchFilter) ([]domain.Customer, error) {
	query := `
        SELECT ` + customerColumns + `
        FROM customers
        WHERE NOT deleted
          AND ($1 = '' OR LOWER(first_name || ' ' || last_name) LIKE '%' || $1 || '%')
          AND ($2::timestamptz IS NULL OR created_at >= $2)
          AND ($3::timestamptz IS NULL OR created_at <= $3)
        ORDER BY created_at DESC
        LIMIT $4 OFFSET $5`
	name := strings.ToLower(strings.TrimSpace(filter.Name))
	rows, err := r.db.Query(ctx, query, name, filter.StartDate, filter.EndDate, filter.Limit, filter.Offset)
	if err != nil {
		log.Printf("Error listing customers: %v", err)
		return nil, err
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0)
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, *customer)
	}
	return customers, rows.Err()
}
