/**
 * @description
 * Data access layer for account records. The partial unique index on iban is
 * the authoritative duplicate guard: the service layer's fast-path uniqueness
 * check is advisory, and a write that loses the race surfaces here as a
 * conflict via SQLSTATE 23505.
 */
package store

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumenbank/banking-services/account-service/internal/domain"
	"github.com/lumenbank/banking-services/pkg/apperror"
)

// Repository handles database operations for accounts.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new repository backed by a pgx connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const accountColumns = `id, iban, bic_swift, customer_id, status, COALESCE(rejection_reason, ''), created_at, updated_at`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(&a.ID, &a.IBAN, &a.BicSwift, &a.CustomerID, &a.Status, &a.RejectionReason, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// CreateAccount inserts a new account record.
func (r *Repository) CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	query := `
        INSERT INTO accounts (iban, bic_swift, customer_id, status)
        VALUES ($1, $2, $3, $4)
        RETURNING ` + accountColumns
	created, err := scanAccount(r.db.QueryRow(ctx, query,
		account.IBAN, account.BicSwift, account.CustomerID, account.Status))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperror.Conflict("Account with IBAN %s already exists", account.IBAN)
		}
		log.Printf("Error inserting account into database: %v", err)
		return nil, err
	}
	return created, nil
}

// GetAccountByID retrieves a non-deleted account by its ID.
func (r *Repository) GetAccountByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 AND NOT deleted`
	account, err := scanAccount(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("Account", "id", id.String())
		}
		log.Printf("Error finding account by id: %v", err)
		return nil, err
	}
	return account, nil
}

// GetAccountByIBAN retrieves a non-deleted account by its IBAN.
func (r *Repository) GetAccountByIBAN(ctx context.Context, iban string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE iban = $1 AND NOT deleted`
	account, err := scanAccount(r.db.QueryRow(ctx, query, iban))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("Account", "IBAN", iban)
		}
		log.Printf("Error finding account by iban: %v", err)
		return nil, err
	}
	return account, nil
}

// UpdateAccount applies the mutable fields (iban, bic_swift) of an account.
func (r *Repository) UpdateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	query := `
        UPDATE accounts
        SET iban = $2, bic_swift = $3, updated_at = NOW()
        WHERE id = $1 AND NOT deleted
        RETURNING ` + accountColumns
	updated, err := scanAccount(r.db.QueryRow(ctx, query, account.ID, account.IBAN, account.BicSwift))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperror.Conflict("Account with IBAN %s already exists", account.IBAN)
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("Account", "id", account.ID.String())
		}
		log.Printf("Error updating account %s: %v", account.ID, err)
		return nil, err
	}
	return updated, nil
}

// DeleteAccount flags an account as deleted.
func (r *Repository) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE accounts SET deleted = TRUE, deleted_at = NOW() WHERE id = $1 AND NOT deleted`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		log.Printf("Error deleting account %s: %v", id, err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("Account", "id", id.String())
	}
	return nil
}

// ExistsByID reports whether a non-deleted account exists.
func (r *Repository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1 AND NOT deleted)`
	if err := r.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		log.Printf("Error checking account existence: %v", err)
		return false, err
	}
	return exists, nil
}

// ExistsByIBAN reports whether a non-deleted account holds the given IBAN.
func (r *Repository) ExistsByIBAN(ctx context.Context, iban string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM accounts WHERE iban = $1 AND NOT deleted)`
	if err := r.db.QueryRow(ctx, query, iban).Scan(&exists); err != nil {
		log.Printf("Error checking iban uniqueness: %v", err)
		return false, err
	}
	return exists, nil
}

// ListAccountsByCustomer returns all accounts owned by a customer.
func (r *Repository) ListAccountsByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE customer_id = $1 AND NOT deleted ORDER BY created_at`
	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		log.Printf("Error listing accounts for customer %s: %v", customerID, err)
		return nil, err
	}
	defer rows.Close()
	return collectAccounts(rows)
}

// CountAccountsByCustomer returns the number of accounts owned by a customer.
// Exposed to the customer-service as its deletion-guard count endpoint.
func (r *Repository) CountAccountsByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM accounts WHERE customer_id = $1 AND NOT deleted`
	if err := r.db.QueryRow(ctx, query, customerID).Scan(&count); err != nil {
		log.Printf("Error counting accounts for customer %s: %v", customerID, err)
		return 0, err
	}
	return count, nil
}

// ListAccounts returns a page of accounts matching the filter.
func (r *Repository) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	query := `
        SELECT ` + accountColumns + `
        FROM accounts
        WHERE NOT deleted
          AND ($1 = '' OR iban LIKE '%' || $1 || '%')
          AND ($2 = '' OR bic_swift LIKE '%' || $2 || '%')
        ORDER BY created_at DESC
        LIMIT $3 OFFSET $4`
	rows, err := r.db.Query(ctx, query, filter.IBAN, filter.BicSwift, filter.Limit, filter.Offset)
	if err != nil {
		log.Printf("Error listing accounts: %v", err)
		return nil, err
	}
	defer rows.Close()
	return collectAccounts(rows)
}

func collectAccounts(rows pgx.Rows) ([]domain.Account, error) {
	accounts := make([]domain.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}
	return accounts, rows.Err()
}
