/**
 * @description
 * Data access layer for card records. The unique index on pan is the
 * authoritative collision guard: the service layer retries generation once on
 * a known collision, and a write that loses the race surfaces here as a
 * conflict via SQLSTATE 23505. Cards are hard-deleted; there is no soft
 * delete because a retired PAN must never be reported as still issued.
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

	"github.com/lumenbank/banking-services/card-service/internal/domain"
	"github.com/lumenbank/banking-services/pkg/apperror"
)

// Repository handles database operations for cards.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new repository backed by a pgx connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const cardColumns = `id, pan, cvv, alias, account_id, card_type, created_at, updated_at`

func scanCard(row pgx.Row) (*domain.Card, error) {
	var c domain.Card
	err := row.Scan(&c.ID, &c.PAN, &c.CVV, &c.Alias, &c.AccountID, &c.CardType, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// CreateCard inserts a new card record.
func (r *Repository) CreateCard(ctx context.Context, card *domain.Card) (*domain.Card, error) {
	query := `
        INSERT INTO cards (pan, cvv, alias, account_id, card_type)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING ` + cardColumns
	created, err := scanCard(r.db.QueryRow(ctx, query,
		card.PAN, card.CVV, card.Alias, card.AccountID, card.CardType))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperror.Conflict("Generated card number collided, please retry")
		}
		log.Printf("Error inserting card into database: %v", err)
		return nil, err
	}
	return created, nil
}

// FindByIDAndAccountID retrieves a card scoped to its owning account. A miss
// does not reveal whether the card exists under another account.
func (r *Repository) FindByIDAndAccountID(ctx context.Context, id, accountID uuid.UUID) (*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1 AND account_id = $2`
	card, err := scanCard(r.db.QueryRow(ctx, query, id, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.Validation("Card not found or does not belong to this account")
		}
		log.Printf("Error finding card by id and account: %v", err)
		return nil, err
	}
	return card, nil
}

// ListByAccount returns all cards issued against an account.
func (r *Repository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE account_id = $1 ORDER BY created_at`
	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		log.Printf("Error listing cards for account %s: %v", accountID, err)
		return nil, err
	}
	defer rows.Close()
	return collectCards(rows)
}

// ListCards returns a page of cards matching the filter.
func (r *Repository) ListCards(ctx context.Context, filter domain.CardFilter) ([]domain.Card, error) {
	query := `
        SELECT ` + cardColumns + `
        FROM cards
        WHERE ($1 = '00000000-0000-0000-0000-000000000000'::uuid OR account_id = $1)
          AND ($2 = '' OR card_type = $2)
          AND ($3 = '' OR alias LIKE '%' || $3 || '%')
          AND ($4 = '' OR pan LIKE '%' || $4 || '%')
        ORDER BY created_at DESC
        LIMIT $5 OFFSET $6`
	rows, err := r.db.Query(ctx, query, filter.AccountID, string(filter.CardType), filter.Alias, filter.PAN, filter.Limit, filter.Offset)
	if err != nil {
		log.Printf("Error listing cards: %v", err)
		return nil, err
	}
	defer rows.Close()
	return collectCards(rows)
}

// CountByAccount returns the number of cards issued against an account.
// Exposed to the account-service as its deletion-guard count endpoint.
func (r *Repository) CountByAccount(ctx context.Context, accountID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM cards WHERE account_id = $1`
	if err := r.db.QueryRow(ctx, query, accountID).Scan(&count); err != nil {
		log.Printf("Error counting cards for account %s: %v", accountID, err)
		return 0, err
	}
	return count, nil
}

// ExistsByAccountAndType reports whether the account already holds a card of
// the given type.
func (r *Repository) ExistsByAccountAndType(ctx context.Context, accountID uuid.UUID, cardType domain.CardType) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM cards WHERE account_id = $1 AND card_type = $2)`
	if err := r.db.QueryRow(ctx, query, accountID, cardType).Scan(&exists); err != nil {
		log.Printf("Error checking card type for account %s: %v", accountID, err)
		return false, err
	}
	return exists, nil
}

// ExistsByPAN reports whether any card holds the given PAN.
func (r *Repository) ExistsByPAN(ctx context.Context, pan string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM cards WHERE pan = $1)`
	if err := r.db.QueryRow(ctx, query, pan).Scan(&exists); err != nil {
		log.Printf("Error checking pan uniqueness: %v", err)
		return false, err
	}
	return exists, nil
}

// UpdateAlias renames a card, scoped to its owning account.
func (r *Repository) UpdateAlias(ctx context.Context, id, accountID uuid.UUID, alias string) (*domain.Card, error) {
	query := `
        UPDATE cards
        SET alias = $3, updated_at = NOW()
        WHERE id = $1 AND account_id = $2
        RETURNING ` + cardColumns
	card, err := scanCard(r.db.QueryRow(ctx, query, id, accountID, alias))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.Validation("Card not found or does not belong to this account")
		}
		log.Printf("Error updating alias for card %s: %v", id, err)
		return nil, err
	}
	return card, nil
}

// DeleteCard removes a card, scoped to its owning account.
func (r *Repository) DeleteCard(ctx context.Context, id, accountID uuid.UUID) error {
	query := `DELETE FROM cards WHERE id = $1 AND account_id = $2`
	tag, err := r.db.Exec(ctx, query, id, accountID)
	if err != nil {
		log.Printf("Error deleting card %s: %v", id, err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperror.Validation("Card not found or does not belong to this account")
	}
	return nil
}

func collectCards(rows pgx.Rows) ([]domain.Card, error) {
	cards := make([]domain.Card, 0)
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, *card)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cards, nil
}
