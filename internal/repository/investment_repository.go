package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/apperrors"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/model"
)

// InvestmentRepository provides data access methods for the investment table.
// Outstanding-share figures are always recomputed from these rows, never taken
// from the property table's cached column.
type InvestmentRepository struct {
	db DBTX
}

// NewInvestmentRepository creates a new InvestmentRepository with the provided database connection.
func NewInvestmentRepository(db *sql.DB) *InvestmentRepository {
	return &InvestmentRepository{db: db}
}

// WithTx returns a copy of the repository scoped to the given transaction.
func (s *InvestmentRepository) WithTx(tx *sql.Tx) *InvestmentRepository {
	return &InvestmentRepository{db: tx}
}

// InsertInvestment inserts a new investment row.
func (s *InvestmentRepository) InsertInvestment(ctx context.Context, inv *model.Investment) error {
	query := `
		INSERT INTO investment (id, property_id, user_id, shares, price_per_share_at_purchase, status, purchase_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		inv.ID, inv.PropertyID, inv.UserID, inv.Shares,
		inv.PricePerShareAtPurchase.String(), inv.Status, formatDate(inv.PurchaseDate))
	if err != nil {
		return fmt.Errorf("failed to insert investment: %w", err)
	}

	return nil
}

// GetInvestment retrieves a single investment by ID.
func (s *InvestmentRepository) GetInvestment(ctx context.Context, id string) (model.Investment, error) {
	query := `
		SELECT id, property_id, user_id, shares, price_per_share_at_purchase, status, purchase_date, created_at
		FROM investment
		WHERE id = ?
	`

	var inv model.Investment
	var priceStr, purchaseStr, createdAtStr string

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&inv.ID, &inv.PropertyID, &inv.UserID, &inv.Shares, &priceStr, &inv.Status, &purchaseStr, &createdAtStr)
	if err == sql.ErrNoRows {
		return model.Investment{}, apperrors.ErrInvestmentNotFound
	}
	if err != nil {
		return model.Investment{}, fmt.Errorf("failed to query investment table: %w", err)
	}

	if inv.PricePerShareAtPurchase, err = parseDecimal(priceStr); err != nil {
		return model.Investment{}, err
	}
	if inv.PurchaseDate, err = ParseTime(purchaseStr); err != nil {
		return model.Investment{}, err
	}
	if inv.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.Investment{}, err
	}

	return inv, nil
}

// UpdateStatus moves an investment from an expected status to a new one.
// Returns ErrInvestmentNotPending when the row was not in the expected status,
// so concurrent confirmations fail cleanly.
func (s *InvestmentRepository) UpdateStatus(ctx context.Context, id, fromStatus, toStatus string) error {
	query := `UPDATE investment SET status = ? WHERE id = ? AND status = ?`

	result, err := s.db.ExecContext(ctx, query, toStatus, id, fromStatus)
	if err != nil {
		return fmt.Errorf("failed to update investment status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read investment update count: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrInvestmentNotPending
	}

	return nil
}

// DeleteInvestment removes an investment row. The referential guard against
// paid payouts is enforced by the service before this is called.
func (s *InvestmentRepository) DeleteInvestment(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM investment WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete investment: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read investment delete count: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrInvestmentNotFound
	}

	return nil
}

// SumConfirmedSharesByUser returns confirmed shares per user for a property as
// of the given date (purchase_date on or before asOf).
func (s *InvestmentRepository) SumConfirmedSharesByUser(ctx context.Context, propertyID string, asOf time.Time) (map[string]int64, error) {
	query := `
		SELECT user_id, SUM(shares)
		FROM investment
		WHERE property_id = ? AND status = 'CONFIRMED' AND purchase_date <= ?
		GROUP BY user_id
	`

	rows, err := s.db.QueryContext(ctx, query, propertyID, formatDate(asOf))
	if err != nil {
		return nil, fmt.Errorf("failed to query confirmed shares: %w", err)
	}
	defer rows.Close()

	sharesByUser := make(map[string]int64)
	for rows.Next() {
		var userID string
		var shares int64
		if err := rows.Scan(&userID, &shares); err != nil {
			return nil, fmt.Errorf("failed to scan confirmed shares: %w", err)
		}
		sharesByUser[userID] = shares
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating confirmed shares: %w", err)
	}

	return sharesByUser, nil
}

// SumConfirmedShares returns the total confirmed shares for a property as of
// the given date.
func (s *InvestmentRepository) SumConfirmedShares(ctx context.Context, propertyID string, asOf time.Time) (int64, error) {
	query := `
		SELECT COALESCE(SUM(shares), 0)
		FROM investment
		WHERE property_id = ? AND status = 'CONFIRMED' AND purchase_date <= ?
	`

	var total int64
	if err := s.db.QueryRowContext(ctx, query, propertyID, formatDate(asOf)).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum confirmed shares: %w", err)
	}

	return total, nil
}

// ListByProperty retrieves all investments for a property ordered by purchase date.
func (s *InvestmentRepository) ListByProperty(ctx context.Context, propertyID string) ([]model.Investment, error) {
	query := `
		SELECT id, property_id, user_id, shares, price_per_share_at_purchase, status, purchase_date, created_at
		FROM investment
		WHERE property_id = ?
		ORDER BY purchase_date ASC
	`

	rows, err := s.db.QueryContext(ctx, query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query investment table: %w", err)
	}
	defer rows.Close()

	investments := []model.Investment{}
	for rows.Next() {
		var inv model.Investment
		var priceStr, purchaseStr, createdAtStr string

		if err := rows.Scan(&inv.ID, &inv.PropertyID, &inv.UserID, &inv.Shares, &priceStr, &inv.Status, &purchaseStr, &createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan investment table results: %w", err)
		}
		if inv.PricePerShareAtPurchase, err = parseDecimal(priceStr); err != nil {
			return nil, err
		}
		if inv.PurchaseDate, err = ParseTime(purchaseStr); err != nil {
			return nil, err
		}
		if inv.CreatedAt, err = ParseTime(createdAtStr); err != nil {
			return nil, err
		}

		investments = append(investments, inv)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating investment table: %w", err)
	}

	return investments, nil
}
