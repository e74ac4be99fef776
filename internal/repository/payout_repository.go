package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/apperrors"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/model"
)

// PayoutRepository provides data access methods for the payout table and the
// investor-facing distribution views built over it.
type PayoutRepository struct {
	db DBTX
}

// NewPayoutRepository creates a new PayoutRepository with the provided database connection.
func NewPayoutRepository(db *sql.DB) *PayoutRepository {
	return &PayoutRepository{db: db}
}

// WithTx returns a copy of the repository scoped to the given transaction.
func (s *PayoutRepository) WithTx(tx *sql.Tx) *PayoutRepository {
	return &PayoutRepository{db: tx}
}

// ReplacePayouts deletes the existing payout set of a distribution and inserts
// the given one. Re-running allocation with unchanged inputs is therefore
// idempotent: the set is replaced, never appended to.
func (s *PayoutRepository) ReplacePayouts(ctx context.Context, distributionID string, payouts []model.Payout) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM payout WHERE distribution_id = ?`, distributionID); err != nil {
		return fmt.Errorf("failed to clear payouts: %w", err)
	}

	query := `
		INSERT INTO payout (id, distribution_id, holder_type, user_id, shares_at_record, amount, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	for i := range payouts {
		p := &payouts[i]
		var userID any
		if p.UserID != "" {
			userID = p.UserID
		}
		_, err := s.db.ExecContext(ctx, query,
			p.ID, p.DistributionID, p.HolderType, userID, p.SharesAtRecord, p.Amount.String(), p.Status)
		if err != nil {
			return fmt.Errorf("failed to insert payout: %w", err)
		}
	}

	return nil
}

// GetPayout retrieves a single payout by ID.
func (s *PayoutRepository) GetPayout(ctx context.Context, id string) (model.Payout, error) {
	row := s.db.QueryRowContext(ctx, payoutSelect+` WHERE id = ?`, id)
	return scanPayout(row.Scan)
}

// ListByDistribution retrieves all payouts of a distribution, investors first
// then the unsold inventory holder, in a stable order.
func (s *PayoutRepository) ListByDistribution(ctx context.Context, distributionID string) ([]model.Payout, error) {
	query := payoutSelect + `
		WHERE distribution_id = ?
		ORDER BY holder_type = 'UNSOLD_INVENTORY', user_id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, distributionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payout table: %w", err)
	}
	defer rows.Close()

	payouts := []model.Payout{}
	for rows.Next() {
		p, err := scanPayout(rows.Scan)
		if err != nil {
			return nil, err
		}
		payouts = append(payouts, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payout table: %w", err)
	}

	return payouts, nil
}

// MarkPaid flips a pending payout to PAID with payment details. Amount is only
// overwritten when the update supplies one. Returns ErrPayoutAlreadyPaid when
// the row was not pending.
func (s *PayoutRepository) MarkPaid(ctx context.Context, id string, amount *decimal.Decimal, paidAt time.Time, method, encryptedRef string) error {
	query := `
		UPDATE payout
		SET status = ?, amount = COALESCE(?, amount), paid_at = ?, payment_method = ?, payment_reference = ?
		WHERE id = ? AND status = ?
	`

	var amountArg any
	if amount != nil {
		amountArg = amount.String()
	}

	result, err := s.db.ExecContext(ctx, query,
		model.PayoutPaid, amountArg, formatTime(paidAt), method, encryptedRef,
		id, model.PayoutPending)
	if err != nil {
		return fmt.Errorf("failed to mark payout paid: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read payout update count: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrPayoutAlreadyPaid
	}

	return nil
}

// UpdateUnsoldInventory corrects the unsold inventory holder's shares at record
// and, while the distribution is still draft, its amount.
func (s *PayoutRepository) UpdateUnsoldInventory(ctx context.Context, distributionID string, shares int64, amount *decimal.Decimal) error {
	query := `
		UPDATE payout
		SET shares_at_record = ?, amount = COALESCE(?, amount)
		WHERE distribution_id = ? AND holder_type = ?
	`

	var amountArg any
	if amount != nil {
		amountArg = amount.String()
	}

	result, err := s.db.ExecContext(ctx, query, shares, amountArg, distributionID, model.HolderUnsoldInventory)
	if err != nil {
		return fmt.Errorf("failed to update unsold inventory payout: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read unsold inventory update count: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrPayoutNotFound
	}

	return nil
}

// CountPaid returns how many payouts of a distribution are already paid.
func (s *PayoutRepository) CountPaid(ctx context.Context, distributionID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM payout WHERE distribution_id = ? AND status = ?`,
		distributionID, model.PayoutPaid).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count paid payouts: %w", err)
	}
	return count, nil
}

// CountPaidForPropertyUser returns how many paid payouts exist for a user on a
// property, across declared distributions. Used as the referential guard before
// removing an investment.
func (s *PayoutRepository) CountPaidForPropertyUser(ctx context.Context, propertyID, userID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM payout p
		JOIN distribution d ON d.id = p.distribution_id
		WHERE d.property_id = ? AND p.user_id = ? AND p.status = ?
	`

	var count int
	if err := s.db.QueryRowContext(ctx, query, propertyID, userID, model.PayoutPaid).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count paid payouts for user: %w", err)
	}
	return count, nil
}

// GetUserMonthlyDistributions aggregates a user's payouts from declared
// distributions by declaration month.
func (s *PayoutRepository) GetUserMonthlyDistributions(ctx context.Context, userID string) ([]model.MonthlyDistribution, error) {
	query := `
		SELECT strftime('%Y-%m', d.declared_at), SUM(CAST(p.amount AS REAL)), COUNT(*)
		FROM payout p
		JOIN distribution d ON d.id = p.distribution_id
		WHERE p.user_id = ? AND d.status = 'DECLARED'
		GROUP BY strftime('%Y-%m', d.declared_at)
		ORDER BY strftime('%Y-%m', d.declared_at) ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly distributions: %w", err)
	}
	defer rows.Close()

	months := []model.MonthlyDistribution{}
	for rows.Next() {
		var m model.MonthlyDistribution
		if err := rows.Scan(&m.Month, &m.TotalAmount, &m.PayoutCount); err != nil {
			return nil, fmt.Errorf("failed to scan monthly distribution: %w", err)
		}
		months = append(months, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly distributions: %w", err)
	}

	return months, nil
}

// GetUserDistributionsByProperty lists a user's payouts from declared
// distributions of one property, newest declaration first.
func (s *PayoutRepository) GetUserDistributionsByProperty(ctx context.Context, userID, propertyID string) ([]model.UserPropertyDistribution, error) {
	query := `
		SELECT d.id, d.property_id, pr.name, rs.period_start, rs.period_end,
			d.declared_at, p.shares_at_record, CAST(p.amount AS REAL), p.status
		FROM payout p
		JOIN distribution d ON d.id = p.distribution_id
		JOIN rental_statement rs ON rs.id = d.rental_statement_id
		JOIN property pr ON pr.id = d.property_id
		WHERE p.user_id = ? AND d.property_id = ? AND d.status = 'DECLARED'
		ORDER BY d.declared_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user distributions: %w", err)
	}
	defer rows.Close()

	results := []model.UserPropertyDistribution{}
	for rows.Next() {
		var r model.UserPropertyDistribution
		if err := rows.Scan(&r.DistributionID, &r.PropertyID, &r.PropertyName,
			&r.PeriodStart, &r.PeriodEnd, &r.DeclaredAt, &r.SharesAtRecord, &r.Amount, &r.Status); err != nil {
			return nil, fmt.Errorf("failed to scan user distribution: %w", err)
		}
		results = append(results, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user distributions: %w", err)
	}

	return results, nil
}

const payoutSelect = `
	SELECT id, distribution_id, holder_type, user_id, shares_at_record, amount,
		status, paid_at, payment_method, payment_reference, created_at
	FROM payout`

func scanPayout(scan func(dest ...any) error) (model.Payout, error) {
	var p model.Payout
	var amountStr, createdAtStr string
	var userID, paidAt, method, reference sql.NullString

	err := scan(
		&p.ID, &p.DistributionID, &p.HolderType, &userID, &p.SharesAtRecord,
		&amountStr, &p.Status, &paidAt, &method, &reference, &createdAtStr)
	if err == sql.ErrNoRows {
		return model.Payout{}, apperrors.ErrPayoutNotFound
	}
	if err != nil {
		return model.Payout{}, fmt.Errorf("failed to scan payout row: %w", err)
	}

	p.UserID = userID.String
	p.PaymentMethod = method.String
	p.PaymentReference = reference.String
	if p.Amount, err = parseDecimal(amountStr); err != nil {
		return model.Payout{}, err
	}
	if p.PaidAt, err = parseNullTime(paidAt); err != nil {
		return model.Payout{}, err
	}
	if p.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.Payout{}, err
	}

	return p, nil
}
