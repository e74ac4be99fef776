package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/model"
)

// LedgerRepository provides data access methods for the append-only
// ledger_transaction table. Rows are immutable once written; the only removal
// path is the audited distribution delete cascade.
type LedgerRepository struct {
	db DBTX
}

// NewLedgerRepository creates a new LedgerRepository with the provided database connection.
func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// WithTx returns a copy of the repository scoped to the given transaction.
func (s *LedgerRepository) WithTx(tx *sql.Tx) *LedgerRepository {
	return &LedgerRepository{db: tx}
}

// InsertTransactions inserts a batch of ledger rows.
func (s *LedgerRepository) InsertTransactions(ctx context.Context, transactions []model.LedgerTransaction) error {
	query := `
		INSERT INTO ledger_transaction
			(id, type, amount, user_id, property_id, distribution_id, payout_id, investment_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	for i := range transactions {
		t := &transactions[i]
		_, err := s.db.ExecContext(ctx, query,
			t.ID, t.Type, t.Amount.String(), nullable(t.UserID), t.PropertyID,
			nullable(t.DistributionID), nullable(t.PayoutID), nullable(t.InvestmentID))
		if err != nil {
			return fmt.Errorf("failed to insert ledger transaction: %w", err)
		}
	}

	return nil
}

// DeleteByDistribution removes the ledger rows emitted for a distribution, as
// part of the audited distribution delete cascade.
func (s *LedgerRepository) DeleteByDistribution(ctx context.Context, distributionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM ledger_transaction WHERE distribution_id = ?`, distributionID)
	if err != nil {
		return fmt.Errorf("failed to delete ledger transactions: %w", err)
	}
	return nil
}

// ListByDistribution retrieves the ledger rows emitted for a distribution.
func (s *LedgerRepository) ListByDistribution(ctx context.Context, distributionID string) ([]model.LedgerTransaction, error) {
	return s.list(ctx, "distribution_id = ?", distributionID)
}

// ListByUser retrieves a user's ledger rows, oldest first.
func (s *LedgerRepository) ListByUser(ctx context.Context, userID string) ([]model.LedgerTransaction, error) {
	return s.list(ctx, "user_id = ?", userID)
}

func (s *LedgerRepository) list(ctx context.Context, where string, arg any) ([]model.LedgerTransaction, error) {
	query := `
		SELECT id, type, amount, user_id, property_id, distribution_id, payout_id, investment_id, created_at
		FROM ledger_transaction
		WHERE ` + where + `
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger_transaction table: %w", err)
	}
	defer rows.Close()

	transactions := []model.LedgerTransaction{}
	for rows.Next() {
		var t model.LedgerTransaction
		var amountStr, createdAtStr string
		var userID, distributionID, payoutID, investmentID sql.NullString

		if err := rows.Scan(&t.ID, &t.Type, &amountStr, &userID, &t.PropertyID,
			&distributionID, &payoutID, &investmentID, &createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan ledger_transaction row: %w", err)
		}

		t.UserID = userID.String
		t.DistributionID = distributionID.String
		t.PayoutID = payoutID.String
		t.InvestmentID = investmentID.String
		if t.Amount, err = parseDecimal(amountStr); err != nil {
			return nil, err
		}
		if t.CreatedAt, err = ParseTime(createdAtStr); err != nil {
			return nil, err
		}

		transactions = append(transactions, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger_transaction table: %w", err)
	}

	return transactions, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
