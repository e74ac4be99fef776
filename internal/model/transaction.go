package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ledger transaction types. Amount and type are immutable once written; removal
// only happens as part of an audited distribution delete.
const (
	TransactionInvestment = "INVESTMENT"
	TransactionPayout     = "PAYOUT"
)

// LedgerTransaction is an append-only, investor-visible ledger record. One is
// written per payout when a distribution is declared, and one per confirmed
// share purchase.
type LedgerTransaction struct {
	ID             string
	Type           string
	Amount         decimal.Decimal
	UserID         string // empty for the unsold inventory payout row
	PropertyID     string
	DistributionID string
	PayoutID       string
	InvestmentID   string
	CreatedAt      time.Time
}

// LedgerTransactionResponse is the API representation of a ledger transaction.
type LedgerTransactionResponse struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	Amount         float64   `json:"amount"`
	UserID         string    `json:"userID,omitempty"`
	PropertyID     string    `json:"propertyID"`
	DistributionID string    `json:"distributionID,omitempty"`
	PayoutID       string    `json:"payoutID,omitempty"`
	InvestmentID   string    `json:"investmentID,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ToResponse converts a ledger transaction to its API representation.
func (t LedgerTransaction) ToResponse() LedgerTransactionResponse {
	return LedgerTransactionResponse{
		ID:             t.ID,
		Type:           t.Type,
		Amount:         t.Amount.InexactFloat64(),
		UserID:         t.UserID,
		PropertyID:     t.PropertyID,
		DistributionID: t.DistributionID,
		PayoutID:       t.PayoutID,
		InvestmentID:   t.InvestmentID,
		CreatedAt:      t.CreatedAt,
	}
}
