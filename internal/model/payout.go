package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payout statuses.
const (
	PayoutPending = "PENDING"
	PayoutPaid    = "PAID"
)

// Holder kinds. The unsold inventory holder is a payout-eligible pseudo-holder
// representing shares issued but not yet purchased, so that 100% of the
// distributable income is always allocated.
const (
	HolderInvestor        = "INVESTOR"
	HolderUnsoldInventory = "UNSOLD_INVENTORY"
)

// Payout is one holder's slice of a declared distribution.
//
// SharesAtRecord is a frozen snapshot of the holder's shares at the moment the
// distribution was computed. Amount is frozen once the distribution leaves DRAFT.
// PaymentReference is stored encrypted at rest.
type Payout struct {
	ID               string
	DistributionID   string
	HolderType       string
	UserID           string // empty for the unsold inventory holder
	SharesAtRecord   int64
	Amount           decimal.Decimal
	Status           string
	PaidAt           time.Time
	PaymentMethod    string
	PaymentReference string
	CreatedAt        time.Time
}

// PayoutResponse is the API representation of a payout.
type PayoutResponse struct {
	ID               string     `json:"id"`
	DistributionID   string     `json:"distributionID"`
	HolderType       string     `json:"holderType"`
	UserID           string     `json:"userID,omitempty"`
	SharesAtRecord   int64      `json:"sharesAtRecord"`
	Amount           float64    `json:"amount"`
	Status           string     `json:"status"`
	PaidAt           *time.Time `json:"paidAt,omitempty"`
	PaymentMethod    string     `json:"paymentMethod,omitempty"`
	PaymentReference string     `json:"paymentReference,omitempty"`
}

// ToResponse converts a payout to its API representation. The payment reference
// is expected to be decrypted by the service layer before conversion.
func (p Payout) ToResponse() PayoutResponse {
	resp := PayoutResponse{
		ID:               p.ID,
		DistributionID:   p.DistributionID,
		HolderType:       p.HolderType,
		UserID:           p.UserID,
		SharesAtRecord:   p.SharesAtRecord,
		Amount:           p.Amount.InexactFloat64(),
		Status:           p.Status,
		PaymentMethod:    p.PaymentMethod,
		PaymentReference: p.PaymentReference,
	}
	if !p.PaidAt.IsZero() {
		t := p.PaidAt
		resp.PaidAt = &t
	}
	return resp
}

// PayoutUpdate is one validated row from the bulk payout-status source
// (CSV parsing happens outside this service).
type PayoutUpdate struct {
	PayoutID         string
	Status           string
	Amount           *decimal.Decimal
	PaidAt           time.Time
	PaymentMethod    string
	PaymentReference string
}
