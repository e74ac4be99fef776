package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Distribution statuses. A distribution moves
// DRAFT -> PENDING_APPROVAL -> APPROVED -> DECLARED; a rejection returns it from
// PENDING_APPROVAL to DRAFT. "Paid" is an aggregate view over payouts (all payouts
// marked paid), not a stored status.
const (
	DistributionDraft           = "DRAFT"
	DistributionPendingApproval = "PENDING_APPROVAL"
	DistributionApproved        = "APPROVED"
	DistributionDeclared        = "DECLARED"
)

// Distribution carries a rental statement's distributable income through the
// approval workflow. One distribution per statement.
type Distribution struct {
	ID                string
	RentalStatementID string
	PropertyID        string
	Status            string
	TotalDistributed  decimal.Decimal
	ApprovedBy        string
	ApprovedAt        time.Time
	ApprovalNotes     string
	RejectionNotes    string
	DeclaredAt        time.Time
	CreatedAt         time.Time
}

// DistributionResponse is the API representation of a distribution, optionally
// including its payouts.
type DistributionResponse struct {
	ID                string           `json:"id"`
	RentalStatementID string           `json:"rentalStatementID"`
	PropertyID        string           `json:"propertyID"`
	Status            string           `json:"status"`
	TotalDistributed  float64          `json:"totalDistributed"`
	ApprovedBy        string           `json:"approvedBy,omitempty"`
	ApprovedAt        *time.Time       `json:"approvedAt,omitempty"`
	ApprovalNotes     string           `json:"approvalNotes,omitempty"`
	RejectionNotes    string           `json:"rejectionNotes,omitempty"`
	DeclaredAt        *time.Time       `json:"declaredAt,omitempty"`
	CreatedAt         time.Time        `json:"createdAt"`
	Payouts           []PayoutResponse `json:"payouts,omitempty"`
}

// ToResponse converts a distribution to its API representation.
func (d Distribution) ToResponse() DistributionResponse {
	resp := DistributionResponse{
		ID:                d.ID,
		RentalStatementID: d.RentalStatementID,
		PropertyID:        d.PropertyID,
		Status:            d.Status,
		TotalDistributed:  d.TotalDistributed.InexactFloat64(),
		ApprovedBy:        d.ApprovedBy,
		ApprovalNotes:     d.ApprovalNotes,
		RejectionNotes:    d.RejectionNotes,
		CreatedAt:         d.CreatedAt,
	}
	if !d.ApprovedAt.IsZero() {
		t := d.ApprovedAt
		resp.ApprovedAt = &t
	}
	if !d.DeclaredAt.IsZero() {
		t := d.DeclaredAt
		resp.DeclaredAt = &t
	}
	return resp
}
