package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/prorate"
)

// RentalStatement represents one property's rental performance for a reporting
// period (periodStart through periodEnd, inclusive dates).
//
// NetDistributable is always derived:
//
//	netDistributable = grossRevenue - operatingCosts - managementFee + incomeAdjustment
//
// It is recomputed on every create and edit; a client-supplied value is never trusted.
type RentalStatement struct {
	ID                 string
	PropertyID         string
	PeriodStart        time.Time
	PeriodEnd          time.Time
	GrossRevenue       decimal.Decimal
	OperatingCosts     decimal.Decimal
	ManagementFee      decimal.Decimal
	IncomeAdjustment   decimal.Decimal
	NetDistributable   decimal.Decimal
	OperatingCostItems []OperatingCostItem
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// OperatingCostItem is an itemized operating cost line. When the statement period
// spans calendar months the item is annotated with its original amount, the rounded
// per-month amount, and the computed monthly breakdown; otherwise the item passes
// through unchanged.
type OperatingCostItem struct {
	Description    string                  `json:"description"`
	Amount         decimal.Decimal         `json:"amount"`
	OriginalAmount *decimal.Decimal        `json:"originalAmount,omitempty"`
	MonthlyAmount  *decimal.Decimal        `json:"monthlyAmount,omitempty"`
	Breakdown      []prorate.MonthSegment  `json:"breakdown,omitempty"`
}

// ComputeNetDistributable derives the distributable income from the statement's
// current field values.
func (s RentalStatement) ComputeNetDistributable() decimal.Decimal {
	return s.GrossRevenue.
		Sub(s.OperatingCosts).
		Sub(s.ManagementFee).
		Add(s.IncomeAdjustment)
}

// StatementResponse is the API representation of a rental statement.
type StatementResponse struct {
	ID                 string              `json:"id"`
	PropertyID         string              `json:"propertyID"`
	PeriodStart        string              `json:"periodStart"`
	PeriodEnd          string              `json:"periodEnd"`
	GrossRevenue       float64             `json:"grossRevenue"`
	OperatingCosts     float64             `json:"operatingCosts"`
	ManagementFee      float64             `json:"managementFee"`
	IncomeAdjustment   float64             `json:"incomeAdjustment"`
	NetDistributable   float64             `json:"netDistributable"`
	OperatingCostItems []OperatingCostItem `json:"operatingCostItems,omitempty"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}

// ToResponse converts a statement to its API representation.
func (s RentalStatement) ToResponse() StatementResponse {
	return StatementResponse{
		ID:                 s.ID,
		PropertyID:         s.PropertyID,
		PeriodStart:        s.PeriodStart.Format("2006-01-02"),
		PeriodEnd:          s.PeriodEnd.Format("2006-01-02"),
		GrossRevenue:       s.GrossRevenue.InexactFloat64(),
		OperatingCosts:     s.OperatingCosts.InexactFloat64(),
		ManagementFee:      s.ManagementFee.InexactFloat64(),
		IncomeAdjustment:   s.IncomeAdjustment.InexactFloat64(),
		NetDistributable:   s.NetDistributable.InexactFloat64(),
		OperatingCostItems: s.OperatingCostItems,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}
