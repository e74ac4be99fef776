package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Investment statuses. Only confirmed investments count toward outstanding shares.
const (
	InvestmentPending   = "PENDING"
	InvestmentConfirmed = "CONFIRMED"
	InvestmentCancelled = "CANCELLED"
)

// Investment represents an investor's purchase of shares in a property at a
// price fixed at purchase time.
type Investment struct {
	ID                     string
	PropertyID             string
	UserID                 string
	Shares                 int64
	PricePerShareAtPurchase decimal.Decimal
	Status                 string
	PurchaseDate           time.Time
	CreatedAt              time.Time
}

// InvestmentResponse is the API representation of an investment.
type InvestmentResponse struct {
	ID                      string    `json:"id"`
	PropertyID              string    `json:"propertyID"`
	UserID                  string    `json:"userID"`
	Shares                  int64     `json:"shares"`
	PricePerShareAtPurchase float64   `json:"pricePerShareAtPurchase"`
	Status                  string    `json:"status"`
	PurchaseDate            time.Time `json:"purchaseDate"`
	CreatedAt               time.Time `json:"createdAt"`
}

// ToResponse converts an investment to its API representation.
func (i Investment) ToResponse() InvestmentResponse {
	return InvestmentResponse{
		ID:                      i.ID,
		PropertyID:              i.PropertyID,
		UserID:                  i.UserID,
		Shares:                  i.Shares,
		PricePerShareAtPurchase: i.PricePerShareAtPurchase.InexactFloat64(),
		Status:                  i.Status,
		PurchaseDate:            i.PurchaseDate,
		CreatedAt:               i.CreatedAt,
	}
}
