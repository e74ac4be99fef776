package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Property represents a fractionalized real-estate asset.
//
// TotalShares is immutable once investments exist. AvailableShares is a derived,
// cached quantity maintained for display only; the authoritative figure is always
// totalShares minus the sum of confirmed investment shares.
type Property struct {
	ID              string
	Name            string
	Address         string
	TotalShares     int64
	PricePerShare   decimal.Decimal
	AvailableShares int64
	CreatedAt       time.Time
}

// PropertyResponse is the API representation of a property.
// Monetary values are plain numbers; no decimal types leak out.
type PropertyResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Address         string    `json:"address"`
	TotalShares     int64     `json:"totalShares"`
	PricePerShare   float64   `json:"pricePerShare"`
	AvailableShares int64     `json:"availableShares"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ToResponse converts a property to its API representation.
func (p Property) ToResponse() PropertyResponse {
	return PropertyResponse{
		ID:              p.ID,
		Name:            p.Name,
		Address:         p.Address,
		TotalShares:     p.TotalShares,
		PricePerShare:   p.PricePerShare.InexactFloat64(),
		AvailableShares: p.AvailableShares,
		CreatedAt:       p.CreatedAt,
	}
}
