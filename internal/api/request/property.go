package request

// CreatePropertyRequest is the payload for issuing a new property.
// TotalShares is immutable once investments exist.
type CreatePropertyRequest struct {
	Name          string  `json:"name"`
	Address       string  `json:"address"`
	TotalShares   int64   `json:"totalShares"`
	PricePerShare float64 `json:"pricePerShare"`
}
