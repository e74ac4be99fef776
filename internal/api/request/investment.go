package request

// CreateInvestmentRequest is the payload for a share purchase. The price per
// share is fixed from the property at purchase time, never client-supplied.
type CreateInvestmentRequest struct {
	PropertyID   string `json:"propertyId"`
	UserID       string `json:"userId"`
	Shares       int64  `json:"shares"`
	PurchaseDate string `json:"purchaseDate,omitempty"` // YYYY-MM-DD, defaults to today
}

// DeleteInvestmentRequest carries the reason logged with an admin investment
// removal.
type DeleteInvestmentRequest struct {
	Reason string `json:"reason,omitempty"`
}
