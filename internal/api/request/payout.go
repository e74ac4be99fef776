package request

// PayoutUpdateRequest is one validated row from the bulk payout status source.
// CSV parsing happens outside this service; by the time rows arrive here they
// are individual JSON objects.
type PayoutUpdateRequest struct {
	PayoutID         string   `json:"payoutId"`
	Status           string   `json:"status"`
	Amount           *float64 `json:"amount,omitempty"`
	PaidAt           string   `json:"paidAt,omitempty"` // YYYY-MM-DD, defaults to today
	PaymentMethod    string   `json:"paymentMethod,omitempty"`
	PaymentReference string   `json:"paymentReference,omitempty"`
}

// PayoutImportRequest is a batch of payout update rows applied row-atomically.
type PayoutImportRequest struct {
	Rows []PayoutUpdateRequest `json:"rows"`
}
