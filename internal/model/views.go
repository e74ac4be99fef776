package model

// MonthlyDistribution is one month's aggregated payout income for a user,
// across all properties. Months are keyed YYYY-MM on the declaration date.
type MonthlyDistribution struct {
	Month       string  `json:"month"`
	TotalAmount float64 `json:"totalAmount"`
	PayoutCount int     `json:"payoutCount"`
}

// UserPropertyDistribution is one declared distribution's payout for a user on
// a single property, as shown on the investor dashboard.
type UserPropertyDistribution struct {
	DistributionID string  `json:"distributionID"`
	PropertyID     string  `json:"propertyID"`
	PropertyName   string  `json:"propertyName"`
	PeriodStart    string  `json:"periodStart"`
	PeriodEnd      string  `json:"periodEnd"`
	DeclaredAt     string  `json:"declaredAt"`
	SharesAtRecord int64   `json:"sharesAtRecord"`
	Amount         float64 `json:"amount"`
	Status         string  `json:"status"`
}
