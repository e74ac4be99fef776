package request

// CostItemInput is one itemized operating cost line as submitted by the client.
type CostItemInput struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// CreateStatementRequest is the payload for creating a rental statement.
// Dates are YYYY-MM-DD, inclusive. A client-supplied netDistributable is
// deliberately absent: the service always derives it.
type CreateStatementRequest struct {
	PropertyID         string          `json:"propertyId"`
	PeriodStart        string          `json:"periodStart"`
	PeriodEnd          string          `json:"periodEnd"`
	GrossRevenue       float64         `json:"grossRevenue"`
	OperatingCosts     float64         `json:"operatingCosts"`
	ManagementFee      float64         `json:"managementFee"`
	IncomeAdjustment   float64         `json:"incomeAdjustment"`
	OperatingCostItems []CostItemInput `json:"operatingCostItems,omitempty"`
}

// UpdateStatementRequest is the payload for editing a rental statement.
// Only provided fields change; the service recomputes netDistributable and
// cascades into draft distributions.
type UpdateStatementRequest struct {
	PeriodStart        *string          `json:"periodStart,omitempty"`
	PeriodEnd          *string          `json:"periodEnd,omitempty"`
	GrossRevenue       *float64         `json:"grossRevenue,omitempty"`
	OperatingCosts     *float64         `json:"operatingCosts,omitempty"`
	ManagementFee      *float64         `json:"managementFee,omitempty"`
	IncomeAdjustment   *float64         `json:"incomeAdjustment,omitempty"`
	OperatingCostItems *[]CostItemInput `json:"operatingCostItems,omitempty"`
}
