package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/model"
)

// UserBuilder provides a fluent interface for creating test users.
//
// Example usage:
//
//	// Simple creation with defaults
//	user := testutil.NewUser().Build(t, db)
//
//	// Customized user
//	user := testutil.NewUser().
//	    WithName("Alice").
//	    Admin().
//	    Build(t, db)
type UserBuilder struct {
	ID      string
	Email   string
	Name    string
	IsAdmin bool
}

// NewUser creates a UserBuilder with sensible defaults.
func NewUser() *UserBuilder {
	id := MakeID()
	return &UserBuilder{
		ID:      id,
		Email:   id + "@example.com",
		Name:    MakeName("Test Investor"),
		IsAdmin: false,
	}
}

// WithID sets a custom ID.
func (b *UserBuilder) WithID(id string) *UserBuilder {
	b.ID = id
	return b
}

// WithName sets a custom name.
func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.Name = name
	return b
}

// Admin marks the user as an admin.
func (b *UserBuilder) Admin() *UserBuilder {
	b.IsAdmin = true
	return b
}

// Build creates the user in the database and returns it.
func (b *UserBuilder) Build(t *testing.T, db *sql.DB) model.User {
	t.Helper()

	query := `
		INSERT INTO user (id, email, name, is_admin)
		VALUES (?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Email, b.Name, b.IsAdmin)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return model.User{
		ID:      b.ID,
		Email:   b.Email,
		Name:    b.Name,
		IsAdmin: b.IsAdmin,
	}
}

// PropertyBuilder provides a fluent interface for creating test properties.
type PropertyBuilder struct {
	ID            string
	Name          string
	Address       string
	TotalShares   int64
	PricePerShare decimal.Decimal
}

// NewProperty creates a PropertyBuilder with sensible defaults.
func NewProperty() *PropertyBuilder {
	return &PropertyBuilder{
		ID:            MakeID(),
		Name:          MakeName("Test Property"),
		Address:       "1 Test Street",
		TotalShares:   100000,
		PricePerShare: decimal.NewFromInt(10),
	}
}

// WithID sets a custom ID.
func (b *PropertyBuilder) WithID(id string) *PropertyBuilder {
	b.ID = id
	return b
}

// WithTotalShares sets the issued share count.
func (b *PropertyBuilder) WithTotalShares(shares int64) *PropertyBuilder {
	b.TotalShares = shares
	return b
}

// WithPricePerShare sets the share price.
func (b *PropertyBuilder) WithPricePerShare(price float64) *PropertyBuilder {
	b.PricePerShare = decimal.NewFromFloat(price)
	return b
}

// Build creates the property in the database and returns it.
func (b *PropertyBuilder) Build(t *testing.T, db *sql.DB) model.Property {
	t.Helper()

	query := `
		INSERT INTO property (id, name, address, total_shares, price_per_share, available_shares)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Name, b.Address, b.TotalShares, b.PricePerShare.String(), b.TotalShares)
	if err != nil {
		t.Fatalf("Failed to create test property: %v", err)
	}

	return model.Property{
		ID:              b.ID,
		Name:            b.Name,
		Address:         b.Address,
		TotalShares:     b.TotalShares,
		PricePerShare:   b.PricePerShare,
		AvailableShares: b.TotalShares,
	}
}

// InvestmentBuilder provides a fluent interface for creating test investments.
// Defaults to a confirmed purchase dated a year back so it counts toward
// outstanding shares in as-of-now resolutions.
type InvestmentBuilder struct {
	ID            string
	PropertyID    string
	UserID        string
	Shares        int64
	PricePerShare decimal.Decimal
	Status        string
	PurchaseDate  time.Time
}

// NewInvestment creates an InvestmentBuilder for the given property and user.
func NewInvestment(propertyID, userID string) *InvestmentBuilder {
	return &InvestmentBuilder{
		ID:            MakeID(),
		PropertyID:    propertyID,
		UserID:        userID,
		Shares:        1000,
		PricePerShare: decimal.NewFromInt(10),
		Status:        model.InvestmentConfirmed,
		PurchaseDate:  time.Now().UTC().AddDate(-1, 0, 0),
	}
}

// WithShares sets the purchased share count.
func (b *InvestmentBuilder) WithShares(shares int64) *InvestmentBuilder {
	b.Shares = shares
	return b
}

// WithStatus sets the investment status.
func (b *InvestmentBuilder) WithStatus(status string) *InvestmentBuilder {
	b.Status = status
	return b
}

// WithPurchaseDate sets the purchase date.
func (b *InvestmentBuilder) WithPurchaseDate(date time.Time) *InvestmentBuilder {
	b.PurchaseDate = date
	return b
}

// Pending marks the investment as pending.
func (b *InvestmentBuilder) Pending() *InvestmentBuilder {
	b.Status = model.InvestmentPending
	return b
}

// Build creates the investment in the database and returns it.
func (b *InvestmentBuilder) Build(t *testing.T, db *sql.DB) model.Investment {
	t.Helper()

	query := `
		INSERT INTO investment (id, property_id, user_id, shares, price_per_share_at_purchase, status, purchase_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.PropertyID, b.UserID, b.Shares,
		b.PricePerShare.String(), b.Status, b.PurchaseDate.Format("2006-01-02"))
	if err != nil {
		t.Fatalf("Failed to create test investment: %v", err)
	}

	return model.Investment{
		ID:                      b.ID,
		PropertyID:              b.PropertyID,
		UserID:                  b.UserID,
		Shares:                  b.Shares,
		PricePerShareAtPurchase: b.PricePerShare,
		Status:                  b.Status,
		PurchaseDate:            b.PurchaseDate,
	}
}

// StatementBuilder provides a fluent interface for creating test rental
// statements. netDistributable is derived from the other figures, matching
// production behavior.
type StatementBuilder struct {
	ID               string
	PropertyID       string
	PeriodStart      time.Time
	PeriodEnd        time.Time
	GrossRevenue     decimal.Decimal
	OperatingCosts   decimal.Decimal
	ManagementFee    decimal.Decimal
	IncomeAdjustment decimal.Decimal
}

// NewStatement creates a StatementBuilder for the given property covering one
// calendar month with a 7500.00 net.
func NewStatement(propertyID string) *StatementBuilder {
	return &StatementBuilder{
		ID:               MakeID(),
		PropertyID:       propertyID,
		PeriodStart:      time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:        time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		GrossRevenue:     decimal.NewFromInt(10000),
		OperatingCosts:   decimal.NewFromInt(1500),
		ManagementFee:    decimal.NewFromInt(1000),
		IncomeAdjustment: decimal.Zero,
	}
}

// WithPeriod sets the statement period.
func (b *StatementBuilder) WithPeriod(start, end time.Time) *StatementBuilder {
	b.PeriodStart = start
	b.PeriodEnd = end
	return b
}

// WithGrossRevenue sets the gross revenue.
func (b *StatementBuilder) WithGrossRevenue(amount float64) *StatementBuilder {
	b.GrossRevenue = decimal.NewFromFloat(amount)
	return b
}

// WithOperatingCosts sets the operating costs.
func (b *StatementBuilder) WithOperatingCosts(amount float64) *StatementBuilder {
	b.OperatingCosts = decimal.NewFromFloat(amount)
	return b
}

// Build creates the statement in the database and returns it.
func (b *StatementBuilder) Build(t *testing.T, db *sql.DB) model.RentalStatement {
	t.Helper()

	st := model.RentalStatement{
		ID:               b.ID,
		PropertyID:       b.PropertyID,
		PeriodStart:      b.PeriodStart,
		PeriodEnd:        b.PeriodEnd,
		GrossRevenue:     b.GrossRevenue,
		OperatingCosts:   b.OperatingCosts,
		ManagementFee:    b.ManagementFee,
		IncomeAdjustment: b.IncomeAdjustment,
	}
	st.NetDistributable = st.ComputeNetDistributable()

	query := `
		INSERT INTO rental_statement (id, property_id, period_start, period_end,
			gross_revenue, operating_costs, management_fee, income_adjustment, net_distributable)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, st.ID, st.PropertyID,
		st.PeriodStart.Format("2006-01-02"), st.PeriodEnd.Format("2006-01-02"),
		st.GrossRevenue.String(), st.OperatingCosts.String(),
		st.ManagementFee.String(), st.IncomeAdjustment.String(),
		st.NetDistributable.String())
	if err != nil {
		t.Fatalf("Failed to create test statement: %v", err)
	}

	return st
}

// DistributionBuilder provides a fluent interface for creating test
// distributions.
type DistributionBuilder struct {
	ID                string
	RentalStatementID string
	PropertyID        string
	Status            string
	TotalDistributed  decimal.Decimal
}

// NewDistribution creates a DistributionBuilder for the given statement.
func NewDistribution(statementID, propertyID string) *DistributionBuilder {
	return &DistributionBuilder{
		ID:                MakeID(),
		RentalStatementID: statementID,
		PropertyID:        propertyID,
		Status:            model.DistributionDraft,
		TotalDistributed:  decimal.NewFromInt(7500),
	}
}

// WithStatus sets the distribution status.
func (b *DistributionBuilder) WithStatus(status string) *DistributionBuilder {
	b.Status = status
	return b
}

// WithTotal sets the distribution total.
func (b *DistributionBuilder) WithTotal(total decimal.Decimal) *DistributionBuilder {
	b.TotalDistributed = total
	return b
}

// Build creates the distribution in the database and returns it.
func (b *DistributionBuilder) Build(t *testing.T, db *sql.DB) model.Distribution {
	t.Helper()

	query := `
		INSERT INTO distribution (id, rental_statement_id, property_id, status, total_distributed)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.RentalStatementID, b.PropertyID, b.Status, b.TotalDistributed.String())
	if err != nil {
		t.Fatalf("Failed to create test distribution: %v", err)
	}

	return model.Distribution{
		ID:                b.ID,
		RentalStatementID: b.RentalStatementID,
		PropertyID:        b.PropertyID,
		Status:            b.Status,
		TotalDistributed:  b.TotalDistributed,
	}
}

// PayoutBuilder provides a fluent interface for creating test payouts.
type PayoutBuilder struct {
	ID             string
	DistributionID string
	HolderType     string
	UserID         string
	SharesAtRecord int64
	Amount         decimal.Decimal
	Status         string
}

// NewPayout creates a PayoutBuilder for an investor payout on the given
// distribution.
func NewPayout(distributionID, userID string) *PayoutBuilder {
	return &PayoutBuilder{
		ID:             MakeID(),
		DistributionID: distributionID,
		HolderType:     model.HolderInvestor,
		UserID:         userID,
		SharesAtRecord: 1000,
		Amount:         decimal.NewFromInt(75),
		Status:         model.PayoutPending,
	}
}

// UnsoldInventory makes the payout the unsold inventory holder's row.
func (b *PayoutBuilder) UnsoldInventory() *PayoutBuilder {
	b.HolderType = model.HolderUnsoldInventory
	b.UserID = ""
	return b
}

// WithShares sets the frozen share snapshot.
func (b *PayoutBuilder) WithShares(shares int64) *PayoutBuilder {
	b.SharesAtRecord = shares
	return b
}

// WithAmount sets the payout amount.
func (b *PayoutBuilder) WithAmount(amount float64) *PayoutBuilder {
	b.Amount = decimal.NewFromFloat(amount)
	return b
}

// Paid marks the payout as already paid.
func (b *PayoutBuilder) Paid() *PayoutBuilder {
	b.Status = model.PayoutPaid
	return b
}

// Build creates the payout in the database and returns it.
func (b *PayoutBuilder) Build(t *testing.T, db *sql.DB) model.Payout {
	t.Helper()

	var userID any
	if b.UserID != "" {
		userID = b.UserID
	}

	query := `
		INSERT INTO payout (id, distribution_id, holder_type, user_id, shares_at_record, amount, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.DistributionID, b.HolderType, userID, b.SharesAtRecord, b.Amount.String(), b.Status)
	if err != nil {
		t.Fatalf("Failed to create test payout: %v", err)
	}

	return model.Payout{
		ID:             b.ID,
		DistributionID: b.DistributionID,
		HolderType:     b.HolderType,
		UserID:         b.UserID,
		SharesAtRecord: b.SharesAtRecord,
		Amount:         b.Amount,
		Status:         b.Status,
	}
}
