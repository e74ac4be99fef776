package testutil

import (
	"database/sql"
	"math/rand"
	"testing"

	"github.com/google/uuid"

	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/repository"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/service"
)

func NewTestPropertyService(t *testing.T, db *sql.DB) *service.PropertyService {
	t.Helper()

	return service.NewPropertyService(repository.NewPropertyRepository(db))
}

func NewTestSharesService(t *testing.T, db *sql.DB) *service.SharesService {
	t.Helper()

	return service.NewSharesService(
		repository.NewPropertyRepository(db),
		repository.NewInvestmentRepository(db),
	)
}

func NewTestRecalculationService(t *testing.T, db *sql.DB) *service.RecalculationService {
	t.Helper()

	return service.NewRecalculationService(
		NewTestSharesService(t, db),
		repository.NewPayoutRepository(db),
	)
}

func NewTestStatementService(t *testing.T, db *sql.DB) *service.StatementService {
	t.Helper()

	return service.NewStatementService(
		db,
		repository.NewStatementRepository(db),
		repository.NewDistributionRepository(db),
		repository.NewPropertyRepository(db),
		NewTestRecalculationService(t, db),
	)
}

// NewTestDistributionService wires a DistributionService over the test
// database with the log notifier and no payment reference encryption.
func NewTestDistributionService(t *testing.T, db *sql.DB) *service.DistributionService {
	t.Helper()

	return NewTestDistributionServiceWithNotifier(t, db, service.LogNotifier{})
}

// NewTestDistributionServiceWithNotifier is NewTestDistributionService with a
// custom notifier, for asserting on emitted notifications.
func NewTestDistributionServiceWithNotifier(t *testing.T, db *sql.DB, notifier service.Notifier) *service.DistributionService {
	t.Helper()

	return service.NewDistributionService(
		db,
		repository.NewDistributionRepository(db),
		repository.NewPayoutRepository(db),
		repository.NewStatementRepository(db),
		repository.NewPropertyRepository(db),
		repository.NewInvestmentRepository(db),
		repository.NewLedgerRepository(db),
		repository.NewAuditRepository(db),
		NewTestRecalculationService(t, db),
		notifier,
		nil,
	)
}

func NewTestInvestmentService(t *testing.T, db *sql.DB) *service.InvestmentService {
	t.Helper()

	return service.NewInvestmentService(
		db,
		repository.NewInvestmentRepository(db),
		repository.NewPropertyRepository(db),
		repository.NewUserRepository(db),
		repository.NewPayoutRepository(db),
		repository.NewLedgerRepository(db),
		repository.NewAuditRepository(db),
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeName generates a unique display name for testing.
//
// Example usage:
//
//	name := testutil.MakeName("Harbor View")
//	// Returns: "Harbor View ABC123"
func MakeName(base string) string {
	if base == "" {
		base = "Test"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
