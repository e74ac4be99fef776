package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/allocation"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/model"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/repository"
)

// RecalculationService re-derives payout sets for draft distributions. It is the
// single seam through which both the statement edit cascade and the explicit
// distribution actions run the allocator, so a revised statement and a freshly
// created distribution produce payouts identically.
//
// Callers are expected to run it inside their transaction via WithTx; share
// reads and payout writes then share one unit of work.
type RecalculationService struct {
	sharesService *SharesService
	payoutRepo    *repository.PayoutRepository
}

// NewRecalculationService creates a new RecalculationService with the provided dependencies.
func NewRecalculationService(
	sharesService *SharesService,
	payoutRepo *repository.PayoutRepository,
) *RecalculationService {
	return &RecalculationService{
		sharesService: sharesService,
		payoutRepo:    payoutRepo,
	}
}

// WithTx returns a copy of the service scoped to the given transaction.
func (s *RecalculationService) WithTx(tx *sql.Tx) *RecalculationService {
	return &RecalculationService{
		sharesService: s.sharesService.WithTx(tx),
		payoutRepo:    s.payoutRepo.WithTx(tx),
	}
}

// ReallocateDraft resolves the property's current share picture, runs the
// pro-rata allocator over netDistributable and replaces the distribution's
// payout set. Amounts are rounded to two decimals (half-up) only here, at the
// persistence boundary. Replacing rather than appending makes re-runs
// idempotent.
func (s *RecalculationService) ReallocateDraft(ctx context.Context, dist model.Distribution, netDistributable decimal.Decimal) ([]model.Payout, error) {
	shares, err := s.sharesService.ResolveOutstandingShares(ctx, dist.PropertyID, time.Time{})
	if err != nil {
		return nil, err
	}

	lines, err := allocation.Allocate(netDistributable, shares.Holders(), shares.TotalShares)
	if err != nil {
		return nil, err
	}

	payouts := make([]model.Payout, 0, len(lines))
	for _, line := range lines {
		payouts = append(payouts, model.Payout{
			ID:             uuid.New().String(),
			DistributionID: dist.ID,
			HolderType:     line.Kind,
			UserID:         line.UserID,
			SharesAtRecord: line.Shares,
			Amount:         line.Amount.Round(2),
			Status:         model.PayoutPending,
		})
	}

	if err := s.payoutRepo.ReplacePayouts(ctx, dist.ID, payouts); err != nil {
		return nil, err
	}

	return payouts, nil
}

// UnsoldInventoryAmount applies the allocator formula to the unsold inventory
// holder alone, for the targeted share correction on a draft distribution.
func UnsoldInventoryAmount(netDistributable decimal.Decimal, unsoldShares, totalShares int64) decimal.Decimal {
	return decimal.NewFromInt(unsoldShares).
		Div(decimal.NewFromInt(totalShares)).
		Mul(netDistributable).
		Round(2)
}
