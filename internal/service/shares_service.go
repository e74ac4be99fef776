package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/allocation"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/model"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/repository"
)

// OutstandingShares is the point-in-time share picture of a property.
// PerHolder maps user IDs to confirmed shares; UnsoldShares is what the
// unsold-inventory pseudo-holder carries. The three figures always satisfy
// TotalOutstanding + UnsoldShares == TotalShares.
type OutstandingShares struct {
	TotalShares      int64
	TotalOutstanding int64
	UnsoldShares     int64
	PerHolder        map[string]int64
}

// SharesService resolves the shares eligible to receive a distribution.
//
// It always recomputes from confirmed investment rows; the property table's
// cached available_shares column is display-only and is never consulted here,
// so cache drift can never skew an allocation.
type SharesService struct {
	propertyRepo   *repository.PropertyRepository
	investmentRepo *repository.InvestmentRepository
}

// NewSharesService creates a new SharesService with the provided repository dependencies.
func NewSharesService(
	propertyRepo *repository.PropertyRepository,
	investmentRepo *repository.InvestmentRepository,
) *SharesService {
	return &SharesService{
		propertyRepo:   propertyRepo,
		investmentRepo: investmentRepo,
	}
}

// WithTx returns a copy of the service whose repositories are scoped to the
// given transaction, so share reads happen in the same unit of work as the
// writes that depend on them.
func (s *SharesService) WithTx(tx *sql.Tx) *SharesService {
	return &SharesService{
		propertyRepo:   s.propertyRepo.WithTx(tx),
		investmentRepo: s.investmentRepo.WithTx(tx),
	}
}

// ResolveOutstandingShares computes the shares outstanding for a property as of
// the given time (zero means now), grouped by holder, plus the unsold
// inventory remainder.
func (s *SharesService) ResolveOutstandingShares(ctx context.Context, propertyID string, asOf time.Time) (OutstandingShares, error) {
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	property, err := s.propertyRepo.GetProperty(ctx, propertyID)
	if err != nil {
		return OutstandingShares{}, err
	}

	perHolder, err := s.investmentRepo.SumConfirmedSharesByUser(ctx, propertyID, asOf)
	if err != nil {
		return OutstandingShares{}, err
	}

	var outstanding int64
	for _, shares := range perHolder {
		outstanding += shares
	}

	return OutstandingShares{
		TotalShares:      property.TotalShares,
		TotalOutstanding: outstanding,
		UnsoldShares:     property.TotalShares - outstanding,
		PerHolder:        perHolder,
	}, nil
}

// Holders converts the share picture into allocator input: one entry per
// investor plus the unsold inventory pseudo-holder, so every issued share
// participates in the pro-rata split.
func (o OutstandingShares) Holders() []allocation.HolderShares {
	holders := make([]allocation.HolderShares, 0, len(o.PerHolder)+1)
	for userID, shares := range o.PerHolder {
		holders = append(holders, allocation.HolderShares{
			Holder: allocation.Holder{Kind: model.HolderInvestor, UserID: userID},
			Shares: shares,
		})
	}
	holders = append(holders, allocation.HolderShares{
		Holder: allocation.Holder{Kind: model.HolderUnsoldInventory},
		Shares: o.UnsoldShares,
	})
	return holders
}
