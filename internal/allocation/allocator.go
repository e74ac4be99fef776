// Package allocation computes pro-rata payout amounts over a property's holders.
// All holders are treated uniformly, including the unsold inventory pseudo-holder,
// so every issued share participates in the split.
package allocation

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/apperrors"
)

// Holder kinds.
const (
	KindInvestor        = "INVESTOR"
	KindUnsoldInventory = "UNSOLD_INVENTORY"
)

// Holder identifies a payout recipient: either a real investor or the unsold
// inventory pool.
type Holder struct {
	Kind   string
	UserID string // empty for unsold inventory
}

// HolderShares is a holder with its shares at record.
type HolderShares struct {
	Holder
	Shares int64
}

// Line is one allocated payout line. Amount is the exact (unrounded) pro-rata
// share of the distributable income; callers round at the persistence boundary.
type Line struct {
	Holder
	Shares int64
	Amount decimal.Decimal
}

// Allocate splits netDistributable across the holders in proportion to their
// shares of totalShares (every issued share, sold or not).
//
// The holder shares must sum exactly to totalShares; a mismatch means the
// unsold inventory holder was derived from stale data and the caller must abort.
// Lines are ordered investors first (by user ID), unsold inventory last, so that
// re-running with unchanged inputs produces an identical sequence.
//
// Rounding leftovers are intentionally not reconciled against netDistributable;
// the divergence is bounded by one cent per holder and checked at declaration.
func Allocate(netDistributable decimal.Decimal, holders []HolderShares, totalShares int64) ([]Line, error) {
	if totalShares <= 0 {
		return nil, apperrors.ErrNegativeShares
	}

	var sum int64
	for _, h := range holders {
		if h.Shares < 0 {
			return nil, apperrors.ErrNegativeShares
		}
		sum += h.Shares
	}
	if sum != totalShares {
		return nil, apperrors.ErrShareCountMismatch
	}

	ordered := make([]HolderShares, len(holders))
	copy(ordered, holders)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Kind != ordered[j].Kind {
			return ordered[i].Kind != KindUnsoldInventory
		}
		return ordered[i].UserID < ordered[j].UserID
	})

	total := decimal.NewFromInt(totalShares)
	lines := make([]Line, 0, len(ordered))
	for _, h := range ordered {
		amount := decimal.NewFromInt(h.Shares).Div(total).Mul(netDistributable)
		lines = append(lines, Line{
			Holder: h.Holder,
			Shares: h.Shares,
			Amount: amount,
		})
	}

	return lines, nil
}

// RoundedSum returns the sum of all line amounts after per-line rounding to two
// decimal places, i.e. the figure that will actually be persisted.
func RoundedSum(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Amount.Round(2))
	}
	return sum
}

// WithinTolerance reports whether the rounded payout sum stays within the
// accepted bound of one cent per holder of the target total.
func WithinTolerance(lines []Line, target decimal.Decimal) bool {
	tolerance := decimal.New(1, -2).Mul(decimal.NewFromInt(int64(len(lines))))
	return RoundedSum(lines).Sub(target).Abs().LessThanOrEqual(tolerance)
}
