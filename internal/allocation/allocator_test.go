package allocation_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/allocation"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/apperrors"
)

// TestAllocate tests the pro-rata split.
//
// WHY: Allocation is the financial core of the engine. Every issued share,
// sold or not, must receive its exact proportional slice, and the line order
// must be stable so re-runs produce identical payout sets.
func TestAllocate(t *testing.T) {
	t.Run("splits proportionally including unsold inventory", func(t *testing.T) {
		// 100000 issued shares, 80000 confirmed, 7500.00 to distribute.
		holders := []allocation.HolderShares{
			{Holder: allocation.Holder{Kind: allocation.KindUnsoldInventory}, Shares: 20000},
			{Holder: allocation.Holder{Kind: allocation.KindInvestor, UserID: "user-b"}, Shares: 75000},
			{Holder: allocation.Holder{Kind: allocation.KindInvestor, UserID: "user-a"}, Shares: 5000},
		}

		lines, err := allocation.Allocate(decimal.NewFromInt(7500), holders, 100000)
		if err != nil {
			t.Fatalf("Allocate() returned unexpected error: %v", err)
		}

		if len(lines) != 3 {
			t.Fatalf("Expected 3 lines, got %d", len(lines))
		}

		// Investors first by user ID, unsold inventory last.
		if lines[0].UserID != "user-a" || lines[1].UserID != "user-b" {
			t.Errorf("Expected investors ordered by user ID, got %s then %s", lines[0].UserID, lines[1].UserID)
		}
		if lines[2].Kind != allocation.KindUnsoldInventory {
			t.Errorf("Expected unsold inventory last, got %s", lines[2].Kind)
		}

		// 5000/100000 * 7500 = 375.00
		if !lines[0].Amount.Round(2).Equal(decimal.NewFromFloat(375.00)) {
			t.Errorf("Expected user-a amount 375.00, got %s", lines[0].Amount.Round(2))
		}
		// 75000/100000 * 7500 = 5625.00
		if !lines[1].Amount.Round(2).Equal(decimal.NewFromFloat(5625.00)) {
			t.Errorf("Expected user-b amount 5625.00, got %s", lines[1].Amount.Round(2))
		}
		// 20000/100000 * 7500 = 1500.00
		if !lines[2].Amount.Round(2).Equal(decimal.NewFromFloat(1500.00)) {
			t.Errorf("Expected unsold inventory amount 1500.00, got %s", lines[2].Amount.Round(2))
		}
	})

	t.Run("re-running with unchanged inputs yields identical lines", func(t *testing.T) {
		holders := []allocation.HolderShares{
			{Holder: allocation.Holder{Kind: allocation.KindInvestor, UserID: "user-c"}, Shares: 300},
			{Holder: allocation.Holder{Kind: allocation.KindInvestor, UserID: "user-a"}, Shares: 500},
			{Holder: allocation.Holder{Kind: allocation.KindUnsoldInventory}, Shares: 200},
		}

		first, err := allocation.Allocate(decimal.NewFromInt(1000), holders, 1000)
		if err != nil {
			t.Fatalf("Allocate() returned unexpected error: %v", err)
		}
		second, err := allocation.Allocate(decimal.NewFromInt(1000), holders, 1000)
		if err != nil {
			t.Fatalf("Allocate() returned unexpected error: %v", err)
		}

		for i := range first {
			if first[i].UserID != second[i].UserID || !first[i].Amount.Equal(second[i].Amount) {
				t.Errorf("Line %d differs between runs: %+v vs %+v", i, first[i], second[i])
			}
		}
	})

	t.Run("rejects holder shares that do not sum to total", func(t *testing.T) {
		holders := []allocation.HolderShares{
			{Holder: allocation.Holder{Kind: allocation.KindInvestor, UserID: "user-a"}, Shares: 500},
			{Holder: allocation.Holder{Kind: allocation.KindUnsoldInventory}, Shares: 400},
		}

		_, err := allocation.Allocate(decimal.NewFromInt(1000), holders, 1000)
		if !errors.Is(err, apperrors.ErrShareCountMismatch) {
			t.Errorf("Expected ErrShareCountMismatch, got %v", err)
		}
	})

	t.Run("rejects negative holder shares", func(t *testing.T) {
		holders := []allocation.HolderShares{
			{Holder: allocation.Holder{Kind: allocation.KindInvestor, UserID: "user-a"}, Shares: -100},
			{Holder: allocation.Holder{Kind: allocation.KindUnsoldInventory}, Shares: 1100},
		}

		_, err := allocation.Allocate(decimal.NewFromInt(1000), holders, 1000)
		if !errors.Is(err, apperrors.ErrNegativeShares) {
			t.Errorf("Expected ErrNegativeShares, got %v", err)
		}
	})

	t.Run("rejects non-positive total shares", func(t *testing.T) {
		_, err := allocation.Allocate(decimal.NewFromInt(1000), nil, 0)
		if !errors.Is(err, apperrors.ErrNegativeShares) {
			t.Errorf("Expected ErrNegativeShares, got %v", err)
		}
	})

	t.Run("zero net distributable allocates zero everywhere", func(t *testing.T) {
		holders := []allocation.HolderShares{
			{Holder: allocation.Holder{Kind: allocation.KindInvestor, UserID: "user-a"}, Shares: 600},
			{Holder: allocation.Holder{Kind: allocation.KindUnsoldInventory}, Shares: 400},
		}

		lines, err := allocation.Allocate(decimal.Zero, holders, 1000)
		if err != nil {
			t.Fatalf("Allocate() returned unexpected error: %v", err)
		}
		for _, l := range lines {
			if !l.Amount.IsZero() {
				t.Errorf("Expected zero amount for %s, got %s", l.UserID, l.Amount)
			}
		}
	})
}

// TestWithinTolerance tests the rounding divergence bound.
//
// WHY: Per-line rounding can drift from the distribution total by at most one
// cent per holder; the declare step relies on this check to abort anything
// worse.
func TestWithinTolerance(t *testing.T) {
	t.Run("accepts rounding drift within one cent per holder", func(t *testing.T) {
		// Three equal holders of 100.00: each line is 33.333..., rounding to
		// 33.33 leaves a 0.01 shortfall against the total.
		holders := []allocation.HolderShares{
			{Holder: allocation.Holder{Kind: allocation.KindInvestor, UserID: "user-a"}, Shares: 1},
			{Holder: allocation.Holder{Kind: allocation.KindInvestor, UserID: "user-b"}, Shares: 1},
			{Holder: allocation.Holder{Kind: allocation.KindInvestor, UserID: "user-c"}, Shares: 1},
		}

		lines, err := allocation.Allocate(decimal.NewFromInt(100), holders, 3)
		if err != nil {
			t.Fatalf("Allocate() returned unexpected error: %v", err)
		}

		if !allocation.WithinTolerance(lines, decimal.NewFromInt(100)) {
			t.Errorf("Expected rounded sum %s to be within tolerance of 100", allocation.RoundedSum(lines))
		}
	})

	t.Run("rejects divergence beyond the bound", func(t *testing.T) {
		lines := []allocation.Line{
			{Holder: allocation.Holder{Kind: allocation.KindInvestor, UserID: "user-a"}, Shares: 1, Amount: decimal.NewFromInt(50)},
		}

		if allocation.WithinTolerance(lines, decimal.NewFromInt(100)) {
			t.Error("Expected a 50.00 divergence to exceed tolerance")
		}
	})
}
