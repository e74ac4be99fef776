package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/apperrors"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/model"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/repository"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/service"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/testutil"
)

// recordingNotifier captures emitted notifications for assertions. Safe for
// concurrent use; the declared fan-out runs one goroutine per investor payout.
type recordingNotifier struct {
	mu       sync.Mutex
	pending  []string
	declared map[string]float64
	paid     []string
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{declared: make(map[string]float64)}
}

func (n *recordingNotifier) DistributionPendingApproval(_ context.Context, distributionID string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pending = append(n.pending, distributionID)
	return nil
}

func (n *recordingNotifier) DistributionDeclared(_ context.Context, _ string, userID string, amount float64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.declared[userID] = amount
	return nil
}

func (n *recordingNotifier) PayoutPaid(_ context.Context, payoutID, _ string, _ float64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paid = append(n.paid, payoutID)
	return nil
}

// TestDistributionService_CreateDistribution tests draft creation.
//
// WHY: Creation snapshots the share picture into payouts; the snapshot must
// cover every issued share and a statement can only ever have one distribution.
func TestDistributionService_CreateDistribution(t *testing.T) {
	t.Run("allocates payouts for investors and unsold inventory", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDistributionService(t, db)
		property := testutil.NewProperty().WithTotalShares(100000).Build(t, db)
		userA := testutil.NewUser().Build(t, db)
		userB := testutil.NewUser().Build(t, db)
		testutil.NewInvestment(property.ID, userA.ID).WithShares(5000).Build(t, db)
		testutil.NewInvestment(property.ID, userB.ID).WithShares(75000).Build(t, db)
		statement := testutil.NewStatement(property.ID).Build(t, db)

		dist, payouts, err := svc.CreateDistribution(context.Background(), statement.ID, "admin-1")
		if err != nil {
			t.Fatalf("CreateDistribution() returned unexpected error: %v", err)
		}

		if dist.Status != model.DistributionDraft {
			t.Errorf("Expected status DRAFT, got %s", dist.Status)
		}
		if got := dist.TotalDistributed.InexactFloat64(); got != 7500 {
			t.Errorf("Expected total 7500, got %v", got)
		}
		if len(payouts) != 3 {
			t.Fatalf("Expected 3 payouts, got %d", len(payouts))
		}

		byHolder := make(map[string]model.Payout)
		for _, p := range payouts {
			key := p.UserID
			if p.HolderType == model.HolderUnsoldInventory {
				key = "unsold"
			}
			byHolder[key] = p
		}

		if got := byHolder[userA.ID].Amount.InexactFloat64(); got != 375 {
			t.Errorf("Expected 375.00 for 5000 shares, got %v", got)
		}
		if got := byHolder[userB.ID].Amount.InexactFloat64(); got != 5625 {
			t.Errorf("Expected 5625.00 for 75000 shares, got %v", got)
		}
		unsold := byHolder["unsold"]
		if got := unsold.Amount.InexactFloat64(); got != 1500 {
			t.Errorf("Expected 1500.00 for unsold inventory, got %v", got)
		}
		if unsold.SharesAtRecord != 20000 {
			t.Errorf("Expected unsold inventory to hold 20000 shares, got %d", unsold.SharesAtRecord)
		}
	})

	t.Run("pending investments do not participate", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDistributionService(t, db)
		property := testutil.NewProperty().WithTotalShares(1000).Build(t, db)
		user := testutil.NewUser().Build(t, db)
		testutil.NewInvestment(property.ID, user.ID).WithShares(400).Pending().Build(t, db)
		statement := testutil.NewStatement(property.ID).Build(t, db)

		_, payouts, err := svc.CreateDistribution(context.Background(), statement.ID, "admin-1")
		if err != nil {
			t.Fatalf("CreateDistribution() returned unexpected error: %v", err)
		}

		if len(payouts) != 1 {
			t.Fatalf("Expected only the unsold inventory payout, got %d payouts", len(payouts))
		}
		if payouts[0].HolderType != model.HolderUnsoldInventory || payouts[0].SharesAtRecord != 1000 {
			t.Errorf("Expected unsold inventory with all 1000 shares, got %+v", payouts[0])
		}
	})

	t.Run("refuses a second distribution for the same statement", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDistributionService(t, db)
		property := testutil.NewProperty().Build(t, db)
		statement := testutil.NewStatement(property.ID).Build(t, db)

		if _, _, err := svc.CreateDistribution(context.Background(), statement.ID, "admin-1"); err != nil {
			t.Fatalf("CreateDistribution() returned unexpected error: %v", err)
		}

		_, _, err := svc.CreateDistribution(context.Background(), statement.ID, "admin-1")
		if !errors.Is(err, apperrors.ErrDuplicateDistribution) {
			t.Errorf("Expected ErrDuplicateDistribution, got %v", err)
		}
	})
}

// TestDistributionService_Lifecycle tests the approval state machine.
//
// WHY: Money only moves through DRAFT -> PENDING_APPROVAL -> APPROVED ->
// DECLARED. Skipped steps must fail, rejection must loop back to DRAFT, and
// every transition failure must leave the row untouched.
func TestDistributionService_Lifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("walks the full happy path", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		notifier := newRecordingNotifier()
		svc := testutil.NewTestDistributionServiceWithNotifier(t, db, notifier)
		property := testutil.NewProperty().WithTotalShares(1000).Build(t, db)
		user := testutil.NewUser().Build(t, db)
		testutil.NewInvestment(property.ID, user.ID).WithShares(600).Build(t, db)
		statement := testutil.NewStatement(property.ID).Build(t, db)

		dist, _, err := svc.CreateDistribution(ctx, statement.ID, "admin-1")
		if err != nil {
			t.Fatalf("CreateDistribution() returned unexpected error: %v", err)
		}

		if err := svc.Submit(ctx, dist.ID, "admin-1"); err != nil {
			t.Fatalf("Submit() returned unexpected error: %v", err)
		}
		if len(notifier.pending) != 1 {
			t.Errorf("Expected 1 pending-approval notification, got %d", len(notifier.pending))
		}

		if err := svc.Approve(ctx, dist.ID, "admin-2", "checked against the statement"); err != nil {
			t.Fatalf("Approve() returned unexpected error: %v", err)
		}

		if err := svc.Declare(ctx, dist.ID, "admin-2"); err != nil {
			t.Fatalf("Declare() returned unexpected error: %v", err)
		}

		refreshed, err := repository.NewDistributionRepository(db).GetDistribution(ctx, dist.ID)
		if err != nil {
			t.Fatalf("GetDistribution() returned unexpected error: %v", err)
		}
		if refreshed.Status != model.DistributionDeclared {
			t.Errorf("Expected status DECLARED, got %s", refreshed.Status)
		}
		if refreshed.ApprovedBy != "admin-2" {
			t.Errorf("Expected approver admin-2, got %s", refreshed.ApprovedBy)
		}
		if refreshed.DeclaredAt.IsZero() {
			t.Error("Expected declaredAt to be set")
		}

		// One notification per investor payout; the unsold inventory row is skipped.
		if len(notifier.declared) != 1 {
			t.Errorf("Expected 1 declared notification, got %d", len(notifier.declared))
		}
		if got := notifier.declared[user.ID]; got != 4500 {
			t.Errorf("Expected declared amount 4500 for the investor, got %v", got)
		}
	})

	t.Run("refuses to approve a draft", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDistributionService(t, db)
		property := testutil.NewProperty().Build(t, db)
		statement := testutil.NewStatement(property.ID).Build(t, db)
		dist := testutil.NewDistribution(statement.ID, property.ID).Build(t, db)

		err := svc.Approve(context.Background(), dist.ID, "admin-1", "")
		if !errors.Is(err, apperrors.ErrInvalidTransition) {
			t.Errorf("Expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("refuses to declare an unapproved distribution", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDistributionService(t, db)
		property := testutil.NewProperty().Build(t, db)
		user := testutil.NewUser().Build(t, db)
		statement := testutil.NewStatement(property.ID).Build(t, db)
		dist := testutil.NewDistribution(statement.ID, property.ID).
			WithStatus(model.DistributionPendingApproval).
			Build(t, db)
		testutil.NewPayout(dist.ID, user.ID).WithAmount(7500).Build(t, db)

		err := svc.Declare(context.Background(), dist.ID, "admin-1")
		if !errors.Is(err, apperrors.ErrInvalidTransition) {
			t.Errorf("Expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("rejection returns the distribution to draft", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDistributionService(t, db)
		property := testutil.NewProperty().Build(t, db)
		statement := testutil.NewStatement(property.ID).Build(t, db)
		dist := testutil.NewDistribution(statement.ID, property.ID).
			WithStatus(model.DistributionPendingApproval).
			Build(t, db)

		if err := svc.Reject(context.Background(), dist.ID, "admin-2", "figures look off"); err != nil {
			t.Fatalf("Reject() returned unexpected error: %v", err)
		}

		refreshed, err := repository.NewDistributionRepository(db).GetDistribution(context.Background(), dist.ID)
		if err != nil {
			t.Fatalf("GetDistribution() returned unexpected error: %v", err)
		}
		if refreshed.Status != model.DistributionDraft {
			t.Errorf("Expected status DRAFT after rejection, got %s", refreshed.Status)
		}
		if refreshed.RejectionNotes != "figures look off" {
			t.Errorf("Expected rejection notes to be recorded, got %q", refreshed.RejectionNotes)
		}
	})

	t.Run("transition on a missing distribution reports not found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDistributionService(t, db)

		err := svc.Submit(context.Background(), testutil.MakeID(), "admin-1")
		if !errors.Is(err, apperrors.ErrDistributionNotFound) {
			t.Errorf("Expected ErrDistributionNotFound, got %v", err)
		}
	})
}

// TestDistributionService_Declare tests the declaration cascade.
//
// WHY: Declaring freezes the total and emits exactly one ledger transaction
// per payout, all-or-nothing. A second declare must not double-book.
func TestDistributionService_Declare(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*service.DistributionService, *repository.LedgerRepository, string) {
		t.Helper()
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDistributionService(t, db)
		property := testutil.NewProperty().WithTotalShares(100000).Build(t, db)
		userA := testutil.NewUser().Build(t, db)
		userB := testutil.NewUser().Build(t, db)
		testutil.NewInvestment(property.ID, userA.ID).WithShares(5000).Build(t, db)
		testutil.NewInvestment(property.ID, userB.ID).WithShares(75000).Build(t, db)
		statement := testutil.NewStatement(property.ID).Build(t, db)

		dist, _, err := svc.CreateDistribution(ctx, statement.ID, "admin-1")
		if err != nil {
			t.Fatalf("CreateDistribution() returned unexpected error: %v", err)
		}
		if err := svc.Submit(ctx, dist.ID, "admin-1"); err != nil {
			t.Fatalf("Submit() returned unexpected error: %v", err)
		}
		if err := svc.Approve(ctx, dist.ID, "admin-2", ""); err != nil {
			t.Fatalf("Approve() returned unexpected error: %v", err)
		}

		return svc, repository.NewLedgerRepository(db), dist.ID
	}

	t.Run("emits one ledger transaction per payout", func(t *testing.T) {
		svc, ledgerRepo, distID := setup(t)

		if err := svc.Declare(ctx, distID, "admin-2"); err != nil {
			t.Fatalf("Declare() returned unexpected error: %v", err)
		}

		transactions, err := ledgerRepo.ListByDistribution(ctx, distID)
		if err != nil {
			t.Fatalf("ListByDistribution() returned unexpected error: %v", err)
		}
		if len(transactions) != 3 {
			t.Fatalf("Expected 3 ledger transactions, got %d", len(transactions))
		}
		for _, tr := range transactions {
			if tr.Type != model.TransactionPayout {
				t.Errorf("Expected PAYOUT transaction, got %s", tr.Type)
			}
			if tr.PayoutID == "" {
				t.Error("Expected every transaction to reference its payout")
			}
		}
	})

	t.Run("aborts on a diverging payout sum and persists nothing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDistributionService(t, db)
		property := testutil.NewProperty().Build(t, db)
		user := testutil.NewUser().Build(t, db)
		statement := testutil.NewStatement(property.ID).Build(t, db)
		dist := testutil.NewDistribution(statement.ID, property.ID).
			WithStatus(model.DistributionApproved).
			Build(t, db)
		// Statement distributes 7500.00 but the stored payout only carries 5000.00.
		testutil.NewPayout(dist.ID, user.ID).WithAmount(5000).Build(t, db)

		err := svc.Declare(ctx, dist.ID, "admin-2")
		if !errors.Is(err, apperrors.ErrAllocationMismatch) {
			t.Fatalf("Expected ErrAllocationMismatch, got %v", err)
		}

		refreshed, err := repository.NewDistributionRepository(db).GetDistribution(ctx, dist.ID)
		if err != nil {
			t.Fatalf("GetDistribution() returned unexpected error: %v", err)
		}
		if refreshed.Status != model.DistributionApproved {
			t.Errorf("Expected status unchanged at APPROVED, got %s", refreshed.Status)
		}
		transactions, err := repository.NewLedgerRepository(db).ListByDistribution(ctx, dist.ID)
		if err != nil {
			t.Fatalf("ListByDistribution() returned unexpected error: %v", err)
		}
		if len(transactions) != 0 {
			t.Errorf("Expected no ledger rows, got %d", len(transactions))
		}
	})

	t.Run("tolerates rounding drift within one cent per payout", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDistributionService(t, db)
		property := testutil.NewProperty().Build(t, db)
		userA := testutil.NewUser().Build(t, db)
		userB := testutil.NewUser().Build(t, db)
		userC := testutil.NewUser().Build(t, db)
		statement := testutil.NewStatement(property.ID).Build(t, db)
		dist := testutil.NewDistribution(statement.ID, property.ID).
			WithStatus(model.DistributionApproved).
			Build(t, db)
		// 3 x 2500.01 = 7500.03 against a 7500.00 net, exactly the 0.03 bound.
		testutil.NewPayout(dist.ID, userA.ID).WithAmount(2500.01).Build(t, db)
		testutil.NewPayout(dist.ID, userB.ID).WithAmount(2500.01).Build(t, db)
		testutil.NewPayout(dist.ID, userC.ID).WithAmount(2500.01).Build(t, db)

		if err := svc.Declare(ctx, dist.ID, "admin-2"); err != nil {
			t.Fatalf("Declare() returned unexpected error: %v", err)
		}
	})

	t.Run("second declare fails and books nothing", func(t *testing.T) {
		svc, ledgerRepo, distID := setup(t)

		if err := svc.Declare(ctx, distID, "admin-2"); err != nil {
			t.Fatalf("Declare() returned unexpected error: %v", err)
		}

		err := svc.Declare(ctx, distID, "admin-2")
		if !errors.Is(err, apperrors.ErrInvalidTransition) {
			t.Errorf("Expected ErrInvalidTransition, got %v", err)
		}

		transactions, err := ledgerRepo.ListByDistribution(ctx, distID)
		if err != nil {
			t.Fatalf("ListByDistribution() returned unexpected error: %v", err)
		}
		if len(transactions) != 3 {
			t.Errorf("Expected ledger unchanged at 3 transactions, got %d", len(transactions))
		}
	})
}

// TestDistributionService_Delete tests the audited delete guards.
//
// WHY: A declared distribution may be withdrawn only before money moved; once
// a single payout is paid the record becomes immutable.
func TestDistributionService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes payouts and ledger rows before anything is paid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDistributionService(t, db)
		property := testutil.NewProperty().WithTotalShares(1000).Build(t, db)
		user := testutil.NewUser().Build(t, db)
		testutil.NewInvestment(property.ID, user.ID).WithShares(600).Build(t, db)
		statement := testutil.NewStatement(property.ID).Build(t, db)

		dist, _, err := svc.CreateDistribution(ctx, statement.ID, "admin-1")
		if err != nil {
			t.Fatalf("CreateDistribution() returned unexpected error: %v", err)
		}
		if err := svc.Submit(ctx, dist.ID, "admin-1"); err != nil {
			t.Fatalf("Submit() returned unexpected error: %v", err)
		}
		if err := svc.Approve(ctx, dist.ID, "admin-2", ""); err != nil {
			t.Fatalf("Approve() returned unexpected error: %v", err)
		}
		if err := svc.Declare(ctx, dist.ID, "admin-2"); err != nil {
			t.Fatalf("Declare() returned unexpected error: %v", err)
		}

		if err := svc.Delete(ctx, dist.ID, "admin-1", "statement figures disputed"); err != nil {
			t.Fatalf("Delete() returned unexpected error: %v", err)
		}

		if _, err := repository.NewDistributionRepository(db).GetDistribution(ctx, dist.ID); !errors.Is(err, apperrors.ErrDistributionNotFound) {
			t.Errorf("Expected distribution to be gone, got %v", err)
		}
		transactions, err := repository.NewLedgerRepository(db).ListByDistribution(ctx, dist.ID)
		if err != nil {
			t.Fatalf("ListByDistribution() returned unexpected error: %v", err)
		}
		if len(transactions) != 0 {
			t.Errorf("Expected ledger rows removed, got %d", len(transactions))
		}
	})

	t.Run("refuses to delete before declaration", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDistributionService(t, db)
		property := testutil.NewProperty().Build(t, db)
		statement := testutil.NewStatement(property.ID).Build(t, db)
		dist := testutil.NewDistribution(statement.ID, property.ID).Build(t, db)

		err := svc.Delete(ctx, dist.ID, "admin-1", "mistake")
		if !errors.Is(err, apperrors.ErrDistributionNotDeletable) {
			t.Errorf("Expected ErrDistributionNotDeletable, got %v", err)
		}
	})

	t.Run("refuses to delete once a payout is paid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDistributionService(t, db)
		property := testutil.NewProperty().Build(t, db)
		user := testutil.NewUser().Build(t, db)
		statement := testutil.NewStatement(property.ID).Build(t, db)
		dist := testutil.NewDistribution(statement.ID, property.ID).
			WithStatus(model.DistributionDeclared).
			Build(t, db)
		testutil.NewPayout(dist.ID, user.ID).Paid().Build(t, db)

		err := svc.Delete(ctx, dist.ID, "admin-1", "mistake")
		if !errors.Is(err, apperrors.ErrDistributionHasPaidPayouts) {
			t.Errorf("Expected ErrDistributionHasPaidPayouts, got %v", err)
		}
	})
}

// TestDistributionService_FixUnsoldInventoryShares tests the share correction.
//
// WHY: Late-recorded investments can leave the unsold inventory snapshot
// stale. The correction refreshes the share count in every status but only
// touches the amount while the distribution is still draft.
func TestDistributionService_FixUnsoldInventoryShares(t *testing.T) {
	ctx := context.Background()

	t.Run("updates shares and amount on a draft", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDistributionService(t, db)
		property := testutil.NewProperty().WithTotalShares(1000).Build(t, db)
		user := testutil.NewUser().Build(t, db)
		testutil.NewInvestment(property.ID, user.ID).WithShares(600).Build(t, db)
		statement := testutil.NewStatement(property.ID).Build(t, db)

		dist, _, err := svc.CreateDistribution(ctx, statement.ID, "admin-1")
		if err != nil {
			t.Fatalf("CreateDistribution() returned unexpected error: %v", err)
		}

		// A purchase recorded after the payout snapshot was taken.
		testutil.NewInvestment(property.ID, user.ID).WithShares(200).Build(t, db)

		if err := svc.FixUnsoldInventoryShares(ctx, dist.ID, "admin-1"); err != nil {
			t.Fatalf("FixUnsoldInventoryShares() returned unexpected error: %v", err)
		}

		payouts, err := repository.NewPayoutRepository(db).ListByDistribution(ctx, dist.ID)
		if err != nil {
			t.Fatalf("ListByDistribution() returned unexpected error: %v", err)
		}
		unsold := payouts[len(payouts)-1]
		if unsold.HolderType != model.HolderUnsoldInventory {
			t.Fatalf("Expected last payout to be unsold inventory, got %s", unsold.HolderType)
		}
		if unsold.SharesAtRecord != 200 {
			t.Errorf("Expected unsold shares corrected to 200, got %d", unsold.SharesAtRecord)
		}
		// 200/1000 * 7500 = 1500.00
		if got := unsold.Amount.InexactFloat64(); got != 1500 {
			t.Errorf("Expected unsold amount corrected to 1500, got %v", got)
		}
	})

	t.Run("leaves the amount frozen past draft", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDistributionService(t, db)
		property := testutil.NewProperty().WithTotalShares(1000).Build(t, db)
		user := testutil.NewUser().Build(t, db)
		testutil.NewInvestment(property.ID, user.ID).WithShares(600).Build(t, db)
		statement := testutil.NewStatement(property.ID).Build(t, db)
		dist := testutil.NewDistribution(statement.ID, property.ID).
			WithStatus(model.DistributionDeclared).
			Build(t, db)
		testutil.NewPayout(dist.ID, "").UnsoldInventory().WithShares(999).WithAmount(3000).Build(t, db)

		if err := svc.FixUnsoldInventoryShares(ctx, dist.ID, "admin-1"); err != nil {
			t.Fatalf("FixUnsoldInventoryShares() returned unexpected error: %v", err)
		}

		payouts, err := repository.NewPayoutRepository(db).ListByDistribution(ctx, dist.ID)
		if err != nil {
			t.Fatalf("ListByDistribution() returned unexpected error: %v", err)
		}
		unsold := payouts[0]
		if unsold.SharesAtRecord != 400 {
			t.Errorf("Expected unsold shares corrected to 400, got %d", unsold.SharesAtRecord)
		}
		if got := unsold.Amount.InexactFloat64(); got != 3000 {
			t.Errorf("Expected amount frozen at 3000, got %v", got)
		}
	})
}

// TestDistributionService_ApplyPayoutUpdate tests the paid-status import path.
//
// WHY: External payment runs report back row by row; each row may pay a payout
// exactly once, and a second attempt must fail without touching the row.
func TestDistributionService_ApplyPayoutUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("marks a pending payout paid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDistributionService(t, db)
		property := testutil.NewProperty().Build(t, db)
		user := testutil.NewUser().Build(t, db)
		statement := testutil.NewStatement(property.ID).Build(t, db)
		dist := testutil.NewDistribution(statement.ID, property.ID).
			WithStatus(model.DistributionDeclared).
			Build(t, db)
		payout := testutil.NewPayout(dist.ID, user.ID).Build(t, db)

		err := svc.ApplyPayoutUpdate(ctx, model.PayoutUpdate{
			PayoutID:         payout.ID,
			Status:           model.PayoutPaid,
			PaymentMethod:    "SEPA",
			PaymentReference: "RF18-0001",
		}, "admin-1")
		if err != nil {
			t.Fatalf("ApplyPayoutUpdate() returned unexpected error: %v", err)
		}

		refreshed, err := repository.NewPayoutRepository(db).GetPayout(ctx, payout.ID)
		if err != nil {
			t.Fatalf("GetPayout() returned unexpected error: %v", err)
		}
		if refreshed.Status != model.PayoutPaid {
			t.Errorf("Expected status PAID, got %s", refreshed.Status)
		}
		if refreshed.PaidAt.IsZero() {
			t.Error("Expected paidAt to default to now")
		}
		if refreshed.PaymentMethod != "SEPA" {
			t.Errorf("Expected payment method SEPA, got %s", refreshed.PaymentMethod)
		}
	})

	t.Run("refuses to pay a payout twice", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDistributionService(t, db)
		property := testutil.NewProperty().Build(t, db)
		user := testutil.NewUser().Build(t, db)
		statement := testutil.NewStatement(property.ID).Build(t, db)
		dist := testutil.NewDistribution(statement.ID, property.ID).
			WithStatus(model.DistributionDeclared).
			Build(t, db)
		payout := testutil.NewPayout(dist.ID, user.ID).Paid().Build(t, db)

		err := svc.ApplyPayoutUpdate(ctx, model.PayoutUpdate{
			PayoutID: payout.ID,
			Status:   model.PayoutPaid,
		}, "admin-1")
		if !errors.Is(err, apperrors.ErrPayoutAlreadyPaid) {
			t.Errorf("Expected ErrPayoutAlreadyPaid, got %v", err)
		}
	})

	t.Run("batch reports per-row outcomes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDistributionService(t, db)
		property := testutil.NewProperty().Build(t, db)
		user := testutil.NewUser().Build(t, db)
		statement := testutil.NewStatement(property.ID).Build(t, db)
		dist := testutil.NewDistribution(statement.ID, property.ID).
			WithStatus(model.DistributionDeclared).
			Build(t, db)
		pending := testutil.NewPayout(dist.ID, user.ID).Build(t, db)
		paid := testutil.NewPayout(dist.ID, user.ID).Paid().Build(t, db)

		results := svc.ApplyPayoutUpdates(ctx, []model.PayoutUpdate{
			{PayoutID: pending.ID, Status: model.PayoutPaid},
			{PayoutID: paid.ID, Status: model.PayoutPaid},
		}, "admin-1")

		if len(results) != 2 {
			t.Fatalf("Expected 2 results, got %d", len(results))
		}
		if !results[0].Applied {
			t.Errorf("Expected first row applied, got error %q", results[0].Error)
		}
		if results[1].Applied {
			t.Error("Expected second row to fail")
		}
	})
}

// TestDistributionService_GetDistribution tests the aggregate read view.
func TestDistributionService_GetDistribution(t *testing.T) {
	t.Run("reports PAID when every payout is paid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDistributionService(t, db)
		property := testutil.NewProperty().Build(t, db)
		user := testutil.NewUser().Build(t, db)
		statement := testutil.NewStatement(property.ID).Build(t, db)
		dist := testutil.NewDistribution(statement.ID, property.ID).
			WithStatus(model.DistributionDeclared).
			Build(t, db)
		testutil.NewPayout(dist.ID, user.ID).Paid().Build(t, db)
		testutil.NewPayout(dist.ID, "").UnsoldInventory().Paid().Build(t, db)

		resp, err := svc.GetDistribution(context.Background(), dist.ID)
		if err != nil {
			t.Fatalf("GetDistribution() returned unexpected error: %v", err)
		}

		if resp.Status != "PAID" {
			t.Errorf("Expected aggregate status PAID, got %s", resp.Status)
		}
		if len(resp.Payouts) != 2 {
			t.Errorf("Expected 2 payouts in the view, got %d", len(resp.Payouts))
		}
	})

	t.Run("keeps DECLARED while any payout is pending", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestDistributionService(t, db)
		property := testutil.NewProperty().Build(t, db)
		user := testutil.NewUser().Build(t, db)
		statement := testutil.NewStatement(property.ID).Build(t, db)
		dist := testutil.NewDistribution(statement.ID, property.ID).
			WithStatus(model.DistributionDeclared).
			Build(t, db)
		testutil.NewPayout(dist.ID, user.ID).Paid().Build(t, db)
		testutil.NewPayout(dist.ID, "").UnsoldInventory().Build(t, db)

		resp, err := svc.GetDistribution(context.Background(), dist.ID)
		if err != nil {
			t.Fatalf("GetDistribution() returned unexpected error: %v", err)
		}

		if resp.Status != model.DistributionDeclared {
			t.Errorf("Expected status DECLARED, got %s", resp.Status)
		}
	})
}
