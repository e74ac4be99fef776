package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/allocation"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/apperrors"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/model"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/repository"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/secure"
)

// DistributionService drives a distribution through its approval lifecycle:
//
//	DRAFT -> PENDING_APPROVAL -> APPROVED -> DECLARED
//
// with rejection returning PENDING_APPROVAL to DRAFT. Every multi-row mutation
// (allocation, declare, delete) runs in one transaction; a partial failure
// rolls back to the prior consistent state. Callers are authorized admins;
// the capability check happens at the transport layer.
type DistributionService struct {
	db               *sql.DB
	distributionRepo *repository.DistributionRepository
	payoutRepo       *repository.PayoutRepository
	statementRepo    *repository.StatementRepository
	propertyRepo     *repository.PropertyRepository
	investmentRepo   *repository.InvestmentRepository
	ledgerRepo       *repository.LedgerRepository
	auditRepo        *repository.AuditRepository
	recalcService    *RecalculationService
	notifier         Notifier
	codec            *secure.Codec
}

// NewDistributionService creates a new DistributionService with the provided dependencies.
func NewDistributionService(
	db *sql.DB,
	distributionRepo *repository.DistributionRepository,
	payoutRepo *repository.PayoutRepository,
	statementRepo *repository.StatementRepository,
	propertyRepo *repository.PropertyRepository,
	investmentRepo *repository.InvestmentRepository,
	ledgerRepo *repository.LedgerRepository,
	auditRepo *repository.AuditRepository,
	recalcService *RecalculationService,
	notifier Notifier,
	codec *secure.Codec,
) *DistributionService {
	return &DistributionService{
		db:               db,
		distributionRepo: distributionRepo,
		payoutRepo:       payoutRepo,
		statementRepo:    statementRepo,
		propertyRepo:     propertyRepo,
		investmentRepo:   investmentRepo,
		ledgerRepo:       ledgerRepo,
		auditRepo:        auditRepo,
		recalcService:    recalcService,
		notifier:         notifier,
		codec:            codec,
	}
}

// CreateDistribution creates the draft distribution for a rental statement and
// allocates its initial payout set from the current share picture. One
// distribution per statement.
func (s *DistributionService) CreateDistribution(ctx context.Context, statementID, actorID string) (*model.Distribution, []model.Payout, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin distribution create: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	statement, err := s.statementRepo.WithTx(tx).GetStatement(ctx, statementID)
	if err != nil {
		return nil, nil, err
	}

	distributionRepo := s.distributionRepo.WithTx(tx)
	if _, err := distributionRepo.GetByStatementID(ctx, statementID); err == nil {
		return nil, nil, apperrors.ErrDuplicateDistribution
	} else if !errors.Is(err, apperrors.ErrDistributionNotFound) {
		return nil, nil, err
	}

	dist := &model.Distribution{
		ID:                uuid.New().String(),
		RentalStatementID: statement.ID,
		PropertyID:        statement.PropertyID,
		Status:            model.DistributionDraft,
		TotalDistributed:  statement.NetDistributable,
	}
	if err := distributionRepo.InsertDistribution(ctx, dist); err != nil {
		return nil, nil, err
	}

	payouts, err := s.recalcService.WithTx(tx).ReallocateDraft(ctx, *dist, statement.NetDistributable)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit distribution create: %w", err)
	}

	s.audit(ctx, actorID, "distribution.create", dist.ID, "")
	return dist, payouts, nil
}

// Submit moves a draft distribution into PENDING_APPROVAL and fires the
// pending-approval notification.
func (s *DistributionService) Submit(ctx context.Context, id, actorID string) error {
	err := s.distributionRepo.TransitionStatus(ctx, id, model.DistributionDraft, model.DistributionPendingApproval)
	if err != nil {
		return s.describeTransitionFailure(ctx, id, err)
	}

	s.audit(ctx, actorID, "distribution.submit", id, "")
	if err := s.notifier.DistributionPendingApproval(ctx, id); err != nil {
		log.Printf("notification failed for distribution %s: %v", id, err)
	}
	return nil
}

// Approve records the approver and timestamp while moving PENDING_APPROVAL to
// APPROVED. Notes are optional.
func (s *DistributionService) Approve(ctx context.Context, id, actorID, notes string) error {
	err := s.distributionRepo.Approve(ctx, id, actorID, notes, time.Now().UTC())
	if err != nil {
		return s.describeTransitionFailure(ctx, id, err)
	}

	s.audit(ctx, actorID, "distribution.approve", id, notes)
	return nil
}

// Reject returns a pending distribution to DRAFT, recording the notes.
func (s *DistributionService) Reject(ctx context.Context, id, actorID, notes string) error {
	err := s.distributionRepo.Reject(ctx, id, notes)
	if err != nil {
		return s.describeTransitionFailure(ctx, id, err)
	}

	s.audit(ctx, actorID, "distribution.reject", id, notes)
	return nil
}

// Declare moves an approved distribution to DECLARED: the distribution total is
// frozen at the statement's netDistributable, one ledger transaction is emitted
// per payout, and the payouts become visible in investor-facing views.
//
// The whole cascade is one transaction. Two admins declaring concurrently
// serialize on the conditional status update; the loser gets
// ErrInvalidTransition and no second ledger set is emitted. Before anything is
// written the payout sum is checked against the bounded rounding tolerance;
// a divergence aborts with ErrAllocationMismatch and persists nothing.
func (s *DistributionService) Declare(ctx context.Context, id, actorID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin declare: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	distributionRepo := s.distributionRepo.WithTx(tx)
	payoutRepo := s.payoutRepo.WithTx(tx)

	dist, err := distributionRepo.GetDistribution(ctx, id)
	if err != nil {
		return err
	}

	statement, err := s.statementRepo.WithTx(tx).GetStatement(ctx, dist.RentalStatementID)
	if err != nil {
		return err
	}

	payouts, err := payoutRepo.ListByDistribution(ctx, id)
	if err != nil {
		return err
	}

	if err := verifyPayoutSum(payouts, statement.NetDistributable); err != nil {
		return err
	}

	declaredAt := time.Now().UTC()
	if err := distributionRepo.Declare(ctx, id, statement.NetDistributable, declaredAt); err != nil {
		return s.describeTransitionFailure(ctx, id, err)
	}

	transactions := make([]model.LedgerTransaction, 0, len(payouts))
	for _, p := range payouts {
		transactions = append(transactions, model.LedgerTransaction{
			ID:             uuid.New().String(),
			Type:           model.TransactionPayout,
			Amount:         p.Amount,
			UserID:         p.UserID,
			PropertyID:     dist.PropertyID,
			DistributionID: dist.ID,
			PayoutID:       p.ID,
		})
	}
	if err := s.ledgerRepo.WithTx(tx).InsertTransactions(ctx, transactions); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit declare: %w", err)
	}

	s.audit(ctx, actorID, "distribution.declare", id, "")
	s.notifyDeclared(id, payouts)
	return nil
}

// Delete removes a distribution with its payouts and emitted ledger rows.
// Only legal while DECLARED and before any payout has been paid; once money
// moved, the distribution is immutable except for per-payout corrections.
// The reason is recorded in the audit log.
func (s *DistributionService) Delete(ctx context.Context, id, actorID, reason string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin distribution delete: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	distributionRepo := s.distributionRepo.WithTx(tx)
	payoutRepo := s.payoutRepo.WithTx(tx)

	dist, err := distributionRepo.GetDistribution(ctx, id)
	if err != nil {
		return err
	}
	if dist.Status != model.DistributionDeclared {
		return apperrors.ErrDistributionNotDeletable
	}

	paidCount, err := payoutRepo.CountPaid(ctx, id)
	if err != nil {
		return err
	}
	if paidCount > 0 {
		return apperrors.ErrDistributionHasPaidPayouts
	}

	if err := s.ledgerRepo.WithTx(tx).DeleteByDistribution(ctx, id); err != nil {
		return err
	}
	if err := distributionRepo.DeleteDistribution(ctx, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit distribution delete: %w", err)
	}

	s.audit(ctx, actorID, "distribution.delete", id, reason)
	return nil
}

// FixUnsoldInventoryShares recomputes the unsold inventory holder's shares at
// record from current confirmed investment totals, correcting bookkeeping
// drift from out-of-order investment recording.
//
// While the distribution is still draft the holder's amount follows the
// allocator formula; in any later status only sharesAtRecord changes. Amounts
// are frozen post-approval and money already approved is never silently edited.
func (s *DistributionService) FixUnsoldInventoryShares(ctx context.Context, id, actorID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin share correction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	dist, err := s.distributionRepo.WithTx(tx).GetDistribution(ctx, id)
	if err != nil {
		return err
	}

	property, err := s.propertyRepo.WithTx(tx).GetProperty(ctx, dist.PropertyID)
	if err != nil {
		return err
	}

	confirmed, err := s.investmentRepo.WithTx(tx).SumConfirmedShares(ctx, dist.PropertyID, time.Now().UTC())
	if err != nil {
		return err
	}
	unsoldShares := property.TotalShares - confirmed

	var amount *decimal.Decimal
	if dist.Status == model.DistributionDraft {
		corrected := UnsoldInventoryAmount(dist.TotalDistributed, unsoldShares, property.TotalShares)
		amount = &corrected
	}

	if err := s.payoutRepo.WithTx(tx).UpdateUnsoldInventory(ctx, id, unsoldShares, amount); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit share correction: %w", err)
	}

	s.audit(ctx, actorID, "distribution.fix-unsold-shares", id, "")
	return nil
}

// ApplyPayoutUpdate applies one validated row from the bulk payout status
// source: marks the payout paid with its payment details. The payment
// reference is encrypted before it is persisted. Rows targeting an already
// paid payout fail with ErrPayoutAlreadyPaid.
func (s *DistributionService) ApplyPayoutUpdate(ctx context.Context, upd model.PayoutUpdate, actorID string) error {
	if upd.Status != model.PayoutPaid {
		return fmt.Errorf("%w: unsupported payout status %q", apperrors.ErrInvalidTransition, upd.Status)
	}
	if upd.Amount != nil && upd.Amount.IsNegative() {
		return apperrors.ErrNegativeAmount
	}

	payout, err := s.payoutRepo.GetPayout(ctx, upd.PayoutID)
	if err != nil {
		return err
	}

	encryptedRef, err := s.codec.Encrypt(upd.PaymentReference)
	if err != nil {
		return err
	}

	paidAt := upd.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now().UTC()
	}

	if err := s.payoutRepo.MarkPaid(ctx, upd.PayoutID, upd.Amount, paidAt, upd.PaymentMethod, encryptedRef); err != nil {
		return err
	}

	s.audit(ctx, actorID, "payout.paid", upd.PayoutID, "")
	if payout.UserID != "" {
		amount := payout.Amount
		if upd.Amount != nil {
			amount = *upd.Amount
		}
		if err := s.notifier.PayoutPaid(ctx, payout.ID, payout.UserID, amount.InexactFloat64()); err != nil {
			log.Printf("notification failed for payout %s: %v", payout.ID, err)
		}
	}
	return nil
}

// PayoutUpdateResult reports the outcome of one row of a bulk payout update.
type PayoutUpdateResult struct {
	PayoutID string `json:"payoutId"`
	Applied  bool   `json:"applied"`
	Error    string `json:"error,omitempty"`
}

// ApplyPayoutUpdates applies a batch of payout update rows. Rows are
// independent and row-atomic: a failing row is reported and does not stop the
// rest of the batch.
func (s *DistributionService) ApplyPayoutUpdates(ctx context.Context, updates []model.PayoutUpdate, actorID string) []PayoutUpdateResult {
	results := make([]PayoutUpdateResult, 0, len(updates))
	for _, upd := range updates {
		result := PayoutUpdateResult{PayoutID: upd.PayoutID, Applied: true}
		if err := s.ApplyPayoutUpdate(ctx, upd, actorID); err != nil {
			result.Applied = false
			result.Error = err.Error()
		}
		results = append(results, result)
	}
	return results
}

// GetDistribution retrieves a distribution with its payouts. Payment
// references are decrypted for the admin view.
func (s *DistributionService) GetDistribution(ctx context.Context, id string) (model.DistributionResponse, error) {
	dist, err := s.distributionRepo.GetDistribution(ctx, id)
	if err != nil {
		return model.DistributionResponse{}, err
	}

	payouts, err := s.payoutRepo.ListByDistribution(ctx, id)
	if err != nil {
		return model.DistributionResponse{}, err
	}

	resp := dist.ToResponse()
	resp.Payouts = make([]model.PayoutResponse, 0, len(payouts))
	allPaid := len(payouts) > 0
	for _, p := range payouts {
		p.PaymentReference = s.codec.Decrypt(p.PaymentReference)
		resp.Payouts = append(resp.Payouts, p.ToResponse())
		if p.Status != model.PayoutPaid {
			allPaid = false
		}
	}
	// Fully paid is an aggregate view over payouts, not a stored status.
	if dist.Status == model.DistributionDeclared && allPaid {
		resp.Status = "PAID"
	}

	return resp, nil
}

// GetUserMonthlyDistributions returns a user's declared payout income grouped
// by declaration month.
func (s *DistributionService) GetUserMonthlyDistributions(ctx context.Context, userID string) ([]model.MonthlyDistribution, error) {
	return s.payoutRepo.GetUserMonthlyDistributions(ctx, userID)
}

// GetUserDistributionsByProperty returns a user's declared payouts for one
// property, newest first.
func (s *DistributionService) GetUserDistributionsByProperty(ctx context.Context, userID, propertyID string) ([]model.UserPropertyDistribution, error) {
	if _, err := s.propertyRepo.GetProperty(ctx, propertyID); err != nil {
		return nil, err
	}
	return s.payoutRepo.GetUserDistributionsByProperty(ctx, userID, propertyID)
}

// verifyPayoutSum checks the persisted payout amounts against the distribution
// total within the allocator's tolerance bound. Rounding leftovers inside the
// bound are not reconciled.
func verifyPayoutSum(payouts []model.Payout, total decimal.Decimal) error {
	lines := make([]allocation.Line, 0, len(payouts))
	for _, p := range payouts {
		lines = append(lines, allocation.Line{Amount: p.Amount})
	}
	if !allocation.WithinTolerance(lines, total) {
		return fmt.Errorf("%w: sum %s, total %s",
			apperrors.ErrAllocationMismatch, allocation.RoundedSum(lines).String(), total.String())
	}
	return nil
}

// notifyDeclared fans the declaration out to every investor payout
// concurrently. Failures are logged; the declaration has already committed.
func (s *DistributionService) notifyDeclared(distributionID string, payouts []model.Payout) {
	g, ctx := errgroup.WithContext(context.Background())
	for _, p := range payouts {
		if p.HolderType != model.HolderInvestor {
			continue
		}
		p := p
		g.Go(func() error {
			return s.notifier.DistributionDeclared(ctx, distributionID, p.UserID, p.Amount.InexactFloat64())
		})
	}
	if err := g.Wait(); err != nil {
		log.Printf("notification failed for distribution %s: %v", distributionID, err)
	}
}

// describeTransitionFailure upgrades a generic transition failure to
// ErrDistributionNotFound when the row does not exist at all.
func (s *DistributionService) describeTransitionFailure(ctx context.Context, id string, err error) error {
	if !errors.Is(err, apperrors.ErrInvalidTransition) {
		return err
	}
	if _, getErr := s.distributionRepo.GetDistribution(ctx, id); errors.Is(getErr, apperrors.ErrDistributionNotFound) {
		return apperrors.ErrDistributionNotFound
	}
	return err
}

// audit records an admin action. Best-effort: the primary financial mutation
// is sacrosanct, a failed audit write is logged with a sentinel and tolerated.
func (s *DistributionService) audit(ctx context.Context, actorID, action, entityID, reason string) {
	entry := &model.AuditLog{
		ID:         uuid.New().String(),
		ActorID:    actorID,
		Action:     action,
		EntityType: "distribution",
		EntityID:   entityID,
		Reason:     reason,
	}
	if err := s.auditRepo.InsertAuditLog(ctx, entry); err != nil {
		log.Printf("AUDIT-WRITE-FAILED action=%s entity=%s actor=%s: %v", action, entityID, actorID, err)
	}
}
