package service

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/api/request"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/apperrors"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/model"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/repository"
)

// InvestmentService handles share purchase business logic. Availability checks
// always recompute confirmed shares from investment rows inside the purchase
// transaction; the property table's cached column is display-only.
type InvestmentService struct {
	db             *sql.DB
	investmentRepo *repository.InvestmentRepository
	propertyRepo   *repository.PropertyRepository
	userRepo       *repository.UserRepository
	payoutRepo     *repository.PayoutRepository
	ledgerRepo     *repository.LedgerRepository
	auditRepo      *repository.AuditRepository
}

// NewInvestmentService creates a new InvestmentService with the provided dependencies.
func NewInvestmentService(
	db *sql.DB,
	investmentRepo *repository.InvestmentRepository,
	propertyRepo *repository.PropertyRepository,
	userRepo *repository.UserRepository,
	payoutRepo *repository.PayoutRepository,
	ledgerRepo *repository.LedgerRepository,
	auditRepo *repository.AuditRepository,
) *InvestmentService {
	return &InvestmentService{
		db:             db,
		investmentRepo: investmentRepo,
		propertyRepo:   propertyRepo,
		userRepo:       userRepo,
		payoutRepo:     payoutRepo,
		ledgerRepo:     ledgerRepo,
		auditRepo:      auditRepo,
	}
}

// CreateInvestment records a pending share purchase at the property's current
// price per share. The requested shares must fit within total shares minus all
// confirmed shares; checking and inserting happen in one transaction so two
// concurrent purchases cannot both claim the last shares.
func (s *InvestmentService) CreateInvestment(ctx context.Context, req request.CreateInvestmentRequest) (*model.Investment, error) {
	if req.Shares <= 0 {
		return nil, apperrors.ErrNegativeShares
	}

	purchaseDate := time.Now().UTC()
	if req.PurchaseDate != "" {
		t, err := repository.ParseTime(req.PurchaseDate)
		if err != nil {
			return nil, err
		}
		purchaseDate = t
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin investment create: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	property, err := s.propertyRepo.WithTx(tx).GetProperty(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if _, err := s.userRepo.WithTx(tx).GetUser(ctx, req.UserID); err != nil {
		return nil, err
	}

	// Availability is measured against every confirmed purchase regardless of
	// date, not just those before purchaseDate.
	confirmed, err := s.investmentRepo.WithTx(tx).SumConfirmedShares(ctx, req.PropertyID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if property.TotalShares-confirmed < req.Shares {
		return nil, apperrors.ErrInsufficientShares
	}

	inv := &model.Investment{
		ID:                      uuid.New().String(),
		PropertyID:              req.PropertyID,
		UserID:                  req.UserID,
		Shares:                  req.Shares,
		PricePerShareAtPurchase: property.PricePerShare,
		Status:                  model.InvestmentPending,
		PurchaseDate:            purchaseDate,
	}
	if err := s.investmentRepo.WithTx(tx).InsertInvestment(ctx, inv); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit investment create: %w", err)
	}

	return inv, nil
}

// ConfirmInvestment moves a pending investment to CONFIRMED and writes the
// matching purchase transaction to the ledger. From this point the shares
// count toward outstanding-share resolution.
func (s *InvestmentService) ConfirmInvestment(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin investment confirm: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	investmentRepo := s.investmentRepo.WithTx(tx)

	inv, err := investmentRepo.GetInvestment(ctx, id)
	if err != nil {
		return err
	}

	if err := investmentRepo.UpdateStatus(ctx, id, model.InvestmentPending, model.InvestmentConfirmed); err != nil {
		return err
	}

	amount := inv.PricePerShareAtPurchase.Mul(decimal.NewFromInt(inv.Shares)).Round(2)
	transaction := model.LedgerTransaction{
		ID:           uuid.New().String(),
		Type:         model.TransactionInvestment,
		Amount:       amount,
		UserID:       inv.UserID,
		PropertyID:   inv.PropertyID,
		InvestmentID: inv.ID,
	}
	if err := s.ledgerRepo.WithTx(tx).InsertTransactions(ctx, []model.LedgerTransaction{transaction}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit investment confirm: %w", err)
	}

	return nil
}

// CancelInvestment moves a pending investment to CANCELLED. Confirmed
// investments cannot be cancelled, only deleted through the audited admin path.
func (s *InvestmentService) CancelInvestment(ctx context.Context, id string) error {
	if _, err := s.investmentRepo.GetInvestment(ctx, id); err != nil {
		return err
	}
	return s.investmentRepo.UpdateStatus(ctx, id, model.InvestmentPending, model.InvestmentCancelled)
}

// DeleteInvestment removes an investment. Refused with ErrInvestmentInUse when
// the investor has already received paid payouts for the property; historical
// money movements must keep their share basis.
func (s *InvestmentService) DeleteInvestment(ctx context.Context, id, actorID, reason string) error {
	inv, err := s.investmentRepo.GetInvestment(ctx, id)
	if err != nil {
		return err
	}

	paidCount, err := s.payoutRepo.CountPaidForPropertyUser(ctx, inv.PropertyID, inv.UserID)
	if err != nil {
		return err
	}
	if paidCount > 0 {
		return apperrors.ErrInvestmentInUse
	}

	if err := s.investmentRepo.DeleteInvestment(ctx, id); err != nil {
		return err
	}

	s.auditDelete(ctx, actorID, id, reason)
	return nil
}

// GetInvestment retrieves an investment by ID.
func (s *InvestmentService) GetInvestment(ctx context.Context, id string) (model.Investment, error) {
	return s.investmentRepo.GetInvestment(ctx, id)
}

// GetPropertyInvestments retrieves all investments for a property.
func (s *InvestmentService) GetPropertyInvestments(ctx context.Context, propertyID string) ([]model.Investment, error) {
	if _, err := s.propertyRepo.GetProperty(ctx, propertyID); err != nil {
		return nil, err
	}
	return s.investmentRepo.ListByProperty(ctx, propertyID)
}

func (s *InvestmentService) auditDelete(ctx context.Context, actorID, investmentID, reason string) {
	entry := &model.AuditLog{
		ID:         uuid.New().String(),
		ActorID:    actorID,
		Action:     "investment.delete",
		EntityType: "investment",
		EntityID:   investmentID,
		Reason:     reason,
	}
	if err := s.auditRepo.InsertAuditLog(ctx, entry); err != nil {
		log.Printf("AUDIT-WRITE-FAILED action=investment.delete entity=%s actor=%s: %v", investmentID, actorID, err)
	}
}
