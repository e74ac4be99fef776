package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/api/request"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/apperrors"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/model"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/prorate"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/repository"
)

// StatementService handles rental statement business logic: deriving
// netDistributable, pro-rating itemized costs over spanning periods, and
// cascading statement edits into draft distributions.
type StatementService struct {
	db               *sql.DB
	statementRepo    *repository.StatementRepository
	distributionRepo *repository.DistributionRepository
	propertyRepo     *repository.PropertyRepository
	recalcService    *RecalculationService
}

// NewStatementService creates a new StatementService with the provided dependencies.
func NewStatementService(
	db *sql.DB,
	statementRepo *repository.StatementRepository,
	distributionRepo *repository.DistributionRepository,
	propertyRepo *repository.PropertyRepository,
	recalcService *RecalculationService,
) *StatementService {
	return &StatementService{
		db:               db,
		statementRepo:    statementRepo,
		distributionRepo: distributionRepo,
		propertyRepo:     propertyRepo,
		recalcService:    recalcService,
	}
}

// CreateStatement creates a rental statement for a property and period.
//
// netDistributable is always derived from the validated field values:
//
//	grossRevenue - operatingCosts - managementFee + incomeAdjustment
//
// When the period spans calendar months, itemized cost lines are annotated with
// their original amount, rounded monthly amount and monthly breakdown.
func (s *StatementService) CreateStatement(ctx context.Context, req request.CreateStatementRequest) (*model.RentalStatement, error) {
	if _, err := s.propertyRepo.GetProperty(ctx, req.PropertyID); err != nil {
		return nil, err
	}

	periodStart, err := repository.ParseTime(req.PeriodStart)
	if err != nil {
		return nil, err
	}
	periodEnd, err := repository.ParseTime(req.PeriodEnd)
	if err != nil {
		return nil, err
	}
	if periodEnd.Before(periodStart) {
		return nil, apperrors.ErrInvalidDateRange
	}

	exists, err := s.statementRepo.ExistsForPeriod(ctx, req.PropertyID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrDuplicateStatement
	}

	st := &model.RentalStatement{
		ID:                 uuid.New().String(),
		PropertyID:         req.PropertyID,
		PeriodStart:        periodStart,
		PeriodEnd:          periodEnd,
		GrossRevenue:       decimal.NewFromFloat(req.GrossRevenue),
		OperatingCosts:     decimal.NewFromFloat(req.OperatingCosts),
		ManagementFee:      decimal.NewFromFloat(req.ManagementFee),
		IncomeAdjustment:   decimal.NewFromFloat(req.IncomeAdjustment),
		OperatingCostItems: costItemsFromInput(req.OperatingCostItems),
	}
	st.NetDistributable = st.ComputeNetDistributable()
	annotateCostItems(st)

	if err := s.statementRepo.InsertStatement(ctx, st); err != nil {
		return nil, fmt.Errorf("failed to create statement: %w", err)
	}

	return st, nil
}

// UpdateStatement edits a rental statement. Only provided fields change.
//
// The edit is rejected with ErrStatementLocked when the statement's
// distribution has moved past DRAFT: changing financials after approval would
// silently desynchronize approved payout amounts. While the distribution is
// still draft the edit cascades: netDistributable is recomputed, the
// distribution total follows it, and the payout set is reallocated, all in one
// transaction, so a partial failure leaves the prior state intact.
func (s *StatementService) UpdateStatement(ctx context.Context, id string, req request.UpdateStatementRequest) (*model.RentalStatement, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin statement update: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	statementRepo := s.statementRepo.WithTx(tx)
	distributionRepo := s.distributionRepo.WithTx(tx)

	st, err := statementRepo.GetStatement(ctx, id)
	if err != nil {
		return nil, err
	}

	dist, err := distributionRepo.GetByStatementID(ctx, id)
	hasDistribution := err == nil
	if err != nil && !errors.Is(err, apperrors.ErrDistributionNotFound) {
		return nil, err
	}
	if hasDistribution && dist.Status != model.DistributionDraft {
		return nil, apperrors.ErrStatementLocked
	}

	if err := applyStatementUpdate(&st, req); err != nil {
		return nil, err
	}
	st.NetDistributable = st.ComputeNetDistributable()
	annotateCostItems(&st)

	if err := statementRepo.UpdateStatement(ctx, &st); err != nil {
		return nil, err
	}

	if hasDistribution {
		if err := distributionRepo.SetTotalDistributed(ctx, dist.ID, st.NetDistributable); err != nil {
			return nil, err
		}
		if _, err := s.recalcService.WithTx(tx).ReallocateDraft(ctx, dist, st.NetDistributable); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit statement update: %w", err)
	}

	return &st, nil
}

// GetStatement retrieves a rental statement by ID.
func (s *StatementService) GetStatement(ctx context.Context, id string) (model.RentalStatement, error) {
	return s.statementRepo.GetStatement(ctx, id)
}

// GetPropertyRentalStatements retrieves all statements for a property, newest
// period first.
func (s *StatementService) GetPropertyRentalStatements(ctx context.Context, propertyID string) ([]model.RentalStatement, error) {
	if _, err := s.propertyRepo.GetProperty(ctx, propertyID); err != nil {
		return nil, err
	}
	return s.statementRepo.ListByProperty(ctx, propertyID)
}

// applyStatementUpdate copies the provided fields of the request onto the
// statement. Omitted fields remain unchanged.
func applyStatementUpdate(st *model.RentalStatement, req request.UpdateStatementRequest) error {
	if req.PeriodStart != nil {
		t, err := repository.ParseTime(*req.PeriodStart)
		if err != nil {
			return err
		}
		st.PeriodStart = t
	}
	if req.PeriodEnd != nil {
		t, err := repository.ParseTime(*req.PeriodEnd)
		if err != nil {
			return err
		}
		st.PeriodEnd = t
	}
	if st.PeriodEnd.Before(st.PeriodStart) {
		return apperrors.ErrInvalidDateRange
	}
	if req.GrossRevenue != nil {
		st.GrossRevenue = decimal.NewFromFloat(*req.GrossRevenue)
	}
	if req.OperatingCosts != nil {
		st.OperatingCosts = decimal.NewFromFloat(*req.OperatingCosts)
	}
	if req.ManagementFee != nil {
		st.ManagementFee = decimal.NewFromFloat(*req.ManagementFee)
	}
	if req.IncomeAdjustment != nil {
		st.IncomeAdjustment = decimal.NewFromFloat(*req.IncomeAdjustment)
	}
	if req.OperatingCostItems != nil {
		st.OperatingCostItems = costItemsFromInput(*req.OperatingCostItems)
	}
	return nil
}

// annotateCostItems pro-rates itemized costs when the statement period spans
// calendar months. On non-spanning periods items carry no annotations, so an
// edit that shrinks a spanning period back to one month drops the stale ones.
func annotateCostItems(st *model.RentalStatement) {
	if !prorate.IsSpanning(st.PeriodStart, st.PeriodEnd) {
		for i := range st.OperatingCostItems {
			item := &st.OperatingCostItems[i]
			item.OriginalAmount = nil
			item.MonthlyAmount = nil
			item.Breakdown = nil
		}
		return
	}

	breakdown := prorate.CalculateMonthlyBreakdown(st.PeriodStart, st.PeriodEnd)
	for i := range st.OperatingCostItems {
		item := &st.OperatingCostItems[i]
		original := item.Amount
		monthly := prorate.ProrateToMonthly(item.Amount, st.PeriodStart, st.PeriodEnd).Round(2)
		item.OriginalAmount = &original
		item.MonthlyAmount = &monthly
		item.Breakdown = breakdown
	}
}

func costItemsFromInput(inputs []request.CostItemInput) []model.OperatingCostItem {
	if len(inputs) == 0 {
		return nil
	}
	items := make([]model.OperatingCostItem, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, model.OperatingCostItem{
			Description: in.Description,
			Amount:      decimal.NewFromFloat(in.Amount),
		})
	}
	return items
}
