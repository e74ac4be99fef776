package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/apperrors"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/model"
)

// DistributionRepository provides data access methods for the distribution table.
// Status transitions are conditional updates so that two admins racing the same
// transition serialize on the store: exactly one wins, the loser observes the
// already-advanced status and fails cleanly.
type DistributionRepository struct {
	db DBTX
}

// NewDistributionRepository creates a new DistributionRepository with the provided database connection.
func NewDistributionRepository(db *sql.DB) *DistributionRepository {
	return &DistributionRepository{db: db}
}

// WithTx returns a copy of the repository scoped to the given transaction.
func (s *DistributionRepository) WithTx(tx *sql.Tx) *DistributionRepository {
	return &DistributionRepository{db: tx}
}

// InsertDistribution inserts a new distribution row.
func (s *DistributionRepository) InsertDistribution(ctx context.Context, d *model.Distribution) error {
	query := `
		INSERT INTO distribution (id, rental_statement_id, property_id, status, total_distributed)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		d.ID, d.RentalStatementID, d.PropertyID, d.Status, d.TotalDistributed.String())
	if err != nil {
		return fmt.Errorf("failed to insert distribution: %w", err)
	}

	return nil
}

// GetDistribution retrieves a single distribution by ID.
func (s *DistributionRepository) GetDistribution(ctx context.Context, id string) (model.Distribution, error) {
	row := s.db.QueryRowContext(ctx, distributionSelect+` WHERE id = ?`, id)
	return scanDistribution(row.Scan)
}

// GetByStatementID retrieves the distribution tied to a rental statement, if any.
func (s *DistributionRepository) GetByStatementID(ctx context.Context, statementID string) (model.Distribution, error) {
	row := s.db.QueryRowContext(ctx, distributionSelect+` WHERE rental_statement_id = ?`, statementID)
	return scanDistribution(row.Scan)
}

// TransitionStatus moves a distribution from an expected status to a new one.
// Returns ErrInvalidTransition when the row was not in the expected status.
func (s *DistributionRepository) TransitionStatus(ctx context.Context, id, fromStatus, toStatus string) error {
	query := `UPDATE distribution SET status = ? WHERE id = ? AND status = ?`

	result, err := s.db.ExecContext(ctx, query, toStatus, id, fromStatus)
	if err != nil {
		return fmt.Errorf("failed to transition distribution status: %w", err)
	}

	return requireTransition(result)
}

// Approve records approver identity and timestamp while moving
// PENDING_APPROVAL to APPROVED.
func (s *DistributionRepository) Approve(ctx context.Context, id, approvedBy, notes string, approvedAt time.Time) error {
	query := `
		UPDATE distribution
		SET status = ?, approved_by = ?, approved_at = ?, approval_notes = ?
		WHERE id = ? AND status = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		model.DistributionApproved, approvedBy, formatTime(approvedAt), notes,
		id, model.DistributionPendingApproval)
	if err != nil {
		return fmt.Errorf("failed to approve distribution: %w", err)
	}

	return requireTransition(result)
}

// Reject records rejection notes while returning PENDING_APPROVAL to DRAFT.
func (s *DistributionRepository) Reject(ctx context.Context, id, notes string) error {
	query := `
		UPDATE distribution
		SET status = ?, rejection_notes = ?
		WHERE id = ? AND status = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		model.DistributionDraft, notes, id, model.DistributionPendingApproval)
	if err != nil {
		return fmt.Errorf("failed to reject distribution: %w", err)
	}

	return requireTransition(result)
}

// Declare freezes totalDistributed and stamps declaredAt while moving APPROVED
// to DECLARED.
func (s *DistributionRepository) Declare(ctx context.Context, id string, totalDistributed decimal.Decimal, declaredAt time.Time) error {
	query := `
		UPDATE distribution
		SET status = ?, total_distributed = ?, declared_at = ?
		WHERE id = ? AND status = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		model.DistributionDeclared, totalDistributed.String(), formatTime(declaredAt),
		id, model.DistributionApproved)
	if err != nil {
		return fmt.Errorf("failed to declare distribution: %w", err)
	}

	return requireTransition(result)
}

// SetTotalDistributed updates the distribution total while still in DRAFT,
// as part of a cascading statement edit.
func (s *DistributionRepository) SetTotalDistributed(ctx context.Context, id string, total decimal.Decimal) error {
	query := `UPDATE distribution SET total_distributed = ? WHERE id = ? AND status = ?`

	result, err := s.db.ExecContext(ctx, query, total.String(), id, model.DistributionDraft)
	if err != nil {
		return fmt.Errorf("failed to update distribution total: %w", err)
	}

	return requireTransition(result)
}

// DeleteDistribution removes a distribution row. Cascade rules remove its
// payouts; ledger rows are removed explicitly by the service.
func (s *DistributionRepository) DeleteDistribution(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM distribution WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete distribution: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read distribution delete count: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrDistributionNotFound
	}

	return nil
}

const distributionSelect = `
	SELECT id, rental_statement_id, property_id, status, total_distributed,
		approved_by, approved_at, approval_notes, rejection_notes, declared_at, created_at
	FROM distribution`

func scanDistribution(scan func(dest ...any) error) (model.Distribution, error) {
	var d model.Distribution
	var totalStr, createdAtStr string
	var approvedBy, approvalNotes, rejectionNotes sql.NullString
	var approvedAt, declaredAt sql.NullString

	err := scan(
		&d.ID, &d.RentalStatementID, &d.PropertyID, &d.Status, &totalStr,
		&approvedBy, &approvedAt, &approvalNotes, &rejectionNotes, &declaredAt, &createdAtStr)
	if err == sql.ErrNoRows {
		return model.Distribution{}, apperrors.ErrDistributionNotFound
	}
	if err != nil {
		return model.Distribution{}, fmt.Errorf("failed to scan distribution row: %w", err)
	}

	if d.TotalDistributed, err = parseDecimal(totalStr); err != nil {
		return model.Distribution{}, err
	}
	d.ApprovedBy = approvedBy.String
	d.ApprovalNotes = approvalNotes.String
	d.RejectionNotes = rejectionNotes.String
	if d.ApprovedAt, err = parseNullTime(approvedAt); err != nil {
		return model.Distribution{}, err
	}
	if d.DeclaredAt, err = parseNullTime(declaredAt); err != nil {
		return model.Distribution{}, err
	}
	if d.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.Distribution{}, err
	}

	return d, nil
}

func requireTransition(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read transition row count: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrInvalidTransition
	}
	return nil
}
