package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/apperrors"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/model"
)

// StatementRepository provides data access methods for the rental_statement table.
type StatementRepository struct {
	db DBTX
}

// NewStatementRepository creates a new StatementRepository with the provided database connection.
func NewStatementRepository(db *sql.DB) *StatementRepository {
	return &StatementRepository{db: db}
}

// WithTx returns a copy of the repository scoped to the given transaction.
func (s *StatementRepository) WithTx(tx *sql.Tx) *StatementRepository {
	return &StatementRepository{db: tx}
}

// InsertStatement inserts a new rental statement row, serializing cost items to JSON.
func (s *StatementRepository) InsertStatement(ctx context.Context, st *model.RentalStatement) error {
	itemsJSON, err := marshalCostItems(st.OperatingCostItems)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO rental_statement
			(id, property_id, period_start, period_end, gross_revenue, operating_costs,
			 management_fee, income_adjustment, net_distributable, operating_cost_items)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		st.ID, st.PropertyID, formatDate(st.PeriodStart), formatDate(st.PeriodEnd),
		st.GrossRevenue.String(), st.OperatingCosts.String(), st.ManagementFee.String(),
		st.IncomeAdjustment.String(), st.NetDistributable.String(), itemsJSON)
	if err != nil {
		return fmt.Errorf("failed to insert rental statement: %w", err)
	}

	return nil
}

// UpdateStatement rewrites the statement's financial columns and cost items.
func (s *StatementRepository) UpdateStatement(ctx context.Context, st *model.RentalStatement) error {
	itemsJSON, err := marshalCostItems(st.OperatingCostItems)
	if err != nil {
		return err
	}

	query := `
		UPDATE rental_statement
		SET period_start = ?, period_end = ?, gross_revenue = ?, operating_costs = ?,
			management_fee = ?, income_adjustment = ?, net_distributable = ?,
			operating_cost_items = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		formatDate(st.PeriodStart), formatDate(st.PeriodEnd),
		st.GrossRevenue.String(), st.OperatingCosts.String(), st.ManagementFee.String(),
		st.IncomeAdjustment.String(), st.NetDistributable.String(), itemsJSON, st.ID)
	if err != nil {
		return fmt.Errorf("failed to update rental statement: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read statement update count: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrStatementNotFound
	}

	return nil
}

// ExistsForPeriod reports whether the property already has a statement for the
// exact period. Backed by the unique_statement_period index; checked up front
// so the caller gets a sentinel instead of a driver constraint error.
func (s *StatementRepository) ExistsForPeriod(ctx context.Context, propertyID string, periodStart, periodEnd time.Time) (bool, error) {
	query := `
		SELECT COUNT(*) FROM rental_statement
		WHERE property_id = ? AND period_start = ? AND period_end = ?
	`

	var count int
	err := s.db.QueryRowContext(ctx, query, propertyID, formatDate(periodStart), formatDate(periodEnd)).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check statement period: %w", err)
	}
	return count > 0, nil
}

// GetStatement retrieves a single rental statement by ID.
func (s *StatementRepository) GetStatement(ctx context.Context, id string) (model.RentalStatement, error) {
	query := statementSelect + ` WHERE id = ?`

	row := s.db.QueryRowContext(ctx, query, id)
	st, err := scanStatement(row.Scan)
	if err == sql.ErrNoRows {
		return model.RentalStatement{}, apperrors.ErrStatementNotFound
	}
	return st, err
}

// ListByProperty retrieves all statements for a property, newest period first.
func (s *StatementRepository) ListByProperty(ctx context.Context, propertyID string) ([]model.RentalStatement, error) {
	query := statementSelect + ` WHERE property_id = ? ORDER BY period_start DESC`

	rows, err := s.db.QueryContext(ctx, query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rental_statement table: %w", err)
	}
	defer rows.Close()

	statements := []model.RentalStatement{}
	for rows.Next() {
		st, err := scanStatement(rows.Scan)
		if err != nil {
			return nil, err
		}
		statements = append(statements, st)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rental_statement table: %w", err)
	}

	return statements, nil
}

const statementSelect = `
	SELECT id, property_id, period_start, period_end, gross_revenue, operating_costs,
		management_fee, income_adjustment, net_distributable, operating_cost_items,
		created_at, updated_at
	FROM rental_statement`

func scanStatement(scan func(dest ...any) error) (model.RentalStatement, error) {
	var st model.RentalStatement
	var startStr, endStr, grossStr, costsStr, feeStr, adjStr, netStr string
	var createdAtStr, updatedAtStr string
	var itemsJSON sql.NullString

	err := scan(
		&st.ID, &st.PropertyID, &startStr, &endStr, &grossStr, &costsStr,
		&feeStr, &adjStr, &netStr, &itemsJSON, &createdAtStr, &updatedAtStr)
	if err == sql.ErrNoRows {
		return model.RentalStatement{}, err
	}
	if err != nil {
		return model.RentalStatement{}, fmt.Errorf("failed to scan rental_statement row: %w", err)
	}

	if st.PeriodStart, err = ParseTime(startStr); err != nil {
		return model.RentalStatement{}, err
	}
	if st.PeriodEnd, err = ParseTime(endStr); err != nil {
		return model.RentalStatement{}, err
	}
	if st.GrossRevenue, err = parseDecimal(grossStr); err != nil {
		return model.RentalStatement{}, err
	}
	if st.OperatingCosts, err = parseDecimal(costsStr); err != nil {
		return model.RentalStatement{}, err
	}
	if st.ManagementFee, err = parseDecimal(feeStr); err != nil {
		return model.RentalStatement{}, err
	}
	if st.IncomeAdjustment, err = parseDecimal(adjStr); err != nil {
		return model.RentalStatement{}, err
	}
	if st.NetDistributable, err = parseDecimal(netStr); err != nil {
		return model.RentalStatement{}, err
	}
	if st.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.RentalStatement{}, err
	}
	if st.UpdatedAt, err = ParseTime(updatedAtStr); err != nil {
		return model.RentalStatement{}, err
	}

	if itemsJSON.Valid && itemsJSON.String != "" {
		if err := json.Unmarshal([]byte(itemsJSON.String), &st.OperatingCostItems); err != nil {
			return model.RentalStatement{}, fmt.Errorf("failed to unmarshal cost items: %w", err)
		}
	}

	return st, nil
}

func marshalCostItems(items []model.OperatingCostItem) (any, error) {
	if len(items) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cost items: %w", err)
	}
	return string(raw), nil
}
