package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/apperrors"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/model"
)

// PropertyRepository provides data access methods for the property table.
type PropertyRepository struct {
	db DBTX
}

// NewPropertyRepository creates a new PropertyRepository with the provided database connection.
func NewPropertyRepository(db *sql.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

// WithTx returns a copy of the repository scoped to the given transaction.
func (s *PropertyRepository) WithTx(tx *sql.Tx) *PropertyRepository {
	return &PropertyRepository{db: tx}
}

// InsertProperty inserts a new property row.
func (s *PropertyRepository) InsertProperty(ctx context.Context, p *model.Property) error {
	query := `
		INSERT INTO property (id, name, address, total_shares, price_per_share, available_shares)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Address, p.TotalShares, p.PricePerShare.String(), p.AvailableShares)
	if err != nil {
		return fmt.Errorf("failed to insert property: %w", err)
	}

	return nil
}

// GetProperty retrieves a single property by ID.
func (s *PropertyRepository) GetProperty(ctx context.Context, id string) (model.Property, error) {
	query := `
		SELECT id, name, address, total_shares, price_per_share, available_shares, created_at
		FROM property
		WHERE id = ?
	`

	var p model.Property
	var priceStr, createdAtStr string

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Address, &p.TotalShares, &priceStr, &p.AvailableShares, &createdAtStr)
	if err == sql.ErrNoRows {
		return model.Property{}, apperrors.ErrPropertyNotFound
	}
	if err != nil {
		return model.Property{}, fmt.Errorf("failed to query property table: %w", err)
	}

	if p.PricePerShare, err = parseDecimal(priceStr); err != nil {
		return model.Property{}, err
	}
	if p.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.Property{}, err
	}

	return p, nil
}

// GetAllProperties retrieves all properties ordered by name.
func (s *PropertyRepository) GetAllProperties(ctx context.Context) ([]model.Property, error) {
	query := `
		SELECT id, name, address, total_shares, price_per_share, available_shares, created_at
		FROM property
		ORDER BY name ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query property table: %w", err)
	}
	defer rows.Close()

	properties := []model.Property{}
	for rows.Next() {
		var p model.Property
		var priceStr, createdAtStr string

		if err := rows.Scan(&p.ID, &p.Name, &p.Address, &p.TotalShares, &priceStr, &p.AvailableShares, &createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan property table results: %w", err)
		}
		if p.PricePerShare, err = parseDecimal(priceStr); err != nil {
			return nil, err
		}
		if p.CreatedAt, err = ParseTime(createdAtStr); err != nil {
			return nil, err
		}

		properties = append(properties, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating property table: %w", err)
	}

	return properties, nil
}

// RefreshAvailableShares recomputes the cached available_shares column for every
// property from its confirmed investments. The cache feeds listing pages only;
// allocation never reads it.
func (s *PropertyRepository) RefreshAvailableShares(ctx context.Context) (int64, error) {
	query := `
		UPDATE property
		SET available_shares = total_shares - COALESCE((
			SELECT SUM(i.shares) FROM investment i
			WHERE i.property_id = property.id AND i.status = 'CONFIRMED'
		), 0)
	`

	result, err := s.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to refresh available shares: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read refresh row count: %w", err)
	}

	return affected, nil
}
