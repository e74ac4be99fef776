package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/apperrors"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/model"
)

// UserRepository provides data access methods for the user table. Account
// management lives elsewhere; this service only resolves identities.
type UserRepository struct {
	db DBTX
}

// NewUserRepository creates a new UserRepository with the provided database connection.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx returns a copy of the repository scoped to the given transaction.
func (s *UserRepository) WithTx(tx *sql.Tx) *UserRepository {
	return &UserRepository{db: tx}
}

// GetUser retrieves a single user by ID.
func (s *UserRepository) GetUser(ctx context.Context, id string) (model.User, error) {
	query := `SELECT id, email, name, is_admin, created_at FROM user WHERE id = ?`

	var u model.User
	var createdAtStr string

	err := s.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Email, &u.Name, &u.IsAdmin, &createdAtStr)
	if err == sql.ErrNoRows {
		return model.User{}, apperrors.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to query user table: %w", err)
	}

	if u.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.User{}, err
	}

	return u, nil
}
