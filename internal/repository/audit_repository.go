package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/model"
)

// AuditRepository provides data access methods for the audit_log table.
// Writes are best-effort at the service layer; this repository just persists.
type AuditRepository struct {
	db DBTX
}

// NewAuditRepository creates a new AuditRepository with the provided database connection.
func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// InsertAuditLog inserts a single audit row.
func (s *AuditRepository) InsertAuditLog(ctx context.Context, entry *model.AuditLog) error {
	query := `
		INSERT INTO audit_log (id, actor_id, action, entity_type, entity_id, reason)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		entry.ID, entry.ActorID, entry.Action, entry.EntityType, entry.EntityID, entry.Reason)
	if err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}

	return nil
}

// ListByEntity retrieves audit rows for an entity, newest first.
func (s *AuditRepository) ListByEntity(ctx context.Context, entityType, entityID string) ([]model.AuditLog, error) {
	query := `
		SELECT id, actor_id, action, entity_type, entity_id, reason, created_at
		FROM audit_log
		WHERE entity_type = ? AND entity_id = ?
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit_log table: %w", err)
	}
	defer rows.Close()

	entries := []model.AuditLog{}
	for rows.Next() {
		var e model.AuditLog
		var reason sql.NullString
		var createdAtStr string

		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.EntityType, &e.EntityID, &reason, &createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan audit_log row: %w", err)
		}
		e.Reason = reason.String
		if e.CreatedAt, err = ParseTime(createdAtStr); err != nil {
			return nil, err
		}

		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit_log table: %w", err)
	}

	return entries, nil
}
