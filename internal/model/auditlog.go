package model

import "time"

// AuditLog records an admin lifecycle action. Audit writes are best-effort:
// a failed audit insert is logged but never fails the primary operation.
type AuditLog struct {
	ID         string    `json:"id"`
	ActorID    string    `json:"actorID"`
	Action     string    `json:"action"`
	EntityType string    `json:"entityType"`
	EntityID   string    `json:"entityID"`
	Reason     string    `json:"reason,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
