// Package store persists registration sessions and submitted delivery
// records. Sessions are short-lived and live in memory; delivery records are
// the system of record and go to PostgreSQL.
package store

import (
	"context"
	"time"

	id "solidario/pkg/domain"

	"solidario/internal/delivery/models"
)

// Error Contract:
// All store methods follow this error pattern:
// - Return sentinel.ErrNotFound when the entity does not exist
// - Return nil for successful operations
// - Return wrapped errors for infrastructure failures

// SessionStore holds the active registration session per operator. An
// operator works one form at a time, so sessions are keyed by operator.
type SessionStore interface {
	FindByOperator(ctx context.Context, operatorID id.UserID) (*models.Session, error)
	Save(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, operatorID id.UserID) error
}

// ListFilter narrows delivery listings for the admin panel.
type ListFilter struct {
	CUI       string
	ProgramID id.ProgramID
	Status    string
	From      time.Time
	To        time.Time
	Limit     int
	Offset    int
}

// DeliveryStore persists submitted delivery records.
type DeliveryStore interface {
	Save(ctx context.Context, record *models.DeliveryRecord) error
	FindByID(ctx context.Context, deliveryID id.DeliveryID) (*models.DeliveryRecord, error)
	List(ctx context.Context, filter ListFilter) ([]*models.DeliveryRecord, error)
	CountByCUI(ctx context.Context, cui string) (int, error)
	UpdateStatus(ctx context.Context, deliveryID id.DeliveryID, status string) error
}
