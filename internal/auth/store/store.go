// Package store persists staff users.
//
// Implementations return sentinel.ErrNotFound when a user does not exist
// and sentinel.ErrConflict when a username is already taken.
package store

import (
	"context"

	"solidario/internal/auth/models"
	id "solidario/pkg/domain"
)

// Store manages staff users.
type Store interface {
	// Create inserts a new staff user.
	Create(ctx context.Context, user *models.StaffUser) error

	// FindByUsername returns one user by exact username.
	FindByUsername(ctx context.Context, username string) (*models.StaffUser, error)

	// FindByID returns one user.
	FindByID(ctx context.Context, userID id.UserID) (*models.StaffUser, error)

	// List returns all staff users ordered by username.
	List(ctx context.Context) ([]*models.StaffUser, error)

	// SetActive flips a user's active flag.
	SetActive(ctx context.Context, userID id.UserID, active bool) error
}
