// Package store persists portal publications.
//
// Implementations return sentinel.ErrNotFound when a publication does not
// exist and sentinel.ErrConflict when a slug is already taken within a kind.
package store

import (
	"context"

	"solidario/internal/content/models"
	id "solidario/pkg/domain"
)

// ListFilter narrows a publication listing. Zero values mean "no filter".
type ListFilter struct {
	Kind   models.Kind
	Status models.Status
	Limit  int
	Offset int
}

// Store manages publications.
type Store interface {
	// Create inserts a new publication.
	Create(ctx context.Context, pub *models.Publication) error

	// Update rewrites an existing publication.
	Update(ctx context.Context, pub *models.Publication) error

	// FindByID returns one publication regardless of status.
	FindByID(ctx context.Context, pubID id.PublicationID) (*models.Publication, error)

	// FindBySlug returns one publication by kind and slug.
	FindBySlug(ctx context.Context, kind models.Kind, slug string) (*models.Publication, error)

	// List returns publications matching the filter, newest first.
	List(ctx context.Context, filter ListFilter) ([]*models.Publication, error)

	// Delete removes a publication.
	Delete(ctx context.Context, pubID id.PublicationID) error
}
