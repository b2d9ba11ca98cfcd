// Package store caches citizen registry answers so repeated lookups for the
// same person within a short window do not hit the upstream service.
package store

import (
	"context"

	id "solidario/pkg/domain"

	"solidario/internal/registry/models"
)

// Error Contract:
// All store methods follow this error pattern:
// - Return sentinel.ErrNotFound on cache miss
// - Return nil for successful operations
// - Return wrapped errors for infrastructure failures

// CacheStore caches registry lookups per tier.
type CacheStore interface {
	FindBasic(ctx context.Context, cui id.CUI) (*models.BasicPersonRecord, error)
	SaveBasic(ctx context.Context, record *models.BasicPersonRecord) error
	FindFull(ctx context.Context, cui id.CUI) (*models.FullPersonRecord, error)
	SaveFull(ctx context.Context, record *models.FullPersonRecord) error
}
