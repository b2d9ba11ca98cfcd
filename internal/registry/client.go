// Package registry integrates the external citizen registry. The registry is
// consumed as a black box with two lookup tiers: a basic identity query used
// for operator confirmation, and a full demographic query issued only after
// explicit confirmation.
package registry

import (
	"context"

	id "solidario/pkg/domain"

	"solidario/internal/registry/models"
)

// Client queries the citizen registry. Implementations must return
// sentinel.ErrNotFound (optionally wrapped) when the person does not exist,
// and any other error for transport failures.
type Client interface {
	LookupBasic(ctx context.Context, cui id.CUI) (*models.BasicPersonRecord, error)
	LookupFull(ctx context.Context, cui id.CUI) (*models.FullPersonRecord, error)
}
