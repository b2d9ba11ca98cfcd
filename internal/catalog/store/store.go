// Package store persists the program and benefit catalog.
//
// Implementations return sentinel.ErrNotFound when a program or benefit does
// not exist. Any other error is an infrastructure failure.
package store

import (
	"context"

	"solidario/internal/catalog/models"
	id "solidario/pkg/domain"
)

// Store manages programs and their benefits.
type Store interface {
	// ListPrograms returns programs ordered by code, each with its benefits
	// attached. When activeOnly is set, inactive programs and benefits are
	// filtered out.
	ListPrograms(ctx context.Context, activeOnly bool) ([]*models.Program, error)

	// FindProgram returns one program with its benefits.
	FindProgram(ctx context.Context, programID id.ProgramID) (*models.Program, error)

	// FindBenefit returns one benefit.
	FindBenefit(ctx context.Context, benefitID id.BenefitID) (*models.Benefit, error)

	// CreateProgram inserts a program and assigns its ID.
	CreateProgram(ctx context.Context, program *models.Program) error

	// UpdateProgram rewrites a program's name and active flag.
	UpdateProgram(ctx context.Context, program *models.Program) error

	// CreateBenefit inserts a benefit under an existing program and assigns
	// its ID.
	CreateBenefit(ctx context.Context, benefit *models.Benefit) error

	// UpdateBenefit rewrites a benefit's short name and active flag.
	UpdateBenefit(ctx context.Context, benefit *models.Benefit) error
}
