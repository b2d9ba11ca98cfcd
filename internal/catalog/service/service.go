// Package service exposes the program catalog and the static reference
// tables. Program and benefit names come from the database; geography and
// institutions are fixed enumerations served from memory.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"solidario/internal/catalog"
	"solidario/internal/catalog/models"
	"solidario/internal/catalog/store"
	id "solidario/pkg/domain"
	dErrors "solidario/pkg/domain-errors"
	"solidario/pkg/platform/sentinel"
)

const (
	msgProgramNotFound = "Programa no encontrado"
	msgBenefitNotFound = "Beneficio no encontrado"
	msgMissingFields   = "Código y nombre son obligatorios"
)

// Service answers catalog queries and manages programs and benefits.
type Service struct {
	store  store.Store
	logger *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New creates the catalog service.
func New(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:  st,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Programs lists programs with their benefits. Operators see only active
// entries, the admin panel sees everything.
func (s *Service) Programs(ctx context.Context, activeOnly bool) ([]*models.Program, error) {
	programs, err := s.store.ListPrograms(ctx, activeOnly)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "No fue posible consultar el catálogo de programas.")
	}
	return programs, nil
}

// Program returns one program with all its benefits.
func (s *Service) Program(ctx context.Context, programID id.ProgramID) (*models.Program, error) {
	p, err := s.store.FindProgram(ctx, programID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, msgProgramNotFound)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "No fue posible consultar el programa.")
	}
	return p, nil
}

// CreateProgram registers a new program. New programs start active.
func (s *Service) CreateProgram(ctx context.Context, code, name string) (*models.Program, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" || name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, msgMissingFields)
	}

	p := &models.Program{Code: code, Name: name, Active: true, Benefits: []models.Benefit{}}
	if err := s.store.CreateProgram(ctx, p); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "No fue posible crear el programa.")
	}
	s.logger.Info("program created", "program_id", p.ID, "code", p.Code)
	return p, nil
}

// UpdateProgram renames a program or toggles its active flag.
func (s *Service) UpdateProgram(ctx context.Context, programID id.ProgramID, name string, active bool) (*models.Program, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, msgMissingFields)
	}

	p := &models.Program{ID: programID, Name: name, Active: active}
	err := s.store.UpdateProgram(ctx, p)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, msgProgramNotFound)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "No fue posible actualizar el programa.")
	}
	return s.Program(ctx, programID)
}

// CreateBenefit adds a benefit to an existing program.
func (s *Service) CreateBenefit(ctx context.Context, programID id.ProgramID, code, shortName string) (*models.Benefit, error) {
	code = strings.TrimSpace(code)
	shortName = strings.TrimSpace(shortName)
	if code == "" || shortName == "" {
		return nil, dErrors.New(dErrors.CodeValidation, msgMissingFields)
	}

	b := &models.Benefit{ProgramID: programID, Code: code, ShortName: shortName, Active: true}
	err := s.store.CreateBenefit(ctx, b)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, msgProgramNotFound)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "No fue posible crear el beneficio.")
	}
	s.logger.Info("benefit created", "benefit_id", b.ID, "program_id", programID, "code", b.Code)
	return b, nil
}

// UpdateBenefit renames a benefit or toggles its active flag.
func (s *Service) UpdateBenefit(ctx context.Context, benefitID id.BenefitID, shortName string, active bool) (*models.Benefit, error) {
	shortName = strings.TrimSpace(shortName)
	if shortName == "" {
		return nil, dErrors.New(dErrors.CodeValidation, msgMissingFields)
	}

	b := &models.Benefit{ID: benefitID, ShortName: shortName, Active: active}
	err := s.store.UpdateBenefit(ctx, b)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, msgBenefitNotFound)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "No fue posible actualizar el beneficio.")
	}
	updated, err := s.store.FindBenefit(ctx, benefitID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "No fue posible consultar el beneficio.")
	}
	return updated, nil
}

// ProgramName resolves a program ID to its display name.
func (s *Service) ProgramName(ctx context.Context, programID id.ProgramID) (string, error) {
	p, err := s.store.FindProgram(ctx, programID)
	if err != nil {
		return "", err
	}
	return p.Name, nil
}

// BenefitName resolves a benefit ID to its display name.
func (s *Service) BenefitName(ctx context.Context, benefitID id.BenefitID) (string, error) {
	b, err := s.store.FindBenefit(ctx, benefitID)
	if err != nil {
		return "", err
	}
	return b.ShortName, nil
}

// InstitutionName resolves an institution code to its display name.
func (s *Service) InstitutionName(code int) (string, bool) {
	return catalog.InstitutionName(code)
}

// DepartmentName resolves a department code to its display name.
func (s *Service) DepartmentName(code int) (string, bool) {
	return catalog.DepartmentName(code)
}

// MunicipalityName resolves a department and municipality code pair.
func (s *Service) MunicipalityName(departmentCode, municipalityCode int) (string, bool) {
	return catalog.MunicipalityName(departmentCode, municipalityCode)
}

// Geography returns the full department and municipality listing.
func (s *Service) Geography() []models.Department {
	return catalog.Departments()
}

// Institutions returns the institution enumeration.
func (s *Service) Institutions() []models.Institution {
	return catalog.Institutions()
}
