// Package seeder populates development stores with demo data: a staff user
// per role, a couple of programs with benefits, and sample portal content.
// It is only invoked for in-memory setups; real databases are provisioned
// through migrations and the admin panel.
package seeder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	authmodels "solidario/internal/auth/models"
	catalogmodels "solidario/internal/catalog/models"
	contentmodels "solidario/internal/content/models"
	id "solidario/pkg/domain"
)

// DemoPassword is the password shared by all seeded staff accounts.
const DemoPassword = "solidario123"

// StaffStore is the subset of the auth store the seeder needs.
type StaffStore interface {
	Create(ctx context.Context, user *authmodels.StaffUser) error
}

// CatalogStore is the subset of the catalog store the seeder needs.
type CatalogStore interface {
	CreateProgram(ctx context.Context, program *catalogmodels.Program) error
	CreateBenefit(ctx context.Context, benefit *catalogmodels.Benefit) error
}

// ContentStore is the subset of the content store the seeder needs.
type ContentStore interface {
	Create(ctx context.Context, pub *contentmodels.Publication) error
}

// Seeder writes demo data into the given stores.
type Seeder struct {
	staff   StaffStore
	catalog CatalogStore
	content ContentStore
	logger  *slog.Logger
}

// Option configures the Seeder.
type Option func(*Seeder)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Seeder) {
		s.logger = logger
	}
}

// New creates a Seeder.
func New(staff StaffStore, catalog CatalogStore, content ContentStore, opts ...Option) *Seeder {
	s := &Seeder{
		staff:   staff,
		catalog: catalog,
		content: content,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed populates all stores. It is not idempotent and expects empty stores.
func (s *Seeder) Seed(ctx context.Context) error {
	s.logger.Info("seeding demo data")

	editorID, err := s.seedStaff(ctx)
	if err != nil {
		return fmt.Errorf("seed staff: %w", err)
	}
	if err := s.seedCatalog(ctx); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	if err := s.seedContent(ctx, editorID); err != nil {
		return fmt.Errorf("seed content: %w", err)
	}

	s.logger.Info("demo data ready", "password", DemoPassword)
	return nil
}

// seedStaff creates one account per role and returns the editor's ID so the
// sample publications get a real author.
func (s *Seeder) seedStaff(ctx context.Context) (id.UserID, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return id.UserID{}, err
	}

	accounts := []struct {
		username string
		fullName string
		role     string
	}{
		{"admin", "Administrador del Sistema", authmodels.RoleAdmin},
		{"operadora1", "Ana Lucía Morales", authmodels.RoleOperator},
		{"editor1", "Carlos Pérez", authmodels.RoleEditor},
	}

	var editorID id.UserID
	now := time.Now().UTC()
	for _, a := range accounts {
		user := &authmodels.StaffUser{
			ID:           id.NewUserID(),
			Username:     a.username,
			FullName:     a.fullName,
			PasswordHash: string(hash),
			Role:         a.role,
			Active:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.staff.Create(ctx, user); err != nil {
			return id.UserID{}, err
		}
		if a.role == authmodels.RoleEditor {
			editorID = user.ID
		}
		s.logger.Info("seeded staff user", "username", a.username, "role", a.role)
	}
	return editorID, nil
}

func (s *Seeder) seedCatalog(ctx context.Context) error {
	programs := []struct {
		code     string
		name     string
		benefits []catalogmodels.Benefit
	}{
		{
			code: "BSE",
			name: "Bono Social de Emergencia",
			benefits: []catalogmodels.Benefit{
				{Code: "BSE-EFE", ShortName: "Aporte en efectivo", Active: true},
				{Code: "BSE-ALI", ShortName: "Bolsa de alimentos", Active: true},
			},
		},
		{
			code: "CMB",
			name: "Comedores Solidarios",
			benefits: []catalogmodels.Benefit{
				{Code: "CMB-RAC", ShortName: "Ración servida", Active: true},
			},
		},
	}

	now := time.Now().UTC()
	for _, p := range programs {
		program := &catalogmodels.Program{
			Code:      p.code,
			Name:      p.name,
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.catalog.CreateProgram(ctx, program); err != nil {
			return err
		}
		for _, b := range p.benefits {
			benefit := b
			benefit.ProgramID = program.ID
			if err := s.catalog.CreateBenefit(ctx, &benefit); err != nil {
				return err
			}
		}
		s.logger.Info("seeded program", "code", p.code, "benefits", len(p.benefits))
	}
	return nil
}

func (s *Seeder) seedContent(ctx context.Context, authorID id.UserID) error {
	now := time.Now().UTC()
	samples := []contentmodels.Publication{
		{
			Kind:    contentmodels.KindNews,
			Title:   "Inicia la entrega de bolsas de alimentos en Quiché",
			Summary: "Más de dos mil familias recibirán el apoyo durante esta semana.",
			Body:    "El programa Bono Social de Emergencia inició hoy la entrega de bolsas de alimentos en el departamento de Quiché.",
		},
		{
			Kind:    contentmodels.KindStory,
			Title:   "Doña Marta y su comedor comunitario",
			Summary: "La historia de una beneficiaria que hoy apoya a su comunidad.",
			Body:    "Doña Marta recibió el primer aporte hace un año. Hoy coordina el comedor de su aldea.",
		},
		{
			Kind:    contentmodels.KindPressRelease,
			Title:   "Comunicado sobre la ampliación de cobertura",
			Summary: "Se amplía la cobertura del programa a tres municipios más.",
			Body:    "El ministerio informa que a partir del próximo mes la cobertura se amplía a tres municipios adicionales.",
		},
	}

	for i := range samples {
		pub := samples[i]
		pub.ID = id.NewPublicationID()
		pub.Slug = contentmodels.Slugify(pub.Title)
		pub.Status = contentmodels.StatusPublished
		publishedAt := now.Add(-time.Duration(i) * time.Hour)
		pub.PublishedAt = &publishedAt
		pub.AuthorID = authorID
		pub.CreatedAt = publishedAt
		pub.UpdatedAt = publishedAt
		if err := s.content.Create(ctx, &pub); err != nil {
			return err
		}
	}
	s.logger.Info("seeded publications", "count", len(samples))
	return nil
}
