//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"solidario/internal/catalog/models"
	"solidario/internal/catalog/store"
	"solidario/pkg/platform/sentinel"
	"solidario/pkg/testutil/containers"
)

type PostgresCatalogSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresCatalogSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresCatalogSuite))
}

func (s *PostgresCatalogSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = store.NewPostgresStore(s.postgres.DB)
}

func (s *PostgresCatalogSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateModuleTables(context.Background()))
}

func (s *PostgresCatalogSuite) seedProgram(code, name string, active bool) *models.Program {
	p := &models.Program{Code: code, Name: name, Active: active}
	s.Require().NoError(s.store.CreateProgram(context.Background(), p))
	s.Require().NotZero(p.ID)
	return p
}

func (s *PostgresCatalogSuite) TestCreateAndFindProgram() {
	ctx := context.Background()

	p := s.seedProgram("BS", "Bono Social", true)

	b := &models.Benefit{ProgramID: p.ID, Code: "APO", ShortName: "Aporte económico", Active: true}
	s.Require().NoError(s.store.CreateBenefit(ctx, b))
	s.Require().NotZero(b.ID)

	found, err := s.store.FindProgram(ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("Bono Social", found.Name)
	s.False(found.CreatedAt.IsZero())
	s.Require().Len(found.Benefits, 1)
	s.Equal("Aporte económico", found.Benefits[0].ShortName)
}

func (s *PostgresCatalogSuite) TestFindMissing() {
	ctx := context.Background()

	_, err := s.store.FindProgram(ctx, 9999)
	s.ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.FindBenefit(ctx, 9999)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresCatalogSuite) TestListFiltersAndOrders() {
	ctx := context.Background()

	active := s.seedProgram("BS", "Bono Social", true)
	s.seedProgram("AM", "Adulto Mayor", true)
	s.seedProgram("VM", "Vaso de Leche", false)

	s.Require().NoError(s.store.CreateBenefit(ctx,
		&models.Benefit{ProgramID: active.ID, Code: "APO", ShortName: "Aporte económico", Active: true}))
	s.Require().NoError(s.store.CreateBenefit(ctx,
		&models.Benefit{ProgramID: active.ID, Code: "ALI", ShortName: "Bolsa de alimentos", Active: false}))

	all, err := s.store.ListPrograms(ctx, false)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal("AM", all[0].Code)

	onlyActive, err := s.store.ListPrograms(ctx, true)
	s.Require().NoError(err)
	s.Require().Len(onlyActive, 2)
	for _, p := range onlyActive {
		if p.ID == active.ID {
			s.Require().Len(p.Benefits, 1)
			s.Equal("APO", p.Benefits[0].Code)
		}
	}
}

func (s *PostgresCatalogSuite) TestUpdates() {
	ctx := context.Background()

	p := s.seedProgram("BS", "Bono Social", true)
	b := &models.Benefit{ProgramID: p.ID, Code: "APO", ShortName: "Aporte", Active: true}
	s.Require().NoError(s.store.CreateBenefit(ctx, b))

	p.Name = "Bono Social Ampliado"
	p.Active = false
	s.Require().NoError(s.store.UpdateProgram(ctx, p))

	b.ShortName = "Aporte económico"
	b.Active = false
	s.Require().NoError(s.store.UpdateBenefit(ctx, b))

	found, err := s.store.FindProgram(ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("Bono Social Ampliado", found.Name)
	s.False(found.Active)
	s.Require().Len(found.Benefits, 1)
	s.Equal("Aporte económico", found.Benefits[0].ShortName)
	s.False(found.Benefits[0].Active)

	s.ErrorIs(s.store.UpdateProgram(ctx, &models.Program{ID: 9999, Name: "X"}), sentinel.ErrNotFound)
	s.ErrorIs(s.store.UpdateBenefit(ctx, &models.Benefit{ID: 9999, ShortName: "X"}), sentinel.ErrNotFound)
}
