//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"solidario/internal/content/models"
	"solidario/internal/content/store"
	id "solidario/pkg/domain"
	"solidario/pkg/platform/sentinel"
	"solidario/pkg/testutil/containers"
)

type PostgresContentSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
	author   id.UserID
}

func TestPostgresContentSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresContentSuite))
}

func (s *PostgresContentSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = store.NewPostgresStore(s.postgres.DB)
}

func (s *PostgresContentSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateModuleTables(ctx))
	s.author = s.postgres.CreateTestStaffUser(ctx, s.T(), "editor")
}

func (s *PostgresContentSuite) newPublication(kind models.Kind, slug string) *models.Publication {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.Publication{
		ID:        id.NewPublicationID(),
		Kind:      kind,
		Title:     "Título de prueba",
		Slug:      slug,
		Summary:   "Resumen",
		Body:      "Cuerpo del artículo",
		Status:    models.StatusDraft,
		AuthorID:  s.author,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *PostgresContentSuite) TestCreateAndFind() {
	ctx := context.Background()

	pub := s.newPublication(models.KindNews, "entrega-en-mixco")
	s.Require().NoError(s.store.Create(ctx, pub))

	found, err := s.store.FindByID(ctx, pub.ID)
	s.Require().NoError(err)
	s.Equal(pub.Slug, found.Slug)
	s.Equal(s.author, found.AuthorID)
	s.Nil(found.PublishedAt)

	bySlug, err := s.store.FindBySlug(ctx, models.KindNews, "entrega-en-mixco")
	s.Require().NoError(err)
	s.Equal(pub.ID, bySlug.ID)
}

func (s *PostgresContentSuite) TestSlugUniquePerKind() {
	ctx := context.Background()

	s.Require().NoError(s.store.Create(ctx, s.newPublication(models.KindNews, "repetida")))

	err := s.store.Create(ctx, s.newPublication(models.KindNews, "repetida"))
	s.ErrorIs(err, sentinel.ErrConflict)

	s.NoError(s.store.Create(ctx, s.newPublication(models.KindBulletin, "repetida")))
}

func (s *PostgresContentSuite) TestUpdateAndPublish() {
	ctx := context.Background()

	pub := s.newPublication(models.KindStory, "una-vida")
	s.Require().NoError(s.store.Create(ctx, pub))

	publishedAt := time.Now().UTC().Truncate(time.Microsecond)
	pub.Status = models.StatusPublished
	pub.PublishedAt = &publishedAt
	pub.Title = "Una vida nueva"
	s.Require().NoError(s.store.Update(ctx, pub))

	found, err := s.store.FindByID(ctx, pub.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusPublished, found.Status)
	s.Require().NotNil(found.PublishedAt)
	s.Equal(publishedAt, found.PublishedAt.UTC())

	s.ErrorIs(s.store.Update(ctx, s.newPublication(models.KindNews, "fantasma")), sentinel.ErrNotFound)
}

func (s *PostgresContentSuite) TestListFiltersAndPaginates() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Microsecond).Add(-time.Hour)

	for i, slug := range []string{"vieja", "media", "nueva"} {
		pub := s.newPublication(models.KindNews, slug)
		at := base.Add(time.Duration(i) * time.Minute)
		pub.Status = models.StatusPublished
		pub.PublishedAt = &at
		s.Require().NoError(s.store.Create(ctx, pub))
	}
	s.Require().NoError(s.store.Create(ctx, s.newPublication(models.KindNews, "borrador")))

	published, err := s.store.List(ctx, store.ListFilter{Kind: models.KindNews, Status: models.StatusPublished})
	s.Require().NoError(err)
	s.Require().Len(published, 3)
	s.Equal("nueva", published[0].Slug)

	page, err := s.store.List(ctx, store.ListFilter{
		Kind: models.KindNews, Status: models.StatusPublished, Limit: 1, Offset: 1,
	})
	s.Require().NoError(err)
	s.Require().Len(page, 1)
	s.Equal("media", page[0].Slug)
}

func (s *PostgresContentSuite) TestDelete() {
	ctx := context.Background()

	pub := s.newPublication(models.KindPressRelease, "para-borrar")
	s.Require().NoError(s.store.Create(ctx, pub))
	s.Require().NoError(s.store.Delete(ctx, pub.ID))

	_, err := s.store.FindByID(ctx, pub.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
	s.ErrorIs(s.store.Delete(ctx, pub.ID), sentinel.ErrNotFound)
}
