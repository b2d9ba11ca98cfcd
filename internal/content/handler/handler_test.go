package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "solidario/pkg/domain"
	dErrors "solidario/pkg/domain-errors"

	"solidario/internal/content/models"
	"solidario/internal/content/service"
	"solidario/internal/content/store"
	"solidario/internal/platform/middleware"
)

type stubContent struct {
	pub        *models.Publication
	published  []*models.Publication
	err        error
	lastDraft  service.Draft
	lastKind   models.Kind
	lastSlug   string
	lastFilter store.ListFilter
	deleted    id.PublicationID
}

func (s *stubContent) Create(_ context.Context, _ id.UserID, draft service.Draft) (*models.Publication, error) {
	s.lastDraft = draft
	return s.result()
}

func (s *stubContent) Update(_ context.Context, _ id.UserID, _ id.PublicationID, draft service.Draft) (*models.Publication, error) {
	s.lastDraft = draft
	return s.result()
}

func (s *stubContent) Publish(_ context.Context, _ id.UserID, _ id.PublicationID) (*models.Publication, error) {
	return s.result()
}

func (s *stubContent) Unpublish(_ context.Context, _ id.UserID, _ id.PublicationID) (*models.Publication, error) {
	return s.result()
}

func (s *stubContent) Delete(_ context.Context, _ id.UserID, pubID id.PublicationID) error {
	s.deleted = pubID
	return s.err
}

func (s *stubContent) Find(_ context.Context, _ id.PublicationID) (*models.Publication, error) {
	return s.result()
}

func (s *stubContent) List(_ context.Context, filter store.ListFilter) ([]*models.Publication, error) {
	s.lastFilter = filter
	return s.published, s.err
}

func (s *stubContent) ListPublished(_ context.Context, kind models.Kind, limit, offset int) ([]*models.Publication, error) {
	s.lastKind = kind
	return s.published, s.err
}

func (s *stubContent) FindPublished(_ context.Context, kind models.Kind, slug string) (*models.Publication, error) {
	s.lastKind = kind
	s.lastSlug = slug
	return s.result()
}

func (s *stubContent) result() (*models.Publication, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.pub, nil
}

func testPublication() *models.Publication {
	return &models.Publication{
		ID:     id.NewPublicationID(),
		Kind:   models.KindNews,
		Title:  "Entrega en Mixco",
		Slug:   "entrega-en-mixco",
		Status: models.StatusPublished,
	}
}

func newTestRouter(stub *stubContent) *chi.Mux {
	h := New(stub, slog.Default())
	r := chi.NewRouter()
	r.Route("/portal", h.RegisterPublic)
	r.Route("/api/content", h.RegisterAdmin)
	return r
}

func editorRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	claims := &middleware.TokenClaims{
		UserID:   id.NewUserID().String(),
		Username: "editora1",
		Role:     "editor",
	}
	return req.WithContext(middleware.WithClaims(req.Context(), claims))
}

func TestPortalListParsesKind(t *testing.T) {
	stub := &stubContent{published: []*models.Publication{testPublication()}}
	rec := httptest.NewRecorder()

	newTestRouter(stub).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/portal/noticia", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.KindNews, stub.lastKind)
	assert.Contains(t, rec.Body.String(), "entrega-en-mixco")
}

func TestPortalUnknownKindIs404(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(&stubContent{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/portal/videos", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPortalGetBySlug(t *testing.T) {
	stub := &stubContent{pub: testPublication()}
	rec := httptest.NewRecorder()

	newTestRouter(stub).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/portal/noticia/entrega-en-mixco", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "entrega-en-mixco", stub.lastSlug)
}

func TestPortalRejectsBadLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(&stubContent{}).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/portal/noticia?limit=9999", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreatePassesDraft(t *testing.T) {
	stub := &stubContent{pub: testPublication()}
	rec := httptest.NewRecorder()

	req := editorRequest(t, http.MethodPost, "/api/content/", map[string]string{
		"kind":  "noticia",
		"title": "Entrega en Mixco",
		"body":  "Texto",
	})
	newTestRouter(stub).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "noticia", stub.lastDraft.Kind)
	assert.Equal(t, "Entrega en Mixco", stub.lastDraft.Title)
}

func TestCreateConflictMaps409(t *testing.T) {
	stub := &stubContent{err: dErrors.New(dErrors.CodeConflict, "Ya existe")}
	rec := httptest.NewRecorder()

	req := editorRequest(t, http.MethodPost, "/api/content/", map[string]string{
		"kind": "noticia", "title": "Duplicada",
	})
	newTestRouter(stub).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAdminListFilters(t *testing.T) {
	stub := &stubContent{published: []*models.Publication{}}
	rec := httptest.NewRecorder()

	req := editorRequest(t, http.MethodGet, "/api/content/?kind=boletin&status=draft", nil)
	newTestRouter(stub).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.KindBulletin, stub.lastFilter.Kind)
	assert.Equal(t, models.StatusDraft, stub.lastFilter.Status)
	assert.JSONEq(t, `{"publications": []}`, rec.Body.String())
}

func TestPublishTransition(t *testing.T) {
	stub := &stubContent{pub: testPublication()}
	rec := httptest.NewRecorder()

	target := "/api/content/" + stub.pub.ID.String() + "/publish"
	newTestRouter(stub).ServeHTTP(rec, editorRequest(t, http.MethodPost, target, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteReturnsNoContent(t *testing.T) {
	stub := &stubContent{}
	pubID := id.NewPublicationID()
	rec := httptest.NewRecorder()

	newTestRouter(stub).ServeHTTP(rec,
		editorRequest(t, http.MethodDelete, "/api/content/"+pubID.String(), nil))

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, pubID, stub.deleted)
}

func TestBadPublicationIDMaps400(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(&stubContent{}).ServeHTTP(rec,
		editorRequest(t, http.MethodGet, "/api/content/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMissingAuthContextFails(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/content/", bytes.NewBufferString(`{"kind":"noticia","title":"X"}`))
	newTestRouter(&stubContent{}).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
