// Package handler exposes publications over HTTP: the public portal read
// surface and the admin CMS endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	id "solidario/pkg/domain"
	dErrors "solidario/pkg/domain-errors"
	"solidario/pkg/platform/httputil"

	"solidario/internal/content/models"
	"solidario/internal/content/service"
	"solidario/internal/content/store"
	"solidario/internal/platform/middleware"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Service defines the content operations the handler depends on.
type Service interface {
	Create(ctx context.Context, authorID id.UserID, draft service.Draft) (*models.Publication, error)
	Update(ctx context.Context, actorID id.UserID, pubID id.PublicationID, draft service.Draft) (*models.Publication, error)
	Publish(ctx context.Context, actorID id.UserID, pubID id.PublicationID) (*models.Publication, error)
	Unpublish(ctx context.Context, actorID id.UserID, pubID id.PublicationID) (*models.Publication, error)
	Delete(ctx context.Context, actorID id.UserID, pubID id.PublicationID) error
	Find(ctx context.Context, pubID id.PublicationID) (*models.Publication, error)
	List(ctx context.Context, filter store.ListFilter) ([]*models.Publication, error)
	ListPublished(ctx context.Context, kind models.Kind, limit, offset int) ([]*models.Publication, error)
	FindPublished(ctx context.Context, kind models.Kind, slug string) (*models.Publication, error)
}

// Handler handles content endpoints.
type Handler struct {
	content Service
	logger  *slog.Logger
}

// New creates a content Handler.
func New(content Service, logger *slog.Logger) *Handler {
	return &Handler{content: content, logger: logger}
}

// RegisterPublic mounts the unauthenticated portal routes.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/{kind}", h.handlePortalList)
	r.Get("/{kind}/{slug}", h.handlePortalGet)
}

// RegisterAdmin mounts the CMS routes. The router must already enforce the
// editor role.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/", h.handleAdminList)
	r.Post("/", h.handleCreate)
	r.Get("/{publicationID}", h.handleAdminGet)
	r.Put("/{publicationID}", h.handleUpdate)
	r.Post("/{publicationID}/publish", h.handlePublish)
	r.Post("/{publicationID}/unpublish", h.handleUnpublish)
	r.Delete("/{publicationID}", h.handleDelete)
}

func (h *Handler) handlePortalList(w http.ResponseWriter, r *http.Request) {
	kind, ok := models.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "Sección no encontrada"))
		return
	}
	limit, offset, err := parsePage(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	pubs, err := h.content.ListPublished(r.Context(), kind, limit, offset)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list portal publications", "kind", kind, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"publications": pubs})
}

func (h *Handler) handlePortalGet(w http.ResponseWriter, r *http.Request) {
	kind, ok := models.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "Sección no encontrada"))
		return
	}
	pub, err := h.content.FindPublished(r.Context(), kind, chi.URLParam(r, "slug"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, pub)
}

func (h *Handler) handleAdminList(w http.ResponseWriter, r *http.Request) {
	filter := store.ListFilter{}
	if raw := r.URL.Query().Get("kind"); raw != "" {
		kind, ok := models.ParseKind(raw)
		if !ok {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "Tipo de publicación no válido"))
			return
		}
		filter.Kind = kind
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		filter.Status = models.Status(raw)
	}
	var err error
	filter.Limit, filter.Offset, err = parsePage(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	pubs, err := h.content.List(r.Context(), filter)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list publications", "error", err)
		httputil.WriteError(w, err)
		return
	}
	if pubs == nil {
		pubs = []*models.Publication{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"publications": pubs})
}

// draftRequest is the wire form of the editable publication fields.
type draftRequest struct {
	Kind          string `json:"kind"`
	Title         string `json:"title"`
	Slug          string `json:"slug"`
	Summary       string `json:"summary"`
	Body          string `json:"body"`
	CoverImageURL string `json:"cover_image_url"`
}

func (r draftRequest) draft() service.Draft {
	return service.Draft{
		Kind:          r.Kind,
		Title:         r.Title,
		Slug:          r.Slug,
		Summary:       r.Summary,
		Body:          r.Body,
		CoverImageURL: r.CoverImageURL,
	}
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actorID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeJSON[draftRequest](w, r, h.logger)
	if !ok {
		return
	}
	pub, err := h.content.Create(r.Context(), actorID, req.draft())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, pub)
}

func (h *Handler) handleAdminGet(w http.ResponseWriter, r *http.Request) {
	pubID, ok := h.publicationID(w, r)
	if !ok {
		return
	}
	pub, err := h.content.Find(r.Context(), pubID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, pub)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actorID(w, r)
	if !ok {
		return
	}
	pubID, ok := h.publicationID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeJSON[draftRequest](w, r, h.logger)
	if !ok {
		return
	}
	pub, err := h.content.Update(r.Context(), actorID, pubID, req.draft())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, pub)
}

func (h *Handler) handlePublish(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.content.Publish)
}

func (h *Handler) handleUnpublish(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.content.Unpublish)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, actorID id.UserID, pubID id.PublicationID) (*models.Publication, error),
) {
	actorID, ok := h.actorID(w, r)
	if !ok {
		return
	}
	pubID, ok := h.publicationID(w, r)
	if !ok {
		return
	}
	pub, err := op(r.Context(), actorID, pubID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, pub)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actorID(w, r)
	if !ok {
		return
	}
	pubID, ok := h.publicationID(w, r)
	if !ok {
		return
	}
	if err := h.content.Delete(r.Context(), actorID, pubID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) actorID(w http.ResponseWriter, r *http.Request) (id.UserID, bool) {
	actorID, err := id.ParseUserID(middleware.GetUserID(r.Context()))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "user id missing from context despite auth middleware",
			"request_id", middleware.GetRequestID(r.Context()),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return id.UserID{}, false
	}
	return actorID, true
}

func (h *Handler) publicationID(w http.ResponseWriter, r *http.Request) (id.PublicationID, bool) {
	pubID, err := id.ParsePublicationID(chi.URLParam(r, "publicationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.PublicationID{}, false
	}
	return pubID, true
}

func parsePage(r *http.Request) (limit, offset int, err error) {
	limit = defaultPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxPageSize {
			return 0, 0, dErrors.New(dErrors.CodeInvalidInput, "invalid limit")
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, dErrors.New(dErrors.CodeInvalidInput, "invalid offset")
		}
	}
	return limit, offset, nil
}
