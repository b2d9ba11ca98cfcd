// Package service manages portal publications: drafting, publishing and the
// public read surface. Only published items are ever visible on the portal.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	id "solidario/pkg/domain"
	dErrors "solidario/pkg/domain-errors"
	"solidario/pkg/platform/sentinel"

	"solidario/internal/audit"
	"solidario/internal/content/models"
	"solidario/internal/content/store"
	"solidario/internal/platform/metrics"
)

const (
	msgNotFound     = "Publicación no encontrada"
	msgSlugTaken    = "Ya existe una publicación con ese título en esta sección"
	msgMissingTitle = "El título es obligatorio"
	msgBadKind      = "Tipo de publicación no válido"
)

// AuditPublisher records audit events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Draft carries the editable fields of a publication.
type Draft struct {
	Kind          string
	Title         string
	Slug          string
	Summary       string
	Body          string
	CoverImageURL string
}

// Service owns the publication lifecycle.
type Service struct {
	store   store.Store
	auditor AuditPublisher
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithAuditPublisher enables audit events for content mutations.
func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = p
	}
}

// WithMetrics attaches Prometheus metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New creates the content service.
func New(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:  st,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create drafts a new publication. The slug is derived from the title when
// not given explicitly.
func (s *Service) Create(ctx context.Context, authorID id.UserID, draft Draft) (*models.Publication, error) {
	kind, title, slug, err := s.validateDraft(draft)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	pub := &models.Publication{
		ID:            id.NewPublicationID(),
		Kind:          kind,
		Title:         title,
		Slug:          slug,
		Summary:       strings.TrimSpace(draft.Summary),
		Body:          draft.Body,
		CoverImageURL: strings.TrimSpace(draft.CoverImageURL),
		Status:        models.StatusDraft,
		AuthorID:      authorID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.Create(ctx, pub); err != nil {
		return nil, s.storeError(err, "No fue posible guardar la publicación.")
	}

	s.emit(ctx, authorID, audit.ActionPublicationSaved, pub)
	return pub, nil
}

// Update rewrites a publication's editable fields. Published items stay
// published; their public URL changes if the slug changes.
func (s *Service) Update(ctx context.Context, actorID id.UserID, pubID id.PublicationID, draft Draft) (*models.Publication, error) {
	kind, title, slug, err := s.validateDraft(draft)
	if err != nil {
		return nil, err
	}

	pub, err := s.store.FindByID(ctx, pubID)
	if err != nil {
		return nil, s.storeError(err, "No fue posible consultar la publicación.")
	}

	pub.Kind = kind
	pub.Title = title
	pub.Slug = slug
	pub.Summary = strings.TrimSpace(draft.Summary)
	pub.Body = draft.Body
	pub.CoverImageURL = strings.TrimSpace(draft.CoverImageURL)
	pub.UpdatedAt = s.now().UTC()

	if err := s.store.Update(ctx, pub); err != nil {
		return nil, s.storeError(err, "No fue posible guardar la publicación.")
	}

	s.emit(ctx, actorID, audit.ActionPublicationSaved, pub)
	return pub, nil
}

// Publish makes a publication visible on the portal. Publishing an already
// published item refreshes nothing and is not an error.
func (s *Service) Publish(ctx context.Context, actorID id.UserID, pubID id.PublicationID) (*models.Publication, error) {
	pub, err := s.store.FindByID(ctx, pubID)
	if err != nil {
		return nil, s.storeError(err, "No fue posible consultar la publicación.")
	}
	if pub.Published() {
		return pub, nil
	}

	now := s.now().UTC()
	pub.Status = models.StatusPublished
	pub.PublishedAt = &now
	pub.UpdatedAt = now

	if err := s.store.Update(ctx, pub); err != nil {
		return nil, s.storeError(err, "No fue posible publicar.")
	}

	if s.metrics != nil {
		s.metrics.PublicationsPublished.WithLabelValues(string(pub.Kind)).Inc()
	}
	s.emit(ctx, actorID, audit.ActionPublicationPublished, pub)
	s.logger.InfoContext(ctx, "publication published",
		"publication_id", pub.ID, "kind", pub.Kind, "slug", pub.Slug)
	return pub, nil
}

// Unpublish takes a publication off the portal and back to draft.
func (s *Service) Unpublish(ctx context.Context, actorID id.UserID, pubID id.PublicationID) (*models.Publication, error) {
	pub, err := s.store.FindByID(ctx, pubID)
	if err != nil {
		return nil, s.storeError(err, "No fue posible consultar la publicación.")
	}
	if !pub.Published() {
		return pub, nil
	}

	pub.Status = models.StatusDraft
	pub.PublishedAt = nil
	pub.UpdatedAt = s.now().UTC()

	if err := s.store.Update(ctx, pub); err != nil {
		return nil, s.storeError(err, "No fue posible retirar la publicación.")
	}

	s.emit(ctx, actorID, audit.ActionPublicationSaved, pub)
	return pub, nil
}

// Delete removes a publication entirely.
func (s *Service) Delete(ctx context.Context, actorID id.UserID, pubID id.PublicationID) error {
	pub, err := s.store.FindByID(ctx, pubID)
	if err != nil {
		return s.storeError(err, "No fue posible consultar la publicación.")
	}
	if err := s.store.Delete(ctx, pubID); err != nil {
		return s.storeError(err, "No fue posible eliminar la publicación.")
	}
	s.emit(ctx, actorID, audit.ActionPublicationDeleted, pub)
	return nil
}

// Find returns one publication regardless of status, for the admin panel.
func (s *Service) Find(ctx context.Context, pubID id.PublicationID) (*models.Publication, error) {
	pub, err := s.store.FindByID(ctx, pubID)
	if err != nil {
		return nil, s.storeError(err, "No fue posible consultar la publicación.")
	}
	return pub, nil
}

// List returns publications for the admin panel, any status.
func (s *Service) List(ctx context.Context, filter store.ListFilter) ([]*models.Publication, error) {
	pubs, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, s.storeError(err, "No fue posible consultar las publicaciones.")
	}
	return pubs, nil
}

// ListPublished returns published publications of one kind for the portal.
func (s *Service) ListPublished(ctx context.Context, kind models.Kind, limit, offset int) ([]*models.Publication, error) {
	return s.List(ctx, store.ListFilter{
		Kind:   kind,
		Status: models.StatusPublished,
		Limit:  limit,
		Offset: offset,
	})
}

// FindPublished returns one published publication by kind and slug. Drafts
// are invisible here.
func (s *Service) FindPublished(ctx context.Context, kind models.Kind, slug string) (*models.Publication, error) {
	pub, err := s.store.FindBySlug(ctx, kind, slug)
	if err != nil {
		return nil, s.storeError(err, "No fue posible consultar la publicación.")
	}
	if !pub.Published() {
		return nil, dErrors.New(dErrors.CodeNotFound, msgNotFound)
	}
	return pub, nil
}

func (s *Service) validateDraft(draft Draft) (models.Kind, string, string, error) {
	kind, ok := models.ParseKind(draft.Kind)
	if !ok {
		return "", "", "", dErrors.New(dErrors.CodeValidation, msgBadKind)
	}
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return "", "", "", dErrors.New(dErrors.CodeValidation, msgMissingTitle)
	}
	slug := strings.TrimSpace(draft.Slug)
	if slug == "" {
		slug = models.Slugify(title)
	} else {
		slug = models.Slugify(slug)
	}
	if slug == "" {
		return "", "", "", dErrors.New(dErrors.CodeValidation, msgMissingTitle)
	}
	return kind, title, slug, nil
}

func (s *Service) storeError(err error, internalMsg string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, msgNotFound)
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, msgSlugTaken)
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, internalMsg)
	}
}

func (s *Service) emit(ctx context.Context, actorID id.UserID, action audit.Action, pub *models.Publication) {
	if s.auditor == nil {
		return
	}
	err := s.auditor.Emit(ctx, audit.Event{
		Timestamp: s.now().UTC(),
		ActorID:   actorID.String(),
		Action:    action,
		Entity:    "publication",
		EntityID:  pub.ID.String(),
		Detail:    string(pub.Kind) + "/" + pub.Slug,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "action", action, "error", err)
	}
}
