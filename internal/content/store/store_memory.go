package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"solidario/internal/content/models"
	id "solidario/pkg/domain"
	"solidario/pkg/platform/sentinel"
)

// InMemoryStore is a map-backed Store for tests and local development.
type InMemoryStore struct {
	mu           sync.RWMutex
	publications map[id.PublicationID]*models.Publication
}

// NewInMemoryStore creates an empty in-memory publication store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{publications: make(map[id.PublicationID]*models.Publication)}
}

func (s *InMemoryStore) Create(_ context.Context, pub *models.Publication) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.slugTaken(pub.Kind, pub.Slug, pub.ID) {
		return sentinel.ErrConflict
	}
	s.publications[pub.ID] = pub.Clone()
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, pub *models.Publication) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.publications[pub.ID]; !ok {
		return sentinel.ErrNotFound
	}
	if s.slugTaken(pub.Kind, pub.Slug, pub.ID) {
		return sentinel.ErrConflict
	}
	s.publications[pub.ID] = pub.Clone()
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, pubID id.PublicationID) (*models.Publication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pub, ok := s.publications[pubID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return pub.Clone(), nil
}

func (s *InMemoryStore) FindBySlug(_ context.Context, kind models.Kind, slug string) (*models.Publication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, pub := range s.publications {
		if pub.Kind == kind && pub.Slug == slug {
			return pub.Clone(), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) List(_ context.Context, filter ListFilter) ([]*models.Publication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Publication
	for _, pub := range s.publications {
		if filter.Kind != "" && pub.Kind != filter.Kind {
			continue
		}
		if filter.Status != "" && pub.Status != filter.Status {
			continue
		}
		out = append(out, pub.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return displayTime(out[i]).After(displayTime(out[j]))
	})
	return paginate(out, filter.Limit, filter.Offset), nil
}

func (s *InMemoryStore) Delete(_ context.Context, pubID id.PublicationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.publications[pubID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.publications, pubID)
	return nil
}

// Clear removes all publications.
func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publications = make(map[id.PublicationID]*models.Publication)
}

// slugTaken reports whether another publication of the same kind already
// uses the slug. Callers must hold the lock.
func (s *InMemoryStore) slugTaken(kind models.Kind, slug string, self id.PublicationID) bool {
	for _, pub := range s.publications {
		if pub.ID != self && pub.Kind == kind && pub.Slug == slug {
			return true
		}
	}
	return false
}

// displayTime is the portal ordering key: publication date when published,
// creation date otherwise.
func displayTime(pub *models.Publication) time.Time {
	if pub.PublishedAt != nil {
		return *pub.PublishedAt
	}
	return pub.CreatedAt
}

func paginate(items []*models.Publication, limit, offset int) []*models.Publication {
	if offset >= len(items) {
		return []*models.Publication{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
