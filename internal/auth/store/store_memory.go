package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"solidario/internal/auth/models"
	id "solidario/pkg/domain"
	"solidario/pkg/platform/sentinel"
)

// InMemoryStore is a map-backed Store for tests and local development.
type InMemoryStore struct {
	mu    sync.RWMutex
	users map[id.UserID]*models.StaffUser
}

// NewInMemoryStore creates an empty in-memory staff store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{users: make(map[id.UserID]*models.StaffUser)}
}

func (s *InMemoryStore) Create(_ context.Context, user *models.StaffUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username {
			return sentinel.ErrConflict
		}
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *InMemoryStore) FindByUsername(_ context.Context, username string) (*models.StaffUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) FindByID(_ context.Context, userID id.UserID) (*models.StaffUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (s *InMemoryStore) List(_ context.Context) ([]*models.StaffUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.StaffUser, 0, len(s.users))
	for _, user := range s.users {
		clone := *user
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (s *InMemoryStore) SetActive(_ context.Context, userID id.UserID, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return sentinel.ErrNotFound
	}
	user.Active = active
	user.UpdatedAt = time.Now().UTC()
	return nil
}

// Clear removes all users.
func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make(map[id.UserID]*models.StaffUser)
}
