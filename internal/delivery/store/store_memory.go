package store

import (
	"context"
	"sort"
	"sync"
	"time"

	id "solidario/pkg/domain"
	"solidario/pkg/platform/sentinel"

	"solidario/internal/delivery/models"
)

// InMemorySessionStore keeps registration sessions in memory with a TTL.
// Sessions are per-operator working state, not durable data, so memory is the
// production store as well as the test one.
type InMemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	now      func() time.Time
}

// NewInMemorySession constructs an empty session store.
func NewInMemorySession() *InMemorySessionStore {
	return &InMemorySessionStore{
		sessions: make(map[string]*models.Session),
		now:      time.Now,
	}
}

func (s *InMemorySessionStore) FindByOperator(_ context.Context, operatorID id.UserID) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[operatorID.String()]
	if !ok || s.now().After(sess.ExpiresAt) {
		return nil, sentinel.ErrNotFound
	}
	return sess.Clone(), nil
}

func (s *InMemorySessionStore) Save(_ context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.OperatorID.String()] = session.Clone()
	return nil
}

func (s *InMemorySessionStore) Delete(_ context.Context, operatorID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, operatorID.String())
	return nil
}

// PurgeExpired drops expired sessions. Called periodically from the server
// lifecycle.
func (s *InMemorySessionStore) PurgeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	purged := 0
	for key, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			delete(s.sessions, key)
			purged++
		}
	}
	return purged
}

var _ SessionStore = (*InMemorySessionStore)(nil)

// InMemoryDeliveryStore keeps delivery records in memory. Used in tests and
// local development without PostgreSQL.
type InMemoryDeliveryStore struct {
	mu      sync.RWMutex
	records map[string]*models.DeliveryRecord
}

// NewInMemoryDelivery constructs an empty delivery store.
func NewInMemoryDelivery() *InMemoryDeliveryStore {
	return &InMemoryDeliveryStore{records: make(map[string]*models.DeliveryRecord)}
}

func (s *InMemoryDeliveryStore) Save(_ context.Context, record *models.DeliveryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *record
	s.records[record.ID.String()] = &clone
	return nil
}

func (s *InMemoryDeliveryStore) FindByID(_ context.Context, deliveryID id.DeliveryID) (*models.DeliveryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[deliveryID.String()]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *record
	return &clone, nil
}

func (s *InMemoryDeliveryStore) List(_ context.Context, filter ListFilter) ([]*models.DeliveryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.DeliveryRecord
	for _, record := range s.records {
		if !matches(record, filter) {
			continue
		}
		clone := *record
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	out = paginate(out, filter.Offset, filter.Limit)
	return out, nil
}

func (s *InMemoryDeliveryStore) CountByCUI(_ context.Context, cui string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, record := range s.records {
		if record.CUI == cui && record.Status == models.StatusRegistered {
			count++
		}
	}
	return count, nil
}

func (s *InMemoryDeliveryStore) UpdateStatus(_ context.Context, deliveryID id.DeliveryID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[deliveryID.String()]
	if !ok {
		return sentinel.ErrNotFound
	}
	record.Status = status
	return nil
}

func matches(record *models.DeliveryRecord, filter ListFilter) bool {
	if filter.CUI != "" && record.CUI != filter.CUI {
		return false
	}
	if !filter.ProgramID.IsZero() && record.ProgramID != filter.ProgramID {
		return false
	}
	if filter.Status != "" && record.Status != filter.Status {
		return false
	}
	if !filter.From.IsZero() && record.DeliveryDate.Before(filter.From) {
		return false
	}
	if !filter.To.IsZero() && record.DeliveryDate.After(filter.To) {
		return false
	}
	return true
}

func paginate(records []*models.DeliveryRecord, offset, limit int) []*models.DeliveryRecord {
	if offset >= len(records) {
		return nil
	}
	records = records[offset:]
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	return records
}

var _ DeliveryStore = (*InMemoryDeliveryStore)(nil)
