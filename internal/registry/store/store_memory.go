package store

import (
	"context"
	"sync"
	"time"

	id "solidario/pkg/domain"
	"solidario/pkg/platform/sentinel"

	"solidario/internal/registry/models"
)

// InMemoryCache caches registry records in memory. Used in tests and in
// deployments without Redis.
type InMemoryCache struct {
	mu       sync.RWMutex
	ttl      time.Duration
	basic    map[string]entry[models.BasicPersonRecord]
	full     map[string]entry[models.FullPersonRecord]
	now      func() time.Time
}

type entry[T any] struct {
	record    T
	expiresAt time.Time
}

// NewInMemory constructs an empty in-memory registry cache.
func NewInMemory(ttl time.Duration) *InMemoryCache {
	return &InMemoryCache{
		ttl:   ttl,
		basic: make(map[string]entry[models.BasicPersonRecord]),
		full:  make(map[string]entry[models.FullPersonRecord]),
		now:   time.Now,
	}
}

func (c *InMemoryCache) FindBasic(_ context.Context, cui id.CUI) (*models.BasicPersonRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.basic[cui.String()]
	if !ok || c.now().After(e.expiresAt) {
		return nil, sentinel.ErrNotFound
	}
	record := e.record
	return &record, nil
}

func (c *InMemoryCache) SaveBasic(_ context.Context, record *models.BasicPersonRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.basic[record.CUI] = entry[models.BasicPersonRecord]{record: *record, expiresAt: c.now().Add(c.ttl)}
	return nil
}

func (c *InMemoryCache) FindFull(_ context.Context, cui id.CUI) (*models.FullPersonRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.full[cui.String()]
	if !ok || c.now().After(e.expiresAt) {
		return nil, sentinel.ErrNotFound
	}
	record := e.record
	return &record, nil
}

func (c *InMemoryCache) SaveFull(_ context.Context, record *models.FullPersonRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.full[record.CUI] = entry[models.FullPersonRecord]{record: *record, expiresAt: c.now().Add(c.ttl)}
	return nil
}

var _ CacheStore = (*InMemoryCache)(nil)
